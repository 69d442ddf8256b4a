package gorm

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// Ensure InstancesStore implements store.InstancesStore
var _ store.InstancesStore = (*InstancesStore)(nil)

// InstancesStore implements store.InstancesStore using GORM. Payload
// field lookups run as jsonb expression queries against indexed tenant
// and type columns rather than application-side scans.
type InstancesStore struct {
	db *gorm.DB
}

// NewInstancesStore creates a new InstancesStore
func NewInstancesStore(db *gorm.DB) *InstancesStore {
	return &InstancesStore{db: db}
}

func (s *InstancesStore) CreateInstance(inst *model.ContentInstance) error {
	prepareInstance(inst)
	return s.db.Create(inst).Error
}

func (s *InstancesStore) CreateInstanceGuarded(inst *model.ContentInstance, guardField string) error {
	prepareInstance(inst)
	return s.db.Transaction(func(tx *gorm.DB) error {
		guardValue, _ := inst.Data[guardField].(string)

		var count int64
		q := tx.Model(&model.ContentInstance{}).
			Where("content_type_id = ?", inst.ContentTypeID).
			Where("data ->> ? = ?", guardField, guardValue)
		if inst.TenantID != "" {
			q = q.Where("tenant_id = ?", inst.TenantID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return store.ErrDuplicate
		}

		return tx.Create(inst).Error
	})
}

func (s *InstancesStore) UpdateInstance(inst *model.ContentInstance) error {
	tx := s.db.Model(&model.ContentInstance{}).Where("id = ?", inst.ID).Updates(map[string]any{
		"data":       inst.Data,
		"status":     inst.Status,
		"tenant_id":  inst.TenantID,
		"updated_by": inst.UpdatedBy,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *InstancesStore) DeleteInstance(id string) error {
	tx := s.db.Delete(&model.ContentInstance{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *InstancesStore) GetInstance(id string) (*model.ContentInstance, error) {
	var inst model.ContentInstance
	if err := s.db.Where("id = ?", id).First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &inst, nil
}

func (s *InstancesStore) FindInstance(contentTypeName, field, value, tenantID string) (*model.ContentInstance, error) {
	var ct model.ContentType
	if err := s.db.Where("name = ?", contentTypeName).First(&ct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUnknownContentType
		}
		return nil, err
	}

	q := s.db.Where("content_type_id = ?", ct.ID).
		Where("data ->> ? = ?", field, value).
		Where("status <> ?", model.StatusArchived)
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}

	var inst model.ContentInstance
	if err := q.Order("created_at, id").First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &inst, nil
}

func (s *InstancesStore) ListInstances(contentTypeID string, opts store.ListOptions) ([]model.ContentInstance, error) {
	q := s.db.Where("content_type_id = ?", contentTypeID)
	if opts.TenantID != "" {
		q = q.Where("tenant_id = ?", opts.TenantID)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	} else if !opts.IncludeArchived {
		q = q.Where("status <> ?", model.StatusArchived)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	var instances []model.ContentInstance
	if err := q.Order("created_at, id").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (s *InstancesStore) CountInstances(contentTypeID string) (int64, error) {
	var count int64
	err := s.db.Model(&model.ContentInstance{}).Where("content_type_id = ?", contentTypeID).Count(&count).Error
	return count, err
}

func (s *InstancesStore) ReplaceRelationships(sourceID, attribute string, targetIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ContentRelationship{}, "source_id = ? AND attribute = ?", sourceID, attribute).Error; err != nil {
			return err
		}
		for _, targetID := range targetIDs {
			rel := model.ContentRelationship{
				ID:        uuid.NewString(),
				SourceID:  sourceID,
				TargetID:  targetID,
				Attribute: attribute,
			}
			if err := tx.Create(&rel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *InstancesStore) ListRelationships(sourceID string) ([]model.ContentRelationship, error) {
	var rels []model.ContentRelationship
	if err := s.db.Where("source_id = ?", sourceID).Order("attribute, created_at").Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func prepareInstance(inst *model.ContentInstance) {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	if inst.Status == "" {
		inst.Status = model.StatusDraft
	}
	if inst.TenantID == "" && inst.Data != nil {
		// Denormalize the payload tenant into the indexed column.
		inst.TenantID, _ = inst.Data["tenant_id"].(string)
	}
}
