package gorm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// Ensure TypesStore implements store.TypesStore
var _ store.TypesStore = (*TypesStore)(nil)

// TypesStore implements store.TypesStore using GORM
type TypesStore struct {
	db *gorm.DB
}

// NewTypesStore creates a new TypesStore
func NewTypesStore(db *gorm.DB) *TypesStore {
	return &TypesStore{db: db}
}

func (s *TypesStore) CreateType(ct *model.ContentType) error {
	if ct.ID == "" {
		ct.ID = uuid.NewString()
	}
	return s.db.Create(ct).Error
}

func (s *TypesStore) UpdateType(ct *model.ContentType) error {
	tx := s.db.Model(&model.ContentType{}).Where("id = ?", ct.ID).Updates(map[string]any{
		"name":             ct.Name,
		"description":      ct.Description,
		"icon":             ct.Icon,
		"is_hierarchical":  ct.IsHierarchical,
		"hierarchy_config": ct.HierarchyConfig,
		"attributes":       ct.Attributes,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrUnknownContentType
	}
	return nil
}

func (s *TypesStore) DeleteType(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ct model.ContentType
		if err := tx.Where("id = ?", id).First(&ct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrUnknownContentType
			}
			return err
		}
		if ct.IsSystem {
			return store.ErrSystemType
		}

		var count int64
		if err := tx.Model(&model.ContentInstance{}).Where("content_type_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d instances", store.ErrTypeInUse, count)
		}

		return tx.Delete(&model.ContentType{}, "id = ?", id).Error
	})
}

func (s *TypesStore) GetType(id string) (*model.ContentType, error) {
	var ct model.ContentType
	if err := s.db.Where("id = ?", id).First(&ct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUnknownContentType
		}
		return nil, err
	}
	return &ct, nil
}

func (s *TypesStore) GetTypeByName(name string) (*model.ContentType, error) {
	var ct model.ContentType
	if err := s.db.Where("name = ?", name).First(&ct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUnknownContentType
		}
		return nil, err
	}
	return &ct, nil
}

func (s *TypesStore) ListTypes() ([]model.ContentType, error) {
	var types []model.ContentType
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
