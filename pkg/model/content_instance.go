package model

import (
	"time"
)

// InstanceStatus is the authoring lifecycle state of a content instance.
type InstanceStatus string

const (
	StatusDraft     InstanceStatus = "draft"
	StatusPublished InstanceStatus = "published"
	StatusArchived  InstanceStatus = "archived"
)

// Valid reports whether s is one of the known lifecycle states.
func (s InstanceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ContentInstance is one record of a content type. The payload is
// schema-on-read jsonb; the store never re-validates it, only the API
// boundary does. TenantID and Status are denormalized out of the payload
// into real columns so tenant filtering and default-listing exclusion run
// as indexed queries.
type ContentInstance struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	ContentTypeID string         `gorm:"column:content_type_id;index" json:"content_type_id"`
	TenantID      string         `gorm:"column:tenant_id;index" json:"tenant_id,omitempty"`
	Data          JSONMap        `gorm:"column:data;type:jsonb" json:"data"`
	Status        InstanceStatus `gorm:"column:status;index" json:"status"`
	CreatedBy     string         `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy     string         `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentInstance) TableName() string {
	return "content_instances"
}

// Field returns a string field from the payload, or "".
func (i *ContentInstance) Field(name string) string {
	if i.Data == nil {
		return ""
	}
	s, _ := i.Data[name].(string)
	return s
}
