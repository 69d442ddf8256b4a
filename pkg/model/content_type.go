package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pauljbernard/content-sub002/pkg/schema"
)

// AttributeList stores a content type's ordered attribute definitions as
// a single jsonb column.
type AttributeList []schema.AttributeDefinition

func (l AttributeList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *AttributeList) Scan(src any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// HierarchyConfig describes parent/child navigation for hierarchical
// content types.
type HierarchyConfig struct {
	IdentifierField string `json:"identifier_field"`
	ParentField     string `json:"parent_field"`
	ChildrenField   string `json:"children_field"`
	DisplayField    string `json:"display_field"`
	LazyLoad        bool   `json:"lazy_load"`
}

func (c *HierarchyConfig) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *HierarchyConfig) Scan(src any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, c)
	case string:
		return json.Unmarshal([]byte(data), c)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// ContentType is a named, long-lived schema definition. System types are
// protected from deletion and exempt from tenant isolation.
type ContentType struct {
	ID              string           `gorm:"column:id;primaryKey" json:"id"`
	Name            string           `gorm:"column:name;uniqueIndex" json:"name"`
	Description     string           `gorm:"column:description" json:"description,omitempty"`
	Icon            string           `gorm:"column:icon" json:"icon,omitempty"`
	IsSystem        bool             `gorm:"column:is_system" json:"is_system"`
	IsHierarchical  bool             `gorm:"column:is_hierarchical" json:"is_hierarchical"`
	HierarchyConfig *HierarchyConfig `gorm:"column:hierarchy_config;type:jsonb" json:"hierarchy_config,omitempty"`
	Attributes      AttributeList    `gorm:"column:attributes;type:jsonb" json:"attributes"`
	CreatedBy       string           `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentType) TableName() string {
	return "content_types"
}

// Attribute returns the definition with the given name, or nil.
func (t *ContentType) Attribute(name string) *schema.AttributeDefinition {
	for i := range t.Attributes {
		if t.Attributes[i].Name == name {
			return &t.Attributes[i]
		}
	}
	return nil
}
