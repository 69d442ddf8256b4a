package model

import "time"

// ContentRelationship is a directed, labeled edge between two content
// instances, created for reference-typed attributes. Cardinality is
// implied by the referencing attribute's multiple flag, not enforced
// here.
type ContentRelationship struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	SourceID  string    `gorm:"column:source_id;index" json:"source_id"`
	TargetID  string    `gorm:"column:target_id;index" json:"target_id"`
	Attribute string    `gorm:"column:attribute" json:"attribute"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentRelationship) TableName() string {
	return "content_relationships"
}
