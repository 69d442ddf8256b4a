package schema

//go:generate go run github.com/dmarkham/enumer -type AttributeType -trimprefix AttributeType -transform snake -json -output attribute_type.gen.go

// AttributeType is the semantic type tag of a schema attribute.
type AttributeType int

const (
	AttributeTypeText AttributeType = iota
	AttributeTypeLongText
	AttributeTypeNumber
	AttributeTypeBoolean
	AttributeTypeChoice
	AttributeTypeJSON
	AttributeTypeReference
	AttributeTypeMedia
	AttributeTypePasswordSecret
	AttributeTypeRichText
)

// AttributeConfig holds the type-specific constraints of an attribute.
// Zero values mean "not constrained"; numeric bounds use pointers so 0 is
// a usable bound.
type AttributeConfig struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Step      *float64 `json:"step,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Multiple  bool     `json:"multiple,omitempty"`

	// ContentType names the target type of a reference attribute.
	ContentType string `json:"contentType,omitempty"`

	// VisibleChars controls secret masking width. Defaults to 4.
	VisibleChars int `json:"visibleChars,omitempty"`
}

// AttributeDefinition is one field in a content type's schema. The name
// is the attribute's identity; renaming it orphans existing payload keys
// (schema-on-read tolerates them but nothing migrates them).
type AttributeDefinition struct {
	Name         string          `json:"name"`
	Label        string          `json:"label,omitempty"`
	Type         AttributeType   `json:"type"`
	Required     bool            `json:"required,omitempty"`
	Config       AttributeConfig `json:"config,omitempty"`
	DefaultValue any             `json:"default_value,omitempty"`
	HelpText     string          `json:"help_text,omitempty"`
	OrderIndex   int             `json:"order_index,omitempty"`
}
