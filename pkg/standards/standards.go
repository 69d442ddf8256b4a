package standards

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/schema"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// StandardType is the content type standards are materialized as.
const StandardType = "Standard"

var ErrNoStandards = errors.New("standards: document contains no standards")

// Document is a parsed standards framework file, e.g. a state math
// standards export.
type Document struct {
	Framework  string     `yaml:"framework"`
	Subject    string     `yaml:"subject"`
	GradeLevel string     `yaml:"grade_level"`
	Standards  []Standard `yaml:"standards"`
}

// Standard is one entry in a standards document.
type Standard struct {
	Code        string   `yaml:"code"`
	Description string   `yaml:"description"`
	Strand      string   `yaml:"strand"`
	Keywords    []string `yaml:"keywords"`
}

// Report summarizes one import run.
type Report struct {
	Framework string   `json:"framework"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// Importer materializes standards documents as Standard content
// instances.
type Importer struct {
	types     store.TypesStore
	instances store.InstancesStore
	engine    *schema.Engine
}

func NewImporter(types store.TypesStore, instances store.InstancesStore, engine *schema.Engine) *Importer {
	return &Importer{types: types, instances: instances, engine: engine}
}

// Parse decodes a YAML standards document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("standards: cannot parse document: %w", err)
	}
	if len(doc.Standards) == 0 {
		return nil, ErrNoStandards
	}
	return &doc, nil
}

// Import validates and persists every standard in the document. Entries
// whose code already exists in the tenant are skipped, so re-importing a
// document is safe. Entries that fail validation are reported without
// aborting the rest.
func (i *Importer) Import(doc *Document, tenantID, createdBy string) (*Report, error) {
	ct, err := i.types.GetTypeByName(StandardType)
	if err != nil {
		return nil, fmt.Errorf("standards: %s type not installed: %w", StandardType, err)
	}

	report := &Report{Framework: doc.Framework}
	for _, std := range doc.Standards {
		if std.Code == "" {
			report.Errors = append(report.Errors, "standard with empty code skipped")
			report.Skipped++
			continue
		}

		if _, err := i.instances.FindInstance(StandardType, "code", std.Code, tenantID); err == nil {
			report.Skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		// Empty strings are omitted so required-field validation treats
		// them as missing rather than present-and-blank.
		payload := map[string]any{
			"code":      std.Code,
			"tenant_id": tenantID,
		}
		if std.Description != "" {
			payload["description"] = std.Description
		}
		if doc.Framework != "" {
			payload["framework"] = doc.Framework
		}
		if doc.Subject != "" {
			payload["subject"] = doc.Subject
		}
		if doc.GradeLevel != "" {
			payload["grade_level"] = doc.GradeLevel
		}
		if std.Strand != "" {
			payload["strand"] = std.Strand
		}
		if len(std.Keywords) > 0 {
			payload["keywords"] = std.Keywords
		}

		data, result, err := i.engine.ValidateWrite(ct.Attributes, payload)
		if err != nil {
			return nil, err
		}
		if !result.OK() {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", std.Code, result.Err()))
			report.Skipped++
			continue
		}

		inst := &model.ContentInstance{
			ContentTypeID: ct.ID,
			TenantID:      tenantID,
			Status:        model.StatusPublished,
			Data:          data,
			CreatedBy:     createdBy,
			UpdatedBy:     createdBy,
		}
		if err := i.instances.CreateInstance(inst); err != nil {
			return nil, fmt.Errorf("standards: persisting %s: %w", std.Code, err)
		}
		report.Imported++
	}
	return report, nil
}

// TypeDefinition returns the attribute set the Standard content type is
// bootstrapped with.
func TypeDefinition() []schema.AttributeDefinition {
	return []schema.AttributeDefinition{
		{Name: "code", Label: "Code", Type: schema.AttributeTypeText, Required: true},
		{Name: "description", Label: "Description", Type: schema.AttributeTypeLongText, Required: true},
		{Name: "framework", Label: "Framework", Type: schema.AttributeTypeText, Required: true},
		{Name: "subject", Label: "Subject", Type: schema.AttributeTypeText},
		{Name: "grade_level", Label: "Grade Level", Type: schema.AttributeTypeText},
		{Name: "strand", Label: "Strand", Type: schema.AttributeTypeText},
		{Name: "keywords", Label: "Keywords", Type: schema.AttributeTypeJSON},
		{Name: "tenant_id", Label: "Tenant", Type: schema.AttributeTypeText, Required: true},
	}
}
