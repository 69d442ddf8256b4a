package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pauljbernard/content-sub002/pkg/crypto"
)

func intPtr(i int) *int          { return &i }
func floatPtr(f float64) *float64 { return &f }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cipher, err := crypto.NewSymmetric(crypto.DeriveKey("test-data-key"))
	require.NoError(t, err)
	return NewEngine(cipher)
}

func glossarySchema() []AttributeDefinition {
	return []AttributeDefinition{
		{Name: "term", Type: AttributeTypeText, Required: true, Config: AttributeConfig{MinLength: intPtr(3)}},
		{Name: "definition", Type: AttributeTypeRichText, Required: true},
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	engine := newTestEngine(t)

	_, result, err := engine.ValidateWrite(glossarySchema(), map[string]any{
		"term": "photosynthesis",
	})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], ErrMissingRequiredField)
	assert.Equal(t, "definition", result.Errors[0].Field)
}

func TestValidateMinLength(t *testing.T) {
	engine := newTestEngine(t)

	_, result, err := engine.ValidateWrite(glossarySchema(), map[string]any{
		"term":       "x",
		"definition": "a process",
	})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], ErrFieldConstraintViolation)
	assert.Equal(t, "term", result.Errors[0].Field)
}

func TestValidateSucceedsWhenConforming(t *testing.T) {
	engine := newTestEngine(t)

	out, result, err := engine.ValidateWrite(glossarySchema(), map[string]any{
		"term":       "photosynthesis",
		"definition": "conversion of light to chemical energy",
	})
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.NoError(t, result.Err())
	assert.Equal(t, "photosynthesis", out["term"])
}

func TestValidatePattern(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "code", Type: AttributeTypeText, Config: AttributeConfig{Pattern: `^[A-Z]{2}\.\d+$`}},
	}

	_, result, err := engine.ValidateWrite(attrs, map[string]any{"code": "MA.7"})
	require.NoError(t, err)
	assert.True(t, result.OK())

	_, result, err = engine.ValidateWrite(attrs, map[string]any{"code": "nope"})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], ErrFieldConstraintViolation)
}

func TestValidateNumberBounds(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "grade", Type: AttributeTypeNumber, Config: AttributeConfig{
			Min: floatPtr(1), Max: floatPtr(12), Step: floatPtr(1),
		}},
	}

	cases := []struct {
		name  string
		value any
		ok    bool
	}{
		{"in range", float64(7), true},
		{"int accepted", 7, true},
		{"below min", float64(0), false},
		{"above max", float64(13), false},
		{"off step", 7.5, false},
		{"not a number", "seven", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, result, err := engine.ValidateWrite(attrs, map[string]any{"grade": tc.value})
			require.NoError(t, err)
			assert.Equal(t, tc.ok, result.OK())
		})
	}
}

func TestValidateChoice(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "subject", Type: AttributeTypeChoice, Config: AttributeConfig{
			Choices: []string{"math", "science", "history"},
		}},
	}

	_, result, err := engine.ValidateWrite(attrs, map[string]any{"subject": "math"})
	require.NoError(t, err)
	assert.True(t, result.OK())

	_, result, err = engine.ValidateWrite(attrs, map[string]any{"subject": "art"})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], ErrInvalidChoice)
}

func TestValidateChoiceMultiple(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "subjects", Type: AttributeTypeChoice, Config: AttributeConfig{
			Choices:  []string{"math", "science"},
			Multiple: true,
		}},
	}

	// JSON-decoded arrays arrive as []any.
	_, result, err := engine.ValidateWrite(attrs, map[string]any{"subjects": []any{"math", "science"}})
	require.NoError(t, err)
	assert.True(t, result.OK())

	_, result, err = engine.ValidateWrite(attrs, map[string]any{"subjects": []any{"math", "art"}})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], ErrInvalidChoice)
}

func TestValidateAppliesDefaults(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "status", Type: AttributeTypeText, DefaultValue: "active"},
	}

	out, result, err := engine.ValidateWrite(attrs, map[string]any{})
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, "active", out["status"])
}

func TestValidateUnknownKeysPassThrough(t *testing.T) {
	engine := newTestEngine(t)

	out, result, err := engine.ValidateWrite(glossarySchema(), map[string]any{
		"term":       "osmosis",
		"definition": "diffusion of water",
		"extra":      42,
	})
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 42, out["extra"])
}

func TestSecretEncryptRevealMask(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "api_key", Type: AttributeTypePasswordSecret, Config: AttributeConfig{VisibleChars: 4}},
	}

	out, result, err := engine.ValidateWrite(attrs, map[string]any{"api_key": "sk-abcdef1234567890"})
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.NotEqual(t, "sk-abcdef1234567890", out["api_key"])

	revealed, err := engine.RevealSecrets(attrs, out, false)
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdef1234567890", revealed["api_key"])

	masked, err := engine.RevealSecrets(attrs, out, true)
	require.NoError(t, err)
	assert.Equal(t, "sk-a...7890", masked["api_key"])
}

func TestSecretMaskWidthEngineDefault(t *testing.T) {
	engine := newTestEngine(t)
	engine.SetMaskWidth(2)
	attrs := []AttributeDefinition{
		{Name: "api_key", Type: AttributeTypePasswordSecret},
	}

	out, result, err := engine.ValidateWrite(attrs, map[string]any{"api_key": "sk-abcdef1234567890"})
	require.NoError(t, err)
	require.True(t, result.OK())

	masked, err := engine.RevealSecrets(attrs, out, true)
	require.NoError(t, err)
	assert.Equal(t, "sk...90", masked["api_key"])

	// A per-attribute width still wins over the engine default.
	attrs[0].Config.VisibleChars = 4
	masked, err = engine.RevealSecrets(attrs, out, true)
	require.NoError(t, err)
	assert.Equal(t, "sk-a...7890", masked["api_key"])
}

func TestRevealSecretsWrongKeyFails(t *testing.T) {
	engine := newTestEngine(t)
	attrs := []AttributeDefinition{
		{Name: "api_key", Type: AttributeTypePasswordSecret},
	}

	out, result, err := engine.ValidateWrite(attrs, map[string]any{"api_key": "hunter2hunter2hunter2"})
	require.NoError(t, err)
	require.True(t, result.OK())

	otherCipher, err := crypto.NewSymmetric(crypto.DeriveKey("some-other-key"))
	require.NoError(t, err)
	other := NewEngine(otherCipher)

	_, err = other.RevealSecrets(attrs, out, false)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailure)
}

func TestAttributeTypeJSONRoundTrip(t *testing.T) {
	typ, err := AttributeTypeString("password_secret")
	require.NoError(t, err)
	assert.Equal(t, AttributeTypePasswordSecret, typ)
	assert.Equal(t, "rich_text", AttributeTypeRichText.String())
}
