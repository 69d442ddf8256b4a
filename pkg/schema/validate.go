package schema

import (
	"encoding/base64"
	"fmt"
	"math"
	"regexp"

	"github.com/pauljbernard/content-sub002/pkg/crypto"
)

// Engine validates instance payloads against a content type's attribute
// list. Validation is pure except for the secret-field encryption step,
// which uses the process-wide cipher.
type Engine struct {
	cipher    crypto.SymmetricCipher
	maskWidth int
}

func NewEngine(cipher crypto.SymmetricCipher) *Engine {
	return &Engine{cipher: cipher}
}

// SetMaskWidth sets the default number of visible characters for masked
// secrets. An attribute's own Config.VisibleChars still takes precedence.
func (e *Engine) SetMaskWidth(n int) {
	e.maskWidth = n
}

// checkFunc validates one present value against its definition.
type checkFunc func(def *AttributeDefinition, value any) *FieldError

// checks is the per-type dispatch table. Types without an entry accept
// any value.
var checks = map[AttributeType]checkFunc{
	AttributeTypeText:           checkText,
	AttributeTypeLongText:       checkText,
	AttributeTypeRichText:       checkText,
	AttributeTypeMedia:          checkString,
	AttributeTypeNumber:         checkNumber,
	AttributeTypeBoolean:        checkBoolean,
	AttributeTypeChoice:         checkChoice,
	AttributeTypeReference:      checkReference,
	AttributeTypePasswordSecret: checkString,
}

// ValidateWrite checks payload against attrs and returns the normalized
// payload to persist: defaults applied for absent optional attributes and
// secret values replaced by base64 ciphertext. Keys that match no
// attribute pass through unchanged (schema-on-read leniency). The error
// return is reserved for non-validation failures such as a broken cipher.
func (e *Engine) ValidateWrite(attrs []AttributeDefinition, payload map[string]any) (map[string]any, Result, error) {
	var result Result

	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}

	for i := range attrs {
		def := &attrs[i]

		value, present := payload[def.Name]
		if !present || value == nil {
			if def.Required {
				result.Errors = append(result.Errors, &FieldError{
					Field: def.Name,
					Kind:  ErrMissingRequiredField,
				})
				continue
			}
			if def.DefaultValue != nil {
				out[def.Name] = def.DefaultValue
			}
			continue
		}

		if check, ok := checks[def.Type]; ok {
			if fe := check(def, value); fe != nil {
				result.Errors = append(result.Errors, fe)
				continue
			}
		}

		if def.Type == AttributeTypePasswordSecret {
			plaintext, _ := value.(string)
			sealed, err := e.cipher.Encrypt([]byte(def.Name), []byte(plaintext))
			if err != nil {
				return nil, result, fmt.Errorf("encrypt %s: %w", def.Name, err)
			}
			out[def.Name] = base64.StdEncoding.EncodeToString(sealed)
		}
	}

	return out, result, nil
}

// RevealSecrets decrypts secret-valued attributes in data. For masked
// contexts the plaintext is reduced to its mask; privileged contexts get
// the full value. Decryption failures propagate: returning a wrong secret
// is worse than failing the read.
func (e *Engine) RevealSecrets(attrs []AttributeDefinition, data map[string]any, masked bool) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	for i := range attrs {
		def := &attrs[i]
		if def.Type != AttributeTypePasswordSecret {
			continue
		}

		encoded, ok := out[def.Name].(string)
		if !ok || encoded == "" {
			continue
		}

		sealed, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", def.Name, crypto.ErrDecryptionFailure)
		}
		plaintext, err := e.cipher.Decrypt([]byte(def.Name), sealed)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", def.Name, err)
		}

		if masked {
			width := def.Config.VisibleChars
			if width == 0 {
				width = e.maskWidth
			}
			out[def.Name] = crypto.MaskSecret(string(plaintext), width)
		} else {
			out[def.Name] = string(plaintext)
		}
	}

	return out, nil
}

func checkString(def *AttributeDefinition, value any) *FieldError {
	if _, ok := value.(string); !ok {
		return &FieldError{Field: def.Name, Kind: ErrFieldConstraintViolation, Detail: "expected a string value"}
	}
	return nil
}

func checkText(def *AttributeDefinition, value any) *FieldError {
	s, ok := value.(string)
	if !ok {
		return &FieldError{Field: def.Name, Kind: ErrFieldConstraintViolation, Detail: "expected a string value"}
	}

	cfg := def.Config
	if cfg.MinLength != nil && len(s) < *cfg.MinLength {
		return &FieldError{
			Field:  def.Name,
			Kind:   ErrFieldConstraintViolation,
			Detail: fmt.Sprintf("length %d is below minLength %d", len(s), *cfg.MinLength),
		}
	}
	if cfg.MaxLength != nil && len(s) > *cfg.MaxLength {
		return &FieldError{
			Field:  def.Name,
			Kind:   ErrFieldConstraintViolation,
			Detail: fmt.Sprintf("length %d exceeds maxLength %d", len(s), *cfg.MaxLength),
		}
	}
	if cfg.Pattern != "" {
		re, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return &FieldError{Field: def.Name, Kind: ErrFieldConstraintViolation, Detail: "invalid pattern in schema"}
		}
		if !re.MatchString(s) {
			return &FieldError{
				Field:  def.Name,
				Kind:   ErrFieldConstraintViolation,
				Detail: fmt.Sprintf("value does not match pattern %q", cfg.Pattern),
			}
		}
	}
	return nil
}

func checkNumber(def *AttributeDefinition, value any) *FieldError {
	n, ok := toFloat(value)
	if !ok {
		return &FieldError{Field: def.Name, Kind: ErrFieldConstraintViolation, Detail: "expected a numeric value"}
	}

	cfg := def.Config
	if cfg.Min != nil && n < *cfg.Min {
		return &FieldError{
			Field:  def.Name,
			Kind:   ErrFieldConstraintViolation,
			Detail: fmt.Sprintf("%v is below min %v", n, *cfg.Min),
		}
	}
	if cfg.Max != nil && n > *cfg.Max {
		return &FieldError{
			Field:  def.Name,
			Kind:   ErrFieldConstraintViolation,
			Detail: fmt.Sprintf("%v exceeds max %v", n, *cfg.Max),
		}
	}
	if cfg.Step != nil && *cfg.Step > 0 {
		base := 0.0
		if cfg.Min != nil {
			base = *cfg.Min
		}
		if remainder := math.Abs(math.Mod(n-base, *cfg.Step)); remainder > 1e-9 && math.Abs(remainder-*cfg.Step) > 1e-9 {
			return &FieldError{
				Field:  def.Name,
				Kind:   ErrFieldConstraintViolation,
				Detail: fmt.Sprintf("%v is not a multiple of step %v", n, *cfg.Step),
			}
		}
	}
	return nil
}

func checkBoolean(def *AttributeDefinition, value any) *FieldError {
	if _, ok := value.(bool); !ok {
		return &FieldError{Field: def.Name, Kind: ErrFieldConstraintViolation, Detail: "expected a boolean value"}
	}
	return nil
}

func checkChoice(def *AttributeDefinition, value any) *FieldError {
	if def.Config.Multiple {
		items, ok := toStringSlice(value)
		if !ok {
			return &FieldError{Field: def.Name, Kind: ErrInvalidChoice, Detail: "expected an array of choices"}
		}
		for _, item := range items {
			if !containsString(def.Config.Choices, item) {
				return &FieldError{
					Field:  def.Name,
					Kind:   ErrInvalidChoice,
					Detail: fmt.Sprintf("%q is not an allowed choice", item),
				}
			}
		}
		return nil
	}

	s, ok := value.(string)
	if !ok || !containsString(def.Config.Choices, s) {
		return &FieldError{
			Field:  def.Name,
			Kind:   ErrInvalidChoice,
			Detail: fmt.Sprintf("%v is not an allowed choice", value),
		}
	}
	return nil
}

func checkReference(def *AttributeDefinition, value any) *FieldError {
	if def.Config.Multiple {
		if _, ok := toStringSlice(value); !ok {
			return &FieldError{Field: def.Name, Kind: ErrFieldConstraintViolation, Detail: "expected an array of instance ids"}
		}
		return nil
	}
	return checkString(def, value)
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStringSlice(value any) ([]string, bool) {
	switch items := value.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
