package movable

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/movable/backend/internal/domain/shared/result"
)

// Struct tags read by TagRules next to the `validate` tag:
//
//	label:"Count of media"  name used in messages
//	key:"MEDIA_COUNT"       field segment of the event key
//	severity:"warn"         violations become WARN events
const (
	tagLabel    = "label"
	tagKey      = "key"
	tagSeverity = "severity"
)

type fieldMeta struct {
	key      string
	label    string
	severity result.Severity
}

// TagRules turns `validate` struct tag violations into events keyed <PREFIX>_<FIELD>_<RULE>
type TagRules[T any] struct {
	prefix   string
	validate *validator.Validate
	fields   map[string]fieldMeta
}

// NewTagRules creates rules for the struct type behind T
func NewTagRules[T any](prefix string) *TagRules[T] {
	return &TagRules[T]{
		prefix:   prefix,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		fields:   describeFields(reflect.TypeFor[T]()),
	}
}

// Rule returns the tag checks as a validator rule
func (t *TagRules[T]) Rule() Rule[T] {
	return t.Check
}

// Check validates data and adds one event per violated rule
func (t *TagRules[T]) Check(ctx context.Context, data T, r *result.Result[result.Unit]) error {
	err := t.validate.StructCtx(ctx, data)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}

	for _, fe := range violations {
		meta, ok := t.fields[fe.StructField()]
		if !ok {
			meta = fieldMeta{key: upperSnake(fe.StructField()), label: labelOf(upperSnake(fe.StructField())), severity: result.SeverityError}
		}
		r.AddEvent(result.NewEvent(
			meta.severity,
			t.prefix+"_"+meta.key+"_"+ruleKey(fe),
			ruleMessage(meta.label, fe),
		))
	}
	return nil
}

func describeFields(typ reflect.Type) map[string]fieldMeta {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	fields := make(map[string]fieldMeta)
	if typ.Kind() != reflect.Struct {
		return fields
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		key := f.Tag.Get(tagKey)
		if key == "" {
			key = upperSnake(f.Name)
		}
		label := f.Tag.Get(tagLabel)
		if label == "" {
			label = labelOf(key)
		}
		severity := result.SeverityError
		if strings.EqualFold(f.Tag.Get(tagSeverity), "warn") {
			severity = result.SeverityWarn
		}
		fields[f.Name] = fieldMeta{key: key, label: label, severity: severity}
	}
	return fields
}

// upperSnake converts WikiEnURL to WIKI_EN_URL
func upperSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// labelOf converts MEDIA_COUNT to "Media count"
func labelOf(key string) string {
	words := strings.ToLower(strings.ReplaceAll(key, "_", " "))
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}

func isText(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

func ruleKey(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "EMPTY"
	case "gt":
		if fe.Param() == "0" {
			return "NOT_POSITIVE"
		}
		return "TOO_SMALL"
	case "gte", "min":
		if isText(fe) {
			return "SHORT"
		}
		if fe.Param() == "0" {
			return "NEGATIVE"
		}
		return "TOO_SMALL"
	case "lte", "max":
		if isText(fe) {
			return "LONG"
		}
		return "TOO_BIG"
	case "url", "http_url":
		return "INVALID"
	default:
		return strings.ToUpper(fe.Tag())
	}
}

func ruleMessage(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " mustn't be empty."
	case "gt":
		if fe.Param() == "0" {
			return label + " must be positive number."
		}
		return label + " must be greater than " + fe.Param() + "."
	case "gte", "min":
		if isText(fe) {
			return label + " must be at least " + fe.Param() + " characters."
		}
		if fe.Param() == "0" {
			return label + " mustn't be negative number."
		}
		return label + " mustn't be less than " + fe.Param() + "."
	case "lte", "max":
		if isText(fe) {
			return label + " must be at most " + fe.Param() + " characters."
		}
		return label + " mustn't be greater than " + fe.Param() + "."
	case "url", "http_url":
		return label + " must be a valid URL."
	case "oneof":
		return label + " must be one of: " + fe.Param() + "."
	default:
		return label + " is invalid."
	}
}
