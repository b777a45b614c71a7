package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"todolist/internal/core/domain"
	"todolist/internal/core/util"
)

// encoding/json reports DisallowUnknownFields failures only as text.
const unknownFieldPrefix = "json: unknown field "

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	Validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}
}

// ValidateStruct runs the struct tags of s and converts failures into a
// domain.ValidationError carrying the translated messages.
func ValidateStruct(s interface{}) error {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return domain.NewValidationError("request", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(Translator))
	}

	return domain.NewValidationError(validationErrors[0].Field(), strings.Join(messages, "; "))
}

// BindError converts a JSON decoding failure into a domain.ValidationError.
// An empty body is not an error; the caller validates the zero value.
func BindError(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domain.NewValidationError(typeErr.Field,
			fmt.Sprintf("%s must be of type %s", typeErr.Field, jsonTypeName(typeErr.Type)))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, util.ErrTrailingData) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.NewValidationError("body", "request body is not valid JSON")
	}

	if field, ok := strings.CutPrefix(err.Error(), unknownFieldPrefix); ok {
		field = strings.Trim(field, `"`)
		return domain.NewValidationError(field, fmt.Sprintf("%q is not allowed", field))
	}

	return domain.NewValidationError("body", err.Error())
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Bool:
		return "boolean"
	default:
		return t.String()
	}
}
