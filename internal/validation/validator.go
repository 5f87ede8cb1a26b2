// Package validation checks API request bodies with go-playground/validator.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"usergraph/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// get returns the shared validator, configured on first use.
func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		instance = v
	})
	return instance
}

// messager is implemented by request types that word their own field errors.
type messager interface {
	fieldMessage(field string) string
}

// Struct validates req and returns an INVALID_ARGUMENT AppError describing the
// first failing field.
func Struct(req any) error {
	err := get().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewInvalidArgumentError("Invalid request body")
	}

	field := verrs[0].Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i] + "[]"
	}
	return fieldError(req, field)
}

// RejectNull fails when the JSON object in body sets one of fields to null.
// Pointer fields cannot tell null from absent after decoding, so partial
// updates check the raw body as well. Bodies that are not objects are left
// to the decoder.
func RejectNull(body []byte, req any, fields ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	for _, f := range fields {
		if v, ok := raw[f]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return fieldError(req, f)
		}
	}
	return nil
}

func fieldError(req any, field string) error {
	if m, ok := req.(messager); ok {
		if msg := m.fieldMessage(field); msg != "" {
			return models.NewInvalidArgumentError(msg)
		}
	}
	return models.NewInvalidArgumentError(field + " is invalid")
}
