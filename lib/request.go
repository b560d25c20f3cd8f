package lib

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names, so a bad line item shows
// up as "items[1].quantity".
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

// ValidateVar checks a single value against validate tags, e.g.
// "omitempty,email".
func ValidateVar(value any, tag string) error {
	return validate.Var(value, tag)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ExtractAndValidateBody decodes the JSON body into T, rejecting unknown
// fields, and runs the validate tags.
func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	defer r.Body.Close()

	var body T

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil, NewValidationError("Request body is empty")
		case errors.As(err, &tooLarge):
			return nil, NewValidationError("Request body too large")
		}
		return nil, &ValidationError{
			Message: "Invalid request body",
			Errors:  []FieldError{{Field: "body", Message: err.Error()}},
		}
	}

	if err := validate.Struct(body); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return nil, mapValidationErrors(ve)
		}
		return nil, err
	}

	return &body, nil
}

func mapValidationErrors(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Message: "Invalid request body"}

	for _, e := range errs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(e.Namespace()),
			Message: fieldMessage(e),
		})
	}

	return out
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return "is invalid"
}
