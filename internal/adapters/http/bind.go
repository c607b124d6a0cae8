package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/labstack/echo/v4"

	"github.com/bft-labs/fishery/internal/domain"
)

// bodyValidator implements echo.Validator with go-playground/validator and
// reports failures as *domain.ValidationError using JSON field names.
type bodyValidator struct {
	v *validator.Validate
}

func newBodyValidator() *bodyValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &bodyValidator{v: v}
}

// Validate runs the struct tags, then the payload's own Validate method if
// it has one.
func (b *bodyValidator) Validate(i any) error {
	if err := b.v.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		return &domain.ValidationError{Fields: fields}
	}
	if v, ok := i.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be empty"
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

// bindBody decodes the request body into dst and validates it. Decoding
// failures become validation errors so they render as 422.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return he
		}
		return bodyError(err)
	}
	return c.Validate(dst)
}

func bodyError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type)),
		}}}
	}
	return &domain.ValidationError{Fields: []domain.FieldError{{
		Field:   "body",
		Message: "request body is not valid JSON",
	}}}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	default:
		return t.String()
	}
}
