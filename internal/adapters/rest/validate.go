package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"sportmeet/internal/domain"
)

const maxBodyBytes = 1 << 20

// fieldError names the request field that failed validation.
type fieldError struct {
	field string
	tag   string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %s failed %q", e.field, e.tag)
}

func (e *fieldError) Unwrap() error { return domain.ErrInvalidRequest }

// newValidator reports field names by their json tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) validate(dst any) error {
	err := s.validator.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &fieldError{field: verrs[0].Field(), tag: verrs[0].Tag()}
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %w", domain.ErrInvalidRequest, err)
	}
	return s.validate(dst)
}
