// AngelaMos | 2026
// validate.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxRequestBody = 1 << 20

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

var requestValidator = NewValidator()

// Normalizer is implemented by request bodies that clean their own input
// (trimming, case folding) before validation.
type Normalizer interface {
	Normalize()
}

// Bind decodes the JSON body into dst and validates it. When it returns
// false the error response has already been written.
func Bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSON(w, http.StatusRequestEntityTooLarge, Envelope{
				"success": false,
				"message": "Request body too large",
				"code":    "BODY_TOO_LARGE",
			})
			return false
		}
		BadRequest(w, "Invalid request body")
		return false
	}

	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	if err := requestValidator.Struct(dst); err != nil {
		writeAppError(w, ValidationError(FormatValidationError(err)))
		return false
	}
	return true
}
