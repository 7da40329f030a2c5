package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/castell/luxora/internal/domain"
)

// maxBodyBytes caps request bodies; cart and checkout payloads are small.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// DecodeJSON decodes the request body into dst and validates it against its
// struct tags. Returns a domain error suitable for ErrorResponse, or writes
// a field-level validation response itself and reports handled=true.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) (handled bool, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, domain.Invalid("handler.decode", "request body is required")
		}
		return false, domain.WrapError(err, domain.EINVALID, "handler.decode", "request body is not valid JSON")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			ValidationErrorResponse(w, r, "validation failed", fieldErrors(verrs))
			return true, nil
		}
		return false, domain.WrapError(err, domain.EINVALID, "handler.decode", "request validation failed")
	}

	return false, nil
}

// fieldErrors flattens validator errors into a field -> message map.
func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			fields[name] = fmt.Sprintf("%s is required", name)
		case "min":
			fields[name] = fmt.Sprintf("%s must be at least %s", name, fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("%s must be at most %s", name, fe.Param())
		case "uuid":
			fields[name] = fmt.Sprintf("%s must be a valid UUID", name)
		default:
			fields[name] = fmt.Sprintf("%s is invalid", name)
		}
	}
	return fields
}
