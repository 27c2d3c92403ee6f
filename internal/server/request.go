package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/resume"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// maxBodyBytes bounds request bodies; resumes are small documents
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest reads a JSON body into dst and runs struct validation
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ErrValidation{Field: verrs[0].Field(), Message: "failed " + verrs[0].Tag()}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// decodeResume checks a raw resume against the JSON schema, then normalizes and validates it
func decodeResume(raw json.RawMessage) (*types.Resume, error) {
	if err := schemas.Validate(schemas.Resume, raw); err != nil {
		return nil, err
	}
	var doc types.Resume
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ErrValidation{Field: "resume", Message: err.Error()}
	}
	normalized := resume.Normalize(&doc)
	if err := resume.Validate(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: fmt.Sprintf("invalid id %q", r.PathValue(name))}
	}
	return id, nil
}

func pathOwner(r *http.Request) (string, error) {
	owner := r.PathValue("owner")
	if err := validate.Var(owner, "required,max=128"); err != nil {
		return "", &ErrValidation{Field: "owner", Message: "owner id is required and at most 128 characters"}
	}
	return owner, nil
}
