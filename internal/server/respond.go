package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
)

// errorBody is the error payload of every non-2xx response.
type errorBody struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and reported without internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *carbon.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: verr.Error(), Field: verr.Field})
	case errors.Is(err, carbon.ErrValidation):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, carbon.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, carbon.ErrForbidden):
		writeDetail(w, http.StatusForbidden, err.Error())
	default:
		l := s.requestLogger(r)
		l.Error().Err(err).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads the request body into v within the configured size limit.
// A value of the wrong type is reported against its JSON field.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeDetail(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		if field, kind := invalidField(data, v); field != "" {
			s.writeError(w, r, carbon.NewValidationError(field, "must be a "+kind))
			return false
		}
		writeDetail(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// invalidField returns the first scalar field of the struct behind v whose
// value in data cannot be decoded into it, with the JSON type it expects.
// It returns "" when data is not a JSON object or no scalar field is at fault.
func invalidField(data []byte, v any) (name, kind string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", ""
	}
	t := reflect.TypeOf(v)
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return "", ""
	}
	t = t.Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, expected := jsonName(f), scalarKind(f.Type)
		if key == "" || expected == "" {
			continue
		}
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, reflect.New(f.Type).Interface()); err != nil {
			return key, expected
		}
	}
	return "", ""
}

func scalarKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	}
	return ""
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name
}

func (s *Server) requestLogger(r *http.Request) zerolog.Logger {
	return s.logger.With().Str(logging.FieldRequestID, logging.RequestIDFromContext(r.Context())).Logger()
}
