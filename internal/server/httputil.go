package server

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// Error codes carried in the "code" member of error responses.
const (
	codeInvalidBody      = "INVALID_BODY"
	codeInvalidFieldType = "INVALID_FIELD_TYPE"
	codeFieldNotFound    = "FIELD_NOT_FOUND"
	codeStepNotFound     = "STEP_NOT_FOUND"
	codeTemplateNotFound = "TEMPLATE_NOT_FOUND"
	codeTargetNotFound   = "TARGET_NOT_FOUND"
	codeNotMultiStep     = "NOT_MULTI_STEP"
	codeStepOutOfRange   = "STEP_OUT_OF_RANGE"
	codeExportFailed     = "EXPORT_FAILED"
	codeInternal         = "INTERNAL_ERROR"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("server: encode response", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v, rejecting unknown members. An
// empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// decodeOrReject decodes the body and writes a 400 response on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(r, v); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidBody, err.Error())
		return false
	}
	return true
}
