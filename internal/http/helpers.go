package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/content"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Success bool                      `json:"success"`
	Error   string                    `json:"error"`
	Message string                    `json:"message,omitempty"`
	Issues  goerrors.ValidationErrors `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	if baseClean == "/" {
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func badRequest(message string) errorResponse {
	return errorResponse{Error: "bad_request", Message: message}
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: internalErrorMessage}
	}

	var missing *content.NotFoundError
	if errors.As(err, &missing) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: missing.Error(),
		}
	}

	if collections.IsConflict(err) || goerrors.IsCategory(err, goerrors.CategoryConflict) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: errorMessage(err),
		}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		issues, _ := goerrors.GetValidationErrors(err)
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: errorMessage(err),
			Issues:  issues,
		}
	}

	if goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		return http.StatusBadRequest, badRequest(errorMessage(err))
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: internalErrorMessage,
	}
}

// errorMessage prefers the go-errors message over the formatted chain, which
// carries category and text code prefixes.
func errorMessage(err error) string {
	var typed *goerrors.Error
	if errors.As(err, &typed) && strings.TrimSpace(typed.Message) != "" {
		return typed.Message
	}
	return err.Error()
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseLimit ignores values that are not positive integers.
func parseLimit(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
