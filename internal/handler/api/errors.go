// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/service"
)

// CodeMethodNotSupported is returned when a mutation is called with GET.
const CodeMethodNotSupported = "METHOD_NOT_SUPPORTED"

// Error is a procedure failure with its HTTP status and error code.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func badRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: middleware.CodeBadRequest, Message: message}
}

// toError maps service errors onto RPC errors. Unknown errors become
// INTERNAL_SERVER_ERROR; ok is false for them so the caller can log.
func toError(err error) (e *Error, known bool) {
	if errors.As(err, &e) {
		return e, true
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return &Error{Status: http.StatusBadRequest, Code: middleware.CodeBadRequest, Message: "Invalid input", Details: verr.Fields}, true
	}

	if errors.Is(err, service.ErrNotFound) {
		return &Error{Status: http.StatusNotFound, Code: middleware.CodeNotFound, Message: "Not found"}, true
	}

	return &Error{Status: http.StatusInternalServerError, Code: middleware.CodeInternal, Message: "Internal server error"}, false
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, procedure string, err error) {
	e, known := toError(err)
	if !known {
		h.logger.Error("failed to run procedure",
			"procedure", procedure,
			"error", err,
			"request_id", r.Header.Get("X-Request-Id"),
		)
	}
	middleware.WriteAPIError(w, e.Status, e.Code, e.Message, e.Details)
}
