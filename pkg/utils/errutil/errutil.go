package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/utils/logging"
	"github.com/draftmill/inkbase/pkg/utils/safe"
)

// Handle logs the error with a message and returns it unchanged.
// This function ensures that all errors, especially ones absorbed by a
// degraded code path, are properly logged with their goerr context.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}

// errorResponse is the wire format for failed API calls.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// HandleHTTP logs the error and writes a structured JSON error response.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	body, marshalErr := json.Marshal(errorResponse{Error: true, Message: err.Error()})
	if marshalErr != nil {
		body = []byte(`{"error":true,"message":"internal error"}`)
	}
	safe.Write(ctx, w, body)
}
