package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hszk-dev/vidingest/internal/api/middleware"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

var (
	// errInvalidMultipart marks a body that is not a readable multipart form.
	errInvalidMultipart = errors.New("request body is not a valid multipart form")

	// errInvalidJSON marks a body that is not the expected JSON document.
	errInvalidJSON = errors.New("invalid JSON body")
)

// handleServiceError maps a service error to a JSON error response.
// Failures of the blob store or catalog carry the underlying message.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		maxBytesErr  *http.MaxBytesError
		writeErr     *repository.BlobWriteError
		transportErr *repository.BlobTransportError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		Error(w, http.StatusRequestEntityTooLarge, "request_too_large", err.Error())
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, usecase.ErrMissingFile):
		Error(w, http.StatusBadRequest, "missing_file", "No file provided")
	case errors.Is(err, errInvalidMultipart),
		errors.Is(err, errInvalidJSON),
		errors.Is(err, usecase.ErrBodyRead),
		errors.Is(err, usecase.ErrInvalidObjectKey):
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, model.ErrEmptyUsername), errors.Is(err, model.ErrEmptyEmail):
		Error(w, http.StatusBadRequest, "invalid_user", err.Error())
	case errors.As(err, &writeErr):
		logFailure(r, "blob write failed", err)
		Error(w, http.StatusInternalServerError, "blob_write_failed", err.Error())
	case errors.As(err, &transportErr):
		logFailure(r, "blob store unreachable", err)
		Error(w, http.StatusInternalServerError, "blob_transport_failed", err.Error())
	case errors.Is(err, usecase.ErrCatalogWriteFailed):
		logFailure(r, "catalog write failed", err)
		Error(w, http.StatusInternalServerError, "catalog_write_failed", err.Error())
	case errors.Is(err, repository.ErrCatalogUnavailable):
		logFailure(r, "catalog unavailable", err)
		Error(w, http.StatusInternalServerError, "catalog_unavailable", err.Error())
	default:
		logFailure(r, "unexpected error", err)
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// RequestTooLarge answers a body refused by the size ceiling on JSON routes.
func RequestTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	handleServiceError(w, r, err)
}

func logFailure(r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg,
		"request_id", middleware.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
}

// jsonDecodeError keeps body-limit failures recognizable and tags the rest
// as bad input.
func jsonDecodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: %w", errInvalidJSON, err)
}
