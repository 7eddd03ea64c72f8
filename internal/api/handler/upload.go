package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hszk-dev/vidingest/internal/api/middleware"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

// uploadFieldName is the multipart field carrying the file.
const uploadFieldName = "file"

type UploadVideoResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Video   string `json:"video"`
}

// UploadHandler handles the two ingestion routes.
type UploadHandler struct {
	svc usecase.IngestService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(svc usecase.IngestService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// UploadVideo handles POST /upload-video
func (h *UploadHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	file, err := readFirstFile(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	output, err := h.svc.UploadVideo(r.Context(), usecase.UploadVideoInput{File: file})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, UploadVideoResponse{
		Status:  true,
		Message: "File uploaded successfully",
		Video:   output.Video.ID.String(),
	})
}

// readFirstFile returns the first part named "file", read fully. Later
// parts are never read. A body without such a part yields nil, nil.
func readFirstFile(r *http.Request) (*usecase.UploadedFile, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidMultipart, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, multipartError(err)
		}

		if part.FormName() != uploadFieldName {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return nil, multipartError(err)
		}
		return &usecase.UploadedFile{Name: part.FileName(), Data: data}, nil
	}
}

func multipartError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: %w", errInvalidMultipart, err)
}

// StreamObject handles POST /upload-raw-video/{bucket}/{object}.
// Responses are plain text.
func (h *UploadHandler) StreamObject(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "object")

	// A body read blocked on an idle client does not observe cancellation;
	// an expired read deadline does.
	stop := context.AfterFunc(r.Context(), func() {
		_ = http.NewResponseController(w).SetReadDeadline(time.Now())
	})
	defer stop()

	err := h.svc.StreamObject(r.Context(), usecase.StreamObjectInput{
		Bucket:        bucket,
		Key:           key,
		Body:          r.Body,
		ContentLength: r.ContentLength,
	})
	if err != nil {
		h.writeStreamError(w, r, bucket, key, err)
		return
	}

	Text(w, http.StatusCreated, "Object created")
}

// StreamTooLarge answers a streamed body refused by the size ceiling.
func StreamTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	Text(w, http.StatusRequestEntityTooLarge, err.Error())
}

func (h *UploadHandler) writeStreamError(w http.ResponseWriter, r *http.Request, bucket, key string, err error) {
	var (
		maxBytesErr  *http.MaxBytesError
		writeErr     *repository.BlobWriteError
		transportErr *repository.BlobTransportError
	)

	logger := slog.With(
		"request_id", middleware.GetRequestID(r.Context()),
		"bucket", bucket,
		"key", key,
		"error", err,
	)

	switch {
	case errors.As(err, &maxBytesErr):
		logger.WarnContext(r.Context(), "streamed body exceeded limit")
		Text(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, usecase.ErrInvalidObjectKey), errors.Is(err, usecase.ErrBodyRead):
		logger.WarnContext(r.Context(), "streamed upload aborted")
		Text(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &writeErr):
		logger.ErrorContext(r.Context(), "blob store rejected streamed upload", "status", writeErr.Status)
		Text(w, http.StatusInternalServerError,
			fmt.Sprintf("blob store error: %d %s - %s", writeErr.Status, http.StatusText(writeErr.Status), writeErr.Body))
	case errors.As(err, &transportErr):
		logger.ErrorContext(r.Context(), "blob store unreachable")
		Text(w, http.StatusInternalServerError, fmt.Sprintf("failed to upload object: %v", transportErr.Cause))
	default:
		logger.ErrorContext(r.Context(), "streamed upload failed")
		Text(w, http.StatusInternalServerError, err.Error())
	}
}
