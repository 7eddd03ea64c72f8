package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

type VideoResponse struct {
	VideoID   string `json:"video_id"`
	VideoPath string `json:"video_path"`
}

// VideoHandler handles video lookup requests.
type VideoHandler struct {
	svc usecase.CatalogService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.CatalogService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// List handles GET /videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.ListVideos(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := ListResponse[VideoResponse]{Payload: make([]VideoResponse, 0, len(videos))}
	for _, v := range videos {
		resp.Payload = append(resp.Payload, toVideoResponse(v))
	}
	JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /videos/id?video_id=
func (h *VideoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(r.URL.Query().Get("video_id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	video, err := h.svc.GetVideo(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, toVideoResponse(video))
}

// GetByPath handles GET /videos/path?video_path=
func (h *VideoHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("video_path")
	if path == "" {
		Error(w, http.StatusBadRequest, "invalid_video_path", "Query parameter video_path is required")
		return
	}

	video, err := h.svc.GetVideoByPath(r.Context(), path)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, toVideoResponse(video))
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		VideoID:   v.ID.String(),
		VideoPath: v.Path,
	}
}
