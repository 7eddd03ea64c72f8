package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateUserResponse is returned with 200 for both outcomes; Status is
// "success" or "error".
type CreateUserResponse struct {
	Status  string `json:"status"`
	User    string `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	svc usecase.CatalogService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc usecase.CatalogService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, r, jsonDecodeError(err))
		return
	}

	user, err := h.svc.CreateUser(r.Context(), usecase.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		logFailure(r, "create user failed", err)
		JSON(w, http.StatusOK, CreateUserResponse{Status: "error", Message: err.Error()})
		return
	}

	JSON(w, http.StatusOK, CreateUserResponse{Status: "success", User: user.ID.String()})
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := ListResponse[UserResponse]{Payload: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Payload = append(resp.Payload, toUserResponse(u))
	}
	JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /users/id/{user_id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

// GetByUsername handles GET /users/username?username=
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		Error(w, http.StatusBadRequest, "invalid_username", "Query parameter username is required")
		return
	}

	user, err := h.svc.GetUserByUsername(r.Context(), username)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

// GetByEmail handles GET /users/email?email=
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		Error(w, http.StatusBadRequest, "invalid_email", "Query parameter email is required")
		return
	}

	user, err := h.svc.GetUserByEmail(r.Context(), email)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		UserID:   u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
}
