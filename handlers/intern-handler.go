package handlers

import (
	"context"
	"net/http"

	"intern-tracker/models"
	"intern-tracker/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService is implemented by services.UserService.
type UserService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ListInterns(ctx context.Context, caller models.Caller) ([]models.Intern, error)
	CreateIntern(ctx context.Context, caller models.Caller, in services.InternInput) (*models.Intern, error)
	UpdateIntern(ctx context.Context, caller models.Caller, id primitive.ObjectID, in services.InternInput) (*models.Intern, error)
	DeleteIntern(ctx context.Context, caller models.Caller, id primitive.ObjectID) error
}

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type internRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CollegeName string `json:"collegeName"`
}

func (req internRequest) input() services.InternInput {
	return services.InternInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		CollegeName: req.CollegeName,
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) GetInterns(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	interns, err := h.service.ListInterns(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interns)
}

func (h *UserHandler) CreateIntern(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req internRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	intern, err := h.service.CreateIntern(r.Context(), caller, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, intern)
}

func (h *UserHandler) UpdateIntern(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req internRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	intern, err := h.service.UpdateIntern(r.Context(), caller, id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intern)
}

func (h *UserHandler) DeleteIntern(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteIntern(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Intern deleted")
}
