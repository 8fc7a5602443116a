package handlers

import (
	"context"
	"net/http"
	"time"

	"intern-tracker/models"
)

// NotificationService is implemented by services.NotificationService.
type NotificationService interface {
	List(ctx context.Context, caller models.Caller) ([]models.Notification, error)
	MarkRead(ctx context.Context, caller models.Caller, id string, createdAt time.Time) error
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type markReadRequest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	notifications, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req markReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.service.MarkRead(r.Context(), caller, req.ID, req.CreatedAt); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked as read")
}
