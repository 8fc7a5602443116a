package handlers

import (
	"net/http"

	"intern-tracker/middleware"
	"intern-tracker/models"

	"github.com/gorilla/mux"
)

type Router struct {
	Tasks         *TaskHandler
	Users         *UserHandler
	Notifications *NotificationHandler
	Tokens        middleware.TokenValidator
	CORSOrigin    string
}

// Handler builds the full route table. Admin-only routes are gated here as
// well as in the services.
func (rt Router) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", rt.Users.Login).Methods(http.MethodPost)

	auth := middleware.JWTAuth(rt.Tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	internOnly := middleware.RequireRole(models.RoleIntern)
	anyRole := middleware.RequireRole(models.RoleAdmin, models.RoleIntern)

	protect := func(gate func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
		return auth(gate(h))
	}

	api.Handle("/interns", protect(adminOnly, rt.Users.GetInterns)).Methods(http.MethodGet)
	api.Handle("/interns", protect(adminOnly, rt.Users.CreateIntern)).Methods(http.MethodPost)
	api.Handle("/interns/{id}", protect(adminOnly, rt.Users.UpdateIntern)).Methods(http.MethodPut)
	api.Handle("/interns/{id}", protect(adminOnly, rt.Users.DeleteIntern)).Methods(http.MethodDelete)

	api.Handle("/tasks", protect(adminOnly, rt.Tasks.CreateTask)).Methods(http.MethodPost)
	api.Handle("/tasks", protect(anyRole, rt.Tasks.GetTasks)).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", protect(anyRole, rt.Tasks.GetTask)).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", protect(adminOnly, rt.Tasks.UpdateTask)).Methods(http.MethodPut)
	api.Handle("/tasks/{id}", protect(adminOnly, rt.Tasks.DeleteTask)).Methods(http.MethodDelete)
	api.Handle("/tasks/{id}/progress", protect(internOnly, rt.Tasks.UpdateProgress)).Methods(http.MethodPut)
	api.Handle("/tasks/{id}/comments", protect(anyRole, rt.Tasks.AddComment)).Methods(http.MethodPost)
	api.Handle("/tasks/{id}/comments/{commentId}/reply", protect(anyRole, rt.Tasks.ReplyToComment)).Methods(http.MethodPost)

	api.Handle("/notifications", protect(anyRole, rt.Notifications.GetNotifications)).Methods(http.MethodGet)
	api.Handle("/notifications/read", protect(anyRole, rt.Notifications.MarkAsRead)).Methods(http.MethodPut)

	return middleware.EnableCORS(rt.CORSOrigin)(r)
}
