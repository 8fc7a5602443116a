package handlers

import (
	"context"
	"net/http"
	"time"

	"intern-tracker/models"
	"intern-tracker/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService is implemented by services.TaskService.
type TaskService interface {
	Create(ctx context.Context, caller models.Caller, in services.CreateTaskInput) (*models.TaskView, error)
	Update(ctx context.Context, caller models.Caller, id primitive.ObjectID, in services.UpdateTaskInput) (*models.TaskView, error)
	Delete(ctx context.Context, caller models.Caller, id primitive.ObjectID) error
	List(ctx context.Context, caller models.Caller) ([]models.TaskView, error)
	Get(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.TaskView, error)
	SetProgress(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, in services.ProgressInput) (*models.TaskView, error)
	AddComment(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, text string) (*models.TaskView, error)
	AddReply(ctx context.Context, caller models.Caller, taskID, commentID primitive.ObjectID, text string) (*models.TaskView, error)
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskRequest is shared by create and update. InternIDs stays nil when the
// field is absent or null, and is an empty slice for [].
type taskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	InternIDs   []string `json:"internIds"`
}

type progressRequest struct {
	Status           string   `json:"status"`
	PercentCompleted *float64 `json:"percentCompleted"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (req taskRequest) parse(w http.ResponseWriter) (*time.Time, []primitive.ObjectID, bool) {
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	ids, err := parseObjectIDs(req.InternIDs)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return due, ids, true
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	due, ids, ok := req.parse(w)
	if !ok {
		return
	}

	task, err := h.service.Create(r.Context(), caller, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		InternIDs:   ids,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	due, ids, ok := req.parse(w)
	if !ok {
		return
	}

	task, err := h.service.Update(r.Context(), caller, id, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		InternIDs:   ids,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted")
}

func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req progressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.service.SetProgress(r.Context(), caller, id, services.ProgressInput{
		Status:           req.Status,
		PercentCompleted: req.PercentCompleted,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := h.service.AddComment(r.Context(), caller, id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ReplyToComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := h.service.AddReply(r.Context(), caller, taskID, commentID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
