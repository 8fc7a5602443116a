package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"intern-tracker/logging"
	"intern-tracker/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier receives best-effort notifications about task events. It must not
// block the calling operation on failure.
type Notifier interface {
	Notify(ctx context.Context, userID, taskID primitive.ObjectID, message string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, primitive.ObjectID, primitive.ObjectID, string) {}

type TaskService struct {
	tasks    TaskStore
	users    UserStore
	notifier Notifier
	now      func() time.Time
}

func NewTaskService(tasks TaskStore, users UserStore, notifier Notifier) *TaskService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &TaskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	InternIDs   []primitive.ObjectID
}

// UpdateTaskInput follows "empty means not provided": a blank Title or
// Description, a nil DueDate and a nil InternIDs leave the stored value alone.
// A non-nil, empty InternIDs clears all assignments.
type UpdateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	InternIDs   []primitive.ObjectID
}

func (s *TaskService) Create(ctx context.Context, caller models.Caller, in CreateTaskInput) (*models.TaskView, error) {
	if err := Authorize(caller, ActionManageTasks); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   s.now().UTC(),
		Version:     1,
	}
	task.Assign(in.InternIDs)
	task.Normalize()

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, storeError("create task", err)
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s with %d assignees", task.ID.Hex(), caller.ID.Hex(), len(task.AssignedTo))

	for _, internID := range task.AssignedTo {
		s.notifier.Notify(ctx, internID, task.ID, fmt.Sprintf("You have been assigned to task %q", task.Title))
	}
	return s.view(ctx, task)
}

func (s *TaskService) Update(ctx context.Context, caller models.Caller, id primitive.ObjectID, in UpdateTaskInput) (*models.TaskView, error) {
	if err := Authorize(caller, ActionManageTasks); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	var added []primitive.ObjectID
	if in.InternIDs != nil {
		for _, internID := range in.InternIDs {
			if !task.IsAssigned(internID) {
				added = append(added, internID)
			}
		}
		task.Assign(in.InternIDs)
	}

	editedOn := s.now().UTC()
	task.EditedOn = &editedOn

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by %s", task.ID.Hex(), caller.ID.Hex())

	for _, internID := range added {
		s.notifier.Notify(ctx, internID, task.ID, fmt.Sprintf("You have been assigned to task %q", task.Title))
	}
	return s.view(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, caller models.Caller, id primitive.ObjectID) error {
	if err := Authorize(caller, ActionManageTasks); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return storeError("delete task", err)
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", id.Hex(), caller.ID.Hex())
	return nil
}

// List returns every task to admins and only assigned tasks to interns.
func (s *TaskService) List(ctx context.Context, caller models.Caller) ([]models.TaskView, error) {
	if err := Authorize(caller, ActionListTasks); err != nil {
		return nil, err
	}

	var (
		tasks []models.Task
		err   error
	)
	if caller.IsAdmin() {
		tasks, err = s.tasks.FindAll(ctx)
	} else {
		tasks, err = s.tasks.FindByAssignee(ctx, caller.ID)
	}
	if err != nil {
		return nil, storeError("list tasks", err)
	}
	return resolveTasks(ctx, s.users, tasks)
}

func (s *TaskService) Get(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.TaskView, error) {
	if err := Authorize(caller, ActionListTasks); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !task.IsAssigned(caller.ID) {
		return nil, forbidden("not assigned to this task")
	}
	return s.view(ctx, task)
}

func (s *TaskService) load(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("task", err)
	}
	return task, nil
}

// save persists the whole document guarded by its version.
func (s *TaskService) save(ctx context.Context, task *models.Task) error {
	expected := task.Version
	task.Version = expected + 1
	task.Normalize()
	if err := s.tasks.Replace(ctx, task, expected); err != nil {
		task.Version = expected
		return storeError("save task", err)
	}
	return nil
}

func (s *TaskService) view(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views, err := resolveTasks(ctx, s.users, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
