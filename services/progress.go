package services

import (
	"context"
	"time"

	"intern-tracker/logging"
	"intern-tracker/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressInput carries an optional status and an optional completion
// percentage. A nil PercentCompleted means "not supplied"; zero is a value.
type ProgressInput struct {
	Status           string
	PercentCompleted *float64
}

// SetProgress updates the caller's own progress entry on a task.
func (s *TaskService) SetProgress(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, in ProgressInput) (*models.TaskView, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionSetProgress); err != nil {
		return nil, err
	}
	entry := task.ProgressFor(caller.ID)
	if entry == nil {
		return nil, forbidden("not assigned to this task")
	}

	if in.Status == "" && in.PercentCompleted == nil {
		return s.view(ctx, task)
	}

	now := s.now().UTC()
	applyProgress(entry, in, now)

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROGRESS_UPDATED, Description: Intern %s set task %s to %q", caller.ID.Hex(), task.ID.Hex(), entry.Status)
	return s.view(ctx, task)
}

// applyProgress sets the status verbatim, then lets a percentage override
// it: >= 100 completes the entry, anything lower reopens it.
func applyProgress(entry *models.ProgressEntry, in ProgressInput, now time.Time) {
	if in.Status != "" {
		entry.Status = in.Status
	}
	if in.PercentCompleted != nil {
		if *in.PercentCompleted >= 100 {
			entry.Status = models.StatusCompleted
			completedAt := now
			entry.CompletedAt = &completedAt
		} else {
			entry.Status = models.StatusInProgress
			entry.CompletedAt = nil
		}
	}
	updatedAt := now
	entry.UpdatedAt = &updatedAt
}
