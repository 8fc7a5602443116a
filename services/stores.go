package services

import (
	"context"
	"errors"
	"time"

	"intern-tracker/logging"
	"intern-tracker/models"
	"intern-tracker/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is implemented by repositories.TaskRepository.
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	Replace(ctx context.Context, task *models.Task, expectedVersion int64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is implemented by repositories.UserRepository.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NotificationStore is implemented by repositories.NotificationRepo.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error
}

// storeError translates repository errors into service error kinds. Anything
// unrecognised is a storage failure; the cause is logged, not returned.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFound("%s: not found", op)
	case errors.Is(err, repositories.ErrDuplicate):
		return &Error{Kind: ErrConflict, Msg: op + ": already exists"}
	case errors.Is(err, repositories.ErrVersionConflict):
		return &Error{Kind: ErrConflict, Msg: op + ": modified concurrently, reload and retry"}
	}
	logging.Logger.Errorf("Event ID: STORAGE_FAILURE, Description: %s: %v", op, err)
	return &Error{Kind: ErrStorage, Msg: op + " failed"}
}
