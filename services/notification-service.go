package services

import (
	"context"
	"errors"
	"time"

	"intern-tracker/logging"
	"intern-tracker/models"
	"intern-tracker/repositories"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService writes and reads the per-user notification feed. It
// implements Notifier for TaskService.
type NotificationService struct {
	store   NotificationStore
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewNotificationBreaker returns the breaker guarding the notification store.
func NewNotificationBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, repositories.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' state changed from %s to %s", name, from.String(), to.String())
		},
	})
}

// NewNotificationService uses a no-op store when store is nil, which is how
// the server runs without Cassandra.
func NewNotificationService(store NotificationStore, breaker *gobreaker.CircuitBreaker) *NotificationService {
	if store == nil {
		store = noopStore{}
	}
	if breaker == nil {
		breaker = NewNotificationBreaker()
	}
	return &NotificationService{store: store, breaker: breaker, now: time.Now}
}

// Notify never returns an error; failures and an open breaker are logged.
func (s *NotificationService) Notify(ctx context.Context, userID, taskID primitive.ObjectID, message string) {
	n := &models.Notification{
		UserID:    userID.Hex(),
		TaskID:    taskID.Hex(),
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.store.Create(ctx, n)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Logger.Warnf("Event ID: NOTIFICATION_SKIPPED, Description: Circuit breaker open, notification for %s dropped", n.UserID)
			return
		}
		logging.Logger.Errorf("Event ID: NOTIFICATION_FAILED, Description: Failed to notify %s about task %s: %v", n.UserID, n.TaskID, err)
		return
	}
	logging.Logger.Debugf("Event ID: NOTIFICATION_CREATED, Description: Notified %s about task %s", n.UserID, n.TaskID)
}

func (s *NotificationService) List(ctx context.Context, caller models.Caller) ([]models.Notification, error) {
	if err := Authorize(caller, ActionListTasks); err != nil {
		return nil, err
	}
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.store.ListByUser(ctx, caller.ID.Hex())
	})
	if err != nil {
		return nil, breakerError("list notifications", err)
	}
	notifications, _ := result.([]models.Notification)
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flags one of the caller's notifications. The creation time is part
// of the row key, so clients send back the createdAt they received.
func (s *NotificationService) MarkRead(ctx context.Context, caller models.Caller, id string, createdAt time.Time) error {
	if err := Authorize(caller, ActionListTasks); err != nil {
		return err
	}
	if id == "" || createdAt.IsZero() {
		return invalid("id and createdAt are required")
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.store.MarkRead(ctx, caller.ID.Hex(), id, createdAt)
	})
	if err != nil {
		return breakerError("mark notification read", err)
	}
	return nil
}

func breakerError(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_OPEN, Description: %s rejected, breaker open", op)
		return &Error{Kind: ErrStorage, Msg: "notifications temporarily unavailable"}
	}
	return storeError(op, err)
}

type noopStore struct{}

func (noopStore) Create(context.Context, *models.Notification) error { return nil }

func (noopStore) ListByUser(context.Context, string) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (noopStore) MarkRead(context.Context, string, string, time.Time) error {
	return repositories.ErrNotFound
}
