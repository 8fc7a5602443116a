package repositories

import (
	"context"
	"fmt"
	"time"

	"intern-tracker/models"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"
)

const notificationsKeyspace = "intern_notifications"

type NotificationRepo struct {
	session *gocql.Session
	logger  *logrus.Logger
}

// NewNotificationRepo connects to Cassandra at host, creating the keyspace
// and table on first use.
func NewNotificationRepo(host string, logger *logrus.Logger) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	cluster.Timeout = 5 * time.Second
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS ` + notificationsKeyspace + `
		 WITH replication = {
			'class': 'SimpleStrategy',
			'replication_factor': 1
		 }`).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}

	cluster.Keyspace = notificationsKeyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s keyspace: %w", notificationsKeyspace, err)
	}

	repo := &NotificationRepo{session: session, logger: logger}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}
	logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s at %s", notificationsKeyspace, host)
	return repo, nil
}

func (r *NotificationRepo) Close() {
	r.session.Close()
	r.logger.Info("Event ID: CASSANDRA_CLOSED, Description: Cassandra session closed")
}

func (r *NotificationRepo) createTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id TIMEUUID,
			user_id TEXT,
			task_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	id := gocql.TimeUUID()
	if n.ID != "" {
		parsed, err := gocql.ParseUUID(n.ID)
		if err != nil {
			return fmt.Errorf("invalid notification id: %w", err)
		}
		id = parsed
	}
	n.ID = id.String()

	err := r.session.Query(
		`INSERT INTO notifications (id, user_id, task_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, n.UserID, n.TaskID, n.Message, n.CreatedAt, n.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	iter := r.session.Query(
		`SELECT id, user_id, task_id, message, created_at, is_read
		 FROM notifications WHERE user_id = ?`, userID,
	).WithContext(ctx).Iter()

	notifications := []models.Notification{}
	var (
		id gocql.UUID
		n  models.Notification
	)
	for iter.Scan(&id, &n.UserID, &n.TaskID, &n.Message, &n.CreatedAt, &n.IsRead) {
		n.ID = id.String()
		notifications = append(notifications, n)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error {
	id, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return ErrNotFound
	}

	// IF EXISTS keeps the UPDATE from upserting a row for an unknown key.
	applied, err := r.session.Query(
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ? IF EXISTS`,
		userID, createdAt, id,
	).WithContext(ctx).ScanCAS()
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}
