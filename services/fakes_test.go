package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"intern-tracker/models"
	"intern-tracker/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBoom = errors.New("boom")

// memTasks keeps deep copies so a failed operation can never leak partial
// edits into the stored document.
type memTasks struct {
	mu      sync.Mutex
	tasks   map[primitive.ObjectID]models.Task
	order   []primitive.ObjectID
	failAll error
}

func newMemTasks() *memTasks {
	return &memTasks{tasks: map[primitive.ObjectID]models.Task{}}
}

func cloneTask(t models.Task) models.Task {
	c := t
	c.AssignedTo = append([]primitive.ObjectID(nil), t.AssignedTo...)
	c.Progress = append([]models.ProgressEntry(nil), t.Progress...)
	c.Comments = make([]models.Comment, len(t.Comments))
	for i, cm := range t.Comments {
		cm.Replies = append([]models.Reply(nil), cm.Replies...)
		c.Comments[i] = cm
	}
	c.Normalize()
	return c
}

func (m *memTasks) Insert(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	m.tasks[task.ID] = cloneTask(*task)
	m.order = append(m.order, task.ID)
	return nil
}

func (m *memTasks) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := cloneTask(t)
	return &c, nil
}

func (m *memTasks) FindAll(_ context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Task{}
	for _, id := range m.order {
		if t, ok := m.tasks[id]; ok {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (m *memTasks) FindByAssignee(_ context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Task{}
	for _, id := range m.order {
		if t, ok := m.tasks[id]; ok && t.IsAssigned(userID) {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (m *memTasks) Replace(_ context.Context, task *models.Task, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	current, ok := m.tasks[task.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if current.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	m.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (m *memTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

// bump simulates a concurrent writer.
func (m *memTasks) bump(id primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tasks[id]
	t.Version++
	m.tasks[id] = t
}

func (m *memTasks) stored(id primitive.ObjectID) models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTask(m.tasks[id])
}

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[primitive.ObjectID]models.User{}}
}

func (m *memUsers) add(name, email string, role models.Role) models.User {
	u := models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: role}
	m.mu.Lock()
	m.users[u.ID] = u
	m.mu.Unlock()
	return u
}

func (m *memUsers) Insert(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type notice struct {
	UserID, TaskID primitive.ObjectID
	Message        string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recordingNotifier) Notify(_ context.Context, userID, taskID primitive.ObjectID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{UserID: userID, TaskID: taskID, Message: message})
}

func (r *recordingNotifier) recipients() []primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]primitive.ObjectID, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.UserID)
	}
	return out
}

type memNotifications struct {
	mu    sync.Mutex
	rows  []models.Notification
	err   error
	calls int
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	n.ID = primitive.NewObjectID().Hex()
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Notification{}
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, userID, id string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	for i, n := range m.rows {
		if n.UserID == userID && n.ID == id && n.CreatedAt.Equal(createdAt) {
			m.rows[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fixture struct {
	tasks    *memTasks
	users    *memUsers
	notifier *recordingNotifier
	svc      *TaskService
	admin    models.Caller
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		tasks:    newMemTasks(),
		users:    newMemUsers(),
		notifier: &recordingNotifier{},
		clock:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewTaskService(f.tasks, f.users, f.notifier)
	f.svc.now = func() time.Time { return f.clock }
	admin := f.users.add("Ada Admin", "admin@example.com", models.RoleAdmin)
	f.admin = callerFor(admin)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) intern(name string) models.Caller {
	u := f.users.add(name, name+"@example.com", models.RoleIntern)
	return callerFor(u)
}

func callerFor(u models.User) models.Caller {
	return models.Caller{ID: u.ID, Email: u.Email, Role: u.Role}
}
