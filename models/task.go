package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task is a single document in the tasks collection. Progress entries,
// comments and replies are embedded and share the task's lifecycle.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time           `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	AssignedTo  []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	Progress    []ProgressEntry      `bson:"progress" json:"progress"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	EditedOn    *time.Time           `bson:"editedOn,omitempty" json:"editedOn,omitempty"`
	Version     int64                `bson:"version" json:"version"`
}

// ProgressEntry tracks one assignee. Status is stored verbatim; the system
// itself only writes the three Status* constants.
type ProgressEntry struct {
	Intern      primitive.ObjectID `bson:"intern" json:"intern"`
	Status      string             `bson:"status" json:"status"`
	UpdatedAt   *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Replies   []Reply            `bson:"replies" json:"replies"`
}

type Reply struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Assign replaces the assignee list and resets progress for every assignee.
// Both slices are always written together.
func (t *Task) Assign(internIDs []primitive.ObjectID) {
	assigned := make([]primitive.ObjectID, len(internIDs))
	copy(assigned, internIDs)

	progress := make([]ProgressEntry, len(internIDs))
	for i, id := range internIDs {
		progress[i] = ProgressEntry{Intern: id, Status: StatusNotStarted}
	}

	t.AssignedTo = assigned
	t.Progress = progress
}

func (t *Task) IsAssigned(userID primitive.ObjectID) bool {
	return slices.Contains(t.AssignedTo, userID)
}

// ProgressFor looks the entry up by intern id, never by position.
func (t *Task) ProgressFor(internID primitive.ObjectID) *ProgressEntry {
	i := slices.IndexFunc(t.Progress, func(p ProgressEntry) bool {
		return p.Intern == internID
	})
	if i < 0 {
		return nil
	}
	return &t.Progress[i]
}

func (t *Task) Comment(commentID primitive.ObjectID) *Comment {
	i := slices.IndexFunc(t.Comments, func(c Comment) bool {
		return c.ID == commentID
	})
	if i < 0 {
		return nil
	}
	return &t.Comments[i]
}

// Normalize replaces nil slices so the stored document and the JSON output
// always carry arrays.
func (t *Task) Normalize() {
	if t.AssignedTo == nil {
		t.AssignedTo = []primitive.ObjectID{}
	}
	if t.Progress == nil {
		t.Progress = []ProgressEntry{}
	}
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
	for i := range t.Comments {
		if t.Comments[i].Replies == nil {
			t.Comments[i].Replies = []Reply{}
		}
	}
}
