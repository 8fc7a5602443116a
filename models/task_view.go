package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnknownUserName is shown for references to users that no longer exist.
const UnknownUserName = "Unknown"

// UserRef is a resolved user reference. Email and CollegeName are only
// filled for assignees.
type UserRef struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email,omitempty"`
	CollegeName string             `json:"collegeName,omitempty"`
}

// TaskView is what callers receive: a task with every user id resolved.
type TaskView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	DueDate     *time.Time         `json:"dueDate,omitempty"`
	AssignedTo  []UserRef          `json:"assignedTo"`
	Progress    []ProgressView     `json:"progress"`
	Comments    []CommentView      `json:"comments"`
	CreatedAt   time.Time          `json:"createdAt"`
	EditedOn    *time.Time         `json:"editedOn,omitempty"`
	Version     int64              `json:"version"`
}

type ProgressView struct {
	Intern      UserRef    `json:"intern"`
	Status      string     `json:"status"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	Author    UserRef            `json:"author"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
	Replies   []ReplyView        `json:"replies"`
}

type ReplyView struct {
	ID        primitive.ObjectID `json:"id"`
	Author    UserRef            `json:"author"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}
