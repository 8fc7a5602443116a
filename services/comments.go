package services

import (
	"context"
	"fmt"
	"strings"

	"intern-tracker/logging"
	"intern-tracker/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddComment appends a comment to the task thread. Any authenticated caller
// may comment; assignment is not checked.
func (s *TaskService) AddComment(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, text string) (*models.TaskView, error) {
	if err := Authorize(caller, ActionComment); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid("comment text is required")
	}
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.Comments = append(task.Comments, models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    caller.ID,
		Text:      text,
		CreatedAt: s.now().UTC(),
		Replies:   []models.Reply{},
	})

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: COMMENT_ADDED, Description: %s commented on task %s", caller.ID.Hex(), task.ID.Hex())
	return s.view(ctx, task)
}

// AddReply appends an admin reply to one comment.
func (s *TaskService) AddReply(ctx context.Context, caller models.Caller, taskID, commentID primitive.ObjectID, text string) (*models.TaskView, error) {
	if err := Authorize(caller, ActionReply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid("reply text is required")
	}
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	comment := task.Comment(commentID)
	if comment == nil {
		return nil, notFound("comment not found")
	}

	comment.Replies = append(comment.Replies, models.Reply{
		ID:        primitive.NewObjectID(),
		Author:    caller.ID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	})
	author := comment.Author

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: REPLY_ADDED, Description: %s replied to comment %s on task %s", caller.ID.Hex(), commentID.Hex(), task.ID.Hex())

	if author != caller.ID {
		s.notifier.Notify(ctx, author, task.ID, fmt.Sprintf("New reply to your comment on %q", task.Title))
	}
	return s.view(ctx, task)
}
