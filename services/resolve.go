package services

import (
	"context"

	"intern-tracker/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolveTasks turns stored tasks into views, replacing every user id with a
// name from a single batched lookup. Users that no longer exist resolve to
// models.UnknownUserName; nothing is cleaned up in the task itself.
func resolveTasks(ctx context.Context, users UserStore, tasks []models.Task) ([]models.TaskView, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, t := range tasks {
		for _, id := range t.AssignedTo {
			add(id)
		}
		for _, p := range t.Progress {
			add(p.Intern)
		}
		for _, c := range t.Comments {
			add(c.Author)
			for _, r := range c.Replies {
				add(r.Author)
			}
		}
	}

	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("resolve users", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	assignee := func(id primitive.ObjectID) models.UserRef {
		u, ok := byID[id]
		if !ok {
			return models.UserRef{ID: id, Name: models.UnknownUserName}
		}
		return models.UserRef{ID: id, Name: u.Name, Email: u.Email, CollegeName: u.CollegeName}
	}
	author := func(id primitive.ObjectID) models.UserRef {
		u, ok := byID[id]
		if !ok {
			return models.UserRef{ID: id, Name: models.UnknownUserName}
		}
		return models.UserRef{ID: id, Name: u.Name}
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		v := models.TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			EditedOn:    t.EditedOn,
			Version:     t.Version,
			AssignedTo:  make([]models.UserRef, 0, len(t.AssignedTo)),
			Progress:    make([]models.ProgressView, 0, len(t.Progress)),
			Comments:    make([]models.CommentView, 0, len(t.Comments)),
		}
		for _, id := range t.AssignedTo {
			v.AssignedTo = append(v.AssignedTo, assignee(id))
		}
		// Each entry carries its own intern id, so the pairing never depends
		// on array positions.
		for _, p := range t.Progress {
			v.Progress = append(v.Progress, models.ProgressView{
				Intern:      assignee(p.Intern),
				Status:      p.Status,
				UpdatedAt:   p.UpdatedAt,
				CompletedAt: p.CompletedAt,
			})
		}
		for _, c := range t.Comments {
			cv := models.CommentView{
				ID:        c.ID,
				Author:    author(c.Author),
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
				Replies:   make([]models.ReplyView, 0, len(c.Replies)),
			}
			for _, r := range c.Replies {
				cv.Replies = append(cv.Replies, models.ReplyView{
					ID:        r.ID,
					Author:    author(r.Author),
					Text:      r.Text,
					CreatedAt: r.CreatedAt,
				})
			}
			v.Comments = append(v.Comments, cv)
		}
		views = append(views, v)
	}
	return views, nil
}
