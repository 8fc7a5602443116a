package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddCommentByAnyAuthenticatedUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice, outsider := f.intern("alice"), f.intern("outsider")
	created, err := f.svc.Create(ctx, f.admin, CreateTaskInput{Title: "T", InternIDs: []primitive.ObjectID{alice.ID}})
	require.NoError(t, err)

	_, err = f.svc.AddComment(ctx, alice, created.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, outsider, created.ID, "second")
	require.NoError(t, err)
	view, err := f.svc.AddComment(ctx, f.admin, created.ID, "third")
	require.NoError(t, err)

	require.Len(t, view.Comments, 3)
	assert.Equal(t, "first", view.Comments[0].Text)
	assert.Equal(t, "alice", view.Comments[0].Author.Name)
	assert.Empty(t, view.Comments[0].Author.Email)
	assert.Equal(t, "outsider", view.Comments[1].Author.Name)
	assert.Equal(t, "Ada Admin", view.Comments[2].Author.Name)
	assert.NotEqual(t, view.Comments[0].ID, view.Comments[1].ID)
	assert.NotNil(t, view.Comments[2].Replies)
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.admin, CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	_, err = f.svc.AddComment(ctx, f.admin, created.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddComment(ctx, f.admin, primitive.NewObjectID(), "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.tasks.stored(created.ID).Comments)
}

func TestAddReplyUnknownCommentLeavesThreadAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.intern("alice")
	created, err := f.svc.Create(ctx, f.admin, CreateTaskInput{Title: "T", InternIDs: []primitive.ObjectID{alice.ID}})
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, alice, created.ID, "question")
	require.NoError(t, err)
	before := f.tasks.stored(created.ID)

	_, err = f.svc.AddReply(ctx, f.admin, created.ID, primitive.NewObjectID(), "answer")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before.Comments, f.tasks.stored(created.ID).Comments)
	assert.Equal(t, before.Version, f.tasks.stored(created.ID).Version)
}

func TestAddReplyIsAdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.intern("alice")
	created, err := f.svc.Create(ctx, f.admin, CreateTaskInput{Title: "T", InternIDs: []primitive.ObjectID{alice.ID}})
	require.NoError(t, err)
	view, err := f.svc.AddComment(ctx, alice, created.ID, "question")
	require.NoError(t, err)

	_, err = f.svc.AddReply(ctx, alice, created.ID, view.Comments[0].ID, "self answer")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.AddReply(ctx, f.admin, created.ID, view.Comments[0].ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.tasks.stored(created.ID).Comments[0].Replies)
}

func TestAddReplyNotifiesCommentAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.intern("alice")
	created, err := f.svc.Create(ctx, f.admin, CreateTaskInput{Title: "T"})
	require.NoError(t, err)
	view, err := f.svc.AddComment(ctx, alice, created.ID, "question")
	require.NoError(t, err)
	adminComment, err := f.svc.AddComment(ctx, f.admin, created.ID, "note to self")
	require.NoError(t, err)

	_, err = f.svc.AddReply(ctx, f.admin, created.ID, view.Comments[0].ID, "answer")
	require.NoError(t, err)
	_, err = f.svc.AddReply(ctx, f.admin, created.ID, adminComment.Comments[1].ID, "self reply")
	require.NoError(t, err)

	assert.Equal(t, []primitive.ObjectID{alice.ID}, f.notifier.recipients())
}
