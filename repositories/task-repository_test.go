package repositories

import (
	"context"
	"testing"
	"time"

	"intern-tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func taskDoc(id, intern primitive.ObjectID, title string, version int64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "assignedTo", Value: bson.A{intern}},
		{Key: "progress", Value: bson.A{bson.D{
			{Key: "intern", Value: intern},
			{Key: "status", Value: models.StatusNotStarted},
		}}},
		{Key: "createdAt", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Key: "version", Value: version},
	}
}

func TestTaskRepositoryFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		id, intern := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, taskDoc(id, intern, "Write report", 3)))

		task, err := repo.FindByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, "Write report", task.Title)
		assert.Equal(mt, int64(3), task.Version)
		assert.Equal(mt, []primitive.ObjectID{intern}, task.AssignedTo)
		assert.Equal(mt, intern, task.Progress[0].Intern)
		assert.NotNil(mt, task.Comments, "missing arrays are normalized")
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("driver error", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query"}))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestTaskRepositoryFindByAssignee(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes every document", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		intern := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			taskDoc(primitive.NewObjectID(), intern, "a", 1),
			taskDoc(primitive.NewObjectID(), intern, "b", 1),
		))

		tasks, err := repo.FindByAssignee(context.Background(), intern)
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, "a", tasks[0].Title)
		assert.Equal(mt, "b", tasks[1].Title)
	})

	mt.Run("empty result is not nil", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		tasks, err := repo.FindAll(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, tasks)
		assert.Empty(mt, tasks)
	})
}

func TestTaskRepositoryInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns an id", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		task := &models.Task{Title: "T", Version: 1}
		require.NoError(mt, repo.Insert(context.Background(), task))
		assert.False(mt, task.ID.IsZero())
	})
}

func TestTaskRepositoryReplace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matching version", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		task := &models.Task{ID: primitive.NewObjectID(), Title: "T", Version: 2}
		assert.NoError(mt, repo.Replace(context.Background(), task, 1))
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		task := &models.Task{ID: primitive.NewObjectID(), Title: "T", Version: 2}
		assert.ErrorIs(mt, repo.Replace(context.Background(), task, 1), ErrVersionConflict)
	})

	mt.Run("missing document", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
		)

		task := &models.Task{ID: primitive.NewObjectID(), Title: "T", Version: 2}
		assert.ErrorIs(mt, repo.Replace(context.Background(), task, 1), ErrNotFound)
	})
}

func TestTaskRepositoryDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("nothing to delete", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID()), ErrNotFound)
	})
}
