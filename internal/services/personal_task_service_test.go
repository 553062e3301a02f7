package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studytracker/internal/repository"
)

func TestPersonalTasks_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	service := NewPersonalTaskService(repository.NewPersonalTaskRepository(db))

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	task, err := service.Create(CreatePersonalTaskInput{Title: "buy milk", UserID: alice.ID})
	require.NoError(t, err)

	// Another user cannot see, edit or delete it.
	_, err = service.Get(task.ID, bob.ID)
	require.ErrorIs(t, err, ErrPersonalTaskNotFound)

	newTitle := "stolen"
	_, err = service.Update(task.ID, bob.ID, UpdatePersonalTaskInput{Title: &newTitle})
	require.ErrorIs(t, err, ErrPersonalTaskNotFound)

	err = service.Delete(task.ID, bob.ID)
	require.ErrorIs(t, err, ErrPersonalTaskNotFound)

	bobTasks, err := service.List(bob.ID)
	require.NoError(t, err)
	require.Empty(t, bobTasks)

	aliceTasks, err := service.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTasks, 1)
}

func TestPersonalTasks_UpdateAndDone(t *testing.T) {
	db := setupTestDB(t)
	service := NewPersonalTaskService(repository.NewPersonalTaskRepository(db))

	alice := createUser(t, db, "alice")

	task, err := service.Create(CreatePersonalTaskInput{
		Title:       "buy milk",
		Description: "2 liters",
		UserID:      alice.ID,
	})
	require.NoError(t, err)
	require.False(t, task.IsDone)

	newTitle := "buy oat milk"
	updated, err := service.Update(task.ID, alice.ID, UpdatePersonalTaskInput{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, newTitle, updated.Title)
	require.Equal(t, "2 liters", updated.Description)

	done, err := service.SetDone(task.ID, alice.ID, true)
	require.NoError(t, err)
	require.True(t, done.IsDone)

	require.NoError(t, service.Delete(task.ID, alice.ID))

	tasks, err := service.List(alice.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}
