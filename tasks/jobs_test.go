package tasks

import (
	"context"
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
	"text2phenotype.com/compound/redis"
)

type memoryStore struct {
	docs map[string][]byte
}

func (store *memoryStore) GetDocument(ctx context.Context, redisKey string, doc interface{}) error {
	b, ok := store.docs[redisKey]
	if !ok {
		return redis.ErrNotFound
	}
	return json.Unmarshal(b, doc)
}

func (store *memoryStore) UpdateDocument(ctx context.Context, redisKey string, doc interface{}, update func()) error {
	if err := store.GetDocument(ctx, redisKey, doc); err != nil {
		return err
	}
	update()
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	store.docs[redisKey] = b
	return nil
}

func (store *memoryStore) Close() error {
	return nil
}

func TestJobTasks(t *testing.T) {
	store := &memoryStore{docs: map[string][]byte{
		"job-1": []byte(`{"job_id": "job-1", "word_list_key": "lists/words.txt", "status": "submitted", "extra": 1}`),
	}}
	jobs := JobTasks{client: store}
	ctx := context.Background()

	task, err := jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "lists/words.txt", task.WordListKey)
	require.Equal(t, TaskStatusSubmitted, task.Status)

	err = jobs.Update(ctx, "job-1", func(task *JobTask) {
		task.Status = TaskStatusStarted
		task.Attempts++
	})
	require.NoError(t, err)

	task, err = jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, TaskStatusStarted, task.Status)
	require.Equal(t, 1, task.Attempts)

	_, err = jobs.Get(ctx, "job-2")
	require.Equal(t, redis.ErrNotFound, err)
	require.Error(t, jobs.Update(ctx, "job-2", func(task *JobTask) {}))
}

func TestTaskStatusComplete(t *testing.T) {
	require.True(t, TaskStatusCompletedSuccess.Complete())
	require.True(t, TaskStatusCompletedFailure.Complete())
	require.True(t, TaskStatusCanceled.Complete())
	require.False(t, TaskStatusStarted.Complete())
	require.False(t, TaskStatusFailed.Complete())
	require.False(t, TaskStatusSubmitted.Complete())
}

func TestResultsKey(t *testing.T) {
	require.Equal(t, "processed/jobs/job-1/compound_results.json", JobTask{JobID: "job-1"}.ResultsKey())
}
