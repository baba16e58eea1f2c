package tasks

import (
	"context"
	"path"
	"text2phenotype.com/compound/redis"
)

const JobsDB redis.DB = 1

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

// JobTask asks for the compound word report of one word list stored in S3.
type JobTask struct {
	JobID          string     `json:"job_id"`
	WordListKey    string     `json:"word_list_key"`
	UserCanceled   bool       `json:"user_canceled"`
	Status         TaskStatus `json:"status"`
	Attempts       int        `json:"attempts"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	ResultsFileKey string     `json:"results_file_key"`
	ErrorMessages  []string   `json:"error_messages"`
}

// ResultsKey is where the report of the job is stored.
func (task JobTask) ResultsKey() string {
	return path.Join("processed", "jobs", task.JobID, "compound_results.json")
}

type documentStore interface {
	GetDocument(ctx context.Context, redisKey string, doc interface{}) error
	UpdateDocument(ctx context.Context, redisKey string, doc interface{}, update func()) error
	Close() error
}

type JobTasks struct {
	client documentStore
}

func (tasks JobTasks) Get(ctx context.Context, redisKey string) (*JobTask, error) {
	var task JobTask
	if err := tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks JobTasks) Update(ctx context.Context, redisKey string, updateFunc func(task *JobTask)) error {
	var task JobTask
	return tasks.client.UpdateDocument(ctx, redisKey, &task, func() {
		updateFunc(&task)
	})
}
