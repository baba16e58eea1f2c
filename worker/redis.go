package worker

import (
	"context"
	"fmt"
	"text2phenotype.com/compound/tasks"
	"time"
)

// RFC3339Micro is the timestamp layout of job task documents.
const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

var ctx = context.Background()

var now = time.Now

func timestamp() *string {
	ts := now().UTC().Format(RFC3339Micro)
	return &ts
}

type redisTransactions interface {
	getJobTask(redisKey string) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) getJobTask(redisKey string) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.Get(ctx, redisKey)
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.redisKey, func(jobTask *tasks.JobTask) {
		jobTask.Status = tasks.TaskStatusStarted
		jobTask.Attempts += 1
		jobTask.StartedAt = timestamp()
		jobTask.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.redisKey, func(jobTask *tasks.JobTask) {
		jobTask.Status = tasks.TaskStatusCanceled
		jobTask.CompletedAt = timestamp()
		jobTask.ErrorMessages = append(jobTask.ErrorMessages, errorMessages...)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.redisKey, func(jobTask *tasks.JobTask) {
		jobTask.Status = tasks.TaskStatusCompletedFailure
		jobTask.CompletedAt = timestamp()
		jobTask.ErrorMessages = append(
			jobTask.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d)",
				jobTask.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.redisKey, func(jobTask *tasks.JobTask) {
		jobTask.Status = tasks.TaskStatusFailed
		jobTask.CompletedAt = timestamp()
		jobTask.ErrorMessages = append(jobTask.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Jobs.Update(ctx, task.redisKey, func(jobTask *tasks.JobTask) {
		if !jobTask.Status.Complete() {
			jobTask.Status = tasks.TaskStatusCompletedSuccess
		}
		jobTask.CompletedAt = timestamp()
		jobTask.ResultsFileKey = jobTask.ResultsKey()
	})
}
