package worker

import (
	"text2phenotype.com/compound/s3client"
	"text2phenotype.com/compound/source"
)

type s3Transactions interface {
	getWordList(task *Task) ([]string, error)
	saveResultsFile(task *Task, result string) error
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {
	wrapper.s3Client.Close()
}

func (wrapper *s3ClientWrapper) getWordList(task *Task) ([]string, error) {
	src := &source.S3{Key: task.jobTask.WordListKey, Client: wrapper.s3Client}
	return src.Load(ctx)
}

func (wrapper *s3ClientWrapper) saveResultsFile(task *Task, result string) error {
	_, err := wrapper.s3Client.Upload(result, task.jobTask.ResultsKey())
	return err
}
