package worker

import (
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"sync"
	"text2phenotype.com/compound/pipeline"
	"text2phenotype.com/compound/tasks"
)

// fakeClients stands in for Redis, S3, RMQ and the pipeline at once and
// records the order in which the worker used them.
type fakeClients struct {
	mu      sync.Mutex
	calls   []string
	failing map[string]bool

	jobTask        tasks.JobTask
	words          []string
	result         string
	pipelinePanics bool
	taskErrors     []string

	deliveries  chan amqp.Delivery
	reqErrors   chan *amqp.Error
	respErrors  chan *amqp.Error
	closedCount int
}

func newFakeClients(failing ...string) *fakeClients {
	fake := &fakeClients{
		failing: make(map[string]bool),
		jobTask: tasks.JobTask{JobID: "job-1", WordListKey: "lists/words.txt"},
		words:   []string{"cat", "dog", "catdog"},
		result:  `{"compoundCount": 1}`,
	}
	for _, method := range failing {
		fake.failing[method] = true
	}
	return fake
}

func (fake *fakeClients) record(method string) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.calls = append(fake.calls, method)
	if fake.failing[method] {
		return fmt.Errorf("fake %s failed", method)
	}
	return nil
}

func (fake *fakeClients) recorded() []string {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return append([]string(nil), fake.calls...)
}

func (fake *fakeClients) closed() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.closedCount
}

func (fake *fakeClients) close() {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.closedCount++
}

// run is the pipeline; "run" in failing makes it close without a result.
func (fake *fakeClients) run(request pipeline.Request) <-chan string {
	err := fake.record("run")
	if fake.pipelinePanics {
		panic("pipeline exploded")
	}
	ch := make(chan string, 1)
	if err == nil {
		ch <- fake.result
	}
	close(ch)
	return ch
}

func (fake *fakeClients) getJobTask(redisKey string) (*tasks.JobTask, error) {
	if err := fake.record("getJobTask"); err != nil {
		return nil, err
	}
	jobTask := fake.jobTask
	return &jobTask, nil
}

func (fake *fakeClients) onTaskStarted(task *Task) error {
	return fake.record("onTaskStarted")
}

func (fake *fakeClients) onTaskCancelled(task *Task, errorMessages ...string) error {
	return fake.record("onTaskCancelled")
}

func (fake *fakeClients) onTaskExceededRetries(task *Task, maxRetries int) error {
	return fake.record("onTaskExceededRetries")
}

func (fake *fakeClients) onTaskFailedWithError(task *Task, err error) error {
	fake.mu.Lock()
	fake.taskErrors = append(fake.taskErrors, err.Error())
	fake.mu.Unlock()
	return fake.record("onTaskFailedWithError")
}

func (fake *fakeClients) onTaskComplete(task *Task) error {
	return fake.record("onTaskComplete")
}

func (fake *fakeClients) getWordList(task *Task) ([]string, error) {
	if err := fake.record("getWordList"); err != nil {
		return nil, err
	}
	return fake.words, nil
}

func (fake *fakeClients) saveResultsFile(task *Task, result string) error {
	return fake.record("saveResultsFile")
}

func (fake *fakeClients) sendReply(task *Task, message Message) error {
	return fake.record("sendReply")
}

func (fake *fakeClients) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return fake.record("acknowledgeDelivery")
}

func (fake *fakeClients) rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger) {
	_ = fake.record("rejectDelivery")
}

func (fake *fakeClients) getDeliveriesCh() <-chan amqp.Delivery {
	return fake.deliveries
}

func (fake *fakeClients) getReqChanErrorsCh() <-chan *amqp.Error {
	return fake.reqErrors
}

func (fake *fakeClients) getRespChanErrorsCh() <-chan *amqp.Error {
	return fake.respErrors
}

var errUnreachable = errors.New("broker unreachable")

// connectorsFor hands out brokers in order and fails once they run out.
func connectorsFor(clients *fakeClients, brokers ...*fakeClients) (connectors, *int) {
	opened := 0
	return connectors{
		redis: func() (redisTransactions, error) { return clients, nil },
		s3:    func() (s3Transactions, error) { return clients, nil },
		rmq: func() (rmqTransactions, error) {
			opened++
			if opened > len(brokers) {
				return nil, errUnreachable
			}
			return brokers[opened-1], nil
		},
	}, &opened
}
