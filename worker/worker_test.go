package worker

import (
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/tasks"
	"time"
)

const jobMessage = `{"work_type": "compound", "redis_key": "job-1"}`

var (
	taskRun     = []string{"getJobTask", "onTaskStarted", "getWordList", "run", "saveResultsFile", "onTaskComplete"}
	replyAndAck = []string{"sendReply", "acknowledgeDelivery"}
)

func steps(groups ...[]string) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func testWorker(fake *fakeClients) *Worker {
	workerLogger := logger.NewLogger("Test Worker")
	return &Worker{
		config:       Config{TaskMaxRetries: 3},
		redis:        fake,
		s3:           fake,
		rmq:          fake,
		workerLogger: &workerLogger,
		ppln:         fake.run,
	}
}

func deliver(fake *fakeClients, body string) []string {
	testWorker(fake).processMessage(&amqp.Delivery{Body: []byte(body)})
	return fake.recorded()
}

func TestProcessMessage(t *testing.T) {
	var testCases = []struct {
		name    string
		body    string
		jobTask *tasks.JobTask
		failing []string
		panics  bool
		want    []string
	}{
		{
			name: "successful",
			want: steps(taskRun, replyAndAck),
		},
		{
			name: "malformed message",
			body: "not json",
			want: []string{"rejectDelivery"},
		},
		{
			name:    "job task lookup fails",
			failing: []string{"getJobTask"},
			want:    []string{"getJobTask", "rejectDelivery"},
		},
		{
			name:    "already completed with success",
			jobTask: &tasks.JobTask{WordListKey: "w.txt", Status: tasks.TaskStatusCompletedSuccess},
			want:    steps([]string{"getJobTask"}, replyAndAck),
		},
		{
			name:    "already completed with failure",
			jobTask: &tasks.JobTask{WordListKey: "w.txt", Status: tasks.TaskStatusCompletedFailure},
			want:    steps([]string{"getJobTask"}, replyAndAck),
		},
		{
			name:    "canceled by user",
			jobTask: &tasks.JobTask{WordListKey: "w.txt", UserCanceled: true},
			want:    steps([]string{"getJobTask", "onTaskCancelled"}, replyAndAck),
		},
		{
			name:    "no word list",
			jobTask: &tasks.JobTask{JobID: "job-1"},
			want:    steps([]string{"getJobTask", "onTaskCancelled"}, replyAndAck),
		},
		{
			name:    "cancel update fails",
			jobTask: &tasks.JobTask{WordListKey: "w.txt", UserCanceled: true},
			failing: []string{"onTaskCancelled"},
			want:    []string{"getJobTask", "onTaskCancelled", "rejectDelivery"},
		},
		{
			name:    "retries exceeded",
			jobTask: &tasks.JobTask{WordListKey: "w.txt", Attempts: 3},
			want:    steps([]string{"getJobTask", "onTaskExceededRetries"}, replyAndAck),
		},
		{
			name:    "start update fails",
			failing: []string{"onTaskStarted"},
			want:    []string{"getJobTask", "onTaskStarted", "rejectDelivery"},
		},
		{
			name:    "word list download fails",
			failing: []string{"getWordList"},
			want:    steps([]string{"getJobTask", "onTaskStarted", "getWordList", "onTaskFailedWithError"}, replyAndAck),
		},
		{
			name:    "pipeline returns nothing",
			failing: []string{"run"},
			want:    steps([]string{"getJobTask", "onTaskStarted", "getWordList", "run", "onTaskFailedWithError"}, replyAndAck),
		},
		{
			name:   "pipeline panics",
			panics: true,
			want:   steps([]string{"getJobTask", "onTaskStarted", "getWordList", "run", "onTaskFailedWithError"}, replyAndAck),
		},
		{
			name:    "failure update fails",
			failing: []string{"run", "onTaskFailedWithError"},
			want:    []string{"getJobTask", "onTaskStarted", "getWordList", "run", "onTaskFailedWithError", "rejectDelivery"},
		},
		{
			name:    "results upload fails",
			failing: []string{"saveResultsFile"},
			want:    steps([]string{"getJobTask", "onTaskStarted", "getWordList", "run", "saveResultsFile", "onTaskFailedWithError"}, replyAndAck),
		},
		{
			name:    "complete update fails",
			failing: []string{"onTaskComplete"},
			want:    steps(taskRun, []string{"rejectDelivery"}),
		},
		{
			name:    "reply fails",
			failing: []string{"sendReply"},
			want:    steps(taskRun, []string{"sendReply", "rejectDelivery"}),
		},
		{
			name:    "acknowledge fails",
			failing: []string{"acknowledgeDelivery"},
			want:    steps(taskRun, replyAndAck),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeClients(tc.failing...)
			fake.pipelinePanics = tc.panics
			if tc.jobTask != nil {
				fake.jobTask = *tc.jobTask
			}
			body := tc.body
			if body == "" {
				body = jobMessage
			}
			require.Equal(t, tc.want, deliver(fake, body))
		})
	}
}

func TestPipelinePanicIsRecordedOnTask(t *testing.T) {
	fake := newFakeClients()
	fake.pipelinePanics = true
	deliver(fake, jobMessage)
	require.Len(t, fake.taskErrors, 1)
	require.Contains(t, fake.taskErrors[0], "recovered from panic: pipeline exploded")
}

func TestNewWorkerClosesPartialConnections(t *testing.T) {
	clients := newFakeClients()
	broker := newFakeClients()
	connect, _ := connectorsFor(clients, broker)
	connect.s3 = func() (s3Transactions, error) { return nil, errUnreachable }

	workerLogger := logger.NewLogger("Test Worker")
	worker, err := newWorker(Config{TaskMaxRetries: 3}, clients.run, connect, &workerLogger)
	require.Nil(t, worker)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "connect s3"))
	require.Equal(t, 1, broker.closed())
	require.Equal(t, 0, clients.closed())
}

func TestStartWorkerReconnectsAfterDeliveriesClose(t *testing.T) {
	clients := newFakeClients()

	first := newFakeClients()
	first.deliveries = make(chan amqp.Delivery, 1)
	first.deliveries <- amqp.Delivery{Body: []byte(jobMessage)}
	close(first.deliveries)

	second := newFakeClients()
	second.deliveries = make(chan amqp.Delivery)
	close(second.deliveries)

	connect, opened := connectorsFor(clients, first, second)
	workerLogger := logger.NewLogger("Test Worker")
	worker, err := newWorker(Config{TaskMaxRetries: 3}, clients.run, connect, &workerLogger)
	require.NoError(t, err)

	err = worker.StartWorker()
	require.Error(t, err)
	require.Contains(t, err.Error(), "deliveries channel closed and reconnecting failed")
	// the initial broker plus two reconnect attempts
	require.Equal(t, 3, *opened)

	// the delivery of the first broker was replied and acknowledged through it
	require.Equal(t, replyAndAck, first.recorded())
	require.Equal(t, []string{"getJobTask", "onTaskStarted", "getWordList", "run", "saveResultsFile", "onTaskComplete"}, clients.recorded())
	require.Equal(t, 1, first.closed())
	require.Equal(t, 1, second.closed())
	require.Equal(t, 2, clients.closed())
}

func TestStartWorkerReconnectsAfterChannelError(t *testing.T) {
	for _, side := range []string{"request", "response"} {
		t.Run(side, func(t *testing.T) {
			clients := newFakeClients()
			broker := newFakeClients()
			errs := make(chan *amqp.Error, 1)
			errs <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "broker restarted"}
			if side == "request" {
				broker.reqErrors = errs
			} else {
				broker.respErrors = errs
			}

			connect, opened := connectorsFor(clients, broker)
			workerLogger := logger.NewLogger("Test Worker")
			worker, err := newWorker(Config{TaskMaxRetries: 3}, clients.run, connect, &workerLogger)
			require.NoError(t, err)

			done := make(chan error, 1)
			go func() { done <- worker.StartWorker() }()
			select {
			case err = <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("worker did not stop")
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), side+" channel closed")
			require.Contains(t, err.Error(), "broker restarted")
			require.Equal(t, 2, *opened)
			require.Equal(t, 1, broker.closed())
			require.Empty(t, broker.recorded())
		})
	}
}

func TestTimestamp(t *testing.T) {
	defer func(orig func() time.Time) { now = orig }(now)
	now = func() time.Time {
		return time.Date(2021, 3, 4, 5, 6, 7, 891011000, time.FixedZone("EST", -5*3600))
	}
	require.Equal(t, "2021-03-04T10:06:07.891011+00:00", *timestamp())
}
