package worker

import (
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"sync"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/pipeline"
	"text2phenotype.com/compound/rmq"
	"text2phenotype.com/compound/s3client"
	"text2phenotype.com/compound/tasks"
)

type Config struct {
	TaskMaxRetries int `envconfig:"COMPOUND_TASK_MAX_RETRIES" default:"3"`
}

// connectors open fresh clients for the worker.
type connectors struct {
	redis func() (redisTransactions, error)
	s3    func() (s3Transactions, error)
	rmq   func() (rmqTransactions, error)
}

func serviceConnectors() connectors {
	return connectors{
		redis: func() (redisTransactions, error) {
			tasksClient, err := tasks.NewClient()
			if err != nil {
				return nil, err
			}
			return &redisClientWrapper{&tasksClient}, nil
		},
		s3: func() (s3Transactions, error) {
			s3Client, err := s3client.New()
			if err != nil {
				return nil, err
			}
			return &s3ClientWrapper{s3Client}, nil
		},
		rmq: func() (rmqTransactions, error) {
			rmqClient, err := rmq.NewClient()
			if err != nil {
				return nil, err
			}
			return &rmqClientWrapper{rmqClient}, nil
		},
	}
}

// Worker turns job messages into compound reports. Each delivery is handled
// in its own goroutine; inFlight tracks them so the broker client is only
// replaced or closed once they are done with it.
type Worker struct {
	config       Config
	connect      connectors
	redis        redisTransactions
	s3           s3Transactions
	rmq          rmqTransactions
	inFlight     sync.WaitGroup
	workerLogger *zerolog.Logger
	ppln         pipeline.Pipeline
}

func New(ppln pipeline.Pipeline) (*Worker, error) {
	workerLogger := logger.NewLogger("Worker")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		workerLogger.Err(err).Msg("Could not read config")
		return nil, err
	}
	return newWorker(config, ppln, serviceConnectors(), &workerLogger)
}

func newWorker(config Config, ppln pipeline.Pipeline, connect connectors, workerLogger *zerolog.Logger) (*Worker, error) {
	worker := &Worker{
		config:       config,
		connect:      connect,
		workerLogger: workerLogger,
		ppln:         ppln,
	}
	if err := worker.connectAll(); err != nil {
		worker.Close()
		return nil, err
	}
	return worker, nil
}

func (worker *Worker) connectAll() error {
	var err error
	if worker.rmq, err = worker.connect.rmq(); err != nil {
		worker.workerLogger.Err(err).Msg("Could not connect to RMQ")
		return fmt.Errorf("connect rmq: %w", err)
	}
	if worker.s3, err = worker.connect.s3(); err != nil {
		worker.workerLogger.Err(err).Msg("Could not create S3 client")
		return fmt.Errorf("connect s3: %w", err)
	}
	if worker.redis, err = worker.connect.redis(); err != nil {
		worker.workerLogger.Err(err).Msg("Could not connect to Redis")
		return fmt.Errorf("connect redis: %w", err)
	}
	worker.workerLogger.Info().Msg("Connected RMQ, S3 and Redis clients")
	return nil
}

// StartWorker dispatches deliveries until the broker connection is lost and
// can not be opened again. Deliveries already dispatched finish first.
func (worker *Worker) StartWorker() error {
	defer worker.Close()
	defer worker.inFlight.Wait()
	for {
		if err := worker.awaitEvent(); err != nil {
			worker.workerLogger.Err(err).Msg("Worker stopped")
			return err
		}
	}
}

// awaitEvent handles one delivery or one broker notification.
func (worker *Worker) awaitEvent() error {
	select {
	case delivery, ok := <-worker.rmq.getDeliveriesCh():
		if !ok {
			return worker.reconnectRMQ("deliveries channel closed")
		}
		worker.inFlight.Add(1)
		go func() {
			defer worker.inFlight.Done()
			worker.processMessage(&delivery)
		}()
		return nil
	case amqpErr, ok := <-worker.rmq.getReqChanErrorsCh():
		return worker.reconnectRMQ(describeClose("request", amqpErr, ok))
	case amqpErr, ok := <-worker.rmq.getRespChanErrorsCh():
		return worker.reconnectRMQ(describeClose("response", amqpErr, ok))
	}
}

func describeClose(channel string, amqpErr *amqp.Error, ok bool) string {
	if !ok || amqpErr == nil {
		return fmt.Sprintf("%s channel closed", channel)
	}
	return fmt.Sprintf("%s channel closed: %s", channel, amqpErr.Error())
}

// reconnectRMQ swaps in a new broker client. Running deliveries still reply
// and acknowledge through the old one, so it is closed after they finish.
func (worker *Worker) reconnectRMQ(reason string) error {
	worker.workerLogger.Warn().Str("reason", reason).Msg("Reconnecting to RMQ")
	worker.inFlight.Wait()

	fresh, err := worker.connect.rmq()
	if err != nil {
		return fmt.Errorf("%s and reconnecting failed: %w", reason, err)
	}
	stale := worker.rmq
	worker.rmq = fresh
	stale.close()
	worker.workerLogger.Info().Msg("Reconnected to RMQ")
	return nil
}

// Close releases the clients that were opened.
func (worker *Worker) Close() {
	if worker.redis != nil {
		worker.redis.close()
	}
	if worker.s3 != nil {
		worker.s3.close()
	}
	if worker.rmq != nil {
		worker.rmq.close()
	}
}
