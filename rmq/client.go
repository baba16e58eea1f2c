package rmq

import (
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/compound/logger"
)

type Config struct {
	Host                    string `envconfig:"COMPOUND_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"COMPOUND_RMQ_PORT" default:"5672"`
	Username                string `envconfig:"COMPOUND_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"COMPOUND_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"COMPOUND_RMQ_EXCHANGE" default:"compound-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"COMPOUND_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue               string `envconfig:"COMPOUND_TASK_QUEUE" default:"compound-tasks"`
	ReplyQueue              string `envconfig:"COMPOUND_REPLY_QUEUE" default:"compound-replies"`
}

// Client consumes job messages on one connection and publishes replies on
// another, so a blocked publisher never stalls consumption.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	rmqLogger      *zerolog.Logger
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := GetURL(config)
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	deliveries, err := consume(reqChannel, config)
	if err != nil {
		_ = respConn.Close()
		_ = reqConn.Close()
		return nil, err
	}
	rmqLogger.Info().
		Str("task_queue", config.TaskQueue).
		Str("reply_queue", config.ReplyQueue).
		Msg("Consuming job messages")

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChannel.NotifyClose(make(chan *amqp.Error)),
		RespChanErrors: respChannel.NotifyClose(make(chan *amqp.Error)),
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		rmqLogger:      &rmqLogger,
	}, nil
}

func consume(reqChannel *amqp.Channel, config Config) (<-chan amqp.Delivery, error) {
	q, err := reqChannel.QueueDeclare(
		config.TaskQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", config.TaskQueue, err)
	}
	if err := reqChannel.QueueBind(q.Name, q.Name, config.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", q.Name, err)
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}
	deliveries, err := reqChannel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	return deliveries, nil
}

func (c *Client) SendReply(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.ReplyQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func GetURL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
