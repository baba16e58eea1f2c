package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"time"
)

type DB int
type ReleaseLock func() error

// ErrNotFound is returned for keys that hold no document.
var ErrNotFound = errors.New("redis: document not found")

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
	lockRetries    int
}

type Config struct {
	LockExpirationSeconds int     `envconfig:"COMPOUND_REDIS_LOCK_EXPIRATION" default:"3"`
	LockRetries           int     `envconfig:"COMPOUND_REDIS_LOCK_RETRIES" default:"20"`
	Host                  string  `envconfig:"COMPOUND_REDIS_HOST" required:"true"`
	Port                  string  `envconfig:"COMPOUND_REDIS_PORT" default:"6379"`
	HASentinelPort        string  `envconfig:"COMPOUND_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName  string  `envconfig:"COMPOUND_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password              string  `envconfig:"COMPOUND_REDIS_AUTH_PASSWORD" default:""`
	HAMode                bool    `envconfig:"COMPOUND_REDIS_HA_MODE" default:"false"`
	SocketTimeoutSeconds  float32 `envconfig:"COMPOUND_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}
	return NewClientWithConfig(&cfg, db), nil
}

func NewClientWithConfig(cfg *Config, db DB) Client {
	var client redis.UniversalClient
	if cfg.HAMode {
		client = redis.NewFailoverClient(FailoverOptions(cfg, db))
	} else {
		client = redis.NewClient(Options(cfg, db))
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
		lockRetries:    cfg.LockRetries,
	}
}

func FailoverOptions(cfg *Config, db DB) *redis.FailoverOptions {
	timeout := time.Duration(float64(cfg.SocketTimeoutSeconds) * float64(time.Second))
	return &redis.FailoverOptions{
		SentinelAddrs: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)},
		MasterName:    cfg.HASentinelMasterName,
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		Password:      cfg.Password,
	}
}

func Options(cfg *Config, db DB) *redis.Options {
	return &redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: 6,
		DB:         int(db),
		Password:   cfg.Password,
	}
}

// GetDocument decodes the JSON document at redisKey into doc.
func (client *Client) GetDocument(ctx context.Context, redisKey string, doc interface{}) error {
	b, err := client.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		return translateError(err)
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return fmt.Errorf("decode %s: %w", redisKey, err)
	}
	return nil
}

func (client *Client) SaveDocument(ctx context.Context, redisKey string, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return translateError(client.client.Set(ctx, redisKey, b, 0).Err())
}

// UpdateDocument reads the document into doc, calls update and writes doc
// back, all under the key's lock.
func (client *Client) UpdateDocument(ctx context.Context, redisKey string, doc interface{}, update func()) (err error) {
	releaseLock, err := client.Lock(ctx, redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()
	if err = client.GetDocument(ctx, redisKey, doc); err != nil {
		return err
	}
	update()
	return client.SaveDocument(ctx, redisKey, doc)
}

func (client *Client) Lock(ctx context.Context, redisKey string) (ReleaseLock, error) {
	locker := redislock.New(client.client)
	strategy := redislock.LimitRetry(redislock.LinearBackoff(time.Second), client.lockRetries)
	lock, err := locker.Obtain(ctx, LockKey(redisKey), client.lockExpiration, &redislock.Options{RetryStrategy: strategy})
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", redisKey, err)
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func LockKey(redisKey string) string {
	return fmt.Sprintf("lock:%s", redisKey)
}

func (client *Client) Close() error {
	return client.client.Close()
}

func translateError(err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	return err
}
