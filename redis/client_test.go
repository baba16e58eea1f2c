package redis

import (
	"errors"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		LockExpirationSeconds: 3,
		LockRetries:           2,
		Host:                  "cache.local",
		Port:                  "6380",
		HASentinelPort:        "26379",
		HASentinelMasterName:  "primary",
		Password:              "secret",
		SocketTimeoutSeconds:  0.5,
	}
}

func TestOptions(t *testing.T) {
	opts := Options(testConfig(), 2)
	require.Equal(t, "cache.local:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, "secret", opts.Password)
}

func TestFailoverOptions(t *testing.T) {
	opts := FailoverOptions(testConfig(), 1)
	require.Equal(t, []string{"cache.local:26379"}, opts.SentinelAddrs)
	require.Equal(t, "primary", opts.MasterName)
	require.Equal(t, 500*time.Millisecond, opts.ReadTimeout)
	require.Equal(t, 1, opts.DB)
}

func TestNewClientWithConfig(t *testing.T) {
	client := NewClientWithConfig(testConfig(), 0)
	require.Equal(t, 3*time.Second, client.lockExpiration)
	require.Equal(t, 2, client.lockRetries)
	require.NoError(t, client.Close())
}

func TestTranslateError(t *testing.T) {
	require.Equal(t, ErrNotFound, translateError(redis.Nil))
	other := errors.New("connection refused")
	require.Equal(t, other, translateError(other))
	require.NoError(t, translateError(nil))
}

func TestLockKey(t *testing.T) {
	require.Equal(t, "lock:job-1", LockKey("job-1"))
}
