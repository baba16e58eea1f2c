package rmq

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestGetURL(t *testing.T) {
	url := GetURL(Config{Host: "mq.local", Port: "5673", Username: "guest", Password: "pw"})
	require.Equal(t, "amqp://guest:pw@mq.local:5673", url)
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv("COMPOUND_RMQ_HOST", "mq.local")
	t.Setenv("COMPOUND_RMQ_USERNAME", "guest")
	t.Setenv("COMPOUND_RMQ_PASSWORD", "guest")

	var config Config
	require.NoError(t, envconfig.Process("", &config))
	require.Equal(t, "5672", config.Port)
	require.Equal(t, "compound-tasks", config.TaskQueue)
	require.Equal(t, "compound-replies", config.ReplyQueue)
	require.Equal(t, 5, config.MaxParallelRequestCount)
}
