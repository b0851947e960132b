package redis

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/config"
)

func testConfig(host, port string) *config.Config {
	cfg := &config.Config{}
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	cfg.Redis.PoolSize = 2
	return cfg
}

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewConnection(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewConnection(testConfig(mr.Host(), mr.Port()), quiet())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))
	require.NoError(t, client.GetClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewConnection_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewConnection(testConfig(host, port), quiet())
	assert.ErrorContains(t, err, "failed to connect to Redis at "+host+":"+port)
}
