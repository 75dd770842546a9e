package redisclient

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	req := require.New(t)

	p := NewPool("127.0.0.1:6379", "")
	req.Equal(defaultMaxIdle, p.MaxIdle)
	req.Equal(defaultMaxConns, p.MaxActive)
	req.True(p.Wait)

	p = NewPool("127.0.0.1:6379", "secret", RedisParam{PoolMultiplier: 4})
	cpu := runtime.NumCPU()
	req.Equal(cpu+1, p.MaxIdle)
	req.Equal(cpu*4+1, p.MaxActive)
}

func TestConnectRedisFailsWithoutRetry(t *testing.T) {
	// nothing listens on port 1
	_, err := ConnectRedis("127.0.0.1:1", "")
	require.Error(t, err)
}
