package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "config:fee", FeeConfig)
	assert.Equal(t, "healthcheck:testset", RedisKey(PfxHealthCheck, "testset"))
	assert.Equal(t, "a|b", CustomKey("|", "a", "b"))
}

func TestGetPrefix(t *testing.T) {
	assert.Equal(t, "", GetPrefix("plain"))
	assert.Equal(t, "config", GetPrefix("config:fee"))
	assert.Equal(t, "a:b", GetPrefix("a:b:c:d"))
}
