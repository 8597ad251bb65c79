package cache

import (
	"context"
	"strings"
	"testing"
)

func TestKeyUsesPrefix(t *testing.T) {
	c := &RedisCache{prefix: "bot"}

	if got := c.key("https://example.com/trades.json"); got != "bot:baseline:https://example.com/trades.json" {
		t.Errorf("key() = %q", got)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}
	if !strings.Contains(err.Error(), "redis ping") {
		t.Errorf("error = %v, want redis ping failure", err)
	}
}
