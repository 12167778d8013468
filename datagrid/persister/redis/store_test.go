package redis

import (
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer func() { _ = client.Close() }()

	s := NewStore(client)
	assert.Equal(t, "datagrid_products", s.key("products"))
	assert.Equal(t, 15*time.Minute, s.expiration)

	s = NewStore(client, WithPrefix("admin"), WithExpiration(time.Hour))
	assert.Equal(t, "admin_products", s.key("products"))
	assert.Equal(t, time.Hour, s.expiration)
}
