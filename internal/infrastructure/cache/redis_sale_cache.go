package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/pkg/config"
)

const keyPrefix = "ventas:registrada:"

// kv subconjunto de comandos Redis usados por la caché.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSaleCache guarda las claves de ventas confirmadas con TTL.
type RedisSaleCache struct {
	client kv
	closer func() error
	ttl    time.Duration
}

var _ ports.SaleKeyCache = (*RedisSaleCache)(nil)

// NewRedisSaleCache conecta a Redis y verifica la conexión con PING.
func NewRedisSaleCache(ctx context.Context, cfg config.RedisConfig) (*RedisSaleCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar redis %s: %w", cfg.Addr, err)
	}
	return &RedisSaleCache{client: client, closer: client.Close, ttl: cfg.SaleTTL}, nil
}

// NewWithClient envuelve un cliente existente.
func NewWithClient(client kv, ttl time.Duration) *RedisSaleCache {
	return &RedisSaleCache{client: client, ttl: ttl}
}

// Lookup indica si la clave ya fue registrada. redis.Nil es un fallo de caché, no un error.
func (c *RedisSaleCache) Lookup(ctx context.Context, saleID string) (bool, error) {
	err := c.client.Get(ctx, keyPrefix+saleID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("redis get: %w", err)
	}
}

// Remember marca la clave como registrada durante el TTL configurado.
func (c *RedisSaleCache) Remember(ctx context.Context, saleID string) error {
	if err := c.client.Set(ctx, keyPrefix+saleID, "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close cierra la conexión si la caché la creó.
func (c *RedisSaleCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
