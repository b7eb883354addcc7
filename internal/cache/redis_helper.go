package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/config"
	"github.com/redis/go-redis/v9"
)

const defaultReportTTL = time.Minute

// connect dials redis from either REDIS_URL or host/port parts and verifies
// the connection with a bounded ping, so a dead redis is caught at startup
// rather than on the first request.
func connect(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ReportTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return client, ttl, nil
}

// dropByPrefix removes every key under prefix via SCAN, never KEYS.
func dropByPrefix(ctx context.Context, client *redis.Client, prefix string) error {
	iter := client.Scan(ctx, 0, prefix+"*", orderReportScanBatch).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}
