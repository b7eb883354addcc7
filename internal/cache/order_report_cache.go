package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/config"
	"github.com/coldbrew-labs/franchise-inventory/internal/forecast"
	"github.com/redis/go-redis/v9"
)

const (
	orderReportKeyPrefix = "order_report"
	orderReportScanBatch = 100
)

// ReportKey identifies one computed order-suggestion report. Two requests
// with the same tuning knobs for the same tenant share a cache slot.
type ReportKey struct {
	CompanyID      int64
	HorizonDays    int
	ThresholdDays  int
	IncludePending bool
	MarginalRule   bool
}

// OrderReportCache memoizes SelectItemsToOrder results. Snapshot, supply and
// order writes for a company must invalidate its slots.
type OrderReportCache interface {
	Get(ctx context.Context, key ReportKey) ([]forecast.Suggestion, bool, error)
	Set(ctx context.Context, key ReportKey, items []forecast.Suggestion) error
	InvalidateCompany(ctx context.Context, companyID int64) error
	InvalidateAll(ctx context.Context) error
}

type redisOrderReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopOrderReportCache struct{}

func NewOrderReportCache(cfg config.CacheConfig) (OrderReportCache, error) {
	if !cfg.Enabled {
		return &noopOrderReportCache{}, nil
	}

	client, ttl, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOrderReportCache{client: client, ttl: ttl}, nil
}

func NewNoopOrderReportCache() OrderReportCache {
	return &noopOrderReportCache{}
}

func (c *redisOrderReportCache) Get(ctx context.Context, key ReportKey) ([]forecast.Suggestion, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var items []forecast.Suggestion
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("decode order report cache: %w", err)
	}

	return items, true, nil
}

func (c *redisOrderReportCache) Set(ctx context.Context, key ReportKey, items []forecast.Suggestion) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode order report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisOrderReportCache) InvalidateCompany(ctx context.Context, companyID int64) error {
	prefix := fmt.Sprintf("%s:%d:", orderReportKeyPrefix, companyID)
	return dropByPrefix(ctx, c.client, prefix)
}

func (c *redisOrderReportCache) InvalidateAll(ctx context.Context) error {
	return dropByPrefix(ctx, c.client, orderReportKeyPrefix+":")
}

func (n *noopOrderReportCache) Get(ctx context.Context, key ReportKey) ([]forecast.Suggestion, bool, error) {
	return nil, false, nil
}

func (n *noopOrderReportCache) Set(ctx context.Context, key ReportKey, items []forecast.Suggestion) error {
	return nil
}

func (n *noopOrderReportCache) InvalidateCompany(ctx context.Context, companyID int64) error {
	return nil
}

func (n *noopOrderReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(key ReportKey) string {
	return fmt.Sprintf("%s:%d:h%d:t%d:p%t:m%t",
		orderReportKeyPrefix, key.CompanyID, key.HorizonDays, key.ThresholdDays,
		key.IncludePending, key.MarginalRule)
}
