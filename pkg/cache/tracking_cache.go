// Package cache provides a Redis-backed cache for public tracking lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"logitrack/internal/models"

	"github.com/go-redis/redis/v8"
)

// trackingTTL bounds staleness between a status write and the next
// invalidation; tracking data is read-heavy and tolerant of short lag.
const trackingTTL = 5 * time.Minute

// TrackingCache caches tracking projections keyed by tracking number.
type TrackingCache struct {
	client *redis.Client
}

// NewTrackingCache connects to Redis and verifies the connection.
func NewTrackingCache(ctx context.Context, addr string) (*TrackingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return &TrackingCache{client: client}, nil
}

// Close releases the underlying connection pool.
func (c *TrackingCache) Close() error {
	return c.client.Close()
}

func trackingKey(trackingNumber string) string {
	return "tracking:" + trackingNumber
}

// GetTracking returns the cached projection, or nil on a miss.
func (c *TrackingCache) GetTracking(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error) {
	data, err := c.client.Get(ctx, trackingKey(trackingNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var info models.TrackingInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetTracking stores the projection with a short TTL.
func (c *TrackingCache) SetTracking(ctx context.Context, info *models.TrackingInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, trackingKey(info.TrackingNumber), data, trackingTTL).Err()
}

// InvalidateTracking drops the cached projection after a status change.
func (c *TrackingCache) InvalidateTracking(ctx context.Context, trackingNumber string) error {
	return c.client.Del(ctx, trackingKey(trackingNumber)).Err()
}
