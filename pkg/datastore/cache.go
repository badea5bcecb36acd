package datastore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mediflora-ai/platform/pkg/common/logger"
	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/query"
	"github.com/redis/go-redis/v9"
)

const (
	studiesCacheKey = "corpus:studies"
	casesCacheKey   = "corpus:cases"
	alertsCacheKey  = "corpus:alerts"
)

// Cache is a redis read-through layer over another DataStore. Condition
// searches are parameterized per query and bypass the cache.
type Cache struct {
	inner query.DataStore
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCache(inner query.DataStore, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *Cache) GetStudies(ctx context.Context) ([]models.Study, error) {
	var studies []models.Study
	if c.lookup(ctx, studiesCacheKey, &studies) {
		return studies, nil
	}

	studies, err := c.inner.GetStudies(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, studiesCacheKey, studies)
	return studies, nil
}

func (c *Cache) GetCases(ctx context.Context) ([]models.ClinicalCase, error) {
	var cases []models.ClinicalCase
	if c.lookup(ctx, casesCacheKey, &cases) {
		return cases, nil
	}

	cases, err := c.inner.GetCases(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, casesCacheKey, cases)
	return cases, nil
}

func (c *Cache) GetAlerts(ctx context.Context) ([]models.RegulatoryAlert, error) {
	var alerts []models.RegulatoryAlert
	if c.lookup(ctx, alertsCacheKey, &alerts) {
		return alerts, nil
	}

	alerts, err := c.inner.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, alertsCacheKey, alerts)
	return alerts, nil
}

func (c *Cache) SearchByCondition(ctx context.Context, q string) (*models.ConditionSearchResult, error) {
	return c.inner.SearchByCondition(ctx, q)
}

// Invalidate drops the cached corpus, forcing the next read through to
// postgres. Called when a records-updated event arrives.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, studiesCacheKey, casesCacheKey, alertsCacheKey).Err()
}

func (c *Cache) lookup(ctx context.Context, key string, out interface{}) bool {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("key", key).Warn("corpus cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("corpus cache entry corrupt")
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("corpus cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("corpus cache write failed")
	}
}
