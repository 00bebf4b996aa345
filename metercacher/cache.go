// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercacher provides metered cache implementations.
package metercacher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Cache wraps a Cacher with metrics. Like the cache it wraps, it is not safe
// for concurrent use; wrap the metered cache, not the inner one, when a lock
// is needed.
type Cache[K comparable, V any] struct {
	lrucache.Cacher[K, V]
	metrics *cacheMetrics
	log     logrus.FieldLogger
}

// Option configures a metered cache.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger that reports evictions at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New creates a new metered cache wrapper. The wrapper is usable even when
// registering the metrics fails.
func New[K comparable, V any](
	namespace string,
	registry prometheus.Registerer,
	c lrucache.Cacher[K, V],
	opts ...Option,
) (*Cache[K, V], error) {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	metrics, err := newMetrics(namespace, registry)
	return &Cache[K, V]{
		Cacher:  c,
		metrics: metrics,
		log:     o.log.WithField("cache", namespace),
	}, err
}

func (c *Cache[K, V]) Put(key K, value V) {
	existed := c.Cacher.Contains(key)
	before := c.Cacher.Len()

	start := time.Now()
	c.Cacher.Put(key, value)
	putDuration := time.Since(start)

	// The size difference, corrected for the put key itself entering or
	// leaving the cache, is the number of other entries evicted.
	after := c.Cacher.Len()
	evicted := before - after
	if c.Cacher.Contains(key) {
		evicted++
	}
	if existed {
		evicted--
	}
	if evicted > 0 {
		c.metrics.evictCount.Add(float64(evicted))
		c.log.WithFields(logrus.Fields{
			"evicted": evicted,
			"len":     after,
		}).Debug("evicted least recently used entries")
	}

	c.metrics.putCount.Inc()
	c.metrics.putTime.Add(float64(putDuration))
	c.updateFill()
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := c.Cacher.Get(key)
	getDuration := time.Since(start)

	if has {
		c.metrics.getCount.With(hitLabels).Inc()
		c.metrics.getTime.With(hitLabels).Add(float64(getDuration))
	} else {
		c.metrics.getCount.With(missLabels).Inc()
		c.metrics.getTime.With(missLabels).Add(float64(getDuration))
	}

	return value, has
}

func (c *Cache[K, V]) Remove(key K) (V, bool) {
	value, has := c.Cacher.Remove(key)
	if has {
		c.metrics.removeCount.Inc()
	}
	c.updateFill()
	return value, has
}

func (c *Cache[_, _]) Flush() {
	c.Cacher.Flush()
	c.updateFill()
}

func (c *Cache[_, _]) updateFill() {
	c.metrics.len.Set(float64(c.Cacher.Len()))
	c.metrics.portionFilled.Set(c.Cacher.PortionFilled())
}
