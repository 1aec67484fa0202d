package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	hits   int
	misses int
}

func (m *cacheMetricsTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *cacheMetricsTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) IncCacheHits()                                    { m.hits++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *cacheMetricsTestMetrics) IncCycles(_ string)                               {}
func (m *cacheMetricsTestMetrics) ObserveQueryDuration(_ time.Duration)             {}
func (m *cacheMetricsTestMetrics) SetProgress(_ uint32)                             {}
func (m *cacheMetricsTestMetrics) IncHostsWrites(_ string)                          {}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}
func (c *cacheMetricsTestInner) Del(key string) {
	delete(c.data, key)
}

func TestMetricsCacheProvider_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestMetricsCacheProvider_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMetricsCacheProvider_SetAndDelDelegate(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	cache := &MetricsCacheProvider{inner: inner, metrics: &cacheMetricsTestMetrics{}}

	cache.Set("key2", []byte("val2"))
	val, ok := inner.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, []byte("val2"), val)

	cache.Del("key2")
	_, ok = inner.Get("key2")
	assert.False(t, ok)
}

func TestNewInstrumentedCacheProvider(t *testing.T) {
	metrics := &cacheMetricsTestMetrics{}

	disabled := NewInstrumentedCacheProvider(cacheConfig(false, 1, 2), &cacheTestLogger{}, metrics)
	assert.IsType(t, &noopCache{}, disabled)
	disabled.Get("x")
	assert.Equal(t, 0, metrics.misses)

	enabled := NewInstrumentedCacheProvider(cacheConfig(true, 1, 2), &cacheTestLogger{}, metrics)
	assert.IsType(t, &MetricsCacheProvider{}, enabled)
	enabled.Get("x")
	assert.Equal(t, 1, metrics.misses)
}
