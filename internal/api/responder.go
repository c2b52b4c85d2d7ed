package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/workshop-aggregator/internal/metrics"
	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

// Cache-Control directives attached to fresh successful responses.
const (
	BatchCacheControl   = "public, max-age=3600"
	CatalogCacheControl = "public, max-age=3600, s-maxage=3600"
)

// Pipeline produces the response for a cache miss.
type Pipeline func(ctx context.Context) (workshop.CachedResponse, error)

// CachingResponder answers from the response cache when possible. On a miss
// it runs the pipeline, writes the result and stores successful responses
// without delaying the caller.
type CachingResponder struct {
	cache        workshop.ResponseCache
	cacheControl string
	writeTimeout time.Duration
	logger       *zap.Logger

	pending sync.WaitGroup
}

// NewCachingResponder builds a CachingResponder.
func NewCachingResponder(
	cache workshop.ResponseCache,
	cacheControl string,
	writeTimeout time.Duration,
	logger *zap.Logger,
) *CachingResponder {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingResponder{
		cache:        cache,
		cacheControl: cacheControl,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// Serve writes the response for key, consulting the cache first.
func (c *CachingResponder) Serve(w http.ResponseWriter, r *http.Request, route, key string, run Pipeline) {
	ctx := r.Context()
	logger := c.logger.With(zap.String("route", route), zap.String("cache_key", key))

	cached, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed; treating as miss", zap.Error(err))
	}
	if ok {
		metrics.ObserveCacheLookup(route, metrics.CacheHit)
		writeResponse(w, cached)
		return
	}
	metrics.ObserveCacheLookup(route, metrics.CacheMiss)

	resp, err := runPipeline(ctx, run)
	if err != nil {
		status, msg := workshop.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("pipeline failed", zap.Int("status", status), zap.Error(err))
		} else {
			logger.Debug("pipeline rejected request", zap.Int("status", status), zap.Error(err))
		}
		writeResponse(w, errorResponse(status, msg))
		return
	}

	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	if resp.Status == http.StatusOK {
		resp.Header.Set("Cache-Control", c.cacheControl)
	}
	writeResponse(w, resp)

	if resp.Status == http.StatusOK {
		c.store(ctx, route, key, resp)
	}
}

// Wait blocks until all background cache writes have finished.
func (c *CachingResponder) Wait() {
	c.pending.Wait()
}

func (c *CachingResponder) store(ctx context.Context, route, key string, resp workshop.CachedResponse) {
	snapshot := workshop.CachedResponse{
		Status: resp.Status,
		Header: resp.Header.Clone(),
		Body:   append([]byte(nil), resp.Body...),
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.writeTimeout)
		defer cancel()
		if err := c.cache.Put(storeCtx, key, snapshot); err != nil {
			metrics.ObserveCacheStoreError(route)
			c.logger.Warn("cache store failed",
				zap.String("route", route),
				zap.String("cache_key", key),
				zap.Error(err),
			)
		}
	}()
}

func runPipeline(ctx context.Context, run Pipeline) (resp workshop.CachedResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pipeline panic: %v", rec)
		}
	}()
	return run(ctx)
}

func jsonResponse(status int, payload any) (workshop.CachedResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return workshop.CachedResponse{}, fmt.Errorf("encode response: %w", err)
	}
	return workshop.CachedResponse{
		Status: status,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   body,
	}, nil
}

func errorResponse(status int, msg string) workshop.CachedResponse {
	resp, err := jsonResponse(status, map[string]string{"error": msg})
	if err != nil {
		return workshop.CachedResponse{Status: status, Header: http.Header{}}
	}
	return resp
}

func writeResponse(w http.ResponseWriter, resp workshop.CachedResponse) {
	for k, values := range resp.Header {
		w.Header()[k] = append([]string(nil), values...)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) == 0 {
		return
	}
	if _, err := w.Write(resp.Body); err != nil {
		zap.L().Debug("write response failed", zap.Error(err))
	}
}
