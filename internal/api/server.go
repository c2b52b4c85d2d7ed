package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/workshop-aggregator/internal/config"
	"github.com/JakeFAU/workshop-aggregator/internal/metrics"
	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

const maxBatchBodyBytes = 1 << 20

// Route names used for cache metrics and logs.
const (
	routeBatch  = "batch"
	routeDetail = "detail"
	routeList   = "list"
)

// Aggregator runs the pipelines behind each route.
type Aggregator interface {
	Batch(ctx context.Context, ids []string) ([]workshop.Item, error)
	Detail(ctx context.Context, id string) (workshop.DetailEnvelope, error)
	List(ctx context.Context, query workshop.CatalogQuery) ([]byte, error)
}

// Server wires HTTP handlers to the aggregation pipelines and the cache.
type Server struct {
	router  chi.Router
	svc     Aggregator
	batch   *CachingResponder
	catalog *CachingResponder
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	svc Aggregator,
	cache workshop.ResponseCache,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	writeTimeout := cfg.CacheWriteTimeout()
	s := &Server{
		svc:     svc,
		batch:   NewCachingResponder(cache, BatchCacheControl, writeTimeout, logger.Named("cache")),
		catalog: NewCachingResponder(cache, CatalogCacheControl, writeTimeout, logger.Named("cache")),
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))
	r.Use(corsMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/api/workshop/details", s.batchDetails)
	r.Options("/api/workshop/details", preflight("POST, OPTIONS"))

	r.Get("/list", s.list)
	r.Options("/list", preflight("GET, POST, OPTIONS"))
	r.Get("/detail", s.detail)
	r.Options("/detail", preflight("GET, POST, OPTIONS"))

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Wait blocks until background cache writes have completed.
func (s *Server) Wait() {
	s.batch.Wait()
	s.catalog.Wait()
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) batchDetails(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBatchBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	ids, err := workshop.ParseBatch(body)
	if err != nil {
		status, msg := workshop.HTTPStatus(err)
		writeError(w, status, msg)
		return
	}

	s.batch.Serve(w, r, routeBatch, workshop.BatchCacheKey(ids), func(ctx context.Context) (workshop.CachedResponse, error) {
		items, err := s.svc.Batch(ctx, ids)
		if err != nil {
			return workshop.CachedResponse{}, err
		}
		return jsonResponse(http.StatusOK, items)
	})
}

func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id parameter")
		return
	}

	s.catalog.Serve(w, r, routeDetail, workshop.RequestCacheKey(r), func(ctx context.Context) (workshop.CachedResponse, error) {
		env, err := s.svc.Detail(ctx, id)
		if err != nil {
			return workshop.CachedResponse{}, err
		}
		return jsonResponse(http.StatusOK, env)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	query, err := parseCatalogQuery(r)
	if err != nil {
		status, msg := workshop.HTTPStatus(err)
		writeError(w, status, msg)
		return
	}

	s.catalog.Serve(w, r, routeList, workshop.RequestCacheKey(r), func(ctx context.Context) (workshop.CachedResponse, error) {
		body, err := s.svc.List(ctx, query)
		if err != nil {
			return workshop.CachedResponse{}, err
		}
		return workshop.CachedResponse{
			Status: http.StatusOK,
			Header: http.Header{"Content-Type": {"application/json"}},
			Body:   body,
		}, nil
	})
}

func parseCatalogQuery(r *http.Request) (workshop.CatalogQuery, error) {
	params := r.URL.Query()
	query := workshop.CatalogQuery{
		Search: strings.TrimSpace(params.Get("q")),
		Page:   strings.TrimSpace(params.Get("page")),
		Sort:   workshop.CatalogSort(strings.TrimSpace(params.Get("sort"))),
	}

	switch query.Sort {
	case "":
		query.Sort = workshop.SortTrend
	case workshop.SortTrend, workshop.SortRecent, workshop.SortTop:
	default:
		return workshop.CatalogQuery{}, workshop.NewClientInputError("sort must be one of trend, recent, top")
	}

	if query.Page != "" {
		if n, err := strconv.Atoi(query.Page); err != nil || n < 0 {
			return workshop.CatalogQuery{}, workshop.NewClientInputError("page must be a non-negative integer")
		}
	}

	if raw := params.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}
	return query, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
