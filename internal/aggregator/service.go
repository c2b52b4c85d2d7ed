// Package aggregator runs the batch, detail and catalog pipelines: upstream
// fetch, HTML signal extraction and record merging.
package aggregator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/workshop-aggregator/internal/extract"
	"github.com/JakeFAU/workshop-aggregator/internal/merge"
	"github.com/JakeFAU/workshop-aggregator/internal/metrics"
	"github.com/JakeFAU/workshop-aggregator/internal/upstream"
	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

// Fetcher is the upstream gateway used by the pipelines.
type Fetcher interface {
	Fetch(ctx context.Context, ids []string, withPage bool) (upstream.Fetched, error)
}

// Service runs the aggregation pipelines.
type Service struct {
	gateway Fetcher
	catalog workshop.CatalogAPI
	logger  *zap.Logger
}

// New builds a Service.
func New(gateway Fetcher, catalog workshop.CatalogAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, catalog: catalog, logger: logger}
}

// Batch resolves ids into normalized items. Single-id batches are enriched
// with dependencies scraped from the item page.
func (s *Service) Batch(ctx context.Context, ids []string) ([]workshop.Item, error) {
	if len(ids) == 0 {
		return nil, workshop.NewClientInputError("payload must be a non-empty array of identifiers")
	}
	fetched, err := s.gateway.Fetch(ctx, ids, true)
	if err != nil {
		return nil, fmt.Errorf("batch %d ids: %w", len(ids), err)
	}

	var scraped []string
	if len(ids) == 1 {
		scraped = s.scrapeDependencies(fetched.Page, ids[0])
	}
	return merge.Items(fetched.Details, ids, scraped), nil
}

func (s *Service) scrapeDependencies(page workshop.PageResult, selfID string) []string {
	if !page.Available {
		s.logger.Debug("dependency scrape skipped",
			zap.String("id", selfID),
			zap.String("reason", "page unavailable"),
		)
		return nil
	}
	deps := extract.Dependencies(page.HTML, selfID)
	metrics.ObserveExtraction("dependencies", deps.Strategy)
	s.logger.Debug("dependency scrape",
		zap.String("id", selfID),
		zap.Int("html_length", len(page.HTML)),
		zap.Bool("scope_found", deps.ScopeFound),
		zap.String("strategy", deps.Strategy),
		zap.Strings("scraped", deps.IDs),
	)
	return deps.IDs
}

// Detail resolves one item with its preview gallery.
func (s *Service) Detail(ctx context.Context, id string) (workshop.DetailEnvelope, error) {
	if id == "" {
		return workshop.DetailEnvelope{}, workshop.NewClientInputError("Missing id parameter")
	}
	fetched, err := s.gateway.Fetch(ctx, []string{id}, true)
	if err != nil {
		return workshop.DetailEnvelope{}, fmt.Errorf("detail %s: %w", id, err)
	}
	if len(fetched.Details) == 0 {
		return workshop.DetailEnvelope{}, fmt.Errorf("detail %s: %w", id, workshop.ErrItemNotFound)
	}

	var images []string
	if fetched.Page.Available {
		previews := extract.Previews(fetched.Page.HTML)
		metrics.ObserveExtraction("previews", previews.Strategy)
		s.logger.Debug("preview scrape",
			zap.String("id", id),
			zap.String("strategy", previews.Strategy),
			zap.Int("images", len(previews.URLs)),
		)
		images = previews.URLs
	}
	return workshop.NewDetailEnvelope(merge.Detail(fetched.Details[0], images)), nil
}

// List runs a catalog query and returns the upstream body unchanged.
func (s *Service) List(ctx context.Context, query workshop.CatalogQuery) ([]byte, error) {
	body, err := s.catalog.QueryFiles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return body, nil
}
