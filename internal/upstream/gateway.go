package upstream

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

// Fetched is the joined outcome of one gateway call.
type Fetched struct {
	Details []workshop.FileDetails
	Page    workshop.PageResult
}

// Gateway issues the structured API call and the item page fetch
// concurrently.
type Gateway struct {
	details workshop.DetailsAPI
	pages   workshop.PageFetcher
}

// NewGateway builds a Gateway.
func NewGateway(details workshop.DetailsAPI, pages workshop.PageFetcher) *Gateway {
	return &Gateway{details: details, pages: pages}
}

// Fetch loads the records for ids. When withPage is set and exactly one id
// is requested, the item page is fetched in parallel; its failure only
// leaves Page unavailable.
func (g *Gateway) Fetch(ctx context.Context, ids []string, withPage bool) (Fetched, error) {
	var out Fetched
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		details, err := g.details.GetPublishedFileDetails(gctx, ids)
		if err != nil {
			return fmt.Errorf("fetch details: %w", err)
		}
		out.Details = details
		return nil
	})

	if withPage && len(ids) == 1 && g.pages != nil {
		group.Go(func() error {
			out.Page = g.pages.FetchPage(gctx, ids[0])
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Fetched{}, err
	}
	return out, nil
}
