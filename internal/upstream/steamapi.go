// Package upstream talks to the structured metadata API and joins it with
// the optional item page fetch.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/workshop-aggregator/internal/metrics"
	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

const (
	detailsPath = "/ISteamRemoteStorage/GetPublishedFileDetails/v1/"
	queryPath   = "/IPublishedFileService/QueryFiles/v1/"

	maxBodyBytes = 8 << 20
)

// QueryFiles query_type values.
const (
	queryTypeRankedByVote            = "0"
	queryTypeRankedByPublicationDate = "1"
	queryTypeRankedByTrend           = "3"
	queryTypeRankedByTextSearch      = "12"
)

// APIConfig configures the structured API client.
type APIConfig struct {
	BaseURL  string
	APIKey   string
	AppID    int
	PageSize int
}

// Client calls the structured metadata and catalog query endpoints.
type Client struct {
	cfg    APIConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a Client. A nil httpClient falls back to a client with a
// 15 second timeout.
func NewClient(cfg APIConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

type detailsEnvelope struct {
	Response *struct {
		Result               int                     `json:"result"`
		ResultCount          int                     `json:"resultcount"`
		PublishedFileDetails *[]workshop.FileDetails `json:"publishedfiledetails"`
	} `json:"response"`
}

// GetPublishedFileDetails fetches the records for ids in one POST.
func (c *Client) GetPublishedFileDetails(ctx context.Context, ids []string) ([]workshop.FileDetails, error) {
	form := url.Values{}
	if c.cfg.APIKey != "" {
		form.Set("key", c.cfg.APIKey)
	}
	form.Set("itemcount", strconv.Itoa(len(ids)))
	for i, id := range ids {
		form.Set(fmt.Sprintf("publishedfileids[%d]", i), id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+detailsPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build details request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, metrics.UpstreamDetails)
	if err != nil {
		return nil, err
	}

	var env detailsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Warn("details api returned undecodable body", zap.Error(err))
		return nil, &workshop.UpstreamError{Service: metrics.UpstreamDetails, Message: "invalid response from upstream"}
	}
	if env.Response == nil || env.Response.PublishedFileDetails == nil {
		return nil, &workshop.UpstreamError{Service: metrics.UpstreamDetails, Message: "invalid response from upstream"}
	}
	return *env.Response.PublishedFileDetails, nil
}

// QueryFiles runs a catalog listing and returns the upstream JSON verbatim.
func (c *Client) QueryFiles(ctx context.Context, query workshop.CatalogQuery) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+queryPath+"?"+c.queryParams(query).Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	body, err := c.do(req, metrics.UpstreamCatalog)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &workshop.UpstreamError{Service: metrics.UpstreamCatalog, Message: "invalid response from upstream"}
	}
	return bytes.TrimSpace(body), nil
}

func (c *Client) queryParams(query workshop.CatalogQuery) url.Values {
	params := url.Values{}
	if c.cfg.APIKey != "" {
		params.Set("key", c.cfg.APIKey)
	}
	params.Set("appid", strconv.Itoa(c.cfg.AppID))
	params.Set("return_details", "true")
	params.Set("numperpage", strconv.Itoa(c.cfg.PageSize))
	params.Set("cache_max_age_seconds", "300")

	if query.Search != "" {
		params.Set("search_text", query.Search)
		params.Set("query_type", queryTypeRankedByTextSearch)
	} else {
		params.Set("query_type", sortQueryType(query.Sort))
	}

	page := query.Page
	if page == "" {
		page = "0"
	}
	params.Set("page", page)

	if len(query.Tags) > 0 {
		for i, tag := range query.Tags {
			params.Set(fmt.Sprintf("requiredtags[%d]", i), tag)
		}
		params.Set("match_all_tags", "true")
	}
	return params
}

func sortQueryType(sort workshop.CatalogSort) string {
	switch sort {
	case workshop.SortRecent:
		return queryTypeRankedByPublicationDate
	case workshop.SortTop:
		return queryTypeRankedByVote
	default:
		return queryTypeRankedByTrend
	}
}

func (c *Client) do(req *http.Request, service string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(service, "error", time.Since(start))
		return nil, fmt.Errorf("%s request: %w", service, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close upstream body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.ObserveUpstream(service, "bad_status", time.Since(start))
		return nil, &workshop.UpstreamError{Service: service, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ObserveUpstream(service, "error", time.Since(start))
		return nil, fmt.Errorf("%s read body: %w", service, err)
	}
	metrics.ObserveUpstream(service, "ok", time.Since(start))
	return body, nil
}
