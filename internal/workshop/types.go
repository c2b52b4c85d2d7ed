package workshop

import (
	"encoding/json"
	"net/http"
)

// Result codes carried in the upstream "result" field.
const (
	// ResultDoNotDownload marks a record whose own file must not be fetched.
	ResultDoNotDownload = 0
	// ResultOK is the upstream success code.
	ResultOK = 1
)

// PreviewKind distinguishes image previews from other media.
type PreviewKind int

// PreviewKindImage is the only kind produced by HTML extraction.
const PreviewKindImage PreviewKind = 0

// ChildRef points at a dependency or collection member.
type ChildRef struct {
	PublishedFileID Identifier `json:"publishedfileid"`
}

// Tag is a single upstream tag entry.
type Tag struct {
	Tag string `json:"tag"`
}

// FileDetails is one record of the structured API's publishedfiledetails list.
type FileDetails struct {
	Result                int         `json:"result"`
	PublishedFileID       Identifier  `json:"publishedfileid"`
	Creator               string      `json:"creator,omitempty"`
	CreatorAppID          json.Number `json:"creator_app_id,omitempty"`
	ConsumerAppID         json.Number `json:"consumer_app_id,omitempty"`
	Filename              string      `json:"filename"`
	FileSize              json.Number `json:"file_size,omitempty"`
	FileURL               string      `json:"file_url"`
	HContentFile          string      `json:"hcontent_file,omitempty"`
	PreviewURL            string      `json:"preview_url"`
	HContentPreview       string      `json:"hcontent_preview,omitempty"`
	Title                 string      `json:"title"`
	Description           string      `json:"description,omitempty"`
	TimeCreated           int64       `json:"time_created"`
	TimeUpdated           int64       `json:"time_updated"`
	Visibility            int         `json:"visibility"`
	Banned                int         `json:"banned"`
	BanReason             string      `json:"ban_reason,omitempty"`
	Subscriptions         int64       `json:"subscriptions"`
	Favorited             int64       `json:"favorited"`
	LifetimeSubscriptions int64       `json:"lifetime_subscriptions"`
	LifetimeFavorited     int64       `json:"lifetime_favorited"`
	Views                 int64       `json:"views"`
	Tags                  []Tag       `json:"tags,omitempty"`
	Children              []ChildRef  `json:"children,omitempty"`
}

// Item is the normalized record returned by the batch endpoint. Its field
// set is fixed; upstream fields outside it are dropped.
type Item struct {
	Result          int         `json:"result"`
	PublishedFileID Identifier  `json:"publishedfileid"`
	Filename        string      `json:"filename"`
	FileSize        json.Number `json:"file_size,omitempty"`
	FileURL         string      `json:"file_url"`
	PreviewURL      string      `json:"preview_url"`
	Title           string      `json:"title"`
	Children        []ChildRef  `json:"children"`
}

// PreviewEntry is one preview media reference. Index 0 of a list is the cover.
type PreviewEntry struct {
	PreviewURL  string      `json:"preview_url"`
	PreviewType PreviewKind `json:"preview_type"`
}

// DetailRecord is a FileDetails record extended with an ordered preview list.
type DetailRecord struct {
	FileDetails
	Previews []PreviewEntry `json:"previews,omitempty"`
}

// DetailEnvelope mirrors the structured API's response envelope for a
// single-item detail lookup.
type DetailEnvelope struct {
	Response DetailResponse `json:"response"`
}

// DetailResponse is the body of DetailEnvelope.
type DetailResponse struct {
	Result               int            `json:"result"`
	ResultCount          int            `json:"resultcount"`
	PublishedFileDetails []DetailRecord `json:"publishedfiledetails"`
}

// NewDetailEnvelope wraps a single record in the upstream envelope shape.
func NewDetailEnvelope(record DetailRecord) DetailEnvelope {
	return DetailEnvelope{Response: DetailResponse{
		Result:               ResultOK,
		ResultCount:          1,
		PublishedFileDetails: []DetailRecord{record},
	}}
}

// PageResult is the outcome of the optional HTML fetch. Available is false
// whenever the page could not be retrieved for any reason.
type PageResult struct {
	HTML      string
	Available bool
}

// PageUnavailable is the sentinel result for a failed or skipped page fetch.
var PageUnavailable = PageResult{}

// PageOK wraps fetched HTML.
func PageOK(html string) PageResult {
	return PageResult{HTML: html, Available: true}
}

// CatalogSort is a validated catalog ordering.
type CatalogSort string

// Supported catalog orderings.
const (
	SortTrend  CatalogSort = "trend"
	SortRecent CatalogSort = "recent"
	SortTop    CatalogSort = "top"
)

// CatalogQuery carries the parameters of a catalog listing.
type CatalogQuery struct {
	Search string
	Page   string
	Sort   CatalogSort
	Tags   []string
}

// CachedResponse is an immutable snapshot of a response stored in the cache.
type CachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}
