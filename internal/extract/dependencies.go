package extract

import (
	"regexp"
	"strings"
)

// ScopeWindow bounds how much text after a marker is searched for links.
const ScopeWindow = 5000

// Strategy names reported in results.
const (
	StrategyNone             = "none"
	StrategyRequiredItems    = "required_items_container"
	StrategyRequiredItemsID  = "required_items_id"
	StrategyScreenshotArray  = "screenshot_array"
	StrategyEnlargedPreviews = "enlarged_image_calls"
	StrategyMainPreview      = "main_preview_image"
)

const (
	requiredItemsMarker   = `<div class="requiredItemsContainer">`
	requiredItemsIDMarker = `id="RequiredItems"`
)

// stopMarkers open the page sections that follow the required-items block.
var stopMarkers = []string{
	`<div class="workshopItemDescriptionTitle">`,
	`<div id="Comments_Area">`,
	`<div class="see_all_collections">`,
	`<div class="game_area_purchase_game_wrapper">`,
	`<div style="clear: left;"></div>`,
	`<div class="share_block">`,
}

var itemLinkPattern = regexp.MustCompile(`href="[^"]*/filedetails/\?id=(\d+)`)

// scopeStrategy locates the region of the page that holds dependency links.
type scopeStrategy struct {
	name string
	find func(html string) (string, bool)
}

// dependencyScopes are tried in order. There is deliberately no
// whole-document entry.
var dependencyScopes = []scopeStrategy{
	{name: StrategyRequiredItems, find: requiredItemsContainerScope},
	{name: StrategyRequiredItemsID, find: requiredItemsIDScope},
}

// DependencyResult holds the identifiers found on a page.
type DependencyResult struct {
	IDs      []string
	Strategy string
	// ScopeFound is true when one of the scope markers was present.
	ScopeFound bool
}

// Dependencies returns the dependency identifiers listed on the page, in
// page order, deduplicated and excluding selfID.
func Dependencies(html, selfID string) DependencyResult {
	for _, strategy := range dependencyScopes {
		scope, ok := strategy.find(html)
		if !ok {
			continue
		}
		return DependencyResult{
			IDs:        linkedIDs(scope, selfID),
			Strategy:   strategy.name,
			ScopeFound: true,
		}
	}
	return DependencyResult{Strategy: StrategyNone}
}

func requiredItemsContainerScope(html string) (string, bool) {
	window, ok := windowAfter(html, requiredItemsMarker)
	if !ok {
		return "", false
	}
	end := len(window)
	for _, marker := range stopMarkers {
		if idx := strings.Index(window, marker); idx != -1 && idx < end {
			end = idx
		}
	}
	return window[:end], true
}

func requiredItemsIDScope(html string) (string, bool) {
	return windowAfter(html, requiredItemsIDMarker)
}

// windowAfter returns up to ScopeWindow bytes starting at marker.
func windowAfter(html, marker string) (string, bool) {
	start := strings.Index(html, marker)
	if start == -1 {
		return "", false
	}
	end := min(start+ScopeWindow, len(html))
	return html[start:end], true
}

func linkedIDs(scope, selfID string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, m := range itemLinkPattern.FindAllStringSubmatch(scope, -1) {
		id := m[1]
		if id == selfID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
