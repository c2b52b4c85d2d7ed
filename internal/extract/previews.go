package extract

import (
	"regexp"
	"strings"
)

var (
	screenshotArrayPattern = regexp.MustCompile(`var\s+rgFullScreenshotURLs\s*=\s*\[([\s\S]+?)\];`)
	screenshotURLPattern   = regexp.MustCompile(`['"]url['"]\s*:\s*['"]([^'"]+)['"]`)
	enlargedPreviewPattern = regexp.MustCompile(`ShowEnlargedImagePreview\(\s*'([^']+)'`)
	mainPreviewPattern     = regexp.MustCompile(`(?i)<img\s+id="previewImageMain"[^>]+src="([^"]+)"`)
)

type previewStrategy struct {
	name    string
	extract func(html string) []string
}

var previewStrategies = []previewStrategy{
	{name: StrategyScreenshotArray, extract: screenshotArrayURLs},
	{name: StrategyEnlargedPreviews, extract: enlargedPreviewURLs},
	{name: StrategyMainPreview, extract: mainPreviewURL},
}

// PreviewResult holds the image URLs found on a page, cover first.
type PreviewResult struct {
	URLs     []string
	Strategy string
}

// Previews returns the preview images of the page using the first strategy
// that finds any.
func Previews(html string) PreviewResult {
	for _, strategy := range previewStrategies {
		if urls := strategy.extract(html); len(urls) > 0 {
			return PreviewResult{URLs: urls, Strategy: strategy.name}
		}
	}
	return PreviewResult{Strategy: StrategyNone}
}

func screenshotArrayURLs(html string) []string {
	m := screenshotArrayPattern.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	var urls []string
	for _, u := range screenshotURLPattern.FindAllStringSubmatch(m[1], -1) {
		urls = append(urls, u[1])
	}
	return urls
}

func enlargedPreviewURLs(html string) []string {
	var urls []string
	for _, m := range enlargedPreviewPattern.FindAllStringSubmatch(html, -1) {
		// Some pages pass a preview id instead of a URL.
		if strings.HasPrefix(m[1], "http") {
			urls = append(urls, m[1])
		}
	}
	return urls
}

func mainPreviewURL(html string) []string {
	m := mainPreviewPattern.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	return []string{m[1]}
}
