// Package merge folds HTML-derived signals into structured API records.
package merge

import (
	"strings"

	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// Items projects upstream records onto the outward Item shape. When exactly
// one identifier was requested, scraped dependencies are appended to that
// record's children. Records that end up with children but whose own file is
// an image are marked ResultDoNotDownload. Inputs are never modified.
func Items(details []workshop.FileDetails, requested []string, scraped []string) []workshop.Item {
	items := make([]workshop.Item, 0, len(details))
	for _, d := range details {
		item := project(d)
		if len(requested) == 1 && d.PublishedFileID.String() == requested[0] {
			item.Children = appendDependencies(item.Children, d.PublishedFileID, scraped)
		}
		if len(item.Children) > 0 && isImageFile(item.Filename) {
			item.Result = workshop.ResultDoNotDownload
		}
		items = append(items, item)
	}
	return items
}

func project(d workshop.FileDetails) workshop.Item {
	children := make([]workshop.ChildRef, 0, len(d.Children))
	for _, c := range d.Children {
		children = append(children, workshop.ChildRef{PublishedFileID: c.PublishedFileID})
	}
	return workshop.Item{
		Result:          d.Result,
		PublishedFileID: d.PublishedFileID,
		Filename:        d.Filename,
		FileSize:        d.FileSize,
		FileURL:         d.FileURL,
		PreviewURL:      d.PreviewURL,
		Title:           d.Title,
		Children:        children,
	}
}

func appendDependencies(children []workshop.ChildRef, self workshop.Identifier, scraped []string) []workshop.ChildRef {
	present := make(map[workshop.Identifier]struct{}, len(children)+1)
	present[self] = struct{}{}
	for _, c := range children {
		present[c.PublishedFileID] = struct{}{}
	}
	for _, raw := range scraped {
		id := workshop.Identifier(strings.TrimSpace(raw))
		if id == "" {
			continue
		}
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		children = append(children, workshop.ChildRef{PublishedFileID: id})
	}
	return children
}

func isImageFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Detail attaches preview entries to a single record. Extracted images
// replace the record's previews and the first one becomes preview_url;
// without images the API's own preview_url, if any, becomes the only entry.
func Detail(details workshop.FileDetails, images []string) workshop.DetailRecord {
	record := workshop.DetailRecord{FileDetails: details}
	record.Tags = append([]workshop.Tag(nil), details.Tags...)
	record.Children = append([]workshop.ChildRef(nil), details.Children...)

	if len(images) > 0 {
		record.Previews = make([]workshop.PreviewEntry, 0, len(images))
		for _, u := range images {
			record.Previews = append(record.Previews, workshop.PreviewEntry{
				PreviewURL:  u,
				PreviewType: workshop.PreviewKindImage,
			})
		}
		record.PreviewURL = images[0]
		return record
	}
	if record.PreviewURL != "" {
		record.Previews = []workshop.PreviewEntry{{
			PreviewURL:  record.PreviewURL,
			PreviewType: workshop.PreviewKindImage,
		}}
	}
	return record
}
