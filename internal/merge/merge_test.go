package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/workshop-aggregator/internal/workshop"
)

func children(ids ...string) []workshop.ChildRef {
	out := make([]workshop.ChildRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, workshop.ChildRef{PublishedFileID: workshop.Identifier(id)})
	}
	return out
}

func TestItemsAppendsScrapedDependencies(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{{
		Result:          workshop.ResultOK,
		PublishedFileID: "123",
		Filename:        "mod.vpk",
		Title:           "Mod",
		Description:     "dropped",
		Children:        children("5"),
	}}

	got := Items(details, []string{"123"}, []string{"5", "6", "7"})
	require.Len(t, got, 1)
	require.Equal(t, children("5", "6", "7"), got[0].Children)
	require.Equal(t, workshop.ResultOK, got[0].Result)
	require.Len(t, details[0].Children, 1, "input must not be modified")
}

func TestItemsNeverAddsSelfReference(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{{PublishedFileID: "123", Filename: "mod.vpk"}}
	got := Items(details, []string{"123"}, []string{"123", " 123 ", "9"})
	require.Equal(t, children("9"), got[0].Children)
}

func TestItemsIgnoresScrapedForBatches(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{
		{PublishedFileID: "1", Filename: "a.vpk"},
		{PublishedFileID: "2", Filename: "b.vpk"},
	}
	got := Items(details, []string{"1", "2"}, []string{"3"})
	for _, item := range got {
		require.NotNil(t, item.Children)
		require.Empty(t, item.Children)
	}
}

func TestItemsOnlyEnrichesMatchingRecord(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{
		{PublishedFileID: "77", Filename: "other.vpk"},
		{PublishedFileID: "1", Filename: "a.vpk"},
	}
	got := Items(details, []string{"1"}, []string{"3"})
	require.Empty(t, got[0].Children)
	require.Equal(t, children("3"), got[1].Children)
}

func TestItemsMarksImageParentsDoNotDownload(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"cover.png", "COVER.JPG", "c.jpeg", "c.Gif"} {
		details := []workshop.FileDetails{{
			Result:          workshop.ResultOK,
			PublishedFileID: "1",
			Filename:        name,
			Children:        children("2"),
		}}
		got := Items(details, []string{"1", "x"}, nil)
		require.Equal(t, workshop.ResultDoNotDownload, got[0].Result, name)
	}
}

func TestItemsLeavesChildlessImagesAlone(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{
		{Result: workshop.ResultOK, PublishedFileID: "1", Filename: "cover.png"},
		{Result: 9, PublishedFileID: "2", Filename: "x.gif"},
	}
	got := Items(details, []string{"1", "2"}, nil)
	require.Equal(t, workshop.ResultOK, got[0].Result)
	require.Equal(t, 9, got[1].Result)
}

func TestItemsScrapedDependencyTriggersImageRule(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{{Result: workshop.ResultOK, PublishedFileID: "1", Filename: "thumb.jpg"}}
	got := Items(details, []string{"1"}, []string{"2"})
	require.Equal(t, workshop.ResultDoNotDownload, got[0].Result)
}

func TestItemsIsIdempotent(t *testing.T) {
	t.Parallel()

	details := []workshop.FileDetails{{PublishedFileID: "1", Filename: "a.vpk", Children: children("2")}}
	first := Items(details, []string{"1"}, []string{"2", "3"})
	second := Items(details, []string{"1"}, []string{"2", "3"})
	require.Equal(t, first, second)
	require.Equal(t, children("2", "3"), second[0].Children)
}

func TestDetailPromotesExtractedImages(t *testing.T) {
	t.Parallel()

	details := workshop.FileDetails{PublishedFileID: "9", PreviewURL: "https://api.example.com/low.jpg"}
	got := Detail(details, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"})

	require.Equal(t, "https://cdn.example.com/a.jpg", got.PreviewURL)
	require.Equal(t, []workshop.PreviewEntry{
		{PreviewURL: "https://cdn.example.com/a.jpg", PreviewType: workshop.PreviewKindImage},
		{PreviewURL: "https://cdn.example.com/b.jpg", PreviewType: workshop.PreviewKindImage},
	}, got.Previews)
	require.Equal(t, "https://api.example.com/low.jpg", details.PreviewURL)
}

func TestDetailSynthesizesPreviewFromAPI(t *testing.T) {
	t.Parallel()

	got := Detail(workshop.FileDetails{PreviewURL: "https://api.example.com/p.jpg"}, nil)
	require.Equal(t, []workshop.PreviewEntry{{PreviewURL: "https://api.example.com/p.jpg"}}, got.Previews)
}

func TestDetailWithoutAnyPreview(t *testing.T) {
	t.Parallel()

	got := Detail(workshop.FileDetails{PublishedFileID: "1"}, nil)
	require.Empty(t, got.Previews)
	require.Empty(t, got.PreviewURL)
}
