package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const screenshotScript = `<script>
	var rgFullScreenshotURLs = [
		{ 'previewid' : '1', 'url': 'https://cdn.example.com/shot-a.jpg' },
		{ 'previewid' : '2', 'url': 'https://cdn.example.com/shot-b.jpg' }
	];
</script>`

const enlargedCalls = `<a onclick="ShowEnlargedImagePreview( 'https://cdn.example.com/big-1.jpg' );">x</a>
<a onclick="ShowEnlargedImagePreview( '4242' );">y</a>
<a onclick="ShowEnlargedImagePreview('https://cdn.example.com/big-2.jpg');">z</a>`

const mainImage = `<img id="previewImageMain" class="workshopItemPreviewImageMain" src="https://cdn.example.com/main.jpg">`

func TestPreviewsPrefersScreenshotArray(t *testing.T) {
	t.Parallel()

	got := Previews(mainImage + enlargedCalls + screenshotScript)
	require.Equal(t, StrategyScreenshotArray, got.Strategy)
	require.Equal(t, []string{
		"https://cdn.example.com/shot-a.jpg",
		"https://cdn.example.com/shot-b.jpg",
	}, got.URLs)
}

func TestPreviewsScreenshotArrayAcceptsDoubleQuotes(t *testing.T) {
	t.Parallel()

	got := Previews(`<script>var rgFullScreenshotURLs = [
		{ "previewid" : "1", "url": "https://cdn.example.com/shot-c.jpg" },
		{ 'previewid' : '2', 'url': 'https://cdn.example.com/shot-d.jpg' }
	];</script>`)
	require.Equal(t, StrategyScreenshotArray, got.Strategy)
	require.Equal(t, []string{
		"https://cdn.example.com/shot-c.jpg",
		"https://cdn.example.com/shot-d.jpg",
	}, got.URLs)
}

func TestPreviewsFallsBackToEnlargedCalls(t *testing.T) {
	t.Parallel()

	got := Previews(mainImage + enlargedCalls)
	require.Equal(t, StrategyEnlargedPreviews, got.Strategy)
	require.Equal(t, []string{
		"https://cdn.example.com/big-1.jpg",
		"https://cdn.example.com/big-2.jpg",
	}, got.URLs)
}

func TestPreviewsSkipsEmptyScreenshotArray(t *testing.T) {
	t.Parallel()

	html := `var rgFullScreenshotURLs = [ {} ];` + mainImage
	got := Previews(html)
	require.Equal(t, StrategyMainPreview, got.Strategy)
	require.Equal(t, []string{"https://cdn.example.com/main.jpg"}, got.URLs)
}

func TestPreviewsEnlargedCallsRequireScheme(t *testing.T) {
	t.Parallel()

	html := `ShowEnlargedImagePreview( '4242' )` + mainImage
	got := Previews(html)
	require.Equal(t, StrategyMainPreview, got.Strategy)
}

func TestPreviewsMainImageIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Previews(`<IMG ID="previewImageMain" SRC="https://cdn.example.com/m.png">`)
	require.Equal(t, []string{"https://cdn.example.com/m.png"}, got.URLs)
}

func TestPreviewsNothingFound(t *testing.T) {
	t.Parallel()

	got := Previews(`<html><body>no images</body></html>`)
	require.Empty(t, got.URLs)
	require.Equal(t, StrategyNone, got.Strategy)
}
