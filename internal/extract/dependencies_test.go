package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func link(id string) string {
	return fmt.Sprintf(`<a href="https://steamcommunity.com/workshop/filedetails/?id=%s">item</a>`, id)
}

func TestDependenciesStopsAtStopMarker(t *testing.T) {
	t.Parallel()

	for _, stop := range stopMarkers {
		html := `<html><body>` + link("999") +
			requiredItemsMarker + link("11") + link("22") + link("33") +
			stop + link("44") + link("55") +
			`</body></html>`

		got := Dependencies(html, "100")
		require.Equal(t, []string{"11", "22", "33"}, got.IDs, "stop marker %q", stop)
		require.Equal(t, StrategyRequiredItems, got.Strategy)
	}
}

func TestDependenciesUsesEarliestStopMarker(t *testing.T) {
	t.Parallel()

	html := requiredItemsMarker + link("1") +
		`<div class="share_block">` + link("2") +
		`<div id="Comments_Area">` + link("3")

	require.Equal(t, []string{"1"}, Dependencies(html, "0").IDs)
}

func TestDependenciesExcludesSelfAndDuplicates(t *testing.T) {
	t.Parallel()

	html := requiredItemsMarker + link("7") + link("100") + link("7") + link("8")
	got := Dependencies(html, "100")
	require.Equal(t, []string{"7", "8"}, got.IDs)
}

func TestDependenciesWindowIsBounded(t *testing.T) {
	t.Parallel()

	html := requiredItemsMarker + link("1") + strings.Repeat(" ", ScopeWindow) + link("2")
	require.Equal(t, []string{"1"}, Dependencies(html, "0").IDs)
}

func TestDependenciesFallsBackToRequiredItemsID(t *testing.T) {
	t.Parallel()

	html := link("5") + `<div id="RequiredItems">` + link("6") +
		`<div class="share_block">` + link("7")

	got := Dependencies(html, "0")
	require.Equal(t, StrategyRequiredItemsID, got.Strategy)
	require.Equal(t, []string{"6", "7"}, got.IDs)
}

func TestDependenciesContainerWinsEvenWhenEmpty(t *testing.T) {
	t.Parallel()

	html := requiredItemsMarker + `<div class="share_block">` +
		`<div id="RequiredItems">` + link("6")

	got := Dependencies(html, "0")
	require.True(t, got.ScopeFound)
	require.Equal(t, StrategyRequiredItems, got.Strategy)
	require.Empty(t, got.IDs)
}

func TestDependenciesWithoutMarkersSearchesNothing(t *testing.T) {
	t.Parallel()

	html := `<div class="related">` + link("1") + link("2") + `</div>`
	got := Dependencies(html, "0")
	require.False(t, got.ScopeFound)
	require.Equal(t, StrategyNone, got.Strategy)
	require.Empty(t, got.IDs)
}

func TestDependenciesIgnoresNonItemLinks(t *testing.T) {
	t.Parallel()

	html := requiredItemsMarker +
		`<a href="https://steamcommunity.com/id/someone">profile</a>` +
		`<a href="/sharedfiles/filedetails/?id=abc">bad</a>` +
		`<a href="/sharedfiles/filedetails/?id=31&searchtext=">ok</a>`
	require.Equal(t, []string{"31"}, Dependencies(html, "0").IDs)
}
