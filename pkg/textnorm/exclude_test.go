package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/simcheck-go-api/pkg/textnorm"
)

func TestStripReferencesRemovesTrailingSection(t *testing.T) {
	text := "Glaciers carve valleys over millennia.\n\nReferences\nSmith J. Glacier dynamics. 2020."
	stripped := textnorm.StripReferences(text)
	require.Contains(t, stripped, "Glaciers carve valleys")
	require.NotContains(t, stripped, "Smith")

	text = "Body text here.\nBIBLIOGRAPHY\nsome entry"
	require.NotContains(t, textnorm.StripReferences(text), "some entry")

	text = "Body text here.\nWorks Cited\nsome entry"
	require.NotContains(t, textnorm.StripReferences(text), "some entry")
}

func TestStripReferencesRemovesInlineCitations(t *testing.T) {
	text := "Tides follow the moon [1] as shown by (Smith, 2020) and (Jones et al., 2019)."
	stripped := textnorm.StripReferences(text)
	require.NotContains(t, stripped, "[1]")
	require.NotContains(t, stripped, "Smith")
	require.NotContains(t, stripped, "Jones")
	require.Contains(t, stripped, "Tides follow the moon")
}

func TestStripQuotesRemovesDoubleQuotedSpans(t *testing.T) {
	text := `My argument stands. "A quoted passage lifted verbatim." More of my argument.`
	stripped := textnorm.StripQuotes(text)
	require.NotContains(t, stripped, "lifted verbatim")
	require.Contains(t, stripped, "My argument stands.")
	require.Contains(t, stripped, "More of my argument.")
}

func TestStripQuotesKeepsContractions(t *testing.T) {
	text := "Short forms like don't survive."
	require.Equal(t, text, textnorm.StripQuotes(text))

	stripped := textnorm.StripQuotes("Lead-in text, then 'a long single-quoted passage' after.")
	require.NotContains(t, stripped, "single-quoted")
	require.Contains(t, stripped, "Lead-in text")
}

func TestStripQuotesRemovesBlockQuoteLines(t *testing.T) {
	text := "Own words.\n> borrowed block quote line\nMore own words."
	stripped := textnorm.StripQuotes(text)
	require.NotContains(t, stripped, "borrowed block quote")
	require.Contains(t, stripped, "Own words.")
	require.Contains(t, stripped, "More own words.")
}
