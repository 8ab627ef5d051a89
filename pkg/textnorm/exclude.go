package textnorm

import "regexp"

var (
	refSectionPattern  = regexp.MustCompile(`(?is)\b(references?|bibliography|works\s+cited)\b.*$`)
	bracketCitePattern = regexp.MustCompile(`\[\d+\]`)
	parenCitePattern   = regexp.MustCompile(`\(\w+,?\s*\d{4}\)`)
	parenEtAlPattern   = regexp.MustCompile(`\(\w+\s+et\s+al\.,?\s*\d{4}\)`)

	doubleQuotePattern = regexp.MustCompile(`"[^"]*"`)
	// Single-quoted spans need a minimum length so contractions survive.
	singleQuotePattern = regexp.MustCompile(`'[^']{10,}'`)
	blockQuotePattern  = regexp.MustCompile(`(?m)^>.*$`)
)

// StripReferences removes citation apparatus from the text: a trailing
// References, Bibliography or Works Cited section and inline citations such
// as [1], (Smith, 2020) or (Smith et al., 2020).
func StripReferences(text string) string {
	text = refSectionPattern.ReplaceAllString(text, "")
	text = bracketCitePattern.ReplaceAllString(text, "")
	text = parenEtAlPattern.ReplaceAllString(text, "")
	text = parenCitePattern.ReplaceAllString(text, "")
	return text
}

// StripQuotes removes quoted material: double-quoted spans, single-quoted
// spans of ten or more characters and block-quote lines.
func StripQuotes(text string) string {
	text = doubleQuotePattern.ReplaceAllString(text, "")
	text = singleQuotePattern.ReplaceAllString(text, "")
	text = blockQuotePattern.ReplaceAllString(text, "")
	return text
}
