package plagiarism

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/simcheck-go-api/pkg/extract"
)

type staticResolver map[uint]string

func (r staticResolver) ResolveText(_ context.Context, src Source) (string, error) {
	text, ok := r[src.SubmissionID]
	if !ok {
		return "", errors.New("unknown submission")
	}
	return text, nil
}

type stubCorroborator struct {
	matches []WebMatch
	err     error
	calls   int
	tokens  []string
}

func (s *stubCorroborator) Corroborate(_ context.Context, tokens []string, _ int) ([]WebMatch, error) {
	s.calls++
	s.tokens = tokens
	return s.matches, s.err
}

func newTestChecker(resolver TextResolver, corroborator Corroborator) *Checker {
	return NewChecker(resolver, corroborator, 5, zerolog.New(io.Discard))
}

func TestCheckRejectsTargetInComparisonSet(t *testing.T) {
	resolver := staticResolver{1: "some text"}
	checker := newTestChecker(resolver, nil)

	target := Source{SubmissionID: 1}
	_, err := checker.Check(context.Background(), target, []Source{{SubmissionID: 1}}, 30, CheckOptions{})
	require.ErrorIs(t, err, ErrInvalidComparisonSet)
}

func TestCheckEmptyComparisonSet(t *testing.T) {
	resolver := staticResolver{1: "an original essay about marine biology"}
	checker := newTestChecker(resolver, nil)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, nil, 30, CheckOptions{})
	require.NoError(t, err)
	require.Equal(t, uint(1), report.TargetID)
	require.Empty(t, report.Pairs)
	require.Empty(t, report.WebMatches)
	require.False(t, report.ExceedsThreshold)
}

func TestCheckIdenticalDocumentsExceedThreshold(t *testing.T) {
	resolver := staticResolver{
		1: "The mitochondria is the powerhouse of the cell.",
		2: "The mitochondria is the powerhouse of the cell.",
		3: "Photosynthesis converts sunlight into chemical energy.",
	}
	checker := newTestChecker(resolver, nil)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{
		{SubmissionID: 2},
		{SubmissionID: 3},
	}, 30, CheckOptions{})
	require.NoError(t, err)
	require.Len(t, report.Pairs, 2)

	require.Equal(t, uint(2), report.Pairs[0].SubmissionID)
	require.InDelta(t, 100.0, report.Pairs[0].Percentage, 1e-6)
	require.Equal(t, uint(3), report.Pairs[1].SubmissionID)
	require.InDelta(t, 0.0, report.Pairs[1].Percentage, 1e-6)

	require.True(t, report.ExceedsThreshold)
	require.Equal(t, 30.0, report.Threshold)
	require.False(t, report.CheckedAt.IsZero())
}

func TestCheckBelowThreshold(t *testing.T) {
	resolver := staticResolver{
		1: "Glaciers carve valleys over thousands of years.",
		2: "Volcanoes erupt molten rock from deep underground.",
	}
	checker := newTestChecker(resolver, nil)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{})
	require.NoError(t, err)
	require.False(t, report.ExceedsThreshold)
}

func TestCheckThresholdComparisonIsStrict(t *testing.T) {
	resolver := staticResolver{
		1: "identical words here",
		2: "identical words here",
	}
	checker := newTestChecker(resolver, nil)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 100, CheckOptions{})
	require.NoError(t, err)
	require.InDelta(t, 100.0, report.Pairs[0].Percentage, 1e-6)
	require.False(t, report.ExceedsThreshold)
}

func TestCheckPairsSortedByScoreThenID(t *testing.T) {
	resolver := staticResolver{
		1: "alpha beta gamma delta",
		2: "totally unrelated content words",
		3: "alpha beta gamma delta",
		4: "alpha beta something else",
	}
	checker := newTestChecker(resolver, nil)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{
		{SubmissionID: 4},
		{SubmissionID: 2},
		{SubmissionID: 3},
	}, 30, CheckOptions{})
	require.NoError(t, err)
	require.Len(t, report.Pairs, 3)

	require.Equal(t, uint(3), report.Pairs[0].SubmissionID)
	for i := 1; i < len(report.Pairs); i++ {
		require.LessOrEqual(t, report.Pairs[i].Percentage, report.Pairs[i-1].Percentage)
	}
}

func TestCheckDeterministicAcrossComparableOrder(t *testing.T) {
	resolver := staticResolver{
		1: "shared vocabulary appears in several essays",
		2: "shared vocabulary appears here too",
		3: "completely different topic altogether",
		4: "shared vocabulary appears in several places",
	}
	checker := newTestChecker(resolver, nil)

	forward, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{
		{SubmissionID: 2}, {SubmissionID: 3}, {SubmissionID: 4},
	}, 30, CheckOptions{})
	require.NoError(t, err)

	reversed, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{
		{SubmissionID: 4}, {SubmissionID: 3}, {SubmissionID: 2},
	}, 30, CheckOptions{})
	require.NoError(t, err)

	require.Len(t, reversed.Pairs, len(forward.Pairs))
	for i := range forward.Pairs {
		require.Equal(t, forward.Pairs[i].SubmissionID, reversed.Pairs[i].SubmissionID)
		require.InDelta(t, forward.Pairs[i].Percentage, reversed.Pairs[i].Percentage, 1e-9)
	}
}

func TestCheckCorroboratorFailureDegrades(t *testing.T) {
	resolver := staticResolver{
		1: "essay text worth corroborating externally",
		2: "another submission entirely",
	}
	corroborator := &stubCorroborator{err: errors.New("search quota exhausted")}
	checker := newTestChecker(resolver, corroborator)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, corroborator.calls)
	require.Empty(t, report.WebMatches)
}

func TestCheckWebOverlapTriggersThreshold(t *testing.T) {
	resolver := staticResolver{
		1: "essay text worth corroborating externally",
		2: "another submission entirely",
	}
	corroborator := &stubCorroborator{matches: []WebMatch{
		{Snippet: "essay text worth", URL: "https://example.com/a", Overlap: 0.9},
	}}
	checker := newTestChecker(resolver, corroborator)

	report, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 50, CheckOptions{})
	require.NoError(t, err)
	require.Len(t, report.WebMatches, 1)
	require.True(t, report.ExceedsThreshold)
}

func TestCheckExcludeQuotesIgnoresQuotedOverlap(t *testing.T) {
	quoted := `"The sea rises twice daily under lunar influence."`
	resolver := staticResolver{
		1: "Original analysis of tidal patterns. " + quoted,
		2: "Unrelated discussion of volcanic soil. " + quoted,
	}
	checker := newTestChecker(resolver, nil)

	baseline, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{})
	require.NoError(t, err)
	require.Greater(t, baseline.Pairs[0].Percentage, 0.0)

	stripped, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{ExcludeQuotes: true})
	require.NoError(t, err)
	require.InDelta(t, 0.0, stripped.Pairs[0].Percentage, 1e-9)
}

func TestCheckExcludeReferencesIgnoresCitations(t *testing.T) {
	references := " References\nSmith J. Glacier dynamics. Journal of Ice, 2020."
	resolver := staticResolver{
		1: "Glaciers carve valleys [1] over millennia." + references,
		2: "Completely different topic entirely." + references,
	}
	checker := newTestChecker(resolver, nil)

	baseline, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{})
	require.NoError(t, err)
	require.Greater(t, baseline.Pairs[0].Percentage, 0.0)

	stripped, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{ExcludeReferences: true})
	require.NoError(t, err)
	require.InDelta(t, 0.0, stripped.Pairs[0].Percentage, 1e-9)
}

func TestCheckCorroborationUsesFullText(t *testing.T) {
	resolver := staticResolver{
		1: `Fresh writing of my own. "quoted passage about ancient mariners"`,
		2: "another submission entirely",
	}
	corroborator := &stubCorroborator{}
	checker := newTestChecker(resolver, corroborator)

	_, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{ExcludeQuotes: true})
	require.NoError(t, err)
	require.Equal(t, 1, corroborator.calls)
	require.Contains(t, corroborator.tokens, "mariner")
}

func TestCheckResolverErrorPropagates(t *testing.T) {
	resolver := staticResolver{1: "only the target resolves"}
	checker := newTestChecker(resolver, nil)

	_, err := checker.Check(context.Background(), Source{SubmissionID: 1}, []Source{{SubmissionID: 2}}, 30, CheckOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "submission 2")
}

func TestExtractResolverPrefersCachedText(t *testing.T) {
	cached := "previously extracted text"
	resolver := ExtractResolver{Extractor: extract.New(zerolog.New(io.Discard))}

	text, err := resolver.ResolveText(context.Background(), Source{
		SubmissionID:  1,
		Format:        extract.FormatPDF,
		Content:       []byte("not a real pdf"),
		ExtractedText: &cached,
	})
	require.NoError(t, err)
	require.Equal(t, cached, text)
}

func TestExtractResolverExtractsWhenUncached(t *testing.T) {
	resolver := ExtractResolver{Extractor: extract.New(zerolog.New(io.Discard))}

	text, err := resolver.ResolveText(context.Background(), Source{
		SubmissionID: 1,
		Format:       extract.FormatText,
		Content:      []byte("raw submission text"),
	})
	require.NoError(t, err)
	require.Equal(t, "raw submission text", text)
}
