package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/citemap/internal/model"
)

// TestMarkdownWriter tests summary rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders header, statistics, and institution table", func(t *testing.T) {
		t.Parallel()

		report := model.NewCitationReport("abc", model.ModeAggressive)
		report.AuthorName = "Root Author"
		report.Edges = []model.CitationEdge{
			{CitedPaperTitle: "Cited paper", CitingAuthorID: "aaa", CitingPaperTitle: "Citing paper"},
		}
		report.Geocoded = []model.GeocodedRecord{
			geocodedRecord("A One", "Stanford University", 37.4275, -122.1697),
			geocodedRecord("B Two", "Stanford University", 37.4275, -122.1697),
		}
		report.UniqueInstitutions = 1
		report.ResolvedInstitutions = 1

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero byte count")
		}

		out := buf.String()
		for _, want := range []string{
			"# Citation Map Summary",
			"Root Author",
			"✅ Complete",
			"## Crawl Statistics",
			"## Institutions",
			"Stanford University",
			"A One & B Two",
			"37.4275",
			"*Generated by [citemap]",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("reports an error status", func(t *testing.T) {
		t.Parallel()

		report := model.NewCitationReport("abc", model.ModeAggressive)
		report.Error = errors.New("profile fetch failed")
		report.ErrorMessage = "profile fetch failed"

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "❌ Error - profile fetch failed") {
			t.Errorf("error status missing:\n%s", out)
		}
	})

	t.Run("marks checkpoint-resumed runs", func(t *testing.T) {
		t.Parallel()

		report := model.NewCitationReport("abc", model.ModeConservative)
		report.EdgesFromCheckpoint = true

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "resumed from checkpoint") {
			t.Error("checkpoint status missing")
		}
	})

	t.Run("warns when institutions remain unresolved", func(t *testing.T) {
		t.Parallel()

		report := model.NewCitationReport("abc", model.ModeAggressive)
		report.CleanedAffiliations = []model.AffiliationRecord{
			{CitingAuthorName: "A One", Affiliation: "Unknown Institute"},
		}
		report.UniqueInstitutions = 2
		report.ResolvedInstitutions = 1

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "WARNING") {
			t.Errorf("unresolved warning missing:\n%s", buf.String())
		}
	})
}
