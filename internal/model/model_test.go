package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestPostTypeCensus tests census helpers.
func TestPostTypeCensus(t *testing.T) {
	t.Parallel()

	census := PostTypeCensus{
		{PostType: "page", Count: 2},
		{PostType: "post", Count: 5},
		{PostType: "attachment", Count: 2},
	}

	t.Run("total sums counts", func(t *testing.T) {
		t.Parallel()
		if census.Total() != 9 {
			t.Errorf("expected 9, got %d", census.Total())
		}
	})

	t.Run("count of unknown type is zero", func(t *testing.T) {
		t.Parallel()
		if census.Count("product") != 0 {
			t.Error("expected 0 for unknown type")
		}
		if census.Count("post") != 5 {
			t.Errorf("expected 5 posts, got %d", census.Count("post"))
		}
	})

	t.Run("ByCount orders by count then name without touching receiver", func(t *testing.T) {
		t.Parallel()

		sorted := census.ByCount()
		var names []string
		for _, pc := range sorted {
			names = append(names, pc.PostType)
		}
		if strings.Join(names, ",") != "post,attachment,page" {
			t.Errorf("unexpected order: %v", names)
		}
		if census[0].PostType != "page" {
			t.Error("expected receiver to keep encounter order")
		}
	})
}

// TestFieldSetJSON tests that sets serialize as sorted arrays.
func TestFieldSetJSON(t *testing.T) {
	t.Parallel()

	inv := FieldInventory{}
	inv.Add("page", "subtitle")
	inv.Add("page", "color")
	inv.Add("page", "color")

	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"page":["color","subtitle"]}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded FieldInventory
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded["page"].Has("subtitle") || len(decoded["page"]) != 2 {
		t.Errorf("unexpected decoded inventory: %v", decoded)
	}
}

// TestTaxonomySummary tests usage helpers.
func TestTaxonomySummary(t *testing.T) {
	t.Parallel()

	s := TaxonomySummary{
		Terms:           []string{"a", "b"},
		UsageByPostType: map[string]int{"post": 3, "": 1, "page": 2},
		TotalTerms:      2,
	}
	if s.TotalUsage() != 6 {
		t.Errorf("expected usage 6, got %d", s.TotalUsage())
	}
	if got := strings.Join(s.UsagePostTypes(), ","); got != ",page,post" {
		t.Errorf("unexpected post type order: %q", got)
	}
}

// TestPostOrdering tests sorted accessors on Post.
func TestPostOrdering(t *testing.T) {
	t.Parallel()

	p := Post{
		CustomFields: map[string]string{"z": "1", "a": "2"},
		Taxonomies:   map[string][]TermRef{"post_tag": nil, "category": nil},
	}
	if got := strings.Join(p.FieldNames(), ","); got != "a,z" {
		t.Errorf("unexpected field order: %q", got)
	}
	if got := strings.Join(p.TaxonomyNames(), ","); got != "category,post_tag" {
		t.Errorf("unexpected taxonomy order: %q", got)
	}
}

// TestAnalysisReportHasStep tests step bookkeeping.
func TestAnalysisReportHasStep(t *testing.T) {
	t.Parallel()

	r := NewAnalysisReport("export.xml", "abc")
	if r.HasStep(StepPosts) {
		t.Error("expected no steps on new report")
	}
	r.PerformedSteps = append(r.PerformedSteps, StepPosts)
	if !r.HasStep(StepPosts) {
		t.Error("expected posts step to be recorded")
	}
	if r.AnalyzedAt.IsZero() {
		t.Error("expected AnalyzedAt to be set")
	}
}
