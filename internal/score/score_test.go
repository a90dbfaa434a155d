package score

import (
	"testing"

	"github.com/leenscore/leenscore/internal/model"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{250, 100},
	}

	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	// Uniform breakdown blends to itself since weights sum to 100
	uniform := model.Breakdown{Access: 80, Language: 80, Evidence: 80, Technical: 80}
	if got := Blend(uniform); got != 80 {
		t.Errorf("Blend(uniform 80) = %d, want 80", got)
	}

	// Evidence carries the heaviest weight
	evidenceHigh := model.Breakdown{Access: 50, Language: 50, Evidence: 100, Technical: 50}
	accessHigh := model.Breakdown{Access: 100, Language: 50, Evidence: 50, Technical: 50}
	if Blend(evidenceHigh) <= Blend(accessHigh) {
		t.Errorf("Expected evidence to outweigh access: %d vs %d", Blend(evidenceHigh), Blend(accessHigh))
	}
}

func TestFinalize_BlendsMissingScore(t *testing.T) {
	r := &model.NormalizedResult{
		Breakdown:   model.Breakdown{Access: 60, Language: 60, Evidence: 60, Technical: 60},
		WebEvidence: model.WebEvidenceBuckets,
	}

	Finalize(r)

	if r.Score != 60 {
		t.Errorf("Expected blended score 60, got %d", r.Score)
	}
}

func TestFinalize_KeepsExplicitScore(t *testing.T) {
	r := &model.NormalizedResult{
		Score:       42,
		Breakdown:   model.Breakdown{Access: 90, Language: 90, Evidence: 90, Technical: 90},
		WebEvidence: model.WebEvidenceBuckets,
	}

	Finalize(r)

	if r.Score != 42 {
		t.Errorf("Expected explicit score kept, got %d", r.Score)
	}
}

func TestFinalize_CapsUnverifiedResults(t *testing.T) {
	r := &model.NormalizedResult{
		Score:       92,
		WebEvidence: model.WebEvidenceUnavailable,
	}

	Finalize(r)

	if r.Score != UnverifiedCap {
		t.Errorf("Expected score capped at %d, got %d", UnverifiedCap, r.Score)
	}
}

func TestFinalize_NoCapWithEvidence(t *testing.T) {
	r := &model.NormalizedResult{
		Score:       92,
		WebEvidence: model.WebEvidenceNeutral,
	}

	Finalize(r)

	if r.Score != 92 {
		t.Errorf("Expected score untouched with evidence, got %d", r.Score)
	}
}

func TestFinalize_NilIsNoop(t *testing.T) {
	Finalize(nil)
}

func TestReconcile(t *testing.T) {
	primary := &model.NormalizedResult{
		Score:       77,
		Breakdown:   model.Breakdown{Access: 70, Language: 80, Evidence: 75, Technical: 80},
		Counters:    model.KeyPointCounters{Confirmed: 2},
		SourceCount: 3,
		Status:      model.StatusConfirmed,
		Summary:     "primary summary",
	}
	secondary := &model.NormalizedResult{
		Score:       60,
		Counters:    model.KeyPointCounters{Contradicted: 1},
		SourceCount: 1,
		Status:      model.StatusContradicted,
		Summary:     "résumé secondaire",
	}

	Reconcile(primary, secondary)

	if secondary.Score != 77 {
		t.Errorf("Expected score forced to primary, got %d", secondary.Score)
	}
	if secondary.Breakdown != primary.Breakdown {
		t.Errorf("Expected breakdown forced to primary, got %+v", secondary.Breakdown)
	}
	// Counters, status, and sources stay per-language so the status always
	// matches the counters it was derived from
	if secondary.Counters != (model.KeyPointCounters{Contradicted: 1}) {
		t.Errorf("Expected counters untouched, got %+v", secondary.Counters)
	}
	if secondary.Status != model.StatusContradicted {
		t.Errorf("Expected status untouched, got %s", secondary.Status)
	}
	if secondary.SourceCount != 1 {
		t.Errorf("Expected source count untouched, got %d", secondary.SourceCount)
	}
	if secondary.Summary != "résumé secondaire" {
		t.Errorf("Expected text fields untouched, got %q", secondary.Summary)
	}
}
