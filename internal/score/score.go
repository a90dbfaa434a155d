package score

import "github.com/leenscore/leenscore/internal/model"

// UnverifiedCap is the maximum overall score a result may carry when no web
// evidence backs it. A claim nothing on the web could be found for is never
// presented as highly credible.
const UnverifiedCap = 65

// Sub-score weights used when the upstream omits the overall score
const (
	weightAccess    = 20
	weightLanguage  = 25
	weightEvidence  = 35
	weightTechnical = 20
)

// Clamp bounds a score to the displayable 0-100 range
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Blend derives an overall score from the sub-score breakdown.
// Evidence weighs heaviest; the weights sum to 100.
func Blend(b model.Breakdown) int {
	weighted := b.Access*weightAccess +
		b.Language*weightLanguage +
		b.Evidence*weightEvidence +
		b.Technical*weightTechnical
	return Clamp(weighted / 100)
}

// Finalize applies the post-processing rules to a normalized result:
// a missing overall score is blended from the breakdown, and results
// without web evidence are capped at UnverifiedCap.
func Finalize(r *model.NormalizedResult) {
	if r == nil {
		return
	}

	if r.Score == 0 && r.Breakdown != (model.Breakdown{}) {
		r.Score = Blend(r.Breakdown)
	}
	r.Score = Clamp(r.Score)

	if r.WebEvidence == model.WebEvidenceUnavailable && r.Score > UnverifiedCap {
		r.Score = UnverifiedCap
	}
}

// Reconcile forces the secondary-language result to present the same overall
// score and breakdown as the primary. Dual-language fetches analyze identical
// content, so divergent headline numbers would only confuse. Counters, status,
// and sources stay per-language: the status was derived from that language's
// counters and overwriting them would break the pairing.
func Reconcile(primary, secondary *model.NormalizedResult) {
	if primary == nil || secondary == nil {
		return
	}
	secondary.Score = primary.Score
	secondary.Breakdown = primary.Breakdown
}
