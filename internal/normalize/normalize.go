package normalize

import (
	"encoding/json"

	"github.com/leenscore/leenscore/internal/i18n"
	"github.com/leenscore/leenscore/internal/model"
	"github.com/leenscore/leenscore/internal/score"
)

// Normalize converts an untrusted upstream analysis payload into the
// canonical NormalizedResult. It is pure and total: any JSON object,
// including {}, produces a fully populated result with zeroed defaults.
// It never returns an error for missing or misshapen fields.
func Normalize(raw []byte, tr *i18n.Resolver) model.NormalizedResult {
	var root map[string]interface{}
	if err := json.Unmarshal(raw, &root); err != nil || root == nil {
		root = map[string]interface{}{}
	}
	if tr == nil {
		tr = i18n.NewResolver("en", nil)
	}

	// The payload usually wraps everything in "result"; tolerate its absence
	result := getMap(root, "result")
	if result == nil {
		result = root
	}

	buckets := extractBuckets(getMap(result, "sourcesBuckets"))
	fallback := extractSources(getSlice(result, "sources"))
	total := buckets.Total() + len(fallback)

	counters := extractCounters(root, result)

	// Consistency guard: counters claiming verdicts without a single backing
	// source are never trusted.
	if total == 0 {
		counters = model.KeyPointCounters{}
	}

	status := deriveStatus(counters)
	webState := classifyWebEvidence(buckets, fallback)

	// web.used == false and web.error are consistent with (and passed through
	// alongside) the unavailable classification; they never override buckets.
	web := getMap(result, "web")
	var webUsed *bool
	if used, ok := getBool(web, "used"); ok {
		webUsed = &used
	}
	webErr := getString(web, "error")

	overall, breakdown := extractScores(result)

	return model.NormalizedResult{
		Score:         overall,
		Breakdown:     breakdown,
		Buckets:       buckets,
		Fallback:      fallback,
		SourceCount:   total,
		WebEvidence:   webState,
		Counters:      counters,
		Status:        status,
		WebUsed:       webUsed,
		WebError:      webErr,
		Badge:         tr.T("badge." + string(status)),
		WebProofTitle: tr.T("webproof." + string(webState) + ".title"),
		WebProofText:  tr.T("webproof." + string(webState) + ".text"),
		Summary:       getString(result, "summary"),
		Reasons:       getStrings(result, "reasons"),
		Corrections:   getStrings(result, "corrections"),
		VerifiedFacts: getStrings(result, "verifiedFacts"),
		Meta:          getMap(result, "meta"),
		Raw:           json.RawMessage(raw),
	}
}

// deriveStatus classifies the result from the (possibly corrected) counters.
// Fixed priority, first match wins. Raw upstream status strings are ignored.
func deriveStatus(c model.KeyPointCounters) model.DisplayStatus {
	switch {
	case c.Contradicted > 0:
		return model.StatusContradicted
	case c.Confirmed > 0:
		return model.StatusConfirmed
	case c.Uncertain > 0:
		return model.StatusUncertain
	default:
		return model.StatusLimited
	}
}

// classifyWebEvidence derives the evidence state from bucket contents alone,
// independent of the counters.
func classifyWebEvidence(buckets model.SourceBuckets, fallback []model.SourceItem) model.WebEvidenceState {
	if len(buckets.Corroborate) > 0 || len(buckets.Contradict) > 0 {
		return model.WebEvidenceBuckets
	}
	if len(buckets.Neutral) > 0 || len(fallback) > 0 {
		return model.WebEvidenceNeutral
	}
	return model.WebEvidenceUnavailable
}

// extractBuckets pulls the three stance buckets, each defaulting to empty
func extractBuckets(raw map[string]interface{}) model.SourceBuckets {
	return model.SourceBuckets{
		Corroborate: extractSources(getSlice(raw, "corroborate")),
		Contradict:  extractSources(getSlice(raw, "contradict")),
		Neutral:     extractSources(getSlice(raw, "neutral")),
	}
}

// extractSources converts a raw array into SourceItems, skipping entries
// that carry no URL
func extractSources(raw []interface{}) []model.SourceItem {
	items := []model.SourceItem{}
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		url := getString(obj, "url")
		if url == "" {
			continue
		}
		items = append(items, model.SourceItem{
			URL:         url,
			Title:       getString(obj, "title"),
			Domain:      getString(obj, "domain"),
			Credibility: getFloat(obj, "credibility"),
			Stance:      getString(obj, "stance"),
			Snippet:     getString(obj, "snippet"),
		})
	}
	return items
}

// extractScores pulls the overall score and sub-score breakdown, clamped
func extractScores(result map[string]interface{}) (int, model.Breakdown) {
	breakdownRaw := getMap(result, "breakdown")
	breakdown := model.Breakdown{
		Access:    score.Clamp(getInt(breakdownRaw, "access")),
		Language:  score.Clamp(getInt(breakdownRaw, "language")),
		Evidence:  score.Clamp(getInt(breakdownRaw, "evidence")),
		Technical: score.Clamp(getInt(breakdownRaw, "technical")),
	}

	overall := score.Clamp(getInt(result, "score"))
	return overall, breakdown
}
