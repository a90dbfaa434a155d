package model

import "encoding/json"

// SourceItem represents a single web citation backing an analysis
type SourceItem struct {
	URL         string  `json:"url"`                   // Full URL (required)
	Title       string  `json:"title,omitempty"`       // Page title if known
	Domain      string  `json:"domain,omitempty"`      // Domain name
	Credibility float64 `json:"credibility,omitempty"` // 0.0-1.0 source credibility
	Stance      string  `json:"stance,omitempty"`      // corroborate, contradict, neutral
	Snippet     string  `json:"snippet,omitempty"`     // Supporting excerpt
}

// SourceBuckets groups citations by their stance toward the analyzed claim.
// Any bucket may be empty; ordering within a bucket carries no meaning.
type SourceBuckets struct {
	Corroborate []SourceItem `json:"corroborate"`
	Contradict  []SourceItem `json:"contradict"`
	Neutral     []SourceItem `json:"neutral"`
}

// Total returns the number of sources across all three buckets
func (b SourceBuckets) Total() int {
	return len(b.Corroborate) + len(b.Contradict) + len(b.Neutral)
}

// KeyPointCounters summarizes the analysis verdicts at a glance
type KeyPointCounters struct {
	Confirmed    int `json:"confirmed"`
	Uncertain    int `json:"uncertain"`
	Contradicted int `json:"contradicted"`
}

// DisplayStatus is the mutually exclusive classification used to pick a badge
type DisplayStatus string

const (
	StatusConfirmed    DisplayStatus = "confirmed"
	StatusContradicted DisplayStatus = "contradicted"
	StatusUncertain    DisplayStatus = "uncertain"
	StatusLimited      DisplayStatus = "limited" // No counter fired; evidence too thin
)

// WebEvidenceState classifies what kind of web evidence backs the result
type WebEvidenceState string

const (
	WebEvidenceBuckets     WebEvidenceState = "buckets"     // Stance buckets are populated
	WebEvidenceNeutral     WebEvidenceState = "neutral"     // Only the flat fallback list is populated
	WebEvidenceUnavailable WebEvidenceState = "unavailable" // No web evidence at all
)

// Breakdown holds the layered sub-scores behind the overall credibility score
type Breakdown struct {
	Access    int `json:"access"`    // Source accessibility (0-100)
	Language  int `json:"language"`  // Language/tone quality (0-100)
	Evidence  int `json:"evidence"`  // Evidence strength (0-100)
	Technical int `json:"technical"` // Technical consistency (0-100)
}

// NormalizedResult is the canonical analysis result shape.
// It is constructed once per upstream response, is immutable thereafter,
// and always carries renderable values even when the upstream sent nothing.
type NormalizedResult struct {
	Score     int       `json:"score"`     // Overall credibility score (0-100)
	Breakdown Breakdown `json:"breakdown"` // Sub-scores

	Buckets     SourceBuckets    `json:"sourcesBuckets"`
	Fallback    []SourceItem     `json:"sources,omitempty"` // Flat fallback source list
	SourceCount int              `json:"sourceCount"`       // All buckets plus fallback
	WebEvidence WebEvidenceState `json:"webEvidence"`

	Counters KeyPointCounters `json:"keyPoints"`
	Status   DisplayStatus    `json:"status"`

	WebUsed  *bool  `json:"webUsed,omitempty"`  // Upstream web.used, passed through
	WebError string `json:"webError,omitempty"` // Upstream web.error, passed through

	Badge         string `json:"badge"`         // Localized badge text for Status
	WebProofTitle string `json:"webProofTitle"` // Localized card title for WebEvidence
	WebProofText  string `json:"webProofText"`  // Localized card body for WebEvidence

	Summary       string   `json:"summary,omitempty"`
	Reasons       []string `json:"reasons,omitempty"`
	Corrections   []string `json:"corrections,omitempty"`
	VerifiedFacts []string `json:"verifiedFacts,omitempty"`

	Meta map[string]interface{} `json:"meta,omitempty"` // Engine metadata, passed through

	Raw json.RawMessage `json:"raw,omitempty"` // Original upstream payload for debugging
}
