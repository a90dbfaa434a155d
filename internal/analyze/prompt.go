package analyze

import (
	"fmt"

	"github.com/leenscore/leenscore/internal/model"
)

// systemPrompt pins the model to the analyst role and the JSON-only contract
const systemPrompt = `You are a credibility analyst. You assess how well a piece of content is supported by verifiable evidence. You never assert absolute truth; you report evidence. You respond with a single JSON object and nothing else.`

// BuildPrompt constructs the analysis prompt. The requested shape mirrors
// the upstream result contract the normalizer consumes.
func BuildPrompt(req Request) string {
	language := languageName(req.Language)

	subject := "the following content"
	switch req.Kind {
	case model.AnalysisTypeURL:
		subject = "the following web page content"
	case model.AnalysisTypeImage:
		subject = "the content shown in the attached screenshot"
	}

	prompt := fmt.Sprintf(`Analyze the credibility of %s. Write all free-text fields in %s.

Return a JSON object with exactly this shape:
{
  "result": {
    "score": <0-100 overall credibility score>,
    "breakdown": {
      "access": <0-100 source accessibility>,
      "language": <0-100 language and tone quality>,
      "evidence": <0-100 evidence strength>,
      "technical": <0-100 technical consistency>
    },
    "sourcesBuckets": {
      "corroborate": [{"url": "...", "title": "...", "domain": "...", "credibility": <0.0-1.0>, "snippet": "..."}],
      "contradict": [],
      "neutral": []
    },
    "keyPoints": {"confirmed": <int>, "uncertain": <int>, "contradicted": <int>},
    "summary": "<2-3 sentence assessment>",
    "reasons": ["<reason>", ...],
    "verifiedFacts": ["<fact you could verify>", ...],
    "corrections": ["<correction for a false statement>", ...],
    "web": {"used": <true if you drew on web knowledge>}
  }
}

Rules:
- Only list a source URL you are confident exists; leave buckets empty rather than inventing citations.
- keyPoints counters must reflect your listed sources and reasons.
- If you cannot assess the content, return low scores and empty buckets.`, subject, language)

	if req.ImageURL == "" {
		prompt += fmt.Sprintf("\n\nContent to analyze:\n%s", req.Content)
	}

	return prompt
}

// languageName maps an ISO code to the name used inside the prompt
func languageName(code string) string {
	switch code {
	case "fr":
		return "French"
	case "de":
		return "German"
	case "es":
		return "Spanish"
	default:
		return "English"
	}
}
