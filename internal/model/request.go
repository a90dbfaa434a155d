package model

// AnalysisType selects the analysis mode requested by the client
type AnalysisType string

const (
	AnalysisTypeText  AnalysisType = "text"
	AnalysisTypeURL   AnalysisType = "url"
	AnalysisTypeImage AnalysisType = "image"
)

// AnalysisRequest is a single submission: text, a URL, or an uploaded image.
// Exactly one of Content, URL, ImageURL is expected to be set.
type AnalysisRequest struct {
	Content      string       `json:"content,omitempty"`
	URL          string       `json:"url,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	Language     string       `json:"language,omitempty"` // ISO code, default "en"
	AnalysisType AnalysisType `json:"analysisType,omitempty"`
}

// Kind returns the effective analysis type, inferring it when unset
func (r AnalysisRequest) Kind() AnalysisType {
	if r.AnalysisType != "" {
		return r.AnalysisType
	}
	switch {
	case r.ImageURL != "":
		return AnalysisTypeImage
	case r.URL != "":
		return AnalysisTypeURL
	default:
		return AnalysisTypeText
	}
}
