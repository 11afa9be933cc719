package models

type (
	TextAnalyticsRequest struct {
		Documents []TextAnalyticsInput `json:"documents"`
	}
	TextAnalyticsInput struct {
		ID       string `json:"id"`
		Language string `json:"language,omitempty"`
		Text     string `json:"text"`
	}
)

type (
	TextAnalyticsResponse struct {
		Documents    []TextAnalyticsDocument      `json:"documents"`
		Errors       []TextAnalyticsDocumentError `json:"errors"`
		ModelVersion string                       `json:"modelVersion"`
	}
	TextAnalyticsDocument struct {
		ID               string                  `json:"id"`
		Sentiment        string                  `json:"sentiment"`
		ConfidenceScores ConfidenceScores        `json:"confidenceScores"`
		Sentences        []TextAnalyticsSentence `json:"sentences"`
		Warnings         []TextAnalyticsWarning  `json:"warnings"`
	}
	TextAnalyticsSentence struct {
		Text             string           `json:"text"`
		Sentiment        string           `json:"sentiment"`
		ConfidenceScores ConfidenceScores `json:"confidenceScores"`
		Offset           int              `json:"offset"`
		Length           int              `json:"length"`
	}
	TextAnalyticsWarning struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	TextAnalyticsDocumentError struct {
		ID    string             `json:"id"`
		Error TextAnalyticsError `json:"error"`
	}
	TextAnalyticsError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

// TextAnalyticsErrorResponse is the body the service returns for a failed
// request as a whole.
type TextAnalyticsErrorResponse struct {
	Error TextAnalyticsError `json:"error"`
}
