package models

type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
	// LabelMixed is only ever returned as a document label by the Azure
	// service.
	LabelMixed Label = "mixed"
)

type ConfidenceScores struct {
	Positive float64 `json:"positive" dynamodbav:"positive"`
	Neutral  float64 `json:"neutral" dynamodbav:"neutral"`
	Negative float64 `json:"negative" dynamodbav:"negative"`
}

type SentenceSentiment struct {
	Text             string           `json:"text" dynamodbav:"text"`
	Sentiment        Label            `json:"sentiment" dynamodbav:"sentiment"`
	ConfidenceScores ConfidenceScores `json:"confidence_scores" dynamodbav:"confidence_scores"`
}

type DocumentSentiment struct {
	ID               string              `json:"id"`
	Sentiment        Label               `json:"sentiment"`
	ConfidenceScores ConfidenceScores    `json:"confidence_scores"`
	Sentences        []SentenceSentiment `json:"sentences"`
}

// DocumentResult is a document sentiment plus the dominant label picked for
// each of its sentences.
type DocumentResult struct {
	DocumentSentiment
	SentenceLabels []Label `json:"sentence_labels"`
}

type LabelCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (c LabelCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

type Aggregate struct {
	SentenceCounts LabelCounts `json:"sentence_counts"`
	DocumentLabels []Label     `json:"document_labels"`
	DocumentCounts LabelCounts `json:"document_counts"`
	// Unbinned counts document labels outside positive/neutral/negative.
	Unbinned int `json:"unbinned"`
}
