package models

type OpenAISentimentRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type OpenAISentimentResponse struct {
	Documents []DocumentSentiment `json:"documents"`
}
