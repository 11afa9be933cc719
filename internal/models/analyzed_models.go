package models

import "time"

type RunSummary struct {
	RunID     string    `json:"run_id"`
	Query     string    `json:"query"`
	Backend   string    `json:"backend"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyzedDocument is what result sinks publish for each document of a run.
type AnalyzedDocument struct {
	RunSummary
	Index int    `json:"index"`
	Text  string `json:"text"`
	DocumentResult
}
