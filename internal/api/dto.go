package api

import (
	"time"

	"github.com/mkraus/slovnik/internal/noteservice"
)

// WordDetail is the full word response type (aliased from the domain layer).
type WordDetail = noteservice.WordDetail

// WordListItem is a lightweight item in a list response.
type WordListItem struct {
	Path         string    `json:"path"`
	Headword     string    `json:"headword"`
	Translation  string    `json:"translation"`
	Theme        string    `json:"theme"`
	PartOfSpeech string    `json:"part_of_speech"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WordListResponse wraps paginated word listings.
type WordListResponse struct {
	Words []WordListItem `json:"words"`
	Total int            `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []WordListItem `json:"results"`
}

// IngestRequest is the request body for running the batch pipeline over a
// vocabulary page in the vault.
type IngestRequest struct {
	Page string `json:"page"`
}

// IngestResponse reports the outcome of a batch run.
type IngestResponse struct {
	Processed  int      `json:"processed"`
	Failed     int      `json:"failed"`
	NoAnalysis int      `json:"no_analysis"`
	Errors     []string `json:"errors,omitempty"`
}
