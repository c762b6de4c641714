package models

import "time"

// Row is one changed source line from the commit log. Rows are never
// mutated after loading.
type Row struct {
	File     string    `json:"file"`
	Commit   string    `json:"commit"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"` // midnight of the commit day in its own offset
	Time     string    `json:"time"`
	Timezone string    `json:"timezone"`
	Datetime time.Time `json:"datetime"`
	Line     int       `json:"line"`
	Depth    int       `json:"depth"`
	Length   int       `json:"length"`
	Type     string    `json:"type"`
}

// RowError describes a log record that was rejected during loading
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// LoadSummary reports how a dataset load went
type LoadSummary struct {
	Source   string        `json:"source"`
	Records  int           `json:"records"`
	Loaded   int           `json:"loaded"`
	Skipped  int           `json:"skipped"`
	Errors   []RowError    `json:"errors,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	LoadedAt time.Time     `json:"loaded_at"`
}
