package models

import "time"

// Commit aggregates every Row sharing a commit id. It carries no rows of its
// own; they are looked up through the dataset's row index.
type Commit struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Timezone   string    `json:"timezone"`
	Datetime   time.Time `json:"datetime"`
	HourFrac   float64   `json:"hour_frac"`
	TotalLines int       `json:"total_lines"`
}

// Step is one entry of the commit narrative, in ascending time order
type Step struct {
	Index    int       `json:"index"`
	CommitID string    `json:"commit_id"`
	URL      string    `json:"url"`
	Author   string    `json:"author"`
	Datetime time.Time `json:"datetime"`
	Progress float64   `json:"progress"`
	Lines    int       `json:"lines"`
	Files    int       `json:"files"`
}

// FileSummary describes one file at the current timeline cutoff
type FileSummary struct {
	Name  string `json:"name"`
	Lines int    `json:"lines"`
	Type  string `json:"type"` // dominant type among the file's rows
	Color string `json:"color"`
}

// Stat is one label/value pair of the stats panel
type Stat struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
}

// LanguageShare is one line of the selection breakdown
type LanguageShare struct {
	Type      string  `json:"type"`
	Lines     int     `json:"lines"`
	Percent   float64 `json:"percent"`
	Formatted string  `json:"formatted"`
}
