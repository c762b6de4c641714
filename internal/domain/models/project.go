package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Year accepts both "2024" and 2024 in JSON
type Year string

// UnmarshalJSON implements json.Unmarshaler
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = Year(n.String())
	return nil
}

// Project is one entry of the project gallery
type Project struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Year        Year   `json:"year"`
	URL         string `json:"url,omitempty"`
}

// SearchText joins every field the way the gallery search matches against
func (p Project) SearchText() string {
	return strings.Join([]string{p.Title, p.Image, p.Description, string(p.Year), p.URL}, "\n")
}

// YearCount is one slice of the projects-per-year pie
type YearCount struct {
	Year  Year   `json:"year"`
	Count int    `json:"count"`
	Color string `json:"color"`
}
