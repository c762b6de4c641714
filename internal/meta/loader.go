// Package meta turns the per-line commit log into the commit dashboard:
// loading, aggregation, stats, the scatter layout, the timeline and the
// language breakdown. Everything here is pure computation over an
// immutable Dataset; callers own I/O and state.
package meta

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bravo68web/folio/internal/domain/models"
)

// LoadErrorKind classifies a failed load
type LoadErrorKind string

const (
	// KindUnavailable means the log could not be read at all
	KindUnavailable LoadErrorKind = "unavailable"
	// KindMalformed means the log was read but its structure is unusable
	KindMalformed LoadErrorKind = "malformed"
)

var (
	ErrUnavailable = errors.New("commit log unavailable")
	ErrMalformed   = errors.New("commit log malformed")
)

// LoadError is returned when the whole log has to be rejected. Individual
// bad records never produce a LoadError; they are skipped and counted.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is matches ErrUnavailable and ErrMalformed by kind
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// Unavailable wraps a read failure of source
func Unavailable(source string, err error) *LoadError {
	return &LoadError{Kind: KindUnavailable, Source: source, Err: err}
}

// Malformed wraps a structural failure of source
func Malformed(source string, err error) *LoadError {
	return &LoadError{Kind: KindMalformed, Source: source, Err: err}
}

// Column names of the commit log
const (
	ColCommit   = "commit"
	ColFile     = "file"
	ColLine     = "line"
	ColDepth    = "depth"
	ColLength   = "length"
	ColDate     = "date"
	ColTime     = "time"
	ColTimezone = "timezone"
	ColAuthor   = "author"
	ColDatetime = "datetime"
	ColType     = "type"
)

// Columns is the header order written by the log generator
var Columns = []string{
	ColFile, ColLine, ColType, ColCommit, ColAuthor,
	ColDate, ColTime, ColTimezone, ColDatetime, ColDepth, ColLength,
}

var requiredColumns = []string{ColCommit, ColFile, ColLine, ColDatetime}

// DefaultMaxRowErrors caps how many row errors a LoadSummary keeps
const DefaultMaxRowErrors = 20

// Loader parses the commit log
type Loader struct {
	// Location interprets datetimes without an offset and is the zone every
	// datetime is normalized into.
	Location *time.Location

	// MaxErrors bounds LoadSummary.Errors; the Skipped count is never bounded
	MaxErrors int

	now func() time.Time
}

// NewLoader creates a Loader for loc. A nil loc means time.Local.
func NewLoader(loc *time.Location) *Loader {
	if loc == nil {
		loc = time.Local
	}
	return &Loader{Location: loc, MaxErrors: DefaultMaxRowErrors, now: time.Now}
}

// Parse reads a CSV log with a header row. Records failing validation are
// skipped and reported in the summary.
func (l *Loader) Parse(source string, r io.Reader) ([]models.Row, models.LoadSummary, error) {
	start := l.now()
	summary := models.LoadSummary{Source: source}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, summary, Malformed(source, errors.New("missing header row"))
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, summary, Malformed(source, err)
		}
		return nil, summary, Unavailable(source, err)
	}

	cols, err := indexHeader(header)
	if err != nil {
		return nil, summary, Malformed(source, err)
	}

	var rows []models.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, summary, Unavailable(source, err)
			}
			summary.Records++
			l.reject(&summary, parseErr.StartLine, parseErr.Err.Error())
			continue
		}
		summary.Records++
		line, _ := reader.FieldPos(0)

		if len(record) != len(header) {
			l.reject(&summary, line, fmt.Sprintf("expected %d fields, got %d", len(header), len(record)))
			continue
		}

		row, err := l.parseRecord(cols, record)
		if err != nil {
			l.reject(&summary, line, err.Error())
			continue
		}
		rows = append(rows, row)
	}

	summary.Loaded = len(rows)
	summary.LoadedAt = l.now()
	summary.Duration = summary.LoadedAt.Sub(start)
	return rows, summary, nil
}

func (l *Loader) reject(summary *models.LoadSummary, line int, reason string) {
	summary.Skipped++
	if len(summary.Errors) < l.MaxErrors {
		summary.Errors = append(summary.Errors, models.RowError{Line: line, Reason: reason})
	}
}

type columnIndex map[string]int

func (c columnIndex) get(record []string, name string) string {
	i, ok := c[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func indexHeader(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		cols[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (l *Loader) parseRecord(cols columnIndex, record []string) (models.Row, error) {
	row := models.Row{
		Commit:   cols.get(record, ColCommit),
		File:     cols.get(record, ColFile),
		Author:   cols.get(record, ColAuthor),
		Time:     cols.get(record, ColTime),
		Timezone: cols.get(record, ColTimezone),
		Type:     cols.get(record, ColType),
	}
	if row.Commit == "" {
		return row, errors.New("empty commit")
	}
	if row.File == "" {
		return row, errors.New("empty file")
	}

	var err error
	if row.Line, err = parseInt(cols.get(record, ColLine), ColLine, true); err != nil {
		return row, err
	}
	if row.Line < 0 {
		return row, fmt.Errorf("negative line %d", row.Line)
	}
	if row.Depth, err = parseInt(cols.get(record, ColDepth), ColDepth, false); err != nil {
		return row, err
	}
	if row.Length, err = parseInt(cols.get(record, ColLength), ColLength, false); err != nil {
		return row, err
	}

	if row.Datetime, err = ParseDatetime(cols.get(record, ColDatetime), l.Location); err != nil {
		return row, err
	}

	date := cols.get(record, ColDate)
	if date == "" {
		y, m, d := row.Datetime.Date()
		row.Date = time.Date(y, m, d, 0, 0, 0, 0, l.Location)
	} else if row.Date, err = ParseDate(date, row.Timezone); err != nil {
		return row, err
	}

	return row, nil
}

func parseInt(raw, column string, required bool) (int, error) {
	if raw == "" {
		if required {
			return 0, fmt.Errorf("empty %s", column)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", column, raw)
	}
	return n, nil
}

var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDatetime parses a log datetime. Values with an offset keep their
// instant; values without one are read as wall-clock time in loc. The
// result is always expressed in loc.
func ParseDatetime(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty datetime")
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", raw)
}

// ParseDate combines a calendar date with a fixed midnight marker and the
// record's offset, e.g. "2024-01-01" + "T00:00" + "-08:00". An empty offset
// means UTC.
func ParseDate(date, offset string) (time.Time, error) {
	if offset == "" {
		offset = "Z"
	}
	raw := date + "T00:00" + offset
	for _, layout := range []string{"2006-01-02T15:04Z07:00", "2006-01-02T15:04-0700"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q with timezone %q", date, offset)
}
