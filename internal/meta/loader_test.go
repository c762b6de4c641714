package meta_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/meta"
)

const header = "file,line,type,commit,author,date,time,timezone,datetime,depth,length\n"

// sampleLog has two commits: a1 with two js lines in the morning and b2
// with one css line in the afternoon.
const sampleLog = header +
	"x.js,1,js,a1,dylan,2024-01-01,09:00:00,,2024-01-01T09:00,0,12\n" +
	"x.js,2,js,a1,dylan,2024-01-01,09:00:00,,2024-01-01T09:00,1,20\n" +
	"y.css,1,css,b2,dylan,2024-01-02,14:30:00,,2024-01-02T14:30,0,8\n"

func loadSample(t *testing.T) *meta.Dataset {
	t.Helper()

	rows, summary, err := meta.NewLoader(time.UTC).Parse("loc.csv", strings.NewReader(sampleLog))
	require.NoError(t, err)
	return meta.NewDataset(rows, summary, "https://example.com/commit/")
}

func TestParseSample(t *testing.T) {
	t.Parallel()

	rows, summary, err := meta.NewLoader(time.UTC).Parse("loc.csv", strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "loc.csv", summary.Source)
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 3, summary.Loaded)
	assert.Zero(t, summary.Skipped)
	assert.Empty(t, summary.Errors)

	first := rows[0]
	assert.Equal(t, "x.js", first.File)
	assert.Equal(t, "a1", first.Commit)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 12, first.Length)
	assert.Equal(t, "js", first.Type)
	assert.True(t, first.Datetime.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseSkipsBadRows(t *testing.T) {
	t.Parallel()

	log := header +
		"x.js,1,js,a1,dylan,2024-01-01,09:00,,2024-01-01T09:00,0,12\n" +
		"x.js,abc,js,a1,dylan,2024-01-01,09:00,,2024-01-01T09:00,0,12\n" +
		"x.js,3,js,,dylan,2024-01-01,09:00,,2024-01-01T09:00,0,12\n" +
		"x.js,4,js,a1,dylan,2024-01-01,09:00,,yesterday,0,12\n" +
		"x.js,5,js,a1\n" +
		"x.js,6,js,a1,dylan,2024-01-01,09:00,,2024-01-01T09:00,0,12\n"

	rows, summary, err := meta.NewLoader(time.UTC).Parse("loc.csv", strings.NewReader(log))
	require.NoError(t, err)

	assert.Len(t, rows, 2)
	assert.Equal(t, 6, summary.Records)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, 4, summary.Skipped)
	require.Len(t, summary.Errors, 4)
	assert.Equal(t, 3, summary.Errors[0].Line)
	assert.Contains(t, summary.Errors[0].Reason, "invalid line")
	assert.Contains(t, summary.Errors[1].Reason, "empty commit")
	assert.Contains(t, summary.Errors[2].Reason, "invalid datetime")
	assert.Contains(t, summary.Errors[3].Reason, "expected 11 fields")
}

func TestParseCapsRecordedErrors(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < 5; i++ {
		b.WriteString("x.js,bad,js,a1,dylan,,,,2024-01-01T09:00,0,1\n")
	}

	l := meta.NewLoader(time.UTC)
	l.MaxErrors = 2
	_, summary, err := l.Parse("loc.csv", strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Skipped)
	assert.Len(t, summary.Errors, 2)
}

func TestParseRejectsWholeLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		kind  meta.LoadErrorKind
	}{
		{name: "empty", input: "", kind: meta.KindMalformed},
		{name: "missing datetime column", input: "file,line,commit\nx.js,1,a1\n", kind: meta.KindMalformed},
		{name: "duplicate column", input: "file,file,line,commit,datetime\n", kind: meta.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := meta.NewLoader(time.UTC).Parse("loc.csv", strings.NewReader(tt.input))
			require.Error(t, err)

			var loadErr *meta.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.kind, loadErr.Kind)
			assert.ErrorIs(t, err, meta.ErrMalformed)
			assert.NotErrorIs(t, err, meta.ErrUnavailable)
		})
	}
}

func TestParseUnreadableSource(t *testing.T) {
	t.Parallel()

	_, _, err := meta.NewLoader(time.UTC).Parse("loc.csv", iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.ErrorIs(t, err, meta.ErrUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestParseDatetime(t *testing.T) {
	t.Parallel()

	pst := time.FixedZone("PST", -8*3600)

	got, err := meta.ParseDatetime("2024-01-01T09:00:00-08:00", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, got.Location())

	got, err = meta.ParseDatetime("2024-01-01T09:00", pst)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)))

	_, err = meta.ParseDatetime("", time.UTC)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := meta.ParseDate("2024-01-01", "-08:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))

	got, err = meta.ParseDate("2024-01-01", "")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err = meta.ParseDate("01/01/2024", "")
	assert.Error(t, err)
}
