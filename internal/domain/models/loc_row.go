package models

import "time"

// LocRow is the database form of a Row, one record per commit/file/line
type LocRow struct {
	ID       uint      `gorm:"primaryKey"`
	Seq      int       `gorm:"not null;index"` // position in the source log
	Commit   string    `gorm:"size:64;not null;uniqueIndex:idx_loc_rows_line,priority:1"`
	File     string    `gorm:"not null;uniqueIndex:idx_loc_rows_line,priority:2"`
	Line     int       `gorm:"not null;uniqueIndex:idx_loc_rows_line,priority:3"`
	Author   string    `gorm:"size:255"`
	Date     time.Time `gorm:"not null"`
	Time     string    `gorm:"size:32"`
	Timezone string    `gorm:"size:8"`
	Datetime time.Time `gorm:"not null;index"`
	Depth    int       `gorm:"not null;default:0"`
	Length   int       `gorm:"not null;default:0"`
	Type     string    `gorm:"size:64;index"`

	CreatedAt time.Time
}

// TableName specifies the table name for LocRow
func (LocRow) TableName() string {
	return "loc_rows"
}

// NewLocRow converts a loaded Row into its database form
func NewLocRow(seq int, r Row) LocRow {
	return LocRow{
		Seq:      seq,
		Commit:   r.Commit,
		File:     r.File,
		Line:     r.Line,
		Author:   r.Author,
		Date:     r.Date,
		Time:     r.Time,
		Timezone: r.Timezone,
		Datetime: r.Datetime,
		Depth:    r.Depth,
		Length:   r.Length,
		Type:     r.Type,
	}
}

// ToRow converts the record back into a Row, placing datetimes in loc
func (l LocRow) ToRow(loc *time.Location) Row {
	return Row{
		File:     l.File,
		Commit:   l.Commit,
		Author:   l.Author,
		Date:     l.Date,
		Time:     l.Time,
		Timezone: l.Timezone,
		Datetime: l.Datetime.In(loc),
		Line:     l.Line,
		Depth:    l.Depth,
		Length:   l.Length,
		Type:     l.Type,
	}
}
