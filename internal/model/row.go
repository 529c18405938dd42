package model

import "fmt"

// Column names of the dataset CSV.
const (
	ColumnSrc     = "src"
	ColumnBgc     = "bgc"
	ColumnAudio   = "audio"
	ColumnDescrib = "describ"
	ColumnTitle   = "title"
)

// Header is the column order written by the dataset builder.
var Header = []string{ColumnSrc, ColumnBgc, ColumnAudio, ColumnDescrib, ColumnTitle}

// Row is one entry of the dataset consumed by the installation.
type Row struct {
	// Src is the image path. Empty for audio-only entries.
	Src string

	// Bgc is the background image path, always equal to Src.
	Bgc string

	// Audio is the recording path. Empty for image-only entries.
	Audio string

	// Describ is the description shown with the entry: normalised note
	// text, or the joined tag list after a tag import.
	Describ string

	// Title is the human-readable label, "<user> | <basename>".
	Title string
}

// Record returns the row's fields in Header order.
func (r Row) Record() []string {
	return []string{r.Src, r.Bgc, r.Audio, r.Describ, r.Title}
}

// RowFromRecord builds a Row from fields in Header order.
func RowFromRecord(record []string) (Row, error) {
	if len(record) != len(Header) {
		return Row{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(record))
	}
	return Row{
		Src:     record[0],
		Bgc:     record[1],
		Audio:   record[2],
		Describ: record[3],
		Title:   record[4],
	}, nil
}

// Title formats the label of an entry.
func Title(user, base string) string {
	return user + " | " + base
}
