// Package replay records driver sessions as line-delimited JSON tapes
// and reads them back for offline analysis. A tape is a header line,
// one entry per protocol line in either direction, and a footer with
// the run's outcome. A tape without a footer is a crash tape and is
// still readable.
package replay

import "time"

// TapeVersion is written into every header. Readers reject tapes from
// a different major format.
const TapeVersion = 1

// Directions of a protocol line relative to the driver.
const (
	DirIn  = "in"
	DirOut = "out"
)

// Header opens a tape and freezes the run parameters.
type Header struct {
	Version   int       `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Class     string    `json:"class,omitempty"`
	Ascension int       `json:"ascension"`
	Seed      string    `json:"seed,omitempty"`
}

// Entry is one protocol line. Seq starts at 1 and is contiguous.
type Entry struct {
	Seq  uint64    `json:"seq"`
	Dir  string    `json:"dir"`
	Line string    `json:"line"`
	At   time.Time `json:"at"`
}

// Footer closes a tape with the run outcome.
type Footer struct {
	EndedAt time.Time `json:"ended_at"`
	Victory bool      `json:"victory"`
	Score   int       `json:"score"`
	Floor   int       `json:"floor"`
}

// Tape is a fully parsed session. Footer is nil when the session
// ended without one.
type Tape struct {
	Header  Header
	Entries []Entry
	Footer  *Footer
}

// Record types, the value of each tape line's "type" field.
const (
	recordHeader = "header"
	recordEntry  = "entry"
	recordFooter = "footer"
)

// record is the envelope of one tape line. Exactly one payload field
// matches Type.
type record struct {
	Type   string  `json:"type"`
	Header *Header `json:"header,omitempty"`
	Entry  *Entry  `json:"entry,omitempty"`
	Footer *Footer `json:"footer,omitempty"`
}
