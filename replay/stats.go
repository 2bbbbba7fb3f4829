package replay

import (
	"strings"
	"time"
)

// TapeStats summarizes one tape.
type TapeStats struct {
	Class    string
	Entries  int
	In       int
	Out      int
	Verbs    map[string]int
	Duration time.Duration
	Complete bool
	Victory  bool
	Score    int
	Floor    int
}

// Stats walks the tape once, counting lines per direction and outbound
// lines per command verb. Duration runs from the header to the footer,
// or to the last entry on a crash tape.
func Stats(t *Tape) TapeStats {
	s := TapeStats{
		Class: t.Header.Class,
		Verbs: make(map[string]int),
	}
	end := t.Header.StartedAt
	for _, e := range t.Entries {
		s.Entries++
		switch e.Dir {
		case DirIn:
			s.In++
		case DirOut:
			s.Out++
			verb := e.Line
			if i := strings.IndexByte(verb, ' '); i >= 0 {
				verb = verb[:i]
			}
			s.Verbs[verb]++
		}
		if e.At.After(end) {
			end = e.At
		}
	}
	if t.Footer != nil {
		s.Complete = true
		s.Victory = t.Footer.Victory
		s.Score = t.Footer.Score
		s.Floor = t.Footer.Floor
		if t.Footer.EndedAt.After(end) {
			end = t.Footer.EndedAt
		}
	}
	s.Duration = end.Sub(t.Header.StartedAt)
	return s
}
