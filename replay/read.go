package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Snapshot lines routinely exceed bufio's 64KB default, so the scanner
// cap is raised well past the largest observed game state.
const (
	scanInitial = 64 * 1024
	scanMax     = 4 * 1024 * 1024
)

// ReadTape parses one session from r, validating the record framing as
// it goes. A missing footer is not an error, the tape is just marked
// incomplete. Every other framing defect is reported as a *TapeError
// carrying the sequence number where reading stopped.
func ReadTape(r io.Reader) (*Tape, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, scanInitial), scanMax)

	tape := &Tape{}
	sawHeader := false
	var lastSeq uint64
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, tapeErrf(int(lastSeq), ReasonBadJSON, "%s", err)
		}
		if tape.Footer != nil {
			return nil, tapeErrf(int(lastSeq), ReasonRecordAfterFooter, "record type %q after footer", rec.Type)
		}
		switch rec.Type {
		case recordHeader:
			if sawHeader {
				return nil, tapeErrf(int(lastSeq), ReasonDuplicateHeader, "second header record")
			}
			if rec.Header == nil {
				return nil, tapeErrf(0, ReasonMissingBody, "header record without header body")
			}
			if rec.Header.Version != TapeVersion {
				return nil, tapeErrf(0, ReasonVersionUnsupported, "tape version %d, reader supports %d", rec.Header.Version, TapeVersion)
			}
			tape.Header = *rec.Header
			sawHeader = true
		case recordEntry:
			if !sawHeader {
				return nil, tapeErrf(0, ReasonMissingHeader, "entry before header")
			}
			if rec.Entry == nil {
				return nil, tapeErrf(int(lastSeq), ReasonMissingBody, "entry record without entry body")
			}
			if rec.Entry.Seq != lastSeq+1 {
				return nil, tapeErrf(int(rec.Entry.Seq), ReasonSeqGap, "expected seq %d, got %d", lastSeq+1, rec.Entry.Seq)
			}
			if rec.Entry.Dir != DirIn && rec.Entry.Dir != DirOut {
				return nil, tapeErrf(int(rec.Entry.Seq), ReasonBadDirection, "direction %q", rec.Entry.Dir)
			}
			tape.Entries = append(tape.Entries, *rec.Entry)
			lastSeq = rec.Entry.Seq
		case recordFooter:
			if !sawHeader {
				return nil, tapeErrf(0, ReasonMissingHeader, "footer before header")
			}
			if rec.Footer == nil {
				return nil, tapeErrf(int(lastSeq), ReasonMissingBody, "footer record without footer body")
			}
			f := *rec.Footer
			tape.Footer = &f
		default:
			return nil, tapeErrf(int(lastSeq), ReasonUnknownRecord, "record type %q", rec.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tape: %w", err)
	}
	if !sawHeader {
		return nil, tapeErrf(0, ReasonMissingHeader, "tape has no header record")
	}
	return tape, nil
}

// ReadTapeFile reads a tape from disk.
func ReadTapeFile(path string) (*Tape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tape: %w", err)
	}
	defer f.Close()
	return ReadTape(f)
}

// InboundReader returns the tape's inbound lines as a newline-joined
// stream, in order, so a recorded session can be fed back through a
// transport.
func InboundReader(t *Tape) io.Reader {
	var b strings.Builder
	for _, e := range t.Entries {
		if e.Dir != DirIn {
			continue
		}
		b.WriteString(e.Line)
		b.WriteByte('\n')
	}
	return strings.NewReader(b.String())
}
