package replay

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Recorder appends tape records to a writer as the session produces
// them. RecordIn and RecordOut are safe to call concurrently, so they
// can sit directly on a transport's OnInbound and OnOutbound hooks.
//
// Write errors are sticky: after the first failure later records are
// dropped and Finish reports the original error.
type Recorder struct {
	mu  sync.Mutex
	w   io.Writer
	seq uint64
	err error
	now func() time.Time
}

// NewRecorder writes the header line immediately. The header's
// Version is set by the recorder; a zero StartedAt is filled in.
func NewRecorder(w io.Writer, h Header) *Recorder {
	r := &Recorder{w: w, now: time.Now}
	h.Version = TapeVersion
	if h.StartedAt.IsZero() {
		h.StartedAt = r.now()
	}
	r.emit(record{Type: recordHeader, Header: &h})
	return r
}

// RecordIn records one line received from the game.
func (r *Recorder) RecordIn(line string) { r.record(DirIn, line) }

// RecordOut records one command line sent to the game.
func (r *Recorder) RecordOut(line string) { r.record(DirOut, line) }

func (r *Recorder) record(dir, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.seq++
	r.emit(record{Type: recordEntry, Entry: &Entry{
		Seq:  r.seq,
		Dir:  dir,
		Line: line,
		At:   r.now(),
	}})
}

// Finish writes the footer and returns the first write error of the
// session, if any. A zero EndedAt is filled in.
func (r *Recorder) Finish(f Footer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		if f.EndedAt.IsZero() {
			f.EndedAt = r.now()
		}
		r.emit(record{Type: recordFooter, Footer: &f})
	}
	return r.err
}

// emit marshals and writes one record. Callers other than NewRecorder
// hold mu.
func (r *Recorder) emit(rec record) {
	buf, err := json.Marshal(rec)
	if err != nil {
		r.err = err
		return
	}
	buf = append(buf, '\n')
	if _, err := r.w.Write(buf); err != nil {
		r.err = err
	}
}
