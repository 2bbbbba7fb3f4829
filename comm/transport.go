package comm

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"
)

type flusher interface {
	Flush() error
}

// Transport pumps newline-delimited messages between the external
// process and a pair of line queues. The inbound side is closed when
// the reader reaches EOF, which is how a detached game process is
// observed.
//
// OnInbound and OnOutbound, when set before Start, observe every line
// that crosses the wire in either direction. They run on the pump
// goroutines, so they must be safe to call concurrently with each
// other.
type Transport struct {
	In  *LineQueue
	Out *LineQueue

	OnInbound  func(line string)
	OnOutbound func(line string)

	r io.Reader
	w io.Writer
}

func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		In:  NewLineQueue(),
		Out: NewLineQueue(),
		r:   r,
		w:   w,
	}
}

// Start launches the read and write pumps.
func (t *Transport) Start() {
	go t.readPump()
	go t.writePump()
}

func (t *Transport) readPump() {
	defer t.In.Close()
	br := bufio.NewReader(t.r)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			// Data without a trailing newline is not a complete message.
			if rest := strings.TrimRight(line, "\r\n"); rest != "" {
				log.Printf("[Transport] dropping partial line at stream end (%d bytes)", len(rest))
			}
			if err != io.EOF {
				log.Printf("[Transport] read pump stopped: %v", err)
			}
			return
		}
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			if t.OnInbound != nil {
				t.OnInbound(line)
			}
			t.In.Push(line)
		}
	}
}

func (t *Transport) writePump() {
	for {
		line, ok := t.Out.Pop(context.Background())
		if !ok {
			return
		}
		if t.OnOutbound != nil {
			t.OnOutbound(line)
		}
		if _, err := io.WriteString(t.w, line+"\n"); err != nil {
			log.Printf("[Transport] write pump stopped: %v", err)
			return
		}
		if f, ok := t.w.(flusher); ok {
			if err := f.Flush(); err != nil {
				log.Printf("[Transport] flush failed: %v", err)
				return
			}
		}
	}
}

// Stop closes the outbound queue after any queued lines are written.
func (t *Transport) Stop() {
	t.Out.Close()
}
