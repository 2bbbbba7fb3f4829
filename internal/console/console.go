// Package console serves a localhost operator page over websockets.
// Every protocol line is mirrored to connected browsers, and a browser
// can pause the decision loop, resume it, or inject a manual command
// line into the outbound queue.
package console

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: check Origin host when CONSOLE_ADDR binds beyond loopback
	},
}

// CommandSink receives manual command lines typed by an operator.
type CommandSink interface {
	Push(line string)
}

// PauseControl suspends and resumes the decision loop.
type PauseControl interface {
	SetPaused(v bool)
	Paused() bool
}

// Frame types sent to the browser.
const (
	FrameLine   = "line"
	FrameStatus = "status"
)

// Frame is one websocket message to the browser. Line frames carry a
// protocol line with its direction; status frames carry the run state.
type Frame struct {
	Type   string  `json:"type"`
	Dir    string  `json:"dir,omitempty"`
	Line   string  `json:"line,omitempty"`
	Status *Status `json:"status,omitempty"`
	TsMs   int64   `json:"ts_ms"`
}

// Status is what the operator page shows in its header bar.
type Status struct {
	Running   bool   `json:"running"`
	Paused    bool   `json:"paused"`
	Class     string `json:"class,omitempty"`
	Ascension int    `json:"ascension"`
	Seed      string `json:"seed,omitempty"`
	Run       int    `json:"run"`
}

// clientMessage is what the browser sends: a control op or a raw
// command line for the game.
type clientMessage struct {
	Op  string `json:"op,omitempty"`
	Cmd string `json:"cmd,omitempty"`
}

// Console manages websocket connections and the shared view of the
// session.
type Console struct {
	mu          sync.RWMutex
	connections map[string]*connection
	nextConnID  uint64

	commands CommandSink
	control  PauseControl

	status   Status
	lastGame string
}

type connection struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	console *Console
}

func New(commands CommandSink, control PauseControl) *Console {
	return &Console{
		connections: make(map[string]*connection),
		commands:    commands,
		control:     control,
	}
}

// HandleWebSocket upgrades the request and starts the connection's
// pumps. A fresh client is sent the current status and the latest
// snapshot line right away instead of waiting for the next update.
func (s *Console) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Console] upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	s.nextConnID++
	c := &connection{
		id:      fmt.Sprintf("conn_%d", s.nextConnID),
		conn:    conn,
		send:    make(chan []byte, 256),
		console: s,
	}
	s.connections[c.id] = c
	lastGame := s.lastGame
	total := len(s.connections)
	s.mu.Unlock()

	log.Printf("[Console] client connected: %s, total: %d", c.id, total)

	c.enqueue(s.statusFrame())
	if lastGame != "" {
		c.enqueue(marshalFrame(lineFrame("in", lastGame)))
	}

	go c.readPump()
	go c.writePump()
}

// ObserveIn mirrors one line received from the game. It sits on the
// transport's OnInbound hook.
func (s *Console) ObserveIn(line string) {
	s.mu.Lock()
	s.lastGame = line
	s.mu.Unlock()
	s.broadcast(marshalFrame(lineFrame("in", line)))
}

// ObserveOut mirrors one command line sent to the game. It sits on the
// transport's OnOutbound hook.
func (s *Console) ObserveOut(line string) {
	s.broadcast(marshalFrame(lineFrame("out", line)))
}

// SetStatus replaces the run status and pushes it to every client.
// The paused flag is read from the control, which owns it.
func (s *Console) SetStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	s.broadcast(s.statusFrame())
}

func (s *Console) statusFrame() []byte {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()
	st.Paused = s.control.Paused()
	return marshalFrame(Frame{Type: FrameStatus, Status: &st, TsMs: time.Now().UnixMilli()})
}

func lineFrame(dir, line string) Frame {
	return Frame{Type: FrameLine, Dir: dir, Line: line, TsMs: time.Now().UnixMilli()}
}

func marshalFrame(f Frame) []byte {
	data, _ := json.Marshal(f)
	return data
}

func (s *Console) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.connections {
		select {
		case c.send <- data:
		default:
			// Drop if the client's buffer is full.
		}
	}
}

func (s *Console) removeConnection(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, c.id)
	log.Printf("[Console] client disconnected: %s, total: %d", c.id, len(s.connections))
}

func (c *connection) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (c *connection) readPump() {
	defer func() {
		c.console.removeConnection(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Console] read error: %v", err)
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *connection) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[Console] bad client message from %s: %v", c.id, err)
		return
	}

	switch {
	case msg.Op == "pause":
		c.console.control.SetPaused(true)
		log.Printf("[Console] %s paused the driver", c.id)
		c.console.broadcast(c.console.statusFrame())
	case msg.Op == "resume":
		c.console.control.SetPaused(false)
		log.Printf("[Console] %s resumed the driver", c.id)
		c.console.broadcast(c.console.statusFrame())
	case msg.Op == "status":
		c.enqueue(c.console.statusFrame())
	case strings.TrimSpace(msg.Cmd) != "":
		line := strings.TrimSpace(msg.Cmd)
		log.Printf("[Console] %s sent command: %s", c.id, line)
		c.console.commands.Push(line)
	default:
		log.Printf("[Console] unknown client message from %s", c.id)
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
