// Package comm drives the line protocol spoken with the game process:
// one JSON message per inbound line, one plain-text command per
// outbound line, and never more than one command in flight. The
// Coordinator holds the protocol state; Actions are the vocabulary of
// things it may say.
package comm

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"

	"spirepilot/spire"
)

// Phase 1-AWAITING_READY 2-READY_IDLE 3-READY_PENDING 4-AWAITING_RESPONSE
type Phase byte

const (
	PhaseAwaitingReady Phase = iota + 1
	PhaseReadyIdle
	PhaseReadyPending
	PhaseAwaitingResponse
)

var PhaseDictionary = map[Phase]string{
	PhaseAwaitingReady:    "AWAITING_READY",
	PhaseReadyIdle:        "READY_IDLE",
	PhaseReadyPending:     "READY_PENDING",
	PhaseAwaitingResponse: "AWAITING_RESPONSE",
}

func (p Phase) String() string { return PhaseDictionary[p] }

// StateChangeFunc decides the next action for a fresh in-game
// snapshot. It is only consulted while the pending queue is empty.
type StateChangeFunc func(*spire.Game) Action

// OutOfGameFunc decides what to do between runs.
type OutOfGameFunc func() Action

// ErrorFunc turns a game-reported error into a recovery action.
type ErrorFunc func(msg string) Action

// envelope is the fixed frame around every inbound message.
type envelope struct {
	ReadyForCommand   bool            `json:"ready_for_command"`
	Error             string          `json:"error"`
	InGame            bool            `json:"in_game"`
	GameState         json.RawMessage `json:"game_state"`
	AvailableCommands []string        `json:"available_commands"`
}

// Coordinator owns the protocol session. All methods except SetPaused
// and SetStopAfterRun must be called from the single goroutine that
// drives Run or PlayOneGame; those two are safe from anywhere, which
// is how an operator console reaches in.
type Coordinator struct {
	transport *Transport

	stateChange StateChangeFunc
	outOfGame   OutOfGameFunc
	onError     ErrorFunc

	onSnapshot    func(*spire.Game)
	onPhaseChange func(Phase)

	actions []Action

	gameReady   bool
	sentCommand bool
	inGame      bool
	lastGame    *spire.Game
	lastError   string
	phase       Phase
	faults      int

	paused       atomic.Bool
	stopAfterRun atomic.Bool
}

func NewCoordinator(t *Transport) *Coordinator {
	return &Coordinator{transport: t, phase: PhaseAwaitingReady}
}

func (c *Coordinator) Transport() *Transport { return c.transport }

func (c *Coordinator) RegisterStateChange(fn StateChangeFunc) { c.stateChange = fn }

func (c *Coordinator) RegisterOutOfGame(fn OutOfGameFunc) { c.outOfGame = fn }

func (c *Coordinator) RegisterErrorHandler(fn ErrorFunc) { c.onError = fn }

// OnSnapshot observes every accepted in-game snapshot.
func (c *Coordinator) OnSnapshot(fn func(*spire.Game)) { c.onSnapshot = fn }

// OnPhaseChange observes protocol phase transitions.
func (c *Coordinator) OnPhaseChange(fn func(Phase)) { c.onPhaseChange = fn }

// SetPaused suspends new decisions. Queued actions still drain;
// snapshots keep flowing to observers.
func (c *Coordinator) SetPaused(v bool) { c.paused.Store(v) }

func (c *Coordinator) Paused() bool { return c.paused.Load() }

// SetStopAfterRun drops the pending queue at the next between-runs
// message instead of starting another run.
func (c *Coordinator) SetStopAfterRun(v bool) { c.stopAfterRun.Store(v) }

func (c *Coordinator) GameReady() bool { return c.gameReady }

func (c *Coordinator) InGame() bool { return c.inGame }

func (c *Coordinator) LastGame() *spire.Game { return c.lastGame }

func (c *Coordinator) LastError() string { return c.lastError }

func (c *Coordinator) Phase() Phase { return c.phase }

// Faults counts actions dropped by validation since startup.
func (c *Coordinator) Faults() int { return c.faults }

func (c *Coordinator) QueueLen() int { return len(c.actions) }

// SignalReady performs the one-time handshake that starts the message
// stream.
func (c *Coordinator) SignalReady() { c.sendLine("ready") }

// AddAction appends an action to the pending queue.
func (c *Coordinator) AddAction(a Action) {
	c.enqueue(a)
	c.updatePhase()
}

// ClearActions drops the whole pending queue.
func (c *Coordinator) ClearActions() {
	c.actions = c.actions[:0]
	c.updatePhase()
}

func (c *Coordinator) enqueue(a Action) {
	if a == nil {
		return
	}
	c.actions = append(c.actions, a)
}

func (c *Coordinator) sendLine(line string) {
	c.transport.Out.Push(line)
	c.gameReady = false
	c.sentCommand = true
	c.updatePhase()
}

func (c *Coordinator) updatePhase() {
	next := PhaseAwaitingReady
	switch {
	case c.gameReady && len(c.actions) > 0:
		next = PhaseReadyPending
	case c.gameReady:
		next = PhaseReadyIdle
	case c.sentCommand:
		next = PhaseAwaitingResponse
	}
	if next != c.phase {
		c.phase = next
		if c.onPhaseChange != nil {
			c.onPhaseChange(next)
		}
	}
}

// ExecuteNextActionIfReady pops and executes the queue head, unless
// the head needs the ready flag and the game has not raised it.
// Returns whether an action was consumed. A faulted action clears the
// rest of the queue, since the tail of a compound sequence is
// meaningless once its head has failed.
func (c *Coordinator) ExecuteNextActionIfReady() bool {
	if len(c.actions) == 0 {
		return false
	}
	head := c.actions[0]
	if head.requiresReady() && !c.gameReady {
		return false
	}
	c.actions = c.actions[1:]
	if err := head.execute(c); err != nil {
		c.faults++
		c.actions = c.actions[:0]
		log.Printf("[Coordinator] %v", err)
	}
	c.updatePhase()
	return true
}

// ReceiveUpdate consumes the next inbound message, blocking for one
// when block is set, and applies it to the protocol state, running
// the decision callbacks. Returns whether a message was consumed.
// ErrStreamClosed reports EOF on the inbound side.
func (c *Coordinator) ReceiveUpdate(ctx context.Context, block bool) (bool, error) {
	return c.receive(ctx, block, true)
}

func (c *Coordinator) receive(ctx context.Context, block, callbacks bool) (bool, error) {
	var line string
	var ok bool
	if block {
		line, ok = c.transport.In.Pop(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return false, ErrStreamClosed
		}
	} else {
		if line, ok = c.transport.In.TryPop(); !ok {
			return false, nil
		}
	}
	c.sentCommand = false

	var env envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		log.Printf("[Coordinator] dropping undecodable message: %v", err)
		c.updatePhase()
		return true, nil
	}
	c.lastError = env.Error
	c.gameReady = env.ReadyForCommand
	if env.Error == "" {
		c.inGame = env.InGame
		if env.InGame {
			g, err := spire.ParseGame(env.GameState, env.AvailableCommands)
			if err != nil {
				log.Printf("[Coordinator] dropping unparseable game state: %v", err)
				c.updatePhase()
				return true, nil
			}
			c.lastGame = g
			if c.onSnapshot != nil {
				c.onSnapshot(g)
			}
		}
	}

	if callbacks {
		switch {
		case env.Error != "":
			c.actions = c.actions[:0]
			c.handleGameError(env.Error)
		case c.inGame:
			if len(c.actions) == 0 && !c.paused.Load() {
				if c.stateChange == nil {
					log.Printf("[Coordinator] in-game snapshot with no state change handler registered")
				} else {
					c.enqueue(c.stateChange(c.lastGame))
				}
			}
		case c.stopAfterRun.Load():
			c.actions = c.actions[:0]
		default:
			if c.outOfGame != nil {
				c.enqueue(c.outOfGame())
			}
		}
	}
	c.updatePhase()
	return true, nil
}

func (c *Coordinator) handleGameError(msg string) {
	if c.onError == nil {
		log.Printf("[Coordinator] game error with no handler registered: %s", msg)
		return
	}
	c.enqueue(c.onError(msg))
}

// Run drives the session until ctx is done or the game goes away:
// execute at most one pending action, then block for the next
// message. Blocking is safe because every sent command provokes a
// response, and with nothing in flight there is nothing to do until
// the game speaks.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.ExecuteNextActionIfReady()
		if _, err := c.receive(ctx, true, true); err != nil {
			return err
		}
	}
}

// PlayOneGame plays a single run from the start command to the game
// over screen and reports whether it ended in victory, along with the
// final in-game snapshot. The registered callbacks supply every
// decision in between. An empty seed lets the game roll its own.
func (c *Coordinator) PlayOneGame(ctx context.Context, class spire.PlayerClass, ascension int, seed string) (bool, *spire.Game, error) {
	c.ClearActions()
	for !c.gameReady {
		if _, err := c.receive(ctx, true, false); err != nil {
			return false, c.lastGame, err
		}
	}
	if !c.inGame {
		if err := NewStartGame(class, ascension, seed).execute(c); err != nil {
			return false, c.lastGame, err
		}
		if _, err := c.receive(ctx, true, true); err != nil {
			return false, c.lastGame, err
		}
	}
	for c.inGame {
		c.ExecuteNextActionIfReady()
		if _, err := c.receive(ctx, true, true); err != nil {
			return false, c.lastGame, err
		}
	}
	if g := c.lastGame; g != nil && g.ScreenType == spire.ScreenTypeGameOver {
		if over, ok := g.Screen.(*spire.GameOverScreen); ok {
			return over.Victory, g, nil
		}
	}
	return false, c.lastGame, nil
}
