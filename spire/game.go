// Package spire models one snapshot of the external game as delivered
// over the line protocol. A Game is built once per received message,
// is never mutated afterwards, and is wholly replaced by the next one;
// nothing inside it survives across messages by reference.
package spire

import "encoding/json"

// RoomPhase 1-COMBAT 2-EVENT 3-COMPLETE 4-INCOMPLETE
type RoomPhase byte

const (
	RoomPhaseCombat     RoomPhase = 1
	RoomPhaseEvent      RoomPhase = 2
	RoomPhaseComplete   RoomPhase = 3
	RoomPhaseIncomplete RoomPhase = 4
)

var RoomPhaseDictionary = map[RoomPhase]string{
	RoomPhaseCombat:     "COMBAT",
	RoomPhaseEvent:      "EVENT",
	RoomPhaseComplete:   "COMPLETE",
	RoomPhaseIncomplete: "INCOMPLETE",
}

var roomPhaseByName = reverseDict(RoomPhaseDictionary)

func (p RoomPhase) String() string { return RoomPhaseDictionary[p] }

// RoomTypeMonsterBoss is the raw room class name of a boss fight.
const RoomTypeMonsterBoss = "MonsterRoomBoss"

// Game is one full session snapshot.
type Game struct {
	// General state
	CurrentAction  string
	CurrentHP      int
	MaxHP          int
	Floor          int
	Act            int
	Gold           int
	Seed           int64
	Class          PlayerClass
	AscensionLevel int
	ActBoss        string
	Relics         []Relic
	Deck           []Card
	Potions        []Potion
	Map            *Map

	// Combat state, set only while RoomPhase is COMBAT
	InCombat               bool
	Player                 *Player
	Monsters               []*Monster
	DrawPile               []Card
	DiscardPile            []Card
	ExhaustPile            []Card
	Hand                   []Card
	Limbo                  []Card
	CardInPlay             *Card
	Turn                   int
	CardsDiscardedThisTurn int

	// Current screen
	Screen          Screen
	ScreenUp        bool
	ScreenType      ScreenType
	RoomPhase       RoomPhase
	RoomType        string
	ChoiceList      []string
	ChoiceAvailable bool

	// Command availability for this message
	EndAvailable     bool
	PotionAvailable  bool
	PlayAvailable    bool
	ProceedAvailable bool
	CancelAvailable  bool
}

type combatJSON struct {
	Player         *Player    `json:"player"`
	Monsters       []*Monster `json:"monsters"`
	DrawPile       []Card     `json:"draw_pile"`
	DiscardPile    []Card     `json:"discard_pile"`
	ExhaustPile    []Card     `json:"exhaust_pile"`
	Hand           []Card     `json:"hand"`
	Limbo          []Card     `json:"limbo"`
	CardInPlay     *Card      `json:"card_in_play,omitempty"`
	Turn           int        `json:"turn"`
	CardsDiscarded int        `json:"cards_discarded_this_turn"`
}

type gameJSON struct {
	CurrentAction  *string         `json:"current_action,omitempty"`
	CurrentHP      int             `json:"current_hp"`
	MaxHP          int             `json:"max_hp"`
	Floor          int             `json:"floor"`
	Act            int             `json:"act"`
	Gold           int             `json:"gold"`
	Seed           int64           `json:"seed"`
	Class          string          `json:"class"`
	AscensionLevel int             `json:"ascension_level"`
	ActBoss        *string         `json:"act_boss,omitempty"`
	Relics         []Relic         `json:"relics"`
	Deck           []Card          `json:"deck"`
	Potions        []Potion        `json:"potions"`
	Map            []nodeJSON      `json:"map"`
	ScreenUp       bool            `json:"is_screen_up"`
	ScreenTypeName string          `json:"screen_type"`
	ScreenState    json.RawMessage `json:"screen_state,omitempty"`
	RoomPhase      string          `json:"room_phase"`
	RoomType       string          `json:"room_type"`
	ChoiceList     *[]string       `json:"choice_list,omitempty"`
	CombatState    *combatJSON     `json:"combat_state,omitempty"`
}

// ParseGame maps one game_state payload plus the message's available
// command verbs into a snapshot. Any failure is a *ParseError (or a
// json error) invalidating only this message.
func ParseGame(data []byte, availableCommands []string) (*Game, error) {
	var js gameJSON
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, err
	}

	g := &Game{
		CurrentHP:      js.CurrentHP,
		MaxHP:          js.MaxHP,
		Floor:          js.Floor,
		Act:            js.Act,
		Gold:           js.Gold,
		Seed:           js.Seed,
		AscensionLevel: js.AscensionLevel,
		Relics:         js.Relics,
		Deck:           js.Deck,
		Potions:        js.Potions,
		Map:            mapFromNodeList(js.Map),
		ScreenUp:       js.ScreenUp,
		RoomType:       js.RoomType,
	}
	if js.CurrentAction != nil {
		g.CurrentAction = *js.CurrentAction
	}
	if js.ActBoss != nil {
		g.ActBoss = *js.ActBoss
	}

	class, err := ParsePlayerClass(js.Class)
	if err != nil {
		return nil, err
	}
	g.Class = class

	screenType, err := ParseScreenType(js.ScreenTypeName)
	if err != nil {
		return nil, err
	}
	g.ScreenType = screenType
	screen, err := screenFromJSON(screenType, js.ScreenState)
	if err != nil {
		return nil, err
	}
	g.Screen = screen

	phase, ok := roomPhaseByName[js.RoomPhase]
	if !ok {
		return nil, errParse("room_phase", "unknown room phase %q", js.RoomPhase)
	}
	g.RoomPhase = phase

	// choice_available means the key was present, even when empty.
	if js.ChoiceList != nil {
		g.ChoiceAvailable = true
		g.ChoiceList = *js.ChoiceList
	}

	g.InCombat = phase == RoomPhaseCombat
	if g.InCombat {
		if js.CombatState == nil {
			return nil, errParse("combat_state", "missing during combat")
		}
		cs := js.CombatState
		g.Player = cs.Player
		g.Monsters = cs.Monsters
		for i, m := range g.Monsters {
			m.MonsterIndex = i
		}
		g.DrawPile = cs.DrawPile
		g.DiscardPile = cs.DiscardPile
		g.ExhaustPile = cs.ExhaustPile
		g.Hand = cs.Hand
		g.Limbo = cs.Limbo
		g.CardInPlay = cs.CardInPlay
		g.Turn = cs.Turn
		g.CardsDiscardedThisTurn = cs.CardsDiscarded
	}

	g.EndAvailable = containsString(availableCommands, "end")
	g.PotionAvailable = containsString(availableCommands, "potion")
	g.PlayAvailable = containsString(availableCommands, "play")
	g.ProceedAvailable = containsString(availableCommands, "proceed") ||
		containsString(availableCommands, "confirm")
	g.CancelAvailable = containsString(availableCommands, "cancel") ||
		containsString(availableCommands, "leave") ||
		containsString(availableCommands, "return") ||
		containsString(availableCommands, "skip")

	return g, nil
}

// MarshalJSON emits the wire-shaped game_state payload; ParseGame of
// the result with AvailableCommands() rebuilds an identical snapshot.
func (g *Game) MarshalJSON() ([]byte, error) {
	js := gameJSON{
		CurrentHP:      g.CurrentHP,
		MaxHP:          g.MaxHP,
		Floor:          g.Floor,
		Act:            g.Act,
		Gold:           g.Gold,
		Seed:           g.Seed,
		Class:          g.Class.String(),
		AscensionLevel: g.AscensionLevel,
		Relics:         g.Relics,
		Deck:           g.Deck,
		Potions:        g.Potions,
		ScreenUp:       g.ScreenUp,
		ScreenTypeName: g.ScreenType.String(),
		RoomPhase:      g.RoomPhase.String(),
		RoomType:       g.RoomType,
	}
	if g.CurrentAction != "" {
		js.CurrentAction = &g.CurrentAction
	}
	if g.ActBoss != "" {
		js.ActBoss = &g.ActBoss
	}
	if g.ChoiceAvailable {
		choices := g.ChoiceList
		if choices == nil {
			choices = []string{}
		}
		js.ChoiceList = &choices
	}
	if g.Map != nil {
		for y := 0; y <= g.Map.Height(); y++ {
			for _, n := range g.Map.Layer(y) {
				jn := nodeJSON{X: n.X, Y: n.Y, Symbol: n.Symbol, Children: []nodeRefJSON{}}
				for _, c := range n.Children {
					jn.Children = append(jn.Children, nodeRefJSON{X: c.X, Y: c.Y})
				}
				js.Map = append(js.Map, jn)
			}
		}
	}
	if g.Screen != nil {
		raw, err := json.Marshal(g.Screen)
		if err != nil {
			return nil, err
		}
		js.ScreenState = raw
	}
	if g.InCombat {
		js.CombatState = &combatJSON{
			Player:         g.Player,
			Monsters:       g.Monsters,
			DrawPile:       g.DrawPile,
			DiscardPile:    g.DiscardPile,
			ExhaustPile:    g.ExhaustPile,
			Hand:           g.Hand,
			Limbo:          g.Limbo,
			CardInPlay:     g.CardInPlay,
			Turn:           g.Turn,
			CardsDiscarded: g.CardsDiscardedThisTurn,
		}
	}
	return json.Marshal(js)
}

// AvailableCommands rebuilds a canonical command-verb list from the
// snapshot's availability flags.
func (g *Game) AvailableCommands() []string {
	var cmds []string
	if g.PlayAvailable {
		cmds = append(cmds, "play")
	}
	if g.EndAvailable {
		cmds = append(cmds, "end")
	}
	if g.PotionAvailable {
		cmds = append(cmds, "potion")
	}
	if g.ProceedAvailable {
		cmds = append(cmds, "proceed")
	}
	if g.CancelAvailable {
		cmds = append(cmds, "cancel")
	}
	if g.ChoiceAvailable {
		cmds = append(cmds, "choose")
	}
	return cmds
}

// ArePotionsFull reports whether no empty potion slot remains.
func (g *Game) ArePotionsFull() bool {
	for _, p := range g.Potions {
		if p.ID == potionSlotID {
			return false
		}
	}
	return true
}

// RealPotions returns held potions, excluding empty slots.
func (g *Game) RealPotions() []Potion {
	var out []Potion
	for _, p := range g.Potions {
		if p.ID != potionSlotID {
			out = append(out, p)
		}
	}
	return out
}
