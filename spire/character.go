package spire

import "encoding/json"

// Intent is a monster's telegraphed move classification.
type Intent byte

const (
	IntentAttack Intent = iota + 1
	IntentAttackBuff
	IntentAttackDebuff
	IntentAttackDefend
	IntentBuff
	IntentDebuff
	IntentStrongDebuff
	IntentDebug
	IntentDefend
	IntentDefendDebuff
	IntentDefendBuff
	IntentEscape
	IntentMagic
	IntentNone
	IntentSleep
	IntentStun
	IntentUnknown
)

var IntentDictionary = map[Intent]string{
	IntentAttack:       "ATTACK",
	IntentAttackBuff:   "ATTACK_BUFF",
	IntentAttackDebuff: "ATTACK_DEBUFF",
	IntentAttackDefend: "ATTACK_DEFEND",
	IntentBuff:         "BUFF",
	IntentDebuff:       "DEBUFF",
	IntentStrongDebuff: "STRONG_DEBUFF",
	IntentDebug:        "DEBUG",
	IntentDefend:       "DEFEND",
	IntentDefendDebuff: "DEFEND_DEBUFF",
	IntentDefendBuff:   "DEFEND_BUFF",
	IntentEscape:       "ESCAPE",
	IntentMagic:        "MAGIC",
	IntentNone:         "NONE",
	IntentSleep:        "SLEEP",
	IntentStun:         "STUN",
	IntentUnknown:      "UNKNOWN",
}

var intentByName = reverseDict(IntentDictionary)

func (i Intent) String() string { return IntentDictionary[i] }

// IsAttack reports whether the intent includes an attack component.
func (i Intent) IsAttack() bool {
	switch i {
	case IntentAttack, IntentAttackBuff, IntentAttackDebuff, IntentAttackDefend:
		return true
	}
	return false
}

func (i *Intent) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	v, ok := intentByName[name]
	if !ok {
		return errParse("intent", "unknown intent %q", name)
	}
	*i = v
	return nil
}

func (i Intent) MarshalJSON() ([]byte, error) { return json.Marshal(i.String()) }

// PlayerClass 1-IRONCLAD 2-THE_SILENT 3-DEFECT
type PlayerClass byte

const (
	PlayerClassIronclad  PlayerClass = 1
	PlayerClassTheSilent PlayerClass = 2
	PlayerClassDefect    PlayerClass = 3
)

var PlayerClassDictionary = map[PlayerClass]string{
	PlayerClassIronclad:  "IRONCLAD",
	PlayerClassTheSilent: "THE_SILENT",
	PlayerClassDefect:    "DEFECT",
}

var playerClassByName = reverseDict(PlayerClassDictionary)

// AllPlayerClasses in their fixed cycling order.
var AllPlayerClasses = []PlayerClass{PlayerClassIronclad, PlayerClassTheSilent, PlayerClassDefect}

func (c PlayerClass) String() string { return PlayerClassDictionary[c] }

// ParsePlayerClass maps a wire class name to its enum value.
func ParsePlayerClass(name string) (PlayerClass, error) {
	v, ok := playerClassByName[name]
	if !ok {
		return 0, errParse("class", "unknown player class %q", name)
	}
	return v, nil
}

func (c *PlayerClass) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	v, err := ParsePlayerClass(name)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c PlayerClass) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// Orb is a Defect combat orb slot.
type Orb struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	EvokeAmount   int    `json:"evoke_amount"`
	PassiveAmount int    `json:"passive_amount"`
}

// Player is the hero's combat-only state.
type Player struct {
	MaxHP     int     `json:"max_hp"`
	CurrentHP int     `json:"current_hp"`
	Block     int     `json:"block"`
	Energy    int     `json:"energy"`
	Powers    []Power `json:"powers"`
	Orbs      []Orb   `json:"orbs"`
}

// Monster is one enemy in the current combat. MonsterIndex is its
// position in the snapshot's monster list at parse time and is the
// wire-level target identifier for the whole combat.
type Monster struct {
	Name               string  `json:"name"`
	ID                 string  `json:"id"`
	MaxHP              int     `json:"max_hp"`
	CurrentHP          int     `json:"current_hp"`
	Block              int     `json:"block"`
	Intent             Intent  `json:"intent"`
	HalfDead           bool    `json:"half_dead"`
	IsGone             bool    `json:"is_gone"`
	MoveID             int     `json:"move_id"`
	LastMoveID         *int    `json:"last_move_id,omitempty"`
	SecondLastMoveID   *int    `json:"second_last_move_id,omitempty"`
	MoveBaseDamage     int     `json:"move_base_damage"`
	MoveAdjustedDamage int     `json:"move_adjusted_damage"`
	MoveHits           int     `json:"move_hits"`
	Powers             []Power `json:"powers"`
	MonsterIndex       int     `json:"-"`
}

// UnmarshalJSON seeds the move fields with -1 so an absent move (no
// telegraph yet) stays distinguishable from a zero-damage one.
func (m *Monster) UnmarshalJSON(data []byte) error {
	type monsterAlias Monster
	tmp := monsterAlias{MoveID: -1, MoveAdjustedDamage: -1}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*m = Monster(tmp)
	return nil
}

// Looks reports whether two monsters are indistinguishable by their
// visible stats. Wire identity does not survive across snapshots, so
// this is the closest available cross-snapshot match.
func (m *Monster) Looks(other *Monster) bool {
	if m.Name != other.Name || m.CurrentHP != other.CurrentHP || m.MaxHP != other.MaxHP || m.Block != other.Block {
		return false
	}
	if len(m.Powers) != len(other.Powers) {
		return false
	}
	for i := range m.Powers {
		if !m.Powers[i].Equal(other.Powers[i]) {
			return false
		}
	}
	return true
}

// AvailableMonsters filters to monsters that can still be interacted
// with: alive, not half-dead, not gone.
func AvailableMonsters(monsters []*Monster) []*Monster {
	var out []*Monster
	for _, m := range monsters {
		if m.CurrentHP > 0 && !m.HalfDead && !m.IsGone {
			out = append(out, m)
		}
	}
	return out
}
