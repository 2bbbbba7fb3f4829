package spire

import (
	"encoding/json"
	"strings"
)

// ScreenType keys the modal screen union.
type ScreenType byte

const (
	ScreenTypeEvent ScreenType = iota + 1
	ScreenTypeChest
	ScreenTypeShopRoom
	ScreenTypeRest
	ScreenTypeCardReward
	ScreenTypeCombatReward
	ScreenTypeMap
	ScreenTypeBossReward
	ScreenTypeShopScreen
	ScreenTypeGrid
	ScreenTypeHandSelect
	ScreenTypeGameOver
	ScreenTypeComplete
	ScreenTypeNone
)

var ScreenTypeDictionary = map[ScreenType]string{
	ScreenTypeEvent:        "EVENT",
	ScreenTypeChest:        "CHEST",
	ScreenTypeShopRoom:     "SHOP_ROOM",
	ScreenTypeRest:         "REST",
	ScreenTypeCardReward:   "CARD_REWARD",
	ScreenTypeCombatReward: "COMBAT_REWARD",
	ScreenTypeMap:          "MAP",
	ScreenTypeBossReward:   "BOSS_REWARD",
	ScreenTypeShopScreen:   "SHOP_SCREEN",
	ScreenTypeGrid:         "GRID",
	ScreenTypeHandSelect:   "HAND_SELECT",
	ScreenTypeGameOver:     "GAME_OVER",
	ScreenTypeComplete:     "COMPLETE",
	ScreenTypeNone:         "NONE",
}

var screenTypeByName = reverseDict(ScreenTypeDictionary)

func (t ScreenType) String() string { return ScreenTypeDictionary[t] }

// ParseScreenType maps a wire screen-type name to its enum value.
// Unrecognized names are a parse error, never a silent default.
func ParseScreenType(name string) (ScreenType, error) {
	v, ok := screenTypeByName[name]
	if !ok {
		return 0, errParse("screen_type", "unknown screen type %q", name)
	}
	return v, nil
}

// ChestType 1-SMALL 2-MEDIUM 3-LARGE 4-BOSS 5-UNKNOWN
type ChestType byte

const (
	ChestTypeSmall   ChestType = 1
	ChestTypeMedium  ChestType = 2
	ChestTypeLarge   ChestType = 3
	ChestTypeBoss    ChestType = 4
	ChestTypeUnknown ChestType = 5
)

var chestTypeByClassName = map[string]ChestType{
	"SmallChest":  ChestTypeSmall,
	"MediumChest": ChestTypeMedium,
	"LargeChest":  ChestTypeLarge,
	"BossChest":   ChestTypeBoss,
}

var chestClassNames = map[ChestType]string{
	ChestTypeSmall:   "SmallChest",
	ChestTypeMedium:  "MediumChest",
	ChestTypeLarge:   "LargeChest",
	ChestTypeBoss:    "BossChest",
	ChestTypeUnknown: "UnknownChest",
}

func (t *ChestType) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	if v, ok := chestTypeByClassName[name]; ok {
		*t = v
	} else {
		*t = ChestTypeUnknown
	}
	return nil
}

func (t ChestType) MarshalJSON() ([]byte, error) { return json.Marshal(chestClassNames[t]) }

// RewardType 1-CARD 2-GOLD 3-RELIC 4-POTION 5-STOLEN_GOLD 6-EMERALD_KEY 7-SAPPHIRE_KEY
type RewardType byte

const (
	RewardTypeCard RewardType = iota + 1
	RewardTypeGold
	RewardTypeRelic
	RewardTypePotion
	RewardTypeStolenGold
	RewardTypeEmeraldKey
	RewardTypeSapphireKey
)

var RewardTypeDictionary = map[RewardType]string{
	RewardTypeCard:        "CARD",
	RewardTypeGold:        "GOLD",
	RewardTypeRelic:       "RELIC",
	RewardTypePotion:      "POTION",
	RewardTypeStolenGold:  "STOLEN_GOLD",
	RewardTypeEmeraldKey:  "EMERALD_KEY",
	RewardTypeSapphireKey: "SAPPHIRE_KEY",
}

var rewardTypeByName = reverseDict(RewardTypeDictionary)

func (t RewardType) String() string { return RewardTypeDictionary[t] }

func (t *RewardType) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	v, ok := rewardTypeByName[name]
	if !ok {
		return errParse("reward_type", "unknown reward type %q", name)
	}
	*t = v
	return nil
}

func (t RewardType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// RestOption 1-DIG 2-LIFT 3-RECALL 4-REST 5-SMITH 6-TOKE
type RestOption byte

const (
	RestOptionDig RestOption = iota + 1
	RestOptionLift
	RestOptionRecall
	RestOptionRest
	RestOptionSmith
	RestOptionToke
)

var RestOptionDictionary = map[RestOption]string{
	RestOptionDig:    "DIG",
	RestOptionLift:   "LIFT",
	RestOptionRecall: "RECALL",
	RestOptionRest:   "REST",
	RestOptionSmith:  "SMITH",
	RestOptionToke:   "TOKE",
}

var restOptionByName = reverseDict(RestOptionDictionary)

func (o RestOption) String() string { return RestOptionDictionary[o] }

func (o *RestOption) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	v, ok := restOptionByName[strings.ToUpper(name)]
	if !ok {
		return errParse("rest_options", "unknown rest option %q", name)
	}
	*o = v
	return nil
}

func (o RestOption) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// EventOption is one choice offered by an event screen.
type EventOption struct {
	Text        string `json:"text"`
	Label       string `json:"label"`
	Disabled    bool   `json:"disabled"`
	ChoiceIndex int    `json:"choice_index"`
}

// Screen is the closed union of modal screen variants; switch on
// Kind() (or the concrete type) to dispatch.
type Screen interface {
	Kind() ScreenType
	isScreen()
}

type EventScreen struct {
	EventName string        `json:"event_name"`
	EventID   string        `json:"event_id"`
	BodyText  string        `json:"body_text"`
	Options   []EventOption `json:"options"`
}

func (*EventScreen) Kind() ScreenType { return ScreenTypeEvent }

type ChestScreen struct {
	ChestType ChestType `json:"chest_type"`
	ChestOpen bool      `json:"chest_open"`
}

func (*ChestScreen) Kind() ScreenType { return ScreenTypeChest }

type ShopRoomScreen struct{}

func (*ShopRoomScreen) Kind() ScreenType { return ScreenTypeShopRoom }

type RestScreen struct {
	HasRested   bool         `json:"has_rested"`
	RestOptions []RestOption `json:"rest_options"`
}

func (*RestScreen) Kind() ScreenType { return ScreenTypeRest }

// HasOption reports whether the site still offers the given option.
func (s *RestScreen) HasOption(want RestOption) bool {
	for _, o := range s.RestOptions {
		if o == want {
			return true
		}
	}
	return false
}

type CardRewardScreen struct {
	Cards   []Card `json:"cards"`
	CanBowl bool   `json:"bowl_available"`
	CanSkip bool   `json:"skip_available"`
}

func (*CardRewardScreen) Kind() ScreenType { return ScreenTypeCardReward }

// RewardItem is one entry of a combat reward screen. Only the fields
// matching Type are set: Gold for GOLD/STOLEN_GOLD, Relic for RELIC,
// Potion for POTION, Link for SAPPHIRE_KEY.
type RewardItem struct {
	Type   RewardType `json:"reward_type"`
	Gold   int        `json:"gold,omitempty"`
	Relic  *Relic     `json:"relic,omitempty"`
	Potion *Potion    `json:"potion,omitempty"`
	Link   *Relic     `json:"link,omitempty"`
}

func (r RewardItem) Equal(other RewardItem) bool {
	if r.Type != other.Type || r.Gold != other.Gold {
		return false
	}
	if !relicPtrEqual(r.Relic, other.Relic) || !relicPtrEqual(r.Link, other.Link) {
		return false
	}
	if (r.Potion == nil) != (other.Potion == nil) {
		return false
	}
	if r.Potion != nil && r.Potion.ID != other.Potion.ID {
		return false
	}
	return true
}

func relicPtrEqual(a, b *Relic) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.ID == b.ID
}

type CombatRewardScreen struct {
	Rewards []RewardItem `json:"rewards"`
}

func (*CombatRewardScreen) Kind() ScreenType { return ScreenTypeCombatReward }

type MapScreen struct {
	CurrentNode   *Node   `json:"current_node,omitempty"`
	NextNodes     []*Node `json:"next_nodes"`
	BossAvailable bool    `json:"boss_available"`
}

func (*MapScreen) Kind() ScreenType { return ScreenTypeMap }

type BossRewardScreen struct {
	Relics []Relic `json:"relics"`
}

func (*BossRewardScreen) Kind() ScreenType { return ScreenTypeBossReward }

type ShopScreen struct {
	Cards          []Card   `json:"cards"`
	Relics         []Relic  `json:"relics"`
	Potions        []Potion `json:"potions"`
	PurgeAvailable bool     `json:"purge_available"`
	PurgeCost      int      `json:"purge_cost"`
}

func (*ShopScreen) Kind() ScreenType { return ScreenTypeShopScreen }

type GridSelectScreen struct {
	Cards         []Card `json:"cards"`
	SelectedCards []Card `json:"selected_cards"`
	NumCards      int    `json:"num_cards"`
	AnyNumber     bool   `json:"any_number"`
	ConfirmUp     bool   `json:"confirm_up"`
	ForUpgrade    bool   `json:"for_upgrade"`
	ForTransform  bool   `json:"for_transform"`
	ForPurge      bool   `json:"for_purge"`
}

func (*GridSelectScreen) Kind() ScreenType { return ScreenTypeGrid }

type HandSelectScreen struct {
	Cards         []Card `json:"hand"`
	SelectedCards []Card `json:"selected"`
	NumCards      int    `json:"max_cards"`
	CanPickZero   bool   `json:"can_pick_zero"`
}

func (*HandSelectScreen) Kind() ScreenType { return ScreenTypeHandSelect }

type GameOverScreen struct {
	Score   int  `json:"score"`
	Victory bool `json:"victory"`
}

func (*GameOverScreen) Kind() ScreenType { return ScreenTypeGameOver }

type CompleteScreen struct{}

func (*CompleteScreen) Kind() ScreenType { return ScreenTypeComplete }

type NoneScreen struct{}

func (*NoneScreen) Kind() ScreenType { return ScreenTypeNone }

func (*EventScreen) isScreen()        {}
func (*ChestScreen) isScreen()        {}
func (*ShopRoomScreen) isScreen()     {}
func (*RestScreen) isScreen()         {}
func (*CardRewardScreen) isScreen()   {}
func (*CombatRewardScreen) isScreen() {}
func (*MapScreen) isScreen()          {}
func (*BossRewardScreen) isScreen()   {}
func (*ShopScreen) isScreen()         {}
func (*GridSelectScreen) isScreen()   {}
func (*HandSelectScreen) isScreen()   {}
func (*GameOverScreen) isScreen()     {}
func (*CompleteScreen) isScreen()     {}
func (*NoneScreen) isScreen()         {}

// screenFromJSON decodes the screen_state payload for the given screen
// type. The dispatch is closed: every ScreenType must have a case.
func screenFromJSON(t ScreenType, raw json.RawMessage) (Screen, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	var s Screen
	switch t {
	case ScreenTypeEvent:
		s = &EventScreen{}
	case ScreenTypeChest:
		s = &ChestScreen{}
	case ScreenTypeShopRoom:
		s = &ShopRoomScreen{}
	case ScreenTypeRest:
		s = &RestScreen{}
	case ScreenTypeCardReward:
		s = &CardRewardScreen{}
	case ScreenTypeCombatReward:
		s = &CombatRewardScreen{}
	case ScreenTypeMap:
		s = &MapScreen{}
	case ScreenTypeBossReward:
		s = &BossRewardScreen{}
	case ScreenTypeShopScreen:
		s = &ShopScreen{}
	case ScreenTypeGrid:
		s = &GridSelectScreen{}
	case ScreenTypeHandSelect:
		s = &HandSelectScreen{}
	case ScreenTypeGameOver:
		s = &GameOverScreen{}
	case ScreenTypeComplete:
		s = &CompleteScreen{}
	case ScreenTypeNone:
		s = &NoneScreen{}
	default:
		return nil, errParse("screen_state", "no decoder for screen type %d", t)
	}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	return s, nil
}
