package spire

import "encoding/json"

// CardType 1-ATTACK 2-SKILL 3-POWER 4-STATUS 5-CURSE
type CardType byte

const (
	CardTypeAttack CardType = 1
	CardTypeSkill  CardType = 2
	CardTypePower  CardType = 3
	CardTypeStatus CardType = 4
	CardTypeCurse  CardType = 5
)

var CardTypeDictionary = map[CardType]string{
	CardTypeAttack: "ATTACK",
	CardTypeSkill:  "SKILL",
	CardTypePower:  "POWER",
	CardTypeStatus: "STATUS",
	CardTypeCurse:  "CURSE",
}

var cardTypeByName = reverseDict(CardTypeDictionary)

func (t CardType) String() string { return CardTypeDictionary[t] }

func (t *CardType) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	v, ok := cardTypeByName[name]
	if !ok {
		return errParse("type", "unknown card type %q", name)
	}
	*t = v
	return nil
}

func (t CardType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// CardRarity 1-BASIC 2-COMMON 3-UNCOMMON 4-RARE 5-SPECIAL 6-CURSE
type CardRarity byte

const (
	CardRarityBasic    CardRarity = 1
	CardRarityCommon   CardRarity = 2
	CardRarityUncommon CardRarity = 3
	CardRarityRare     CardRarity = 4
	CardRaritySpecial  CardRarity = 5
	CardRarityCurse    CardRarity = 6
)

var CardRarityDictionary = map[CardRarity]string{
	CardRarityBasic:    "BASIC",
	CardRarityCommon:   "COMMON",
	CardRarityUncommon: "UNCOMMON",
	CardRarityRare:     "RARE",
	CardRaritySpecial:  "SPECIAL",
	CardRarityCurse:    "CURSE",
}

var cardRarityByName = reverseDict(CardRarityDictionary)

func (r CardRarity) String() string { return CardRarityDictionary[r] }

func (r *CardRarity) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data)
	if err != nil {
		return err
	}
	v, ok := cardRarityByName[name]
	if !ok {
		return errParse("rarity", "unknown card rarity %q", name)
	}
	*r = v
	return nil
}

func (r CardRarity) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// Card is one card instance. Two cards are the same playable instance
// iff their UUIDs match; name, cost and id may collide freely.
type Card struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       CardType   `json:"type"`
	Rarity     CardRarity `json:"rarity"`
	Upgrades   int        `json:"upgrades"`
	HasTarget  bool       `json:"has_target"`
	Cost       int        `json:"cost"`
	UUID       string     `json:"uuid"`
	Misc       int        `json:"misc"`
	Price      int        `json:"price"`
	IsPlayable bool       `json:"is_playable"`
	Exhausts   bool       `json:"exhausts"`
}

// Is reports whether both cards are the same instance.
func (c Card) Is(other Card) bool { return c.UUID == other.UUID }

// IndexOfCard returns the position of the instance in cards, or -1.
func IndexOfCard(cards []Card, card Card) int {
	for i, c := range cards {
		if c.Is(card) {
			return i
		}
	}
	return -1
}
