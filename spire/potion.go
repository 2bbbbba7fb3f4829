package spire

// potionSlotID marks an empty potion slot in the potion list.
const potionSlotID = "Potion Slot"

type Potion struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CanUse         bool   `json:"can_use"`
	CanDiscard     bool   `json:"can_discard"`
	RequiresTarget bool   `json:"requires_target"`
	Price          int    `json:"price"`
}

// Is matches potions by id; duplicate potions resolve to the first slot.
func (p Potion) Is(other Potion) bool { return p.ID == other.ID }

// IndexOfPotion returns the position of the potion in potions, or -1.
func IndexOfPotion(potions []Potion, potion Potion) int {
	for i, p := range potions {
		if p.Is(potion) {
			return i
		}
	}
	return -1
}
