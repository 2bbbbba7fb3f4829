package spire

// Power is a buff or debuff on a player or monster.
type Power struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

func (p Power) Equal(other Power) bool {
	return p.ID == other.ID && p.Amount == other.Amount
}
