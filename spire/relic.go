package spire

type Relic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Counter int    `json:"counter"`
	Price   int    `json:"price"`
}
