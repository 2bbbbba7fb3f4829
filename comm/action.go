package comm

import (
	"fmt"
	"sort"
	"strings"

	"spirepilot/spire"
)

// Action is one outbound protocol step. Executing an action validates
// it against the coordinator's latest snapshot and then either writes
// exactly one command line or pushes follow-up actions onto the
// pending queue. A validation failure is an *ActionFault and writes
// nothing.
//
// The set of implementations below is closed; the coordinator owns
// execution, so both methods stay unexported.
type Action interface {
	execute(c *Coordinator) error
	requiresReady() bool
}

// needsReady marks actions that must wait for the ready flag.
type needsReady struct{}

func (needsReady) requiresReady() bool { return true }

func requireGame(c *Coordinator, action string) (*spire.Game, error) {
	if c.lastGame == nil {
		return nil, faultf(action, "no game snapshot received yet")
	}
	return c.lastGame, nil
}

// StateAction requests a fresh snapshot. It is the one action exempt
// from the ready gate, which lets it double as a poll while a long
// game action resolves.
type StateAction struct{}

func (*StateAction) requiresReady() bool { return false }

func (*StateAction) execute(c *Coordinator) error {
	c.sendLine("state")
	return nil
}

type EndTurnAction struct{ needsReady }

func (*EndTurnAction) execute(c *Coordinator) error {
	c.sendLine("end")
	return nil
}

type ProceedAction struct{ needsReady }

func (*ProceedAction) execute(c *Coordinator) error {
	c.sendLine("proceed")
	return nil
}

type CancelAction struct{ needsReady }

func (*CancelAction) execute(c *Coordinator) error {
	c.sendLine("cancel")
	return nil
}

// ChooseAction picks a choice-list entry, by name when Name is set and
// by position otherwise. Names win because the list can reorder
// between the deciding snapshot and execution.
type ChooseAction struct {
	needsReady
	Name  string
	Index int
}

func ChooseByName(name string) *ChooseAction { return &ChooseAction{Name: name} }

func ChooseByIndex(index int) *ChooseAction { return &ChooseAction{Index: index} }

func (a *ChooseAction) execute(c *Coordinator) error {
	if a.Name != "" {
		c.sendLine("choose " + a.Name)
		return nil
	}
	c.sendLine(fmt.Sprintf("choose %d", a.Index))
	return nil
}

// ChooseShopkeeperAction enters the shop from a shop room.
type ChooseShopkeeperAction struct{ ChooseAction }

func NewChooseShopkeeper() *ChooseShopkeeperAction {
	return &ChooseShopkeeperAction{ChooseAction{Name: "shop"}}
}

// OpenChestAction opens the chest on a chest screen.
type OpenChestAction struct{ ChooseAction }

func NewOpenChest() *OpenChestAction {
	return &OpenChestAction{ChooseAction{Name: "open"}}
}

// BuyCardAction buys a card from the shop by name.
type BuyCardAction struct {
	ChooseAction
	Card spire.Card
}

func NewBuyCard(card spire.Card) *BuyCardAction {
	return &BuyCardAction{ChooseAction: ChooseAction{Name: card.Name}, Card: card}
}

// BuyRelicAction buys a relic from the shop by name.
type BuyRelicAction struct {
	ChooseAction
	Relic spire.Relic
}

func NewBuyRelic(relic spire.Relic) *BuyRelicAction {
	return &BuyRelicAction{ChooseAction: ChooseAction{Name: relic.Name}, Relic: relic}
}

// BuyPotionAction buys a potion from the shop. It faults instead of
// wasting gold when every potion slot is already full.
type BuyPotionAction struct {
	ChooseAction
	Potion spire.Potion
}

func NewBuyPotion(potion spire.Potion) *BuyPotionAction {
	return &BuyPotionAction{ChooseAction: ChooseAction{Name: potion.Name}, Potion: potion}
}

func (a *BuyPotionAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "BuyPotionAction")
	if err != nil {
		return err
	}
	if g.ArePotionsFull() {
		return faultf("BuyPotionAction", "no empty potion slot for %s", a.Potion.Name)
	}
	return a.ChooseAction.execute(c)
}

// BuyPurgeAction pays the shop to remove a card from the deck. With a
// Card set the follow-up grid selection is queued as well; without one
// the selection is left to the next decision.
type BuyPurgeAction struct {
	needsReady
	Card *spire.Card
}

func NewBuyPurge(card *spire.Card) *BuyPurgeAction { return &BuyPurgeAction{Card: card} }

func (a *BuyPurgeAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "BuyPurgeAction")
	if err != nil {
		return err
	}
	if _, ok := g.Screen.(*spire.ShopScreen); !ok {
		return faultf("BuyPurgeAction", "requires the shop screen, have %v", g.ScreenType)
	}
	c.enqueue(ChooseByName("purge"))
	if a.Card != nil {
		c.enqueue(&CardSelectAction{Cards: []spire.Card{*a.Card}})
	}
	return nil
}

// CardRewardAction takes a card reward, either one of the offered
// cards or the Singing Bowl bonus.
type CardRewardAction struct {
	needsReady
	Card *spire.Card
	Bowl bool
}

func NewTakeCardReward(card spire.Card) *CardRewardAction {
	return &CardRewardAction{Card: &card}
}

func NewTakeBowl() *CardRewardAction { return &CardRewardAction{Bowl: true} }

func (a *CardRewardAction) execute(c *Coordinator) error {
	if a.Bowl {
		c.sendLine("choose bowl")
		return nil
	}
	if a.Card == nil {
		return faultf("CardRewardAction", "neither a card nor the bowl was chosen")
	}
	c.sendLine("choose " + a.Card.Name)
	return nil
}

// BossRewardAction picks one of the boss relics by name.
type BossRewardAction struct {
	ChooseAction
	Relic spire.Relic
}

func NewBossReward(relic spire.Relic) *BossRewardAction {
	return &BossRewardAction{ChooseAction: ChooseAction{Name: relic.Name}, Relic: relic}
}

// CombatRewardAction collects one reward item. The item is matched
// against the current reward screen at execution time, so a reward
// already collected (or never offered) faults instead of grabbing a
// neighbor by stale index.
type CombatRewardAction struct {
	needsReady
	Reward spire.RewardItem
}

func NewCombatReward(reward spire.RewardItem) *CombatRewardAction {
	return &CombatRewardAction{Reward: reward}
}

func (a *CombatRewardAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "CombatRewardAction")
	if err != nil {
		return err
	}
	screen, ok := g.Screen.(*spire.CombatRewardScreen)
	if !ok {
		return faultf("CombatRewardAction", "requires the combat reward screen, have %v", g.ScreenType)
	}
	index := -1
	for i, r := range screen.Rewards {
		if r.Equal(a.Reward) {
			index = i
			break
		}
	}
	if index < 0 {
		return faultf("CombatRewardAction", "reward %v is not offered", a.Reward.Type)
	}
	if a.Reward.Type == spire.RewardTypePotion && g.ArePotionsFull() {
		return faultf("CombatRewardAction", "no empty potion slot for the potion reward")
	}
	c.sendLine(fmt.Sprintf("choose %d", index))
	return nil
}

// RestAction picks a campfire option.
type RestAction struct {
	ChooseAction
	Option spire.RestOption
}

func NewRest(option spire.RestOption) *RestAction {
	return &RestAction{ChooseAction: ChooseAction{Name: option.String()}, Option: option}
}

// CardSelectAction resolves a grid or hand selection in one shot: it
// validates the requested cards against the screen, then queues one
// choose per card in descending position order (so earlier picks do
// not shift later positions) followed by a ConfirmSelectionAction.
// A grid wants an exact count, a hand selection takes up to its cap.
type CardSelectAction struct {
	needsReady
	Cards []spire.Card
}

func NewCardSelect(cards []spire.Card) *CardSelectAction {
	return &CardSelectAction{Cards: cards}
}

func (a *CardSelectAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "CardSelectAction")
	if err != nil {
		return err
	}
	var available, selected []spire.Card
	var wanted int
	exact := false
	switch s := g.Screen.(type) {
	case *spire.GridSelectScreen:
		available, selected, wanted = s.Cards, s.SelectedCards, s.NumCards
		exact = true
	case *spire.HandSelectScreen:
		available, selected, wanted = s.Cards, s.SelectedCards, s.NumCards
	default:
		return faultf("CardSelectAction", "requires a grid or hand selection screen, have %v", g.ScreenType)
	}
	remaining := wanted - len(selected)
	if exact && len(a.Cards) != remaining {
		return faultf("CardSelectAction", "selected %d cards, screen needs %d more", len(a.Cards), remaining)
	}
	if !exact && len(a.Cards) > remaining {
		return faultf("CardSelectAction", "selected %d cards, screen takes at most %d more", len(a.Cards), remaining)
	}
	indices := make([]int, 0, len(a.Cards))
	for _, card := range a.Cards {
		i := spire.IndexOfCard(available, card)
		if i < 0 {
			return faultf("CardSelectAction", "card %s is not selectable", card.Name)
		}
		indices = append(indices, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, i := range indices {
		c.enqueue(ChooseByIndex(i))
	}
	c.enqueue(&ConfirmSelectionAction{})
	return nil
}

// ConfirmSelectionAction closes out a card selection: it proceeds when
// the grid shows a confirm button and otherwise polls for the state
// that follows an auto-closing selection.
type ConfirmSelectionAction struct{ needsReady }

func (a *ConfirmSelectionAction) execute(c *Coordinator) error {
	if g := c.lastGame; g != nil {
		if s, ok := g.Screen.(*spire.GridSelectScreen); ok && s.ConfirmUp {
			c.enqueue(&ProceedAction{})
			return nil
		}
	}
	c.enqueue(&StateAction{})
	return nil
}

// ChooseMapNodeAction walks to a map node, matched by coordinates
// against the nodes currently on offer.
type ChooseMapNodeAction struct {
	needsReady
	Node *spire.Node
}

func NewChooseMapNode(node *spire.Node) *ChooseMapNodeAction {
	return &ChooseMapNodeAction{Node: node}
}

func (a *ChooseMapNodeAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "ChooseMapNodeAction")
	if err != nil {
		return err
	}
	screen, ok := g.Screen.(*spire.MapScreen)
	if !ok {
		return faultf("ChooseMapNodeAction", "requires the map screen, have %v", g.ScreenType)
	}
	for i, next := range screen.NextNodes {
		if next.Same(a.Node) {
			c.sendLine(fmt.Sprintf("choose %d", i))
			return nil
		}
	}
	return faultf("ChooseMapNodeAction", "node (%d,%d) is not reachable from here", a.Node.X, a.Node.Y)
}

// ChooseMapBossAction walks to the act boss.
type ChooseMapBossAction struct{ needsReady }

func (a *ChooseMapBossAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "ChooseMapBossAction")
	if err != nil {
		return err
	}
	screen, ok := g.Screen.(*spire.MapScreen)
	if !ok {
		return faultf("ChooseMapBossAction", "requires the map screen, have %v", g.ScreenType)
	}
	if !screen.BossAvailable {
		return faultf("ChooseMapBossAction", "the boss is not reachable from here")
	}
	c.sendLine("choose boss")
	return nil
}

// EventOptionAction picks an event option by its stable choice index.
type EventOptionAction struct {
	ChooseAction
	Option spire.EventOption
}

func NewEventOption(option spire.EventOption) *EventOptionAction {
	return &EventOptionAction{ChooseAction: ChooseAction{Index: option.ChoiceIndex}, Option: option}
}

// PlayCardAction plays a hand card, resolved by identity when Card is
// set and by position otherwise. The wire index is 1-based, unlike
// every other command.
type PlayCardAction struct {
	needsReady
	Card          *spire.Card
	CardIndex     int
	TargetMonster *spire.Monster
	TargetIndex   *int
}

func NewPlayCard(card spire.Card, target *spire.Monster) *PlayCardAction {
	return &PlayCardAction{Card: &card, CardIndex: -1, TargetMonster: target}
}

func NewPlayCardAt(index int, target *int) *PlayCardAction {
	return &PlayCardAction{CardIndex: index, TargetIndex: target}
}

func (a *PlayCardAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "PlayCardAction")
	if err != nil {
		return err
	}
	index := a.CardIndex
	if a.Card != nil {
		index = spire.IndexOfCard(g.Hand, *a.Card)
	}
	if index < 0 || index >= len(g.Hand) {
		return faultf("PlayCardAction", "card is not in hand")
	}
	target := a.TargetIndex
	if a.TargetMonster != nil {
		t := a.TargetMonster.MonsterIndex
		target = &t
	}
	if target != nil {
		c.sendLine(fmt.Sprintf("play %d %d", index+1, *target))
		return nil
	}
	c.sendLine(fmt.Sprintf("play %d", index+1))
	return nil
}

// PotionAction uses or discards a potion. The potion is resolved to
// its slot against the full potion list, empty slots included, since
// the wire index counts slots.
type PotionAction struct {
	needsReady
	Use           bool
	Potion        *spire.Potion
	PotionIndex   int
	TargetMonster *spire.Monster
	TargetIndex   *int
}

func NewUsePotion(potion spire.Potion, target *spire.Monster) *PotionAction {
	return &PotionAction{Use: true, Potion: &potion, PotionIndex: -1, TargetMonster: target}
}

func NewDiscardPotion(potion spire.Potion) *PotionAction {
	return &PotionAction{Use: false, Potion: &potion, PotionIndex: -1}
}

func (a *PotionAction) execute(c *Coordinator) error {
	g, err := requireGame(c, "PotionAction")
	if err != nil {
		return err
	}
	index := a.PotionIndex
	if a.Potion != nil {
		index = spire.IndexOfPotion(g.Potions, *a.Potion)
	}
	if index < 0 || index >= len(g.Potions) {
		return faultf("PotionAction", "potion is not held")
	}
	verb := "discard"
	if a.Use {
		verb = "use"
	}
	target := a.TargetIndex
	if a.TargetMonster != nil {
		t := a.TargetMonster.MonsterIndex
		target = &t
	}
	if target != nil {
		c.sendLine(fmt.Sprintf("potion %s %d %d", verb, index, *target))
		return nil
	}
	c.sendLine(fmt.Sprintf("potion %s %d", verb, index))
	return nil
}

// StartGameAction starts a fresh run. Seed is passed through verbatim
// when set.
type StartGameAction struct {
	needsReady
	Class     spire.PlayerClass
	Ascension int
	Seed      string
}

func NewStartGame(class spire.PlayerClass, ascension int, seed string) *StartGameAction {
	return &StartGameAction{Class: class, Ascension: ascension, Seed: seed}
}

func (a *StartGameAction) execute(c *Coordinator) error {
	parts := []string{"start", a.Class.String(), fmt.Sprintf("%d", a.Ascension)}
	if a.Seed != "" {
		parts = append(parts, a.Seed)
	}
	c.sendLine(strings.Join(parts, " "))
	return nil
}
