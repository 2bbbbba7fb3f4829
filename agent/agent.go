// Package agent decides what to do with each game snapshot. It is a
// rule cascade over the coordinator's callbacks: screens first, then
// the generic proceed/play/end/cancel ladder, with per-class Policy
// tables supplying every card and relic preference.
package agent

import (
	"log"

	"spirepilot/comm"
	"spirepilot/spire"
)

// eventSkipToLastOption lists events whose earlier options gamble hp
// or gold; the final option is the safe exit.
var eventSkipToLastOption = map[string]bool{
	"Vampires":       true,
	"Masked Bandits": true,
	"Knowing Skull":  true,
	"Ghosts":         true,
	"Liars Game":     true,
	"Golden Idol":    true,
	"Drug Dealer":    true,
	"The Library":    true,
}

// Agent drives one run at a time. All state is session scoped:
// mapRoute is replanned whenever a map screen offers entrance nodes,
// skippedCards clears once a combat reward pass takes nothing,
// visitedShop toggles per shop room, and ChangeClass resets the lot.
type Agent struct {
	// Ascension and Seed parameterize the start command for every run
	// this agent launches. Seed may be empty.
	Ascension int
	Seed      string

	// ChooseGoodCard flips grid selections to favor the best cards
	// even outside upgrade screens.
	ChooseGoodCard bool

	class    spire.PlayerClass
	policies map[spire.PlayerClass]Policy
	policy   Policy
	game     *spire.Game

	skippedCards bool
	visitedShop  bool
	mapRoute     []int
	errors       int
}

// New builds an agent for class. A nil policies map falls back to the
// compiled-in tables.
func New(class spire.PlayerClass, policies map[spire.PlayerClass]Policy) *Agent {
	if policies == nil {
		policies = DefaultPolicies()
	}
	a := &Agent{policies: policies}
	a.ChangeClass(class)
	return a
}

// ChangeClass switches the active policy and resets every per-run
// flag. Safe to call between games only.
func (a *Agent) ChangeClass(class spire.PlayerClass) {
	a.class = class
	policy, ok := a.policies[class]
	if !ok {
		log.Printf("[Agent] no policy registered for %s, using base tables", class)
		policy = NewTablePolicy(baseTables())
	}
	a.policy = policy
	a.game = nil
	a.skippedCards = false
	a.visitedShop = false
	a.mapRoute = nil
}

// SetPolicy replaces the policy for class, taking effect immediately
// when class is the active one.
func (a *Agent) SetPolicy(class spire.PlayerClass, p Policy) {
	a.policies[class] = p
	if class == a.class {
		a.policy = p
	}
}

// Class returns the class the agent currently plays.
func (a *Agent) Class() spire.PlayerClass { return a.class }

// Errors returns how many game errors the session has absorbed.
func (a *Agent) Errors() int { return a.errors }

// OnStateChange is the coordinator's state-change callback: given the
// latest snapshot, produce the next action. The cascade is total, so
// a snapshot offering nothing still yields a state poll.
func (a *Agent) OnStateChange(g *spire.Game) comm.Action {
	a.game = g
	if g.ChoiceAvailable {
		return a.handleScreen()
	}
	if g.ProceedAvailable {
		return &comm.ProceedAction{}
	}
	if g.PlayAvailable {
		if g.RoomType == spire.RoomTypeMonsterBoss && len(g.RealPotions()) > 0 {
			if action := a.useNextPotion(); action != nil {
				return action
			}
		}
		return a.playCardAction()
	}
	if g.EndAvailable {
		return &comm.EndTurnAction{}
	}
	if g.CancelAvailable {
		return &comm.CancelAction{}
	}
	return &comm.StateAction{}
}

// OnError absorbs a game error and polls for a fresh snapshot instead
// of crashing the session.
func (a *Agent) OnError(msg string) comm.Action {
	a.errors++
	log.Printf("[Agent] game error: %s", msg)
	return &comm.StateAction{}
}

// OnOutOfGame launches the next run.
func (a *Agent) OnOutOfGame() comm.Action {
	return comm.NewStartGame(a.class, a.Ascension, a.Seed)
}

func (a *Agent) handleScreen() comm.Action {
	g := a.game
	switch s := g.Screen.(type) {
	case *spire.EventScreen:
		if eventSkipToLastOption[s.EventID] {
			return comm.ChooseByIndex(len(s.Options) - 1)
		}
		return comm.ChooseByIndex(0)

	case *spire.ChestScreen:
		return comm.NewOpenChest()

	case *spire.ShopRoomScreen:
		// First pass walks up to the shopkeeper, second leaves.
		if !a.visitedShop {
			a.visitedShop = true
			return comm.NewChooseShopkeeper()
		}
		a.visitedShop = false
		return &comm.ProceedAction{}

	case *spire.RestScreen:
		return a.chooseRestOption(s)

	case *spire.CardRewardScreen:
		return a.chooseCardReward(s)

	case *spire.CombatRewardScreen:
		for _, item := range s.Rewards {
			if item.Type == spire.RewardTypePotion && g.ArePotionsFull() {
				continue
			}
			if item.Type == spire.RewardTypeCard && a.skippedCards {
				continue
			}
			return comm.NewCombatReward(item)
		}
		a.skippedCards = false
		return &comm.ProceedAction{}

	case *spire.MapScreen:
		return a.chooseMapNode(s)

	case *spire.BossRewardScreen:
		if len(s.Relics) == 0 {
			return &comm.ProceedAction{}
		}
		return comm.NewBossReward(a.policy.BestBossRelic(s.Relics))

	case *spire.ShopScreen:
		if s.PurgeAvailable && g.Gold >= s.PurgeCost {
			return comm.ChooseByName("purge")
		}
		for _, card := range s.Cards {
			if g.Gold >= card.Price && !a.policy.ShouldSkip(card) {
				return comm.NewBuyCard(card)
			}
		}
		for _, relic := range s.Relics {
			if g.Gold >= relic.Price {
				return comm.NewBuyRelic(relic)
			}
		}
		return &comm.CancelAction{}

	case *spire.GridSelectScreen:
		if !g.ChoiceAvailable {
			return &comm.ProceedAction{}
		}
		var sorted []spire.Card
		if s.ForUpgrade || a.ChooseGoodCard {
			sorted = a.policy.SortedCards(s.Cards, false)
		} else {
			sorted = a.policy.SortedCards(s.Cards, true)
		}
		take := s.NumCards
		if take > len(sorted) {
			take = len(sorted)
		}
		return comm.NewCardSelect(sorted[:take])

	case *spire.HandSelectScreen:
		if !g.ChoiceAvailable {
			return &comm.ProceedAction{}
		}
		// Never feed the prompt the whole hand; three cards keeps
		// enough back to finish the turn.
		take := s.NumCards
		if take > 3 {
			take = 3
		}
		return comm.NewCardSelect(a.policy.CardsForAction(g.CurrentAction, s.Cards, take))
	}

	// GAME_OVER, COMPLETE, NONE and anything unrecognized.
	return &comm.ProceedAction{}
}

func (a *Agent) chooseRestOption(s *spire.RestScreen) comm.Action {
	g := a.game
	if len(s.RestOptions) == 0 || s.HasRested {
		return &comm.ProceedAction{}
	}
	canRest := s.HasOption(spire.RestOptionRest)
	switch {
	case canRest && 2*g.CurrentHP < g.MaxHP:
		return comm.NewRest(spire.RestOptionRest)
	case canRest && g.Act != 1 && g.Floor%17 == 15 && 10*g.CurrentHP < 9*g.MaxHP:
		// Pre-boss campfire: top up unless nearly full.
		return comm.NewRest(spire.RestOptionRest)
	case s.HasOption(spire.RestOptionSmith):
		return comm.NewRest(spire.RestOptionSmith)
	case s.HasOption(spire.RestOptionLift):
		return comm.NewRest(spire.RestOptionLift)
	case s.HasOption(spire.RestOptionDig):
		return comm.NewRest(spire.RestOptionDig)
	case canRest && g.CurrentHP < g.MaxHP:
		return comm.NewRest(spire.RestOptionRest)
	default:
		return comm.ChooseByIndex(0)
	}
}

func (a *Agent) chooseCardReward(s *spire.CardRewardScreen) comm.Action {
	g := a.game
	candidates := s.Cards
	if s.CanSkip && !g.InCombat {
		var pickable []spire.Card
		for _, c := range s.Cards {
			if a.policy.NeedsMoreCopies(c, countCopies(g.Deck, c)) {
				pickable = append(pickable, c)
			}
		}
		candidates = pickable
	}
	if len(candidates) > 0 {
		return comm.NewTakeCardReward(a.policy.BestCard(candidates))
	}
	if s.CanBowl {
		return comm.NewTakeBowl()
	}
	a.skippedCards = true
	return &comm.CancelAction{}
}

func countCopies(deck []spire.Card, card spire.Card) int {
	count := 0
	for _, c := range deck {
		if c.ID == card.ID {
			count++
		}
	}
	return count
}
