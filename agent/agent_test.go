package agent

import (
	"testing"

	"spirepilot/comm"
	"spirepilot/spire"
)

// combatTables ranks a small synthetic card pool so decisions are easy
// to read off: Inferno > Sweep > Jab > Wall > Prep > cutoff > Scrap by
// deck value, with a separate in-combat ordering.
func combatTables() Tables {
	return Tables{
		CardRanks:      []string{"Inferno", "Sweep", "Jab", "Wall", "Prep", skipSentinel, "Scrap", "Hex", "Vanish"},
		PlayRanks:      []string{"Prep", "Wall", "Vanish", "Jab", "Sweep", "Inferno", "Scrap", "Hex"},
		MaxCopies:      map[string]int{"Inferno": 1, "Jab": 2},
		AOE:            []string{"Sweep"},
		Defensive:      []string{"Wall", "Vanish"},
		BossRelicRanks: []string{"Crown", "Orb"},
		MapRewards: map[int]map[string]int{
			1: {"R": 1000, "E": 10, "$": 100, "?": 100, "M": 1, "T": 0},
		},
		GoodCardActions: defaultGoodCardActions,
		BadCardActions:  defaultBadCardActions,
	}
}

func testAgent() *Agent {
	return New(spire.PlayerClassIronclad, map[spire.PlayerClass]Policy{
		spire.PlayerClassIronclad: NewTablePolicy(combatTables()),
	})
}

func playable(id string, typ spire.CardType, cost int, hasTarget bool) spire.Card {
	return spire.Card{
		ID: id, Name: id, Type: typ, Cost: cost,
		HasTarget: hasTarget, IsPlayable: true, UUID: "uuid-" + id,
	}
}

func foe(name string, hp, damage, hits int) *spire.Monster {
	return &spire.Monster{
		Name: name, ID: name, MaxHP: 60, CurrentHP: hp,
		Intent: spire.IntentAttack, MoveAdjustedDamage: damage, MoveHits: hits,
	}
}

func combatGame(hand []spire.Card, monsters []*spire.Monster) *spire.Game {
	return &spire.Game{
		Act:           1,
		Class:         spire.PlayerClassIronclad,
		InCombat:      true,
		RoomPhase:     spire.RoomPhaseCombat,
		RoomType:      "MonsterRoom",
		Player:        &spire.Player{CurrentHP: 60, MaxHP: 75},
		Hand:          hand,
		Monsters:      monsters,
		PlayAvailable: true,
		EndAvailable:  true,
	}
}

func screenGame(s spire.Screen) *spire.Game {
	return &spire.Game{
		Act:             1,
		Class:           spire.PlayerClassIronclad,
		Screen:          s,
		ScreenType:      s.Kind(),
		ScreenUp:        true,
		ChoiceAvailable: true,
	}
}

func TestCascadeFollowsCommandPriority(t *testing.T) {
	a := testAgent()
	if _, ok := a.OnStateChange(&spire.Game{ProceedAvailable: true}).(*comm.ProceedAction); !ok {
		t.Fatalf("expected proceed for a proceed-only snapshot")
	}
	if _, ok := a.OnStateChange(&spire.Game{EndAvailable: true}).(*comm.EndTurnAction); !ok {
		t.Fatalf("expected end for an end-only snapshot")
	}
	if _, ok := a.OnStateChange(&spire.Game{CancelAvailable: true}).(*comm.CancelAction); !ok {
		t.Fatalf("expected cancel for a cancel-only snapshot")
	}
	if _, ok := a.OnStateChange(&spire.Game{}).(*comm.StateAction); !ok {
		t.Fatalf("expected a state poll for a snapshot offering nothing")
	}
}

func TestPlayPrefersZeroCostSetup(t *testing.T) {
	a := testAgent()
	g := combatGame(
		[]spire.Card{playable("Jab", spire.CardTypeAttack, 1, true), playable("Prep", spire.CardTypeSkill, 0, false)},
		[]*spire.Monster{foe("Brute", 30, 8, 1)},
	)
	play, ok := a.OnStateChange(g).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.Card.Name != "Prep" {
		t.Fatalf("expected the free setup card, got %s", play.Card.Name)
	}
	if play.TargetMonster != nil {
		t.Fatalf("expected no target for an untargeted card")
	}
}

func TestPlayAttackTargetsWeakest(t *testing.T) {
	a := testAgent()
	g := combatGame(
		[]spire.Card{playable("Jab", spire.CardTypeAttack, 1, true)},
		[]*spire.Monster{foe("Brute", 30, 8, 1), foe("Runt", 12, 4, 1)},
	)
	play, ok := a.OnStateChange(g).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.TargetMonster == nil || play.TargetMonster.Name != "Runt" {
		t.Fatalf("expected the attack to aim at the weakest monster")
	}
}

func TestPlayTargetedSkillAimsAtStrongest(t *testing.T) {
	a := testAgent()
	g := combatGame(
		[]spire.Card{playable("Hex", spire.CardTypeSkill, 1, true)},
		[]*spire.Monster{foe("Brute", 30, 8, 1), foe("Runt", 12, 4, 1)},
	)
	play, ok := a.OnStateChange(g).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.TargetMonster == nil || play.TargetMonster.Name != "Brute" {
		t.Fatalf("expected the debuff to aim at the strongest monster")
	}
}

func TestPlaySwapsSingleTargetAttackForAOEAgainstCrowd(t *testing.T) {
	a := testAgent()
	hand := []spire.Card{
		playable("Jab", spire.CardTypeAttack, 1, true),
		playable("Sweep", spire.CardTypeAttack, 2, false),
	}
	crowd := []*spire.Monster{foe("Brute", 30, 8, 1), foe("Runt", 12, 4, 1)}
	play, ok := a.OnStateChange(combatGame(hand, crowd)).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.Card.Name != "Sweep" {
		t.Fatalf("expected the AoE against a crowd, got %s", play.Card.Name)
	}

	solo := []*spire.Monster{foe("Brute", 30, 8, 1)}
	play, ok = a.OnStateChange(combatGame(hand, solo)).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.Card.Name != "Jab" {
		t.Fatalf("expected the ranked attack against a single monster, got %s", play.Card.Name)
	}
}

func TestPlayDangerGateFiltersDefensiveCards(t *testing.T) {
	a := testAgent()
	hand := []spire.Card{
		playable("Wall", spire.CardTypeSkill, 1, false),
		playable("Inferno", spire.CardTypeAttack, 2, true),
	}

	// Unblocked incoming 8 exceeds the act margin: keep the ranked
	// pick, which is the block card.
	exposed := combatGame(hand, []*spire.Monster{foe("Brute", 30, 8, 1)})
	play, ok := a.OnStateChange(exposed).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.Card.Name != "Wall" {
		t.Fatalf("expected the block card while exposed, got %s", play.Card.Name)
	}

	// With the hit already covered the defensive pick is wasted.
	safe := combatGame(hand, []*spire.Monster{foe("Brute", 30, 8, 1)})
	safe.Player.Block = 20
	play, ok = a.OnStateChange(safe).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.Card.Name != "Inferno" {
		t.Fatalf("expected the attack while safe, got %s", play.Card.Name)
	}
}

func TestPlayDangerGateKeepsNonExhaustingFallback(t *testing.T) {
	a := testAgent()
	vanish := playable("Vanish", spire.CardTypeSkill, 1, false)
	vanish.Exhausts = true
	hand := []spire.Card{vanish, playable("Wall", spire.CardTypeSkill, 1, false)}

	safe := combatGame(hand, []*spire.Monster{foe("Brute", 30, 2, 1)})
	safe.Player.Block = 20
	play, ok := a.OnStateChange(safe).(*comm.PlayCardAction)
	if !ok {
		t.Fatalf("expected a card play")
	}
	if play.Card.Name != "Wall" {
		t.Fatalf("expected the non-exhausting fallback, got %s", play.Card.Name)
	}
}

func TestPlayWithNothingPlayableEndsTurn(t *testing.T) {
	a := testAgent()
	stuck := playable("Jab", spire.CardTypeAttack, 1, true)
	stuck.IsPlayable = false
	g := combatGame([]spire.Card{stuck}, []*spire.Monster{foe("Brute", 30, 8, 1)})
	if _, ok := a.OnStateChange(g).(*comm.EndTurnAction); !ok {
		t.Fatalf("expected end turn with no playable cards")
	}
}

func TestPlayTargetedCardWithoutTargetsEndsTurn(t *testing.T) {
	a := testAgent()
	g := combatGame(
		[]spire.Card{playable("Jab", spire.CardTypeAttack, 1, true)},
		[]*spire.Monster{foe("Corpse", 0, 0, 0)},
	)
	if _, ok := a.OnStateChange(g).(*comm.EndTurnAction); !ok {
		t.Fatalf("expected end turn with nobody to hit")
	}
}

func TestIncomingDamageEstimate(t *testing.T) {
	a := testAgent()
	unreadable := &spire.Monster{
		Name: "Lurker", CurrentHP: 20, MaxHP: 20,
		Intent: spire.IntentNone, MoveAdjustedDamage: -1,
	}
	gone := foe("Fled", 10, 50, 1)
	gone.IsGone = true
	half := foe("Downed", 10, 50, 1)
	half.HalfDead = true
	a.game = combatGame(nil, []*spire.Monster{foe("Brute", 30, 6, 2), unreadable, gone, half})
	a.game.Act = 2

	// 6x2 from the telegraph plus 5 per act for the unreadable intent.
	if got := a.incomingDamage(); got != 22 {
		t.Fatalf("expected 22 incoming, got %d", got)
	}
}

func TestBossRoomDrinksPotionsFirst(t *testing.T) {
	a := testAgent()
	g := combatGame(
		[]spire.Card{playable("Jab", spire.CardTypeAttack, 1, true)},
		[]*spire.Monster{foe("Guardian", 240, 30, 1), foe("Pod", 20, 5, 1)},
	)
	g.RoomType = spire.RoomTypeMonsterBoss
	g.Potions = []spire.Potion{
		{ID: "Potion Slot", Name: "Potion Slot"},
		{ID: "Fire Potion", Name: "Fire Potion", CanUse: true, RequiresTarget: true},
	}

	potion, ok := a.OnStateChange(g).(*comm.PotionAction)
	if !ok {
		t.Fatalf("expected a potion before boss card play")
	}
	if !potion.Use || potion.Potion.ID != "Fire Potion" {
		t.Fatalf("expected to drink the fire potion, got %+v", potion)
	}
	if potion.TargetMonster == nil || potion.TargetMonster.Name != "Pod" {
		t.Fatalf("expected the potion aimed at the weakest monster")
	}
}

func TestBossRoomUnusablePotionsFallThroughToCards(t *testing.T) {
	a := testAgent()
	g := combatGame(
		[]spire.Card{playable("Jab", spire.CardTypeAttack, 1, true)},
		[]*spire.Monster{foe("Guardian", 240, 30, 1)},
	)
	g.RoomType = spire.RoomTypeMonsterBoss
	g.Potions = []spire.Potion{{ID: "Smoke Bomb", Name: "Smoke Bomb", CanUse: false}}

	if _, ok := a.OnStateChange(g).(*comm.PlayCardAction); !ok {
		t.Fatalf("expected card play when no potion can be drunk")
	}
}

func TestEventScreenUsesDenylist(t *testing.T) {
	a := testAgent()
	options := []spire.EventOption{{ChoiceIndex: 0}, {ChoiceIndex: 1}, {ChoiceIndex: 2}}

	risky := screenGame(&spire.EventScreen{EventID: "Vampires", EventName: "Vampires(?)", Options: options})
	choice, ok := a.OnStateChange(risky).(*comm.ChooseAction)
	if !ok || choice.Index != 2 {
		t.Fatalf("expected the last option for a denylisted event, got %#v", choice)
	}

	tame := screenGame(&spire.EventScreen{EventID: "Big Fish", EventName: "Big Fish", Options: options})
	choice, ok = a.OnStateChange(tame).(*comm.ChooseAction)
	if !ok || choice.Index != 0 {
		t.Fatalf("expected the first option for an ordinary event, got %#v", choice)
	}
}

func TestChestScreenOpens(t *testing.T) {
	a := testAgent()
	if _, ok := a.OnStateChange(screenGame(&spire.ChestScreen{})).(*comm.OpenChestAction); !ok {
		t.Fatalf("expected the chest to be opened")
	}
}

func TestShopRoomVisitToggle(t *testing.T) {
	a := testAgent()
	g := screenGame(&spire.ShopRoomScreen{})

	if _, ok := a.OnStateChange(g).(*comm.ChooseShopkeeperAction); !ok {
		t.Fatalf("expected the first pass to approach the shopkeeper")
	}
	if !a.visitedShop {
		t.Fatalf("expected the visit to be recorded")
	}
	if _, ok := a.OnStateChange(g).(*comm.ProceedAction); !ok {
		t.Fatalf("expected the second pass to leave")
	}
	if a.visitedShop {
		t.Fatalf("expected the visit mark to clear on leaving")
	}
}

func TestRestCascade(t *testing.T) {
	a := testAgent()
	options := []spire.RestOption{
		spire.RestOptionSmith, spire.RestOptionLift, spire.RestOptionDig, spire.RestOptionRest,
	}

	rest := func(hp, maxHP, act, floor int, opts []spire.RestOption) comm.Action {
		g := screenGame(&spire.RestScreen{RestOptions: opts})
		g.CurrentHP, g.MaxHP, g.Act, g.Floor = hp, maxHP, act, floor
		return a.OnStateChange(g)
	}

	if r, ok := rest(10, 30, 1, 6, options).(*comm.RestAction); !ok || r.Option != spire.RestOptionRest {
		t.Fatalf("expected REST below half hp")
	}
	if r, ok := rest(20, 30, 1, 6, options).(*comm.RestAction); !ok || r.Option != spire.RestOptionSmith {
		t.Fatalf("expected SMITH when healthy")
	}
	if r, ok := rest(26, 30, 2, 32, options).(*comm.RestAction); !ok || r.Option != spire.RestOptionRest {
		t.Fatalf("expected REST on the pre-boss campfire below 90%%")
	}
	if r, ok := rest(28, 30, 2, 32, options).(*comm.RestAction); !ok || r.Option != spire.RestOptionSmith {
		t.Fatalf("expected SMITH on the pre-boss campfire when nearly full")
	}
	if r, ok := rest(29, 30, 1, 6, []spire.RestOption{spire.RestOptionLift}).(*comm.RestAction); !ok || r.Option != spire.RestOptionLift {
		t.Fatalf("expected LIFT when smithing is unavailable")
	}
	if r, ok := rest(29, 30, 1, 6, []spire.RestOption{spire.RestOptionDig}).(*comm.RestAction); !ok || r.Option != spire.RestOptionDig {
		t.Fatalf("expected DIG as the next fallback")
	}
	if r, ok := rest(29, 30, 1, 6, []spire.RestOption{spire.RestOptionRest}).(*comm.RestAction); !ok || r.Option != spire.RestOptionRest {
		t.Fatalf("expected REST for chip damage when nothing else is offered")
	}
	if c, ok := rest(30, 30, 1, 6, []spire.RestOption{spire.RestOptionRest}).(*comm.ChooseAction); !ok || c.Index != 0 {
		t.Fatalf("expected the first option at full hp")
	}
	if _, ok := rest(10, 30, 1, 6, nil).(*comm.ProceedAction); !ok {
		t.Fatalf("expected proceed with no options")
	}

	rested := screenGame(&spire.RestScreen{RestOptions: options, HasRested: true})
	rested.CurrentHP, rested.MaxHP = 10, 30
	if _, ok := a.OnStateChange(rested).(*comm.ProceedAction); !ok {
		t.Fatalf("expected proceed after resting")
	}
}

func TestCardRewardHonorsCopyLimits(t *testing.T) {
	a := testAgent()
	jab := playable("Jab", spire.CardTypeAttack, 1, true)
	inferno := playable("Inferno", spire.CardTypeAttack, 2, true)

	g := screenGame(&spire.CardRewardScreen{Cards: []spire.Card{jab, inferno}, CanSkip: true})
	g.Deck = []spire.Card{jab, jab}

	reward, ok := a.OnStateChange(g).(*comm.CardRewardAction)
	if !ok {
		t.Fatalf("expected a card pick")
	}
	if reward.Card == nil || reward.Card.Name != "Inferno" {
		t.Fatalf("expected the card still under its copy limit, got %+v", reward.Card)
	}
}

func TestCardRewardSkipsWhenSated(t *testing.T) {
	a := testAgent()
	jab := playable("Jab", spire.CardTypeAttack, 1, true)

	g := screenGame(&spire.CardRewardScreen{Cards: []spire.Card{jab}, CanSkip: true})
	g.Deck = []spire.Card{jab, jab}

	if _, ok := a.OnStateChange(g).(*comm.CancelAction); !ok {
		t.Fatalf("expected the reward to be skipped")
	}
	if !a.skippedCards {
		t.Fatalf("expected the skip to be remembered for the reward screen")
	}

	bowl := screenGame(&spire.CardRewardScreen{Cards: []spire.Card{jab}, CanSkip: true, CanBowl: true})
	bowl.Deck = []spire.Card{jab, jab}
	reward, ok := a.OnStateChange(bowl).(*comm.CardRewardAction)
	if !ok || !reward.Bowl {
		t.Fatalf("expected the bowl instead of a skip")
	}
}

func TestCardRewardInCombatIgnoresCopyLimits(t *testing.T) {
	a := testAgent()
	jab := playable("Jab", spire.CardTypeAttack, 1, true)
	scrap := playable("Scrap", spire.CardTypeAttack, 0, true)

	g := screenGame(&spire.CardRewardScreen{Cards: []spire.Card{scrap, jab}, CanSkip: true})
	g.InCombat = true
	g.Deck = []spire.Card{jab, jab}

	reward, ok := a.OnStateChange(g).(*comm.CardRewardAction)
	if !ok || reward.Card == nil || reward.Card.Name != "Jab" {
		t.Fatalf("expected the best card regardless of copies mid-combat")
	}
}

func TestCombatRewardSkipsFullPotionsAndSkippedCards(t *testing.T) {
	a := testAgent()
	a.skippedCards = true
	g := screenGame(&spire.CombatRewardScreen{Rewards: []spire.RewardItem{
		{Type: spire.RewardTypePotion, Potion: &spire.Potion{ID: "Block Potion"}},
		{Type: spire.RewardTypeCard},
	}})
	g.Potions = []spire.Potion{{ID: "Fire Potion", Name: "Fire Potion"}}

	if _, ok := a.OnStateChange(g).(*comm.ProceedAction); !ok {
		t.Fatalf("expected proceed when every reward is skippable")
	}
	if a.skippedCards {
		t.Fatalf("expected the card-skip mark to clear with the reward screen")
	}
}

func TestCombatRewardTakesFirstWantedItem(t *testing.T) {
	a := testAgent()
	g := screenGame(&spire.CombatRewardScreen{Rewards: []spire.RewardItem{
		{Type: spire.RewardTypeGold, Gold: 25},
		{Type: spire.RewardTypeCard},
	}})

	reward, ok := a.OnStateChange(g).(*comm.CombatRewardAction)
	if !ok {
		t.Fatalf("expected a reward grab")
	}
	if reward.Reward.Type != spire.RewardTypeGold || reward.Reward.Gold != 25 {
		t.Fatalf("expected the gold first, got %+v", reward.Reward)
	}
}

func TestBossRewardPicksRankedRelic(t *testing.T) {
	a := testAgent()
	g := screenGame(&spire.BossRewardScreen{Relics: []spire.Relic{
		{ID: "orb", Name: "Orb"},
		{ID: "crown", Name: "Crown"},
	}})

	reward, ok := a.OnStateChange(g).(*comm.BossRewardAction)
	if !ok || reward.Relic.Name != "Crown" {
		t.Fatalf("expected the ranked relic, got %#v", reward)
	}

	empty := screenGame(&spire.BossRewardScreen{})
	if _, ok := a.OnStateChange(empty).(*comm.ProceedAction); !ok {
		t.Fatalf("expected proceed with nothing offered")
	}
}

func TestShopScreenSpendingOrder(t *testing.T) {
	a := testAgent()
	shop := func(gold int, s *spire.ShopScreen) comm.Action {
		g := screenGame(s)
		g.Gold = gold
		return a.OnStateChange(g)
	}

	// Purge first whenever affordable.
	choice, ok := shop(100, &spire.ShopScreen{PurgeAvailable: true, PurgeCost: 75}).(*comm.ChooseAction)
	if !ok || choice.Name != "purge" {
		t.Fatalf("expected the purge, got %#v", choice)
	}

	// Then the first affordable card worth buying: Scrap ranks below
	// the cutoff, Inferno costs too much, Jab is the buy.
	scrap := playable("Scrap", spire.CardTypeAttack, 0, true)
	scrap.Price = 50
	inferno := playable("Inferno", spire.CardTypeAttack, 2, true)
	inferno.Price = 150
	jab := playable("Jab", spire.CardTypeAttack, 1, true)
	jab.Price = 60
	buy, ok := shop(100, &spire.ShopScreen{Cards: []spire.Card{scrap, inferno, jab}}).(*comm.BuyCardAction)
	if !ok || buy.Card.Name != "Jab" {
		t.Fatalf("expected Jab to be bought, got %#v", buy)
	}

	// Then any affordable relic.
	relic, ok := shop(100, &spire.ShopScreen{
		Cards:  []spire.Card{scrap},
		Relics: []spire.Relic{{ID: "anchor", Name: "Anchor", Price: 80}},
	}).(*comm.BuyRelicAction)
	if !ok || relic.Relic.Name != "Anchor" {
		t.Fatalf("expected the relic, got %#v", relic)
	}

	// Broke: leave.
	if _, ok := shop(10, &spire.ShopScreen{
		Cards:  []spire.Card{jab},
		Relics: []spire.Relic{{ID: "anchor", Name: "Anchor", Price: 80}},
	}).(*comm.CancelAction); !ok {
		t.Fatalf("expected to leave an unaffordable shop")
	}
}

func TestGridSelectDirection(t *testing.T) {
	a := testAgent()
	cards := []spire.Card{
		playable("Scrap", spire.CardTypeAttack, 0, true),
		playable("Jab", spire.CardTypeAttack, 1, true),
		playable("Inferno", spire.CardTypeAttack, 2, true),
	}

	upgrade := screenGame(&spire.GridSelectScreen{Cards: cards, NumCards: 2, ForUpgrade: true})
	sel, ok := a.OnStateChange(upgrade).(*comm.CardSelectAction)
	if !ok {
		t.Fatalf("expected a card selection")
	}
	if len(sel.Cards) != 2 || sel.Cards[0].Name != "Inferno" || sel.Cards[1].Name != "Jab" {
		t.Fatalf("upgrade grid: expected the two best cards, got %v", cardNames(sel.Cards))
	}

	purge := screenGame(&spire.GridSelectScreen{Cards: cards, NumCards: 2, ForPurge: true})
	sel, ok = a.OnStateChange(purge).(*comm.CardSelectAction)
	if !ok {
		t.Fatalf("expected a card selection")
	}
	if len(sel.Cards) != 2 || sel.Cards[0].Name != "Scrap" || sel.Cards[1].Name != "Jab" {
		t.Fatalf("purge grid: expected the two worst cards, got %v", cardNames(sel.Cards))
	}

	a.ChooseGoodCard = true
	sel, ok = a.OnStateChange(purge).(*comm.CardSelectAction)
	if !ok || sel.Cards[0].Name != "Inferno" {
		t.Fatalf("expected the good-card override to flip the order")
	}
}

func TestHandSelectCapsAtThree(t *testing.T) {
	a := testAgent()
	cards := []spire.Card{
		playable("Inferno", spire.CardTypeAttack, 2, true),
		playable("Jab", spire.CardTypeAttack, 1, true),
		playable("Scrap", spire.CardTypeAttack, 0, true),
		playable("Wall", spire.CardTypeSkill, 1, false),
	}
	g := screenGame(&spire.HandSelectScreen{Cards: cards, NumCards: 5})
	g.CurrentAction = "DiscardAction"

	sel, ok := a.OnStateChange(g).(*comm.CardSelectAction)
	if !ok {
		t.Fatalf("expected a card selection")
	}
	if len(sel.Cards) != 3 {
		t.Fatalf("expected the cap of three, got %d", len(sel.Cards))
	}
	if sel.Cards[0].Name != "Scrap" {
		t.Fatalf("expected the worst card discarded first, got %s", sel.Cards[0].Name)
	}
}

func TestGameOverProceeds(t *testing.T) {
	a := testAgent()
	g := screenGame(&spire.GameOverScreen{Victory: true, Score: 1200})
	if _, ok := a.OnStateChange(g).(*comm.ProceedAction); !ok {
		t.Fatalf("expected proceed on the game over screen")
	}
}

func TestOnErrorCountsAndPolls(t *testing.T) {
	a := testAgent()
	if _, ok := a.OnError("selected card requires an enemy target").(*comm.StateAction); !ok {
		t.Fatalf("expected a state poll after a game error")
	}
	if a.Errors() != 1 {
		t.Fatalf("expected the error to be counted, got %d", a.Errors())
	}
}

func TestOnOutOfGameStartsConfiguredRun(t *testing.T) {
	a := testAgent()
	a.Ascension = 4
	a.Seed = "SPIRE77"

	start, ok := a.OnOutOfGame().(*comm.StartGameAction)
	if !ok {
		t.Fatalf("expected a start action")
	}
	if start.Class != spire.PlayerClassIronclad || start.Ascension != 4 || start.Seed != "SPIRE77" {
		t.Fatalf("expected the configured run parameters, got %+v", start)
	}
}

func TestChangeClassResetsRunState(t *testing.T) {
	a := New(spire.PlayerClassIronclad, nil)
	a.skippedCards = true
	a.visitedShop = true
	a.mapRoute = []int{1, 2, 3}

	a.ChangeClass(spire.PlayerClassTheSilent)

	if a.Class() != spire.PlayerClassTheSilent {
		t.Fatalf("expected the class to switch")
	}
	if a.skippedCards || a.visitedShop || a.mapRoute != nil {
		t.Fatalf("expected per-run state to reset")
	}
	if a.policy == nil {
		t.Fatalf("expected a policy for the new class")
	}
}
