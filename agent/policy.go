package agent

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"spirepilot/spire"
)

// Policy answers the value questions the decision engine asks: which
// card to play or pick, which cards to feed a selection prompt, which
// boss relic to take, how to weigh map nodes. The engine consumes one
// Policy per class and never cares how the answers are produced.
type Policy interface {
	// BestCardToPlay picks the strongest in-combat card. cards must be
	// non-empty.
	BestCardToPlay(cards []spire.Card) spire.Card
	// BestCard picks the strongest deck-building card. cards must be
	// non-empty.
	BestCard(cards []spire.Card) spire.Card
	// SortedCards orders by deck value, best first; descending flips to
	// worst first. The input slice is not modified.
	SortedCards(cards []spire.Card, descending bool) []spire.Card
	// CardsForAction picks up to max cards to hand a selection prompt,
	// best first for keep-style actions and worst first for
	// discard-style ones.
	CardsForAction(action string, cards []spire.Card, max int) []spire.Card
	// IsAOE reports whether the card hits every enemy.
	IsAOE(card spire.Card) bool
	// IsDefensive reports whether the card mainly prevents damage.
	IsDefensive(card spire.Card) bool
	// ShouldSkip reports whether a shop card is not worth gold.
	ShouldSkip(card spire.Card) bool
	// NeedsMoreCopies reports whether a deck holding copies of the card
	// still wants another one.
	NeedsMoreCopies(card spire.Card, copies int) bool
	// BestBossRelic picks from a boss reward. relics must be non-empty.
	BestBossRelic(relics []spire.Relic) spire.Relic
	// MapNodeRewards returns the symbol weights for act's map.
	MapNodeRewards(act int) map[string]int
}

// skipSentinel is the rank-list entry that marks the shop cutoff:
// every card ranked at or below it is not worth buying.
const skipSentinel = "Skip"

// Tables is the flat content a TablePolicy runs on. Rank lists are
// ordered best to worst; a card absent from a list ranks below every
// listed one. Card sets and copy limits are keyed by card id, relic
// ranks by relic name.
type Tables struct {
	CardRanks       []string               `yaml:"card_ranks"`
	PlayRanks       []string               `yaml:"play_ranks"`
	MaxCopies       map[string]int         `yaml:"max_copies"`
	AOE             []string               `yaml:"aoe"`
	Defensive       []string               `yaml:"defensive"`
	BossRelicRanks  []string               `yaml:"boss_relic_ranks"`
	MapRewards      map[int]map[string]int `yaml:"map_rewards"`
	GoodCardActions []string               `yaml:"good_card_actions"`
	BadCardActions  []string               `yaml:"bad_card_actions"`
}

// Merge returns t with every non-empty field of o replacing t's value.
// Replacement is whole-field: an override rank list supersedes the
// default list rather than appending to it.
func (t Tables) Merge(o Tables) Tables {
	if len(o.CardRanks) > 0 {
		t.CardRanks = o.CardRanks
	}
	if len(o.PlayRanks) > 0 {
		t.PlayRanks = o.PlayRanks
	}
	if len(o.MaxCopies) > 0 {
		t.MaxCopies = o.MaxCopies
	}
	if len(o.AOE) > 0 {
		t.AOE = o.AOE
	}
	if len(o.Defensive) > 0 {
		t.Defensive = o.Defensive
	}
	if len(o.BossRelicRanks) > 0 {
		t.BossRelicRanks = o.BossRelicRanks
	}
	if len(o.MapRewards) > 0 {
		t.MapRewards = o.MapRewards
	}
	if len(o.GoodCardActions) > 0 {
		t.GoodCardActions = o.GoodCardActions
	}
	if len(o.BadCardActions) > 0 {
		t.BadCardActions = o.BadCardActions
	}
	return t
}

// LoadTables reads per-class table overrides from a YAML file keyed by
// class name (IRONCLAD, THE_SILENT, DEFECT).
func LoadTables(path string) (map[string]Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy tables: %w", err)
	}
	byClass := make(map[string]Tables)
	if err := yaml.Unmarshal(data, &byClass); err != nil {
		return nil, fmt.Errorf("parse policy tables %s: %w", path, err)
	}
	return byClass, nil
}

// PoliciesWithOverrides builds the per-class policy set from the
// compiled-in tables, with the YAML file at path (when non-empty)
// merged on top.
func PoliciesWithOverrides(path string) (map[spire.PlayerClass]Policy, error) {
	tables := DefaultTables()
	if path != "" {
		overrides, err := LoadTables(path)
		if err != nil {
			return nil, err
		}
		for name, o := range overrides {
			class, err := spire.ParsePlayerClass(name)
			if err != nil {
				return nil, fmt.Errorf("policy tables %s: %w", path, err)
			}
			tables[class] = tables[class].Merge(o)
		}
	}
	policies := make(map[spire.PlayerClass]Policy, len(tables))
	for class, t := range tables {
		policies[class] = NewTablePolicy(t)
	}
	return policies, nil
}

// TablePolicy is the rank-table baseline Policy. Rank lookups try the
// exact card name first, then the name with its upgrade mark stripped,
// so an upgraded card inherits its base card's rank.
type TablePolicy struct {
	tables     Tables
	deckRank   map[string]int
	playRank   map[string]int
	relicRank  map[string]int
	aoe        map[string]bool
	defensive  map[string]bool
	skipCutoff int
}

func NewTablePolicy(t Tables) *TablePolicy {
	p := &TablePolicy{
		tables:    t,
		deckRank:  rankIndex(t.CardRanks),
		playRank:  rankIndex(t.PlayRanks),
		relicRank: rankIndex(t.BossRelicRanks),
		aoe:       stringSet(t.AOE),
		defensive: stringSet(t.Defensive),
	}
	if cut, ok := p.deckRank[skipSentinel]; ok {
		p.skipCutoff = cut
	} else {
		p.skipCutoff = len(t.CardRanks)
	}
	return p
}

func rankIndex(list []string) map[string]int {
	ranks := make(map[string]int, len(list))
	for i, name := range list {
		if _, seen := ranks[name]; !seen {
			ranks[name] = i
		}
	}
	return ranks
}

func stringSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

func lookupRank(ranks map[string]int, name string, worst int) int {
	if r, ok := ranks[name]; ok {
		return r
	}
	if base := strings.TrimSuffix(name, "+"); base != name {
		if r, ok := ranks[base]; ok {
			return r
		}
	}
	return worst
}

func (p *TablePolicy) deckRankOf(c spire.Card) int {
	return lookupRank(p.deckRank, c.Name, len(p.tables.CardRanks))
}

func (p *TablePolicy) playRankOf(c spire.Card) int {
	return lookupRank(p.playRank, c.Name, len(p.tables.PlayRanks))
}

func (p *TablePolicy) BestCardToPlay(cards []spire.Card) spire.Card {
	best := cards[0]
	bestRank := p.playRankOf(best)
	for _, c := range cards[1:] {
		if r := p.playRankOf(c); r < bestRank {
			best, bestRank = c, r
		}
	}
	return best
}

func (p *TablePolicy) BestCard(cards []spire.Card) spire.Card {
	best := cards[0]
	bestRank := p.deckRankOf(best)
	for _, c := range cards[1:] {
		if r := p.deckRankOf(c); r < bestRank {
			best, bestRank = c, r
		}
	}
	return best
}

func (p *TablePolicy) SortedCards(cards []spire.Card, descending bool) []spire.Card {
	out := make([]spire.Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := p.deckRankOf(out[i]), p.deckRankOf(out[j])
		if descending {
			return ri > rj
		}
		return ri < rj
	})
	return out
}

func (p *TablePolicy) CardsForAction(action string, cards []spire.Card, max int) []spire.Card {
	var sorted []spire.Card
	switch {
	case containsString(p.tables.GoodCardActions, action):
		sorted = p.SortedCards(cards, false)
	case containsString(p.tables.BadCardActions, action):
		sorted = p.SortedCards(cards, true)
	default:
		// Unknown prompts are treated like discards: losing the worst
		// cards is the cheaper mistake.
		log.Printf("[Policy] unknown card action %q, offering worst cards first", action)
		sorted = p.SortedCards(cards, true)
	}
	if max > len(sorted) {
		max = len(sorted)
	}
	return sorted[:max]
}

func (p *TablePolicy) IsAOE(card spire.Card) bool { return p.aoe[card.ID] }

func (p *TablePolicy) IsDefensive(card spire.Card) bool { return p.defensive[card.ID] }

func (p *TablePolicy) ShouldSkip(card spire.Card) bool {
	return p.deckRankOf(card) >= p.skipCutoff
}

func (p *TablePolicy) NeedsMoreCopies(card spire.Card, copies int) bool {
	return p.tables.MaxCopies[card.ID] > copies
}

func (p *TablePolicy) BestBossRelic(relics []spire.Relic) spire.Relic {
	worst := len(p.tables.BossRelicRanks)
	best := relics[0]
	bestRank := lookupRank(p.relicRank, best.Name, worst)
	for _, r := range relics[1:] {
		if rank := lookupRank(p.relicRank, r.Name, worst); rank < bestRank {
			best, bestRank = r, rank
		}
	}
	return best
}

// MapNodeRewards returns the weights for act, falling back to the
// deepest act the tables define (act 4 shares act 3's weights).
func (p *TablePolicy) MapNodeRewards(act int) map[string]int {
	if rewards, ok := p.tables.MapRewards[act]; ok {
		return rewards
	}
	deepest := 0
	var rewards map[string]int
	for a, r := range p.tables.MapRewards {
		if rewards == nil || a > deepest {
			deepest, rewards = a, r
		}
	}
	return rewards
}

func containsString(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}
