package agent

import (
	"spirepilot/comm"
	"spirepilot/spire"
)

// incomingDamage estimates next-turn damage: known moves contribute
// damage times hits, an unreadable NONE intent is assumed to hit for
// five per act.
func (a *Agent) incomingDamage() int {
	total := 0
	for _, m := range a.game.Monsters {
		if m.IsGone || m.HalfDead {
			continue
		}
		if m.MoveAdjustedDamage >= 0 {
			total += m.MoveAdjustedDamage * m.MoveHits
		} else if m.Intent == spire.IntentNone {
			total += 5 * a.game.Act
		}
	}
	return total
}

// lowestHPTarget returns the weakest living monster, or nil when none
// can be targeted. Ties keep the leftmost.
func (a *Agent) lowestHPTarget() *spire.Monster {
	var best *spire.Monster
	for _, m := range spire.AvailableMonsters(a.game.Monsters) {
		if best == nil || m.CurrentHP < best.CurrentHP {
			best = m
		}
	}
	return best
}

// highestHPTarget returns the healthiest living monster, or nil.
func (a *Agent) highestHPTarget() *spire.Monster {
	var best *spire.Monster
	for _, m := range spire.AvailableMonsters(a.game.Monsters) {
		if best == nil || m.CurrentHP > best.CurrentHP {
			best = m
		}
	}
	return best
}

func (a *Agent) manyMonstersAlive() bool {
	return len(spire.AvailableMonsters(a.game.Monsters)) > 1
}

// playCardAction picks the next card: free setup cards first, then the
// best paid card (swapped for the best AoE against a crowd), then free
// attacks. When current block already covers the incoming hit minus a
// small act-scaled margin, paid picks are narrowed to non-defensive
// cards, or failing that to ones that survive the turn.
func (a *Agent) playCardAction() comm.Action {
	g := a.game
	var playable []spire.Card
	for _, c := range g.Hand {
		if c.IsPlayable {
			playable = append(playable, c)
		}
	}
	var zeroCostAttacks, zeroCostNonAttacks, nonzeroCost, aoe []spire.Card
	for _, c := range playable {
		switch {
		case c.Cost == 0 && c.Type == spire.CardTypeAttack:
			zeroCostAttacks = append(zeroCostAttacks, c)
		case c.Cost == 0:
			zeroCostNonAttacks = append(zeroCostNonAttacks, c)
		default:
			nonzeroCost = append(nonzeroCost, c)
		}
		if a.policy.IsAOE(c) {
			aoe = append(aoe, c)
		}
	}
	if g.Player.Block > a.incomingDamage()-(g.Act+4) {
		var offensive []spire.Card
		for _, c := range nonzeroCost {
			if !a.policy.IsDefensive(c) {
				offensive = append(offensive, c)
			}
		}
		if len(offensive) > 0 {
			nonzeroCost = offensive
		} else {
			var keep []spire.Card
			for _, c := range nonzeroCost {
				if !c.Exhausts {
					keep = append(keep, c)
				}
			}
			nonzeroCost = keep
		}
	}
	if len(playable) == 0 {
		return &comm.EndTurnAction{}
	}

	var pick spire.Card
	switch {
	case len(zeroCostNonAttacks) > 0:
		pick = a.policy.BestCardToPlay(zeroCostNonAttacks)
	case len(nonzeroCost) > 0:
		pick = a.policy.BestCardToPlay(nonzeroCost)
		if len(aoe) > 0 && a.manyMonstersAlive() && pick.Type == spire.CardTypeAttack {
			pick = a.policy.BestCardToPlay(aoe)
		}
	case len(zeroCostAttacks) > 0:
		pick = a.policy.BestCardToPlay(zeroCostAttacks)
	default:
		// The danger gate filtered everything out.
		return &comm.EndTurnAction{}
	}

	if pick.HasTarget {
		var target *spire.Monster
		if pick.Type == spire.CardTypeAttack {
			target = a.lowestHPTarget()
		} else {
			target = a.highestHPTarget()
		}
		if target == nil {
			return &comm.EndTurnAction{}
		}
		return comm.NewPlayCard(pick, target)
	}
	return comm.NewPlayCard(pick, nil)
}

// useNextPotion drinks the first usable potion, aiming targeted ones
// at the weakest monster. Targeted potions with nobody to hit are
// passed over. Returns nil when nothing can be drunk.
func (a *Agent) useNextPotion() comm.Action {
	for _, p := range a.game.RealPotions() {
		if !p.CanUse {
			continue
		}
		if p.RequiresTarget {
			target := a.lowestHPTarget()
			if target == nil {
				continue
			}
			return comm.NewUsePotion(p, target)
		}
		return comm.NewUsePotion(p, nil)
	}
	return nil
}
