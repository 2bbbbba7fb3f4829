package agent

import (
	"log"

	"spirepilot/comm"
	"spirepilot/spire"
)

// planRoute computes one column per layer for the whole act in a
// forward pass: layer 0 scores its own symbols, each deeper node is
// seeded well below any real score and relaxed edge by edge. Strict
// improvement plus ascending column order keeps ties on the lowest
// column, so replanning the same map yields the same route.
func (a *Agent) planRoute() {
	rewards := a.policy.MapNodeRewards(a.game.Act)
	rewardOf := func(symbol string) int {
		r, ok := rewards[symbol]
		if !ok {
			log.Printf("[Agent] no map reward for symbol %q, scoring 0", symbol)
		}
		return r
	}
	minReward := 0
	first := true
	for _, r := range rewards {
		if first || r < minReward {
			minReward = r
			first = false
		}
	}

	m := a.game.Map
	top := m.Height()
	if top < 0 {
		a.mapRoute = nil
		return
	}
	bestReward := make([]map[int]int, top+1)
	bestParent := make([]map[int]int, top+1)
	bestReward[0] = make(map[int]int)
	bestParent[0] = make(map[int]int)
	for _, n := range m.Layer(0) {
		bestReward[0][n.X] = rewardOf(n.Symbol)
		bestParent[0][n.X] = 0
	}
	for y := 0; y < top; y++ {
		bestReward[y+1] = make(map[int]int)
		bestParent[y+1] = make(map[int]int)
		for _, n := range m.Layer(y + 1) {
			bestReward[y+1][n.X] = minReward * 20
			bestParent[y+1][n.X] = -1
		}
		for _, n := range m.Layer(y) {
			base, reachable := bestReward[y][n.X]
			if !reachable {
				continue
			}
			for _, child := range n.Children {
				if test := base + rewardOf(child.Symbol); test > bestReward[y+1][child.X] {
					bestReward[y+1][child.X] = test
					bestParent[y+1][child.X] = n.X
				}
			}
		}
	}

	route := make([]int, top+1)
	found := false
	var bestX, bestVal int
	for _, n := range m.Layer(top) {
		if v := bestReward[top][n.X]; !found || v > bestVal {
			bestX, bestVal, found = n.X, v, true
		}
	}
	route[top] = bestX
	for y := top; y > 0; y-- {
		route[y-1] = bestParent[y][route[y]]
	}
	a.mapRoute = route
}

// chooseMapNode follows the cached route, replanning whenever the
// screen offers entrance nodes (a fresh act). The boss door always
// wins. Anything off-script falls back to the first choice.
func (a *Agent) chooseMapNode(s *spire.MapScreen) comm.Action {
	planned := false
	if len(s.NextNodes) > 0 && s.NextNodes[0].Y == 0 {
		a.planRoute()
		planned = true
	}
	if s.BossAvailable {
		return &comm.ChooseMapBossAction{}
	}
	layer := 0
	if !planned {
		if s.CurrentNode == nil {
			return comm.ChooseByIndex(0)
		}
		layer = s.CurrentNode.Y + 1
	}
	if layer < 0 || layer >= len(a.mapRoute) {
		return comm.ChooseByIndex(0)
	}
	wantX := a.mapRoute[layer]
	for _, n := range s.NextNodes {
		if n.X == wantX {
			return comm.NewChooseMapNode(n)
		}
	}
	return comm.ChooseByIndex(0)
}
