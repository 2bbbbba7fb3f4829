package spire

import (
	"encoding/json"
	"sort"
)

// Node is one room on the dungeon map. Y is the layer (depth from the
// act entrance), X the column. Children point at reachable nodes in
// layer Y+1.
type Node struct {
	X        int
	Y        int
	Symbol   string
	Children []*Node
}

// Same reports whether both nodes name the same map position.
func (n *Node) Same(other *Node) bool {
	return n != nil && other != nil && n.X == other.X && n.Y == other.Y
}

type nodeRefJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type nodeJSON struct {
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Symbol   string        `json:"symbol"`
	Children []nodeRefJSON `json:"children"`
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var jn nodeJSON
	if err := json.Unmarshal(data, &jn); err != nil {
		return err
	}
	*n = Node{X: jn.X, Y: jn.Y, Symbol: jn.Symbol}
	return nil
}

func (n *Node) MarshalJSON() ([]byte, error) {
	jn := nodeJSON{X: n.X, Y: n.Y, Symbol: n.Symbol, Children: []nodeRefJSON{}}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, nodeRefJSON{X: c.X, Y: c.Y})
	}
	return json.Marshal(jn)
}

// Map is the layered DAG of one act. Nodes are keyed by (layer, column).
type Map struct {
	nodes map[int]map[int]*Node
}

func NewMap() *Map {
	return &Map{nodes: make(map[int]map[int]*Node)}
}

func (m *Map) add(n *Node) {
	layer, ok := m.nodes[n.Y]
	if !ok {
		layer = make(map[int]*Node)
		m.nodes[n.Y] = layer
	}
	layer[n.X] = n
}

// Node returns the node at (x, y), or nil.
func (m *Map) Node(x, y int) *Node {
	if m == nil {
		return nil
	}
	return m.nodes[y][x]
}

// Layer returns the nodes of one layer in ascending column order.
func (m *Map) Layer(y int) []*Node {
	if m == nil {
		return nil
	}
	layer := m.nodes[y]
	out := make([]*Node, 0, len(layer))
	for _, n := range layer {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

// Height returns the deepest layer index, or -1 for an empty map.
func (m *Map) Height() int {
	if m == nil {
		return -1
	}
	height := -1
	for y := range m.nodes {
		if y > height {
			height = y
		}
	}
	return height
}

// mapFromNodeList builds the graph in two passes: instantiate every
// declared node, then wire children. A child whose coordinates were
// never declared as a node is skipped.
func mapFromNodeList(list []nodeJSON) *Map {
	m := NewMap()
	for _, jn := range list {
		m.add(&Node{X: jn.X, Y: jn.Y, Symbol: jn.Symbol})
	}
	for _, jn := range list {
		parent := m.Node(jn.X, jn.Y)
		for _, jc := range jn.Children {
			if child := m.Node(jc.X, jc.Y); child != nil {
				parent.Children = append(parent.Children, child)
			}
		}
	}
	return m
}

func (m *Map) MarshalJSON() ([]byte, error) {
	list := []json.RawMessage{}
	for y := 0; y <= m.Height(); y++ {
		for _, n := range m.Layer(y) {
			raw, err := n.MarshalJSON()
			if err != nil {
				return nil, err
			}
			list = append(list, raw)
		}
	}
	return json.Marshal(list)
}

func (m *Map) UnmarshalJSON(data []byte) error {
	var list []nodeJSON
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*m = *mapFromNodeList(list)
	return nil
}
