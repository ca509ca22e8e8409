package searcher

import "golang.org/x/exp/rand"

// Node is one reachable game state in the search tree. The node owns its
// board and its children; parent is a plain back pointer that is cleared when
// the node becomes a root.
type Node struct {
	board    Board
	parent   *Node
	children []*Node
	player   Player // side to move from this node
	move     Move   // move that led here, nil for a root
	visits   int
	wins     int
}

// NewRoot returns a root for board with p to move. The board is cloned.
func NewRoot(board Board, p Player) *Node {
	return &Node{
		board:  board.Clone(),
		player: p,
	}
}

func newChild(parent *Node, board Board, move Move) *Node {
	return &Node{
		board:  board,
		parent: parent,
		player: parent.player.Opponent(),
		move:   move,
	}
}

func (n *Node) Board() Board      { return n.board }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Player() Player    { return n.player }
func (n *Node) Move() Move        { return n.move }
func (n *Node) Visits() int       { return n.visits }
func (n *Node) Wins() int         { return n.wins }
func (n *Node) IsLeaf() bool      { return len(n.children) == 0 }

func (n *Node) WinRate() float64 {
	if n.visits == 0 {
		return 0
	}
	return float64(n.wins) / float64(n.visits)
}

// Select returns the child to descend into using the default exploration
// constant.
func (n *Node) Select() *Node {
	return n.selects(Exploration)
}

func (n *Node) selects(c float64) *Node {
	if len(n.children) == 0 {
		return n
	}

	// Every child gets one visit before statistics are compared
	for _, child := range n.children {
		if child.visits == 0 {
			return child
		}
	}

	policy := newUCT(c, float64(n.visits))
	best := n.children[0]
	bestScore := policy.evaluate(float64(best.wins), float64(best.visits))
	for _, child := range n.children[1:] {
		if score := policy.evaluate(float64(child.wins), float64(child.visits)); score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

// Expand adds one child per legal move of the side to move and returns the
// number of children created. A node without legal moves stays a leaf.
func (n *Node) Expand() int {
	for _, move := range LegalMoves(n.board, n.player) {
		board := n.board.Clone()
		if err := board.Play(move, n.player); err != nil {
			// The rules engine generated the move, so it must be playable
			panic("cannot play generated move " + move.String() + ": " + err.Error())
		}
		n.children = append(n.children, newChild(n, board, move))
	}
	return len(n.children)
}

// Simulate plays a random game from a copy of the node's board.
func (n *Node) Simulate(r *rand.Rand, cutoff int, evaluate Evaluate) Rollout {
	return rollout(n.board.Clone(), n.player, r, cutoff, evaluate)
}

// Backpropagate records one visit on every node from n up to the root and a
// win wherever the side to move matches the winner.
func (n *Node) Backpropagate(winner Player) {
	for node := n; node != nil; node = node.parent {
		if node.player == winner {
			node.wins++
		}
		node.visits++
	}
}

// BestChild returns the child with the highest win rate, or nil when the node
// has no children.
func (n *Node) BestChild() *Node {
	var best *Node
	bestRate := -1.0
	for _, child := range n.children {
		if child.visits == 0 {
			return child
		}
		if rate := child.WinRate(); rate > bestRate {
			best = child
			bestRate = rate
		}
	}
	return best
}

// child returns the child reached by move, or nil.
func (n *Node) child(move Move) *Node {
	for _, child := range n.children {
		if sameMove(child.move, move) {
			return child
		}
	}
	return nil
}

// detach makes n a root. Its former parent and siblings are no longer
// reachable from n.
func (n *Node) detach() {
	n.parent = nil
}

// size counts the nodes of the subtree rooted at n.
func (n *Node) size() int {
	count := 1
	for _, child := range n.children {
		count += child.size()
	}
	return count
}
