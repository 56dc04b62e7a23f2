package movement

import "container/heap"

type Pos struct {
	X int
	Y int
}

// Passable is the read side of an occupancy map. Out-of-range cells must
// report false.
type Passable interface {
	Size() int
	IsWalkable(x, y int) bool
}

type Options struct {
	Diagonals bool
	// CornerCutting lets a diagonal step squeeze between two blocked
	// orthogonal neighbours.
	CornerCutting bool
}

const (
	costStraight = 10
	costDiagonal = 14
)

// Fixed neighbour order keeps equal-cost results stable across runs.
var (
	straightDirs = []Pos{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	diagonalDirs = []Pos{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// FindPath runs A* from start to goal and returns the visited cells in order,
// both endpoints included. The goal must be walkable; the start need not be,
// so an agent standing on a freshly blocked cell can still walk off it.
func FindPath(g Passable, start, goal Pos, opt Options) ([]Pos, bool) {
	n := g.Size()
	if n <= 0 || !inside(n, start) || !g.IsWalkable(goal.X, goal.Y) {
		return nil, false
	}
	if start == goal {
		return []Pos{start}, true
	}

	idx := func(p Pos) int { return p.Y*n + p.X }
	gScore := make([]int, n*n)
	parent := make([]int32, n*n)
	closed := make([]bool, n*n)
	for i := range gScore {
		gScore[i] = -1
		parent[i] = -1
	}

	open := &openSet{}
	var seq uint64
	push := func(p Pos, g int) {
		h := octile(p, goal)
		seq++
		heap.Push(open, node{p: p, g: g, f: g + h, h: h, seq: seq})
	}
	gScore[idx(start)] = 0
	push(start, 0)

	dirs := straightDirs
	if opt.Diagonals {
		dirs = append(append([]Pos{}, straightDirs...), diagonalDirs...)
	}

	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		ci := idx(cur.p)
		if closed[ci] {
			continue
		}
		closed[ci] = true
		if cur.p == goal {
			return walkBack(parent, n, ci), true
		}

		for _, d := range dirs {
			np := Pos{X: cur.p.X + d.X, Y: cur.p.Y + d.Y}
			if !g.IsWalkable(np.X, np.Y) {
				continue
			}
			step := costStraight
			if d.X != 0 && d.Y != 0 {
				if !opt.CornerCutting && (!g.IsWalkable(cur.p.X+d.X, cur.p.Y) || !g.IsWalkable(cur.p.X, cur.p.Y+d.Y)) {
					continue
				}
				step = costDiagonal
			}
			ni := idx(np)
			if closed[ni] {
				continue
			}
			ng := cur.g + step
			if old := gScore[ni]; old >= 0 && old <= ng {
				continue
			}
			gScore[ni] = ng
			parent[ni] = int32(ci)
			push(np, ng)
		}
	}
	return nil, false
}

func walkBack(parent []int32, n, from int) []Pos {
	var rev []Pos
	for i := from; i >= 0; i = int(parent[i]) {
		rev = append(rev, Pos{X: i % n, Y: i / n})
	}
	out := make([]Pos, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}

func inside(n int, p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < n && p.Y < n
}

func octile(a, b Pos) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx < dy {
		dx, dy = dy, dx
	}
	return costStraight*(dx-dy) + costDiagonal*dy
}

type node struct {
	p   Pos
	g   int
	f   int
	h   int
	seq uint64
}

type openSet []node

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	if s[i].h != s[j].h {
		return s[i].h < s[j].h
	}
	return s[i].seq < s[j].seq
}
func (s openSet) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s *openSet) Push(x any)   { *s = append(*s, x.(node)) }
func (s *openSet) Pop() any {
	old := *s
	it := old[len(old)-1]
	*s = old[:len(old)-1]
	return it
}
