package hashring

import "github.com/gobwas/avl"

// point represents a point on the ring.
type point struct {
	// target is a target which owns the point.
	target *target

	// index is the replica index of the point within target.
	index int

	pos Position
}

func newPoint(t *target, i int, pos Position) *point {
	return &point{
		target: t,
		index:  i,
		pos:    pos,
	}
}

// probe returns a point suitable only for searching the tree.
func probe(pos Position) *point {
	return &point{pos: pos}
}

func (p *point) Compare(x avl.Item) int {
	return compare(p.pos, x.(*point).pos)
}

// target is an entry of the target registry.
type target struct {
	name   string
	weight int

	// positions holds every position generated for the target, even those
	// which were overwritten by other points later.
	positions []Position
}

func newTarget(name string, weight int) *target {
	return &target{
		name:   name,
		weight: weight,
	}
}

func compare(x0, x1 Position) int {
	if x0 < x1 {
		return -1
	}
	if x0 > x1 {
		return 1
	}
	return 0
}
