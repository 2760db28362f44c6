package hashring

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/gobwas/avl"
)

// DefaultReplicas is the number of points placed on the ring per unit of
// target weight when Ring.Replicas is not set.
const DefaultReplicas = 64

// Ring is a consistent hashing hashring.
// It is goroutine safe. Ring instances must not be copied.
// The zero value for Ring is an empty ring ready to use.
type Ring struct {
	// Hasher is an optional hash function used to place targets and
	// resources on the ring. If Hasher is nil, then CRC32 is used.
	//
	// Hasher must not be assigned directly once the ring is in use by
	// multiple goroutines; SetHasher() should be used instead.
	Hasher Hasher

	// Replicas is an optional number of points placed on the ring per unit
	// of target weight. The higher this number, the more equal distribution
	// of resources this ring produces and the more time and memory is needed
	// to update the ring.
	//
	// If Replicas is zero, then the DefaultReplicas is used.
	//
	// Replicas must not be assigned directly once the ring is in use by
	// multiple goroutines; SetReplicas() should be used instead.
	Replicas int

	// mu serializes write operations on the ring.
	mu sync.Mutex

	// targets is a mapping of target name to its registry entry.
	// It is protected by r.mu mutex.
	targets map[string]*target

	// ring is a tree holding target points.
	// It is protected by r.mu mutex.
	ring avl.Tree // tree<*point>

	// ringMu serializes access to the snapshot and the configuration fields.
	// It's read-end should be held when reading them.
	// It's write-end should be held when they are being updated.
	ringMu sync.RWMutex

	// snap is a flattened, read-only version of r.ring and r.targets.
	// It is protected by r.ringMu mutex.
	snap snapshot

	trace traceRing
}

// SetHasher changes hash function of the ring.
// Note that targets already placed on the ring are not rehashed: new hash
// function is used for targets added later and for lookups. To get all
// targets rehashed a new ring should be built.
func (r *Ring) SetHasher(h Hasher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ringMu.Lock()
	r.Hasher = h
	r.ringMu.Unlock()
}

// SetReplicas changes number of points per unit of target weight.
// As with SetHasher(), targets already placed on the ring are left untouched.
// If n is less than zero SetReplicas() panics.
func (r *Ring) SetReplicas(n int) {
	if n < 0 {
		panic("hashring: replicas must not be negative")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ringMu.Lock()
	r.Replicas = n
	r.ringMu.Unlock()
}

// AddTarget puts target with weight w onto the ring.
// It returns *DuplicateTargetError when target already exists.
// If weight is less or equal to zero or target is empty AddTarget() panics.
func (r *Ring) AddTarget(name string, w int) error {
	if w <= 0 {
		panic("hashring: weight must be greater than zero")
	}
	if name == "" {
		panic("hashring: target must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, has := r.targets[name]; has {
		return &DuplicateTargetError{Target: name}
	}
	if r.targets == nil {
		r.targets = make(map[string]*target)
	}
	t := newTarget(name, w)
	root := r.insertTarget(r.ring, t)
	r.targets[name] = t
	r.swap(root)

	return nil
}

// AddTargets puts each of given targets onto the ring with weight 1.
// It stops at the first error; targets added before it stay on the ring.
func (r *Ring) AddTargets(names ...string) error {
	for _, name := range names {
		if err := r.AddTarget(name, 1); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTarget replaces target's points with the ones computed for weight w.
// It is the same as removing and adding the target again, but readers never
// observe the ring without it.
// It returns *UnknownTargetError when target doesn't exist.
// If weight is less or equal to zero UpdateTarget() panics.
func (r *Ring) UpdateTarget(name string, w int) error {
	if w <= 0 {
		panic("hashring: weight must be greater than zero")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, has := r.targets[name]
	if !has {
		return &UnknownTargetError{Target: name}
	}
	root := r.deleteTarget(r.ring, prev)

	t := newTarget(name, w)
	root = r.insertTarget(root, t)
	r.targets[name] = t
	r.swap(root)

	return nil
}

// RemoveTarget removes target from the ring.
// It returns *UnknownTargetError when target doesn't exist.
func (r *Ring) RemoveTarget(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, has := r.targets[name]
	if !has {
		return &UnknownTargetError{Target: name}
	}
	root := r.deleteTarget(r.ring, t)
	delete(r.targets, name)
	r.swap(root)

	return nil
}

// Targets returns lexicographically sorted names of all targets on the ring.
func (r *Ring) Targets() []string {
	r.ringMu.RLock()
	ts := r.snap.targets
	r.ringMu.RUnlock()

	return append(([]string)(nil), ts...)
}

// Has reports whether target exists on the ring.
func (r *Ring) Has(name string) bool {
	r.ringMu.RLock()
	ts := r.snap.targets
	r.ringMu.RUnlock()

	i := sort.SearchStrings(ts, name)
	return i < len(ts) && ts[i] == name
}

// Len returns number of targets on the ring.
func (r *Ring) Len() int {
	r.ringMu.RLock()
	defer r.ringMu.RUnlock()
	return len(r.snap.targets)
}

func (r *Ring) String() string {
	return fmt.Sprintf("hashring.Ring%v", r.Targets())
}

// Lookup returns target serving the resource.
// It returns ErrEmptyRing if there are no targets on the ring.
func (r *Ring) Lookup(resource string) (string, error) {
	ts, err := r.LookupList(resource, 1)
	if err != nil {
		return "", err
	}
	if len(ts) == 0 {
		return "", ErrEmptyRing
	}
	return ts[0], nil
}

// LookupList returns up to n distinct targets serving the resource, in order
// of preference. That is, second target is the one which would serve the
// resource if the first one was removed, and so on.
//
// Returned list is shorter than n when there are not enough targets on the
// ring, or when points of some targets were taken over by other targets.
// It is empty when ring is empty or has no points left.
// It returns ErrInvalidCount if n is less than one.
func (r *Ring) LookupList(resource string, n int) ([]string, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	r.ringMu.RLock()
	s := r.snap
	h := r.hasher()
	r.ringMu.RUnlock()

	return s.lookup(h, resource, n), nil
}

// r.mu or r.ringMu must be held.
func (r *Ring) hasher() Hasher {
	if h := r.Hasher; h != nil {
		return h
	}
	return CRC32
}

// r.mu or r.ringMu must be held.
func (r *Ring) replicas() int {
	if n := r.Replicas; n > 0 {
		return n
	}
	return DefaultReplicas
}

// r.mu must be held.
func (r *Ring) insertTarget(tree avl.Tree, t *target) avl.Tree {
	var (
		h = r.hasher()
		n = r.replicas() * t.weight
	)
	t.positions = make([]Position, 0, n)
	for i := 0; i < n; i++ {
		pos := h.Hash(t.name + strconv.Itoa(i))
		t.positions = append(t.positions, pos)
		tree = r.insertPoint(tree, newPoint(t, i, pos))
	}
	return tree
}

// r.mu must be held.
func (r *Ring) deleteTarget(tree avl.Tree, t *target) avl.Tree {
	for i, pos := range t.positions {
		tree, _ = r.deletePoint(tree, newPoint(t, i, pos))
	}
	return tree
}

// insertPoint puts p onto the tree, replacing a point having same position
// if any.
//
// r.mu must be held.
func (r *Ring) insertPoint(tree avl.Tree, p *point) avl.Tree {
	trace := r.trace.onInsert(p)
	defer trace.onDone()

	tree, prev := tree.Delete(p)
	if prev != nil {
		trace.onCollision(prev.(*point))
	}
	tree = mustInsertTree(tree, p)
	assertOwned(tree, p)

	return tree
}

// deletePoint removes point at p's position only if it is still owned by p's
// target. The position could be taken over by another target due to a
// collision.
//
// r.mu must be held.
func (r *Ring) deletePoint(tree avl.Tree, p *point) (_ avl.Tree, removed bool) {
	trace := r.trace.onDelete(p)
	defer func() {
		trace.onDone(removed)
	}()

	x := tree.Search(probe(p.pos))
	if x == nil {
		// Position was overwritten by another point of the same target and
		// is already deleted.
		return tree, false
	}
	owner := x.(*point)
	if owner.target != p.target {
		trace.onForeign(owner)
		return tree, false
	}
	return mustDeleteTree(tree, owner), true
}

// swap makes root the current version of the ring visible to readers.
//
// r.mu must be held.
func (r *Ring) swap(root avl.Tree) {
	points := make([]*point, 0, root.Size())
	root.InOrder(func(x avl.Item) bool {
		points = append(points, x.(*point))
		return true
	})
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	r.ring = root

	r.ringMu.Lock()
	r.snap = snapshot{
		points:  points,
		targets: names,
	}
	r.ringMu.Unlock()

	r.trace.onSwap(len(points), len(names))
}

// snapshot is an immutable version of the ring.
type snapshot struct {
	points  []*point // Ordered by position.
	targets []string // Sorted.
}

func (s snapshot) lookup(h Hasher, resource string, n int) []string {
	switch len(s.targets) {
	case 0:
		return nil
	case 1:
		return []string{s.targets[0]}
	}
	if len(s.points) == 0 {
		// All points of remaining targets were taken over by targets which
		// are gone now.
		return nil
	}
	pos := h.Hash(resource)
	start := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].pos >= pos
	})
	if n == 1 {
		return []string{s.points[start%len(s.points)].target.name}
	}
	if n > len(s.targets) {
		n = len(s.targets)
	}
	var (
		ret  = make([]string, 0, n)
		seen = make(map[*target]bool, n)
	)
	for i := 0; i < len(s.points) && len(ret) < n; i++ {
		p := s.points[(start+i)%len(s.points)]
		if seen[p.target] {
			continue
		}
		seen[p.target] = true
		ret = append(ret, p.target.name)
	}
	return ret
}

func mustInsertTree(tree avl.Tree, x avl.Item) avl.Tree {
	tree, existing := tree.Insert(x)
	if existing != nil {
		panic("hashring: internal error: mustInsert failed")
	}
	return tree
}

func mustDeleteTree(tree avl.Tree, x avl.Item) avl.Tree {
	tree, existed := tree.Delete(x)
	if existed == nil {
		panic("hashring: internal error: mustDelete failed")
	}
	return tree
}
