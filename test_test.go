package hashring

import (
	"fmt"
	"strconv"
	"testing"
)

// digestCall returns a string hashed for i-th point of the target s.
func digestCall(s string, i int) string {
	return s + strconv.Itoa(i)
}

// setupDigest makes r to use predefined positions for given strings, falling
// back to xxHash for the others.
func setupDigest(t testing.TB, r *Ring, values map[string]Position) {
	r.Hasher = &mapHasher{
		t:      t,
		values: values,
	}
}

type mapHasher struct {
	t      testing.TB
	values map[string]Position
}

func (h *mapHasher) Hash(s string) Position {
	v, has := h.values[s]
	if has {
		h.t.Logf("using digest value for %#q: %d", s, v)
		return v
	}
	return XXHash.Hash(s)
}

// placeTargets puts each target on the ring at single given position.
func placeTargets(t testing.TB, r *Ring, targets []string, positions []Position) {
	if len(targets) != len(positions) {
		panic(fmt.Sprintf(
			"placeTargets: mismatched lengths: %d vs %d",
			len(targets), len(positions),
		))
	}
	r.SetReplicas(1)
	for i, target := range targets {
		r.SetHasher(StaticHasher(positions[i]))
		if err := r.AddTarget(target, 1); err != nil {
			t.Fatal(err)
		}
	}
}

// countTrace returns trace hooks counting ring events.
func countTrace(c *traceCounter) traceRing {
	return traceRing{
		OnInsert: func(*point) traceRingInsert {
			c.inserts++
			return traceRingInsert{
				OnCollision: func(*point) {
					c.collisions++
				},
			}
		},
		OnDelete: func(*point) traceRingDelete {
			return traceRingDelete{
				OnForeign: func(*point) {
					c.foreign++
				},
				OnDone: func(removed bool) {
					if removed {
						c.deletes++
					}
				},
			}
		},
		OnSwap: func(int, int) {
			c.swaps++
		},
	}
}

type traceCounter struct {
	inserts    int
	collisions int
	deletes    int
	foreign    int
	swaps      int
}
