//go:build hashring_debug
// +build hashring_debug

package hashring

import (
	"fmt"
	"log"
	"strings"

	"github.com/gobwas/avl"
)

// assertOwned panics if p is not stored on the tree.
func assertOwned(tree avl.Tree, p *point) {
	if x := tree.Search(p); x == nil || x.(*point) != p {
		panic(fmt.Sprintf(
			"hashring: internal error: point must exist on the ring: %s",
			pointInfo(p),
		))
	}
}

func setupRingTrace(r *Ring) {
	log.SetFlags(0)

	var depth int
	enter := func() {
		depth++
		log.SetPrefix(strings.Repeat(" ", depth*4))
	}
	leave := func() {
		depth--
		log.SetPrefix(strings.Repeat(" ", depth*4))
	}
	r.trace = r.trace.Compose(traceRing{
		OnInsert: func(p *point) traceRingInsert {
			log.Println("inserting:", pointInfo(p))
			enter()
			return traceRingInsert{
				OnCollision: func(prev *point) {
					log.Println("collision:")
					enter()
					log.Println("prev:", pointInfo(prev))
					log.Println("next:", pointInfo(p))
					leave()
				},
				OnDone: func() {
					leave()
					log.Println("inserted")
				},
			}
		},
		OnDelete: func(p *point) traceRingDelete {
			log.Println("deleting:", pointInfo(p))
			enter()
			return traceRingDelete{
				OnForeign: func(owner *point) {
					log.Println("owned by another target:", pointInfo(owner))
				},
				OnDone: func(deleted bool) {
					leave()
					if deleted {
						log.Println("deleted")
					} else {
						log.Println("not deleted")
					}
				},
			}
		},
		OnSwap: func(points, targets int) {
			log.Printf("swapped ring: %d points of %d targets", points, targets)
		},
	})
}

func pointInfo(p *point) string {
	return fmt.Sprintf(
		"%p: %s[%d] %d",
		p, p.target.name, p.index, p.pos,
	)
}
