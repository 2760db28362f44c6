package hashring

// traceRing holds optional callbacks called during ring mutation.
type traceRing struct {
	OnInsert func(*point) traceRingInsert
	OnDelete func(*point) traceRingDelete
	OnSwap   func(points, targets int)
}

type traceRingInsert struct {
	// OnCollision is called when inserted point overwrites another one.
	OnCollision func(prev *point)
	OnDone      func()
}

type traceRingDelete struct {
	// OnForeign is called when point's position is owned by another target
	// and thus left untouched.
	OnForeign func(owner *point)
	OnDone    func(removed bool)
}

// Compose returns a new traceRing which has functional fields composed both
// from t and x.
func (t traceRing) Compose(x traceRing) (ret traceRing) {
	switch {
	case t.OnInsert == nil:
		ret.OnInsert = x.OnInsert
	case x.OnInsert == nil:
		ret.OnInsert = t.OnInsert
	default:
		h1 := t.OnInsert
		h2 := x.OnInsert
		ret.OnInsert = func(p *point) traceRingInsert {
			r1 := h1(p)
			r2 := h2(p)
			return r1.Compose(r2)
		}
	}
	switch {
	case t.OnDelete == nil:
		ret.OnDelete = x.OnDelete
	case x.OnDelete == nil:
		ret.OnDelete = t.OnDelete
	default:
		h1 := t.OnDelete
		h2 := x.OnDelete
		ret.OnDelete = func(p *point) traceRingDelete {
			r1 := h1(p)
			r2 := h2(p)
			return r1.Compose(r2)
		}
	}
	switch {
	case t.OnSwap == nil:
		ret.OnSwap = x.OnSwap
	case x.OnSwap == nil:
		ret.OnSwap = t.OnSwap
	default:
		h1 := t.OnSwap
		h2 := x.OnSwap
		ret.OnSwap = func(points, targets int) {
			h1(points, targets)
			h2(points, targets)
		}
	}
	return ret
}

func (t traceRingInsert) Compose(x traceRingInsert) (ret traceRingInsert) {
	switch {
	case t.OnCollision == nil:
		ret.OnCollision = x.OnCollision
	case x.OnCollision == nil:
		ret.OnCollision = t.OnCollision
	default:
		h1 := t.OnCollision
		h2 := x.OnCollision
		ret.OnCollision = func(prev *point) {
			h1(prev)
			h2(prev)
		}
	}
	switch {
	case t.OnDone == nil:
		ret.OnDone = x.OnDone
	case x.OnDone == nil:
		ret.OnDone = t.OnDone
	default:
		h1 := t.OnDone
		h2 := x.OnDone
		ret.OnDone = func() {
			h1()
			h2()
		}
	}
	return ret
}

func (t traceRingDelete) Compose(x traceRingDelete) (ret traceRingDelete) {
	switch {
	case t.OnForeign == nil:
		ret.OnForeign = x.OnForeign
	case x.OnForeign == nil:
		ret.OnForeign = t.OnForeign
	default:
		h1 := t.OnForeign
		h2 := x.OnForeign
		ret.OnForeign = func(owner *point) {
			h1(owner)
			h2(owner)
		}
	}
	switch {
	case t.OnDone == nil:
		ret.OnDone = x.OnDone
	case x.OnDone == nil:
		ret.OnDone = t.OnDone
	default:
		h1 := t.OnDone
		h2 := x.OnDone
		ret.OnDone = func(removed bool) {
			h1(removed)
			h2(removed)
		}
	}
	return ret
}

func (t traceRing) onInsert(p *point) traceRingInsert {
	fn := t.OnInsert
	if fn == nil {
		return traceRingInsert{}
	}
	return fn(p)
}

func (t traceRing) onDelete(p *point) traceRingDelete {
	fn := t.OnDelete
	if fn == nil {
		return traceRingDelete{}
	}
	return fn(p)
}

func (t traceRing) onSwap(points, targets int) {
	fn := t.OnSwap
	if fn == nil {
		return
	}
	fn(points, targets)
}

func (t traceRingInsert) onCollision(prev *point) {
	fn := t.OnCollision
	if fn == nil {
		return
	}
	fn(prev)
}

func (t traceRingInsert) onDone() {
	fn := t.OnDone
	if fn == nil {
		return
	}
	fn()
}

func (t traceRingDelete) onForeign(owner *point) {
	fn := t.OnForeign
	if fn == nil {
		return
	}
	fn(owner)
}

func (t traceRingDelete) onDone(removed bool) {
	fn := t.OnDone
	if fn == nil {
		return
	}
	fn(removed)
}
