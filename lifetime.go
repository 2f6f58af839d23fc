package kuzu

import "sync/atomic"

// lifetime tracks the validity of everything borrowed from one owner, such as
// a row. Invalidating bumps the generation, so every lease taken before fails
// its check without the owner having to know its borrowers.
type lifetime struct {
	gen atomic.Uint64
}

func (l *lifetime) lease() lease {
	return lease{owner: l, gen: l.gen.Load()}
}

func (l *lifetime) invalidate() {
	l.gen.Add(1)
}

// lease is a borrower's view of a lifetime at the time it borrowed.
type lease struct {
	owner *lifetime
	gen   uint64
}

func (le lease) valid() bool {
	return le.owner == nil || le.owner.gen.Load() == le.gen
}
