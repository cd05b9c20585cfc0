package state

// generation hands out request tokens. A response is applied only while its
// token is still the latest one issued; reset bumps the counter so every
// in-flight response is dropped. Callers guard it with the owning store's
// mutex.
type generation struct {
	n uint64
}

func (g *generation) next() uint64 {
	g.n++
	return g.n
}

func (g *generation) current(token uint64) bool {
	return g.n == token
}
