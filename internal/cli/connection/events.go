package connection

import "time"

// AuthLostEvent reports that the backend rejected the stored credential.
// LoginPath is where the user has to go to sign in again.
type AuthLostEvent struct {
	Method    string
	Path      string
	LoginPath string
	At        time.Time
}

type subscriber struct {
	id int
	fn func(AuthLostEvent)
}

// OnAuthLost registers fn to run after every auth-required 401, once the
// token has been cleared. Subscribers run in registration order. The
// returned func unregisters fn.
func (g *Gateway) OnAuthLost(fn func(AuthLostEvent)) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSub
	g.nextSub++
	g.subs = append(g.subs, subscriber{id: id, fn: fn})

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		for i, s := range g.subs {
			if s.id == id {
				g.subs = append(g.subs[:i:i], g.subs[i+1:]...)
				return
			}
		}
	}
}

func (g *Gateway) emitAuthLost(ev AuthLostEvent) {
	g.mu.RLock()
	subs := append([]subscriber(nil), g.subs...)
	g.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
