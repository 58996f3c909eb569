package ftpserver

import "sync"

// sessionRegistry is the server-wide collection of live sessions described
// in spec.md §3/§9: "rather than an intrusive pointer list, use a
// collection keyed by session id under a single mutex". count mirrors
// spec.md's registry_count, including its role as the monotonic session
// number source (spec.md §4.6's documented double-increment quirk lives in
// server.go, which calls nextNum and then bump for each accepted connection).
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uint32]*session
	count    uint32
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uint32]*session)}
}

// nextNum returns the current counter value and increments it. The counter
// is only a numbering source: it is bumped twice per accepted connection
// (here and in bump), including connections that are later rejected, and
// never decremented, so it does not equal the number of registered sessions.
func (r *sessionRegistry) nextNum() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.count
	r.count++

	return n
}

// bump implements the second half of spec.md §4.6's documented
// double-increment: registry_count is incremented again after the session's
// task is spawned, without touching the registry itself.
func (r *sessionRegistry) bump() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

func (r *sessionRegistry) add(s *session) {
	r.mu.Lock()
	r.sessions[s.num] = s
	r.mu.Unlock()
}

func (r *sessionRegistry) remove(s *session) {
	r.mu.Lock()
	delete(r.sessions, s.num)
	r.mu.Unlock()
}

// snapshot returns a copy of the currently registered sessions, so fini can
// dispatch aborts without holding the lock across the blocking join that
// follows (spec.md Design Notes §9).
func (r *sessionRegistry) snapshot() []*session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}

	return out
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

func (r *sessionRegistry) clear() {
	r.mu.Lock()
	r.sessions = make(map[uint32]*session)
	r.mu.Unlock()
}
