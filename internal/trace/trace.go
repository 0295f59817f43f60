// Package trace maintains an application-level shadow of the call stack.
// Unlike the runtime's own stack it survives symbol stripping and only
// records the scopes the application chooses to name, which keeps halt-time
// traces short and readable in a player-facing log file.
package trace

// Shadow is an ordering-preserving stack of caller identifiers, innermost
// last. Not safe for concurrent use; the escalation engine serializes
// access.
type Shadow struct {
	frames []string
}

// New returns an empty shadow stack.
func New() *Shadow {
	return &Shadow{}
}

// Push records entry into a named scope and returns the matching pop.
// Callers defer the returned func so every exit path unwinds the shadow,
// including early returns and panics:
//
//	defer shadow.Push("world.GenerateLevel")()
func (s *Shadow) Push(name string) func() {
	s.frames = append(s.frames, name)
	return s.pop
}

func (s *Shadow) pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of recorded frames.
func (s *Shadow) Depth() int {
	return len(s.frames)
}

// Root returns the first frame ever pushed, if any. The root frame is
// retained even after Drain.
func (s *Shadow) Root() (string, bool) {
	if len(s.frames) == 0 {
		return "", false
	}
	return s.frames[0], true
}

// Drain emits every frame top-first, labelling them with descending depths
// len-1 down to 0, and pops everything except the first pushed frame. The
// root frame is reported but deliberately left on the stack; drain stops
// at depth 1, not 0. Draining an empty shadow emits nothing.
func (s *Shadow) Drain(emit func(depth int, name string)) {
	for len(s.frames) > 0 {
		emit(len(s.frames)-1, s.frames[len(s.frames)-1])
		if len(s.frames) == 1 {
			break
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
}
