package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexstoesslein/silence-cutter/internal/assembler"
	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// Session is the single owned unit of pipeline state (spec.md §3, §5).
// A process only ever drives one Session at a time, so its fields are
// guarded by a mutex purely so progress readers and the driver goroutine
// can observe State/Err concurrently, not to support multiple sessions.
type Session struct {
	mu sync.RWMutex

	ID         string
	SourcePath string
	State      State
	Err        *model.PipelineError

	Segments  []*model.Segment
	Groups    []*model.Group
	EditList  *model.EditList
	Assembler *assembler.Assembler

	StartedAt time.Time
}

// New creates an Idle session for sourcePath.
func New(sourcePath string) *Session {
	return &Session{
		ID:         uuid.New().String(),
		SourcePath: sourcePath,
		State:      Idle,
		StartedAt:  time.Now(),
	}
}

// Transition moves the session to a new state. Failed is reachable from
// any state; every other transition is just a progress record, not a
// guarded state-graph edge, since this core drives exactly one linear
// pipeline per session.
func (s *Session) Transition(to State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = to
}

// Fail moves the session to Failed and records the error.
func (s *Session) Fail(err *model.PipelineError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = Failed
	s.Err = err
}

// CurrentState returns the session's state under the read lock.
func (s *Session) CurrentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}
