package wizard

import (
	"sync"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

var (
	errNotOpen     = apperrors.NewCustomError(apperrors.ErrWizardState, "The project wizard is not open")
	errBusy        = apperrors.NewCustomError(apperrors.ErrWizardState, "A request is already in progress")
	errSuperseded  = apperrors.NewCustomError(apperrors.ErrWizardState, "The wizard changed while the request was in flight")
	errOtherSchool = apperrors.NewCustomError(apperrors.ErrWizardState, "The project wizard is open for another school")
)

// entry is the wizard of one session
type entry struct {
	user     models.User
	schoolID string
	state    State
	options  Options

	// gen changes whenever a transition invalidates in-flight calls; optGen does the same for option fetches
	gen    uint64
	optGen uint64
	busy   bool
}

// registry holds one wizard per session id
type registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     uint64
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry)}
}

// next returns a generation number never handed out before. Callers hold mu.
func (r *registry) next() uint64 {
	r.seq++
	return r.seq
}

// invalidate detaches e from any call in flight. Callers hold mu.
func (r *registry) invalidate(e *entry) {
	e.gen = r.next()
	e.busy = false
}

// with runs fn on the session's entry under the lock and renders the result
func (r *registry) with(sessionID string, fn func(e *entry) error) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return View{}, errNotOpen
	}
	err := fn(e)
	view := NewView(e.state, e.options)
	view.Busy = e.busy
	return view, err
}

// open returns the session's entry, replacing it when it belongs to another user or school or is finished
func (r *registry) open(sessionID string, user models.User, schoolID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[sessionID]; ok {
		_, done := e.state.(CompleteStep)
		if !done && e.user.ID == user.ID && e.schoolID == schoolID {
			e.user = user
			return
		}
	}
	r.entries[sessionID] = &entry{
		user:     user,
		schoolID: schoolID,
		state:    Start(user, schoolID),
		gen:      r.next(),
		optGen:   r.next(),
	}
}

func (r *registry) remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

func (r *registry) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}

func (r *registry) school(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return "", false
	}
	return e.schoolID, true
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
