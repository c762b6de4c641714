package meta

import (
	"sync"
)

// StepObserver is notified after every change of the scrubber's state
type StepObserver interface {
	OnStep(ViewState)
}

// StepObserverFunc adapts a plain function to StepObserver
type StepObserverFunc func(ViewState)

// OnStep implements StepObserver
func (f StepObserverFunc) OnStep(v ViewState) { f(v) }

// Scrubber holds the current query of one interactive session and
// recomputes the view whenever an input moves. The slider (SetProgress)
// and the narrative (EnterStep, Next, Prev) drive the same state.
type Scrubber struct {
	ds *Dataset

	mu        sync.Mutex
	query     Query
	state     ViewState
	observers []StepObserver
}

// NewScrubber starts at progress 100 with no brush
func NewScrubber(ds *Dataset) *Scrubber {
	s := &Scrubber{ds: ds}
	s.state, _ = ds.View(s.query)
	return s
}

// Observe registers o. Observers run synchronously, in registration order.
func (s *Scrubber) Observe(o StepObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// State returns the current view
func (s *Scrubber) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetProgress moves the slider
func (s *Scrubber) SetProgress(p float64) ViewState {
	v, _ := s.apply(s.current().WithProgress(p))
	return v
}

// EnterStep activates narrative step i, moving the cutoff to its commit
func (s *Scrubber) EnterStep(i int) (ViewState, error) {
	return s.apply(s.current().WithStep(i))
}

// Next enters the step after the current one, or the first step when the
// view is slider-driven. At the last step it stays put.
func (s *Scrubber) Next() ViewState {
	cur := s.State()
	i := cur.Step + 1
	if cur.Step < 0 {
		i = s.stepAtOrAfter(cur)
	}
	if i >= len(cur.Steps) {
		return cur
	}
	v, _ := s.EnterStep(i)
	return v
}

// Prev enters the step before the current one. At the first step it stays put.
func (s *Scrubber) Prev() ViewState {
	cur := s.State()
	i := cur.Step - 1
	if cur.Step < 0 {
		i = s.stepAtOrAfter(cur) - 1
	}
	if i < 0 {
		return cur
	}
	v, _ := s.EnterStep(i)
	return v
}

// SetBrush replaces the brush; nil clears it
func (s *Scrubber) SetBrush(b *Selection) ViewState {
	v, _ := s.apply(s.current().WithBrush(b))
	return v
}

func (s *Scrubber) current() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// stepAtOrAfter finds the last step whose commit is visible at the current cutoff
func (s *Scrubber) stepAtOrAfter(v ViewState) int {
	last := -1
	for i, st := range v.Steps {
		if !st.Datetime.After(v.Cutoff) {
			last = i
		}
	}
	return last + 1
}

func (s *Scrubber) apply(q Query) (ViewState, error) {
	v, err := s.ds.View(q)
	if err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	s.query = q
	s.state = v
	observers := append([]StepObserver(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.OnStep(v)
	}
	return v, nil
}
