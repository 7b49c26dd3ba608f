package api

import (
	"fmt"
	"sync"
)

// AttemptState is where one logical request is in its auth recovery cycle.
type AttemptState int

const (
	StateInitial AttemptState = iota
	StateUnauthorized
	StateRefreshing
	StateRetried
	StateRefreshFailed
	StateLoggedOut
	StateSucceeded
	StateFailed
)

var stateNames = map[AttemptState]string{
	StateInitial:       "initial",
	StateUnauthorized:  "unauthorized",
	StateRefreshing:    "refreshing",
	StateRetried:       "retried",
	StateRefreshFailed: "refresh_failed",
	StateLoggedOut:     "logged_out",
	StateSucceeded:     "succeeded",
	StateFailed:        "failed",
}

func (s AttemptState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AttemptState(%d)", int(s))
}

// allowedTransitions encodes the only legal orderings. Retried has no edge
// back to Unauthorized, so a request can be retried at most once.
var allowedTransitions = map[AttemptState][]AttemptState{
	StateInitial:       {StateSucceeded, StateFailed, StateUnauthorized},
	StateUnauthorized:  {StateRefreshing, StateRefreshFailed},
	StateRefreshing:    {StateRetried, StateRefreshFailed, StateFailed},
	StateRetried:       {StateSucceeded, StateFailed},
	StateRefreshFailed: {StateLoggedOut},
}

// Transition is reported to observers each time an attempt changes state.
type Transition struct {
	RequestID string
	Method    string
	Path      string
	From      AttemptState
	To        AttemptState
}

// attempt is the per-request state machine plus the buffered request body
// that a retry resubmits.
type attempt struct {
	id     string
	req    *Request
	body   []byte
	state  AttemptState
	notify func(Transition)
	mu     sync.Mutex
}

func (a *attempt) transition(to AttemptState) error {
	a.mu.Lock()
	from := a.state
	allowed := false
	for _, next := range allowedTransitions[from] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		a.mu.Unlock()
		return fmt.Errorf("[api attempt] illegal transition %s -> %s for request %s", from, to, a.id)
	}
	a.state = to
	a.mu.Unlock()

	if a.notify != nil {
		a.notify(Transition{RequestID: a.id, Method: a.req.Method, Path: a.req.Path, From: from, To: to})
	}
	return nil
}
