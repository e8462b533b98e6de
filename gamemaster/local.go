package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"tactics/experiments/metrics"
	"tactics/game"
)

var ErrSessionClosed = errors.New("session closed")

// ActionError reports an action the game refused. Err wraps one of the game
// package's sentinel errors.
type ActionError struct {
	Action game.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("rejected %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Update is published for every applied action, in the order applied.
type Update struct {
	Seq    int
	Action game.Action
	Events []game.Event
	State  *game.GameState // copy taken right after the action
	Hash   game.StateHash
}

type request struct {
	ctx   context.Context
	do    func(gs *game.GameState) response
	reply chan response
}

type response struct {
	events []game.Event
	state  *game.GameState
	err    error
}

// Session owns one game and applies actions to it from a single goroutine,
// strictly in the order they are received. Actions are never retried.
type Session struct {
	ID        string
	state     *game.GameState
	collector metrics.Collector
	requests  chan request
	updates   chan Update
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	seq       int
}

type Option func(*Session)

// WithCollector records every applied and rejected action.
func WithCollector(c metrics.Collector) Option {
	return func(s *Session) {
		s.collector = c
	}
}

// WithUpdates enables the Updates stream with the given buffer. Once the
// buffer is full, the session waits for the reader.
func WithUpdates(buffer int) Option {
	return func(s *Session) {
		s.updates = make(chan Update, buffer)
	}
}

// NewSession starts the session goroutine for gs. The session takes
// ownership of gs; callers read it through Snapshot.
func NewSession(id string, gs *game.GameState, opts ...Option) *Session {
	s := &Session{
		ID:        id,
		state:     gs,
		collector: metrics.NewDummyCollector(),
		requests:  make(chan request),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.collector.Start()
	go s.run()
	return s
}

func (s *Session) run() {
	defer close(s.stopped)
	if s.updates != nil {
		defer close(s.updates)
	}

	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			if err := req.ctx.Err(); err != nil {
				req.reply <- response{err: err}
				continue
			}
			req.reply <- req.do(s.state)
		}
	}
}

func (s *Session) apply(a game.Action) func(gs *game.GameState) response {
	return func(gs *game.GameState) response {
		events, err := gs.Apply(a)
		if err != nil {
			s.collector.AddRejected()
			log.Debug().Str("game", s.ID).Err(err).Msgf("rejected %s", a)
			return response{err: &ActionError{Action: a, Err: err}}
		}
		s.collector.AddAction(a, events)
		s.seq++
		s.publish(Update{
			Seq:    s.seq,
			Action: a,
			Events: events,
			State:  gs.Copy(),
			Hash:   gs.Hash(),
		})
		return response{events: events}
	}
}

func (s *Session) publish(u Update) {
	if s.updates == nil {
		return
	}
	select {
	case s.updates <- u:
	case <-s.done:
	}
}

func (s *Session) submit(ctx context.Context, do func(gs *game.GameState) response) (response, error) {
	req := request{ctx: ctx, do: do, reply: make(chan response, 1)}
	select {
	case s.requests <- req:
	case <-ctx.Done():
		return response{}, ctx.Err()
	case <-s.done:
		return response{}, ErrSessionClosed
	}
	// Once accepted, the request is always answered.
	resp := <-req.reply
	return resp, resp.err
}

// Submit applies a and returns the resulting events. It blocks until the
// action was applied or rejected, or ctx is done before the session picked
// it up. A rejected action returns an *ActionError.
func (s *Session) Submit(ctx context.Context, a game.Action) ([]game.Event, error) {
	resp, err := s.submit(ctx, s.apply(a))
	if err != nil {
		return nil, err
	}
	return resp.events, nil
}

// Snapshot returns a copy of the current game state.
func (s *Session) Snapshot(ctx context.Context) (*game.GameState, error) {
	resp, err := s.submit(ctx, func(gs *game.GameState) response {
		return response{state: gs.Copy()}
	})
	if err != nil {
		return nil, err
	}
	return resp.state, nil
}

// Updates returns the stream of applied actions, or nil when the session
// was created without WithUpdates. The channel is closed by Close.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

func (s *Session) Metrics() metrics.Counts {
	return s.collector.Complete()
}

// Close stops the session goroutine and waits for it to exit.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
}
