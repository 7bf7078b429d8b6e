// Package battleserver hosts battles for remote clients: a registry of live
// battle sessions and the gRPC service in front of it.
package battleserver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ai"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/random"
	"github.com/cory-johannsen/tactics/internal/game/roster"
	"github.com/cory-johannsen/tactics/internal/game/turn"
	"github.com/cory-johannsen/tactics/internal/storage/postgres"
)

var (
	// ErrBattleNotFound is returned for ids the registry does not host.
	ErrBattleNotFound = errors.New("battle not found")
	// ErrUnknownBattleground is returned when creating on an undefined battleground.
	ErrUnknownBattleground = errors.New("unknown battleground")
	// ErrInvalidSetup wraps participants a battleground cannot seat.
	ErrInvalidSetup = errors.New("invalid battle setup")
	// ErrTooManyBattles is returned when the registry is at capacity.
	ErrTooManyBattles = errors.New("too many battles")
	// ErrActionRejected wraps the authorization failure of a submitted action.
	ErrActionRejected = errors.New("action rejected")
)

// maxAutoTurns bounds the AI turns played back to back in one call, so a
// battle between two AI players cannot monopolise a request.
const maxAutoTurns = 64

// Store persists battles. postgres.BattleRepository implements it.
type Store interface {
	Create(ctx context.Context, rec postgres.BattleRecord, log []battle.Delta) error
	Append(ctx context.Context, id uuid.UUID, from int, deltas []battle.Delta, status battle.Status) error
}

// Content is the static game data battles are built from.
type Content struct {
	Roster        *roster.Roster
	Battlegrounds map[string]*battleground.Definition
	Profiles      *ai.Registry
}

// Session is one hosted battle. Its mutex serialises every request that
// touches the battle.
type Session struct {
	ID           uuid.UUID
	Battleground string

	mu        sync.Mutex
	orch      *turn.Orchestrator
	agent     *ai.Agent
	persisted int
}

// Status is a summary of a battle's progress.
type Status struct {
	Turn     battle.PlayerID
	Round    int
	Finished bool
	Winner   *battle.PlayerID
	Head     int
}

// Registry owns the hosted battles. Distinct battles proceed concurrently.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID]*Session
	content    Content
	store      Store
	caller     ai.ScriptCaller
	autoplay   bool
	maxBattles int
	newSeed    func() (int64, error)
	logger     *zap.Logger
}

// Options configures a Registry. A nil Store disables persistence and a
// nil ScriptCaller disables AI hooks.
type Options struct {
	Store      Store
	Caller     ai.ScriptCaller
	Autoplay   bool
	MaxBattles int
}

// NewRegistry creates an empty Registry.
//
// Precondition: content.Roster must be non-nil; logger must be non-nil.
func NewRegistry(content Content, opts Options, logger *zap.Logger) *Registry {
	if content.Profiles == nil {
		content.Profiles = ai.NewRegistry()
	}
	return &Registry{
		sessions:   make(map[uuid.UUID]*Session),
		content:    content,
		store:      opts.Store,
		caller:     opts.Caller,
		autoplay:   opts.Autoplay,
		maxBattles: opts.MaxBattles,
		newSeed:    random.NewSeed,
		logger:     logger,
	}
}

// Create starts a battle on the named battleground. When autoplay is on and
// the first player is computer-controlled, its turns are played before
// Create returns.
//
// Postcondition: on success the battle is hosted and, with a store, persisted.
func (r *Registry) Create(ctx context.Context, battlegroundID string, participants []battleground.Participant) (uuid.UUID, error) {
	def, ok := r.content.Battlegrounds[battlegroundID]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownBattleground, battlegroundID)
	}
	seed, err := r.newSeed()
	if err != nil {
		return uuid.Nil, err
	}
	ids := &battle.SequentialIDs{}
	setup, err := battleground.Build(def, r.content.Roster, participants, ids, seed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}

	id := uuid.New()
	logger := r.logger.With(zap.String("battle", id.String()))
	s := &Session{
		ID:           id,
		Battleground: battlegroundID,
		orch: turn.Start(setup, logger,
			battle.WithIDs(ids),
			battle.WithRandom(random.NewLogged(random.New(seed), logger)),
		),
		agent: ai.NewAgent(r.content.Profiles, r.caller, id.String(), logger),
	}

	r.mu.Lock()
	if r.maxBattles > 0 && len(r.sessions) >= r.maxBattles {
		r.mu.Unlock()
		return uuid.Nil, ErrTooManyBattles
	}
	r.sessions[id] = s
	r.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if r.store != nil {
		rec := postgres.BattleRecord{ID: id, Battleground: battlegroundID, Seed: seed, Setup: setup, Participants: participants}
		if err := r.store.Create(ctx, rec, s.orch.Battle().Deltas()); err != nil {
			r.remove(id)
			return uuid.Nil, fmt.Errorf("persisting battle: %w", err)
		}
		s.persisted = s.orch.Battle().Len()
	}
	if err := r.advance(ctx, s); err != nil {
		return id, err
	}
	logger.Info("battle created",
		zap.String("battleground", battlegroundID),
		zap.Int("players", len(participants)),
	)
	return id, nil
}

// Submit dispatches a on battle id, then plays any AI turns that follow.
// It returns the new log length.
//
// Postcondition: a rejected action returns an error wrapping both
// ErrActionRejected and the authorization failure; the log is unchanged.
func (r *Registry) Submit(ctx context.Context, id uuid.UUID, a turn.Action) (int, error) {
	s, err := r.session(id)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.orch.Dispatch(a); err != nil {
		return s.orch.Battle().Len(), fmt.Errorf("%w: %w", ErrActionRejected, err)
	}
	if err := r.advance(ctx, s); err != nil {
		return s.orch.Battle().Len(), err
	}
	return s.orch.Battle().Len(), nil
}

// DeltasAfter returns the log suffix of battle id starting at head, and the
// log length to ask from next.
func (r *Registry) DeltasAfter(id uuid.UUID, head int) ([]battle.Delta, int, error) {
	s, err := r.session(id)
	if err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.orch.Battle()
	return b.DeltasAfter(max(head, 0)), b.Len(), nil
}

// Status summarises battle id.
func (r *Registry) Status(id uuid.UUID) (Status, error) {
	s, err := r.session(id)
	if err != nil {
		return Status{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.orch.Battle()
	return Status{Turn: b.Turn, Round: b.Round, Finished: b.Status.Finished, Winner: b.Status.Winner, Head: b.Len()}, nil
}

// Close stops hosting battle id. The stored log is kept.
func (r *Registry) Close(id uuid.UUID) error {
	if _, err := r.session(id); err != nil {
		return err
	}
	r.remove(id)
	return nil
}

// Len reports the number of hosted battles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) session(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBattleNotFound, id)
	}
	return s, nil
}

func (r *Registry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// advance plays computer turns when autoplay is on and persists whatever
// the log gained.
//
// Precondition: s.mu is held.
func (r *Registry) advance(ctx context.Context, s *Session) error {
	b := s.orch.Battle()
	if r.autoplay {
		for i := 0; i < maxAutoTurns && b.Status.InProgress(); i++ {
			p, ok := b.Player(b.Turn)
			if !ok || p.Controller != battle.AI {
				break
			}
			if err := s.agent.TakeTurn(s.orch, p.ID); err != nil {
				r.logger.Warn("battleserver: AI turn failed",
					zap.String("battle", s.ID.String()),
					zap.Int("player", int(p.ID)),
					zap.Error(err),
				)
				break
			}
		}
	}
	return r.persist(ctx, s)
}

// persist appends the unsaved suffix of the log to the store.
//
// Precondition: s.mu is held.
func (r *Registry) persist(ctx context.Context, s *Session) error {
	b := s.orch.Battle()
	if r.store == nil || s.persisted == b.Len() {
		return nil
	}
	if err := r.store.Append(ctx, s.ID, s.persisted, b.DeltasAfter(s.persisted), b.Status); err != nil {
		return fmt.Errorf("persisting deltas: %w", err)
	}
	s.persisted = b.Len()
	return nil
}
