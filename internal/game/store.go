package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"prompt-arena/internal/artifact"
)

// Persistence is the durable snapshot contract the store writes through.
// Writes happen after a command has completed in memory and are best
// effort: in-memory state stays authoritative for the life of the process.
type Persistence interface {
	Load(id string) (*Session, error)
	LoadAll() ([]*Session, error)
	Save(s *Session) error
}

// Defaults are applied to CreateSession fields left at zero.
type Defaults struct {
	MaxTeams         int
	MaxTeamMembers   int
	TimeLimitSeconds int
	RoundsCount      int
}

type Options struct {
	// LockWait bounds how long a command waits for a session's exclusion
	// before failing with ErrBusy.
	LockWait time.Duration
	// GenerateTimeout bounds each artifact-generation call made during the
	// vote transition.
	GenerateTimeout time.Duration
	Defaults        Defaults
}

// Store owns every live session and serializes all commands per session.
// Two commands for the same session never overlap; commands for different
// sessions never block each other.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	persist    Persistence
	generator  artifact.Generator
	lockWait   time.Duration
	genTimeout time.Duration
	defaults   Defaults
}

type entry struct {
	sem     chan struct{}
	session *Session
}

func NewStore(persist Persistence, generator artifact.Generator, opts Options) *Store {
	if generator == nil {
		generator = artifact.Placeholder{}
	}
	if opts.LockWait <= 0 {
		opts.LockWait = 2 * time.Second
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 30 * time.Second
	}
	if opts.Defaults.MaxTeams <= 0 {
		opts.Defaults.MaxTeams = 5
	}
	if opts.Defaults.MaxTeamMembers <= 0 {
		opts.Defaults.MaxTeamMembers = 5
	}
	if opts.Defaults.TimeLimitSeconds <= 0 {
		opts.Defaults.TimeLimitSeconds = 60
	}
	if opts.Defaults.RoundsCount <= 0 {
		opts.Defaults.RoundsCount = 5
	}
	return &Store{
		sessions:   make(map[string]*entry),
		persist:    persist,
		generator:  generator,
		lockWait:   opts.LockWait,
		genTimeout: opts.GenerateTimeout,
		defaults:   opts.Defaults,
	}
}

type SessionParams struct {
	HostSecret       string
	MaxTeams         int
	MaxTeamMembers   int
	TimeLimitSeconds int
	RoundsCount      int
}

func (st *Store) CreateSession(p SessionParams) (*Session, error) {
	st.mu.Lock()
	id, err := newID(func(candidate string) bool {
		_, ok := st.sessions[candidate]
		return ok
	})
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}
	session := &Session{
		ID:               id,
		HostSecret:       p.HostSecret,
		MaxTeams:         orDefault(p.MaxTeams, st.defaults.MaxTeams),
		MaxTeamMembers:   orDefault(p.MaxTeamMembers, st.defaults.MaxTeamMembers),
		TimeLimitSeconds: orDefault(p.TimeLimitSeconds, st.defaults.TimeLimitSeconds),
		RoundsCount:      orDefault(p.RoundsCount, st.defaults.RoundsCount),
		Phase:            PhaseSetup,
		CreatedAt:        time.Now().UTC(),
	}
	st.sessions[id] = &entry{sem: make(chan struct{}, 1), session: session}
	st.mu.Unlock()

	st.persistSession(session)
	return session.Clone(), nil
}

// GetSession returns a snapshot of the session. A non-empty hostSecret must
// match; nothing is disclosed on mismatch.
func (st *Store) GetSession(id, hostSecret string) (*Session, error) {
	var snapshot *Session
	err := st.view(id, func(s *Session) error {
		if hostSecret != "" && hostSecret != s.HostSecret {
			return ErrForbidden
		}
		snapshot = s.Clone()
		return nil
	})
	return snapshot, err
}

// ConfigUpdate carries the host-settable fields; nil means unchanged.
// Capacity limits, the round count and the round time budget are locked
// once Setup ends.
type ConfigUpdate struct {
	MaxTeams         *int
	MaxTeamMembers   *int
	TimeLimitSeconds *int
	RoundsCount      *int
}

func (st *Store) UpdateConfig(id, hostSecret string, update ConfigUpdate) (*Session, error) {
	return st.update(id, func(s *Session) error {
		if err := s.checkHost(hostSecret); err != nil {
			return err
		}
		if s.Phase != PhaseSetup {
			return fmt.Errorf("%w: configuration is locked after %s", ErrInvalidPhase, PhaseSetup)
		}
		if update.MaxTeams != nil && *update.MaxTeams < len(s.Teams) {
			return fmt.Errorf("%w: %d teams already joined", ErrCapacityExceeded, len(s.Teams))
		}
		if update.MaxTeamMembers != nil {
			for i := range s.Teams {
				if len(s.Teams[i].Members) > *update.MaxTeamMembers {
					return fmt.Errorf("%w: team %s already has %d members", ErrCapacityExceeded, s.Teams[i].ID, len(s.Teams[i].Members))
				}
			}
		}
		if update.MaxTeams != nil {
			s.MaxTeams = *update.MaxTeams
		}
		if update.MaxTeamMembers != nil {
			s.MaxTeamMembers = *update.MaxTeamMembers
		}
		if update.TimeLimitSeconds != nil {
			s.TimeLimitSeconds = *update.TimeLimitSeconds
		}
		if update.RoundsCount != nil {
			s.RoundsCount = *update.RoundsCount
		}
		return nil
	})
}

// StartGame materializes the configured rounds and opens input collection.
func (st *Store) StartGame(id, hostSecret string) (*Session, error) {
	return st.update(id, func(s *Session) error {
		if err := s.checkHost(hostSecret); err != nil {
			return err
		}
		if s.Phase != PhaseSetup {
			return fmt.Errorf("%w: game already started", ErrInvalidPhase)
		}
		_, err := advancePhase(st, s)
		return err
	})
}

// AdvancePhase drives the state machine one step, running the transition's
// side effects. On error the session is left exactly as it was.
func (st *Store) AdvancePhase(id, hostSecret string) (*Session, error) {
	return st.update(id, func(s *Session) error {
		if err := s.checkHost(hostSecret); err != nil {
			return err
		}
		_, err := advancePhase(st, s)
		return err
	})
}

// EndGame force-transitions to Ended from any non-terminal phase.
func (st *Store) EndGame(id, hostSecret string) (*Session, error) {
	return st.update(id, func(s *Session) error {
		if err := s.checkHost(hostSecret); err != nil {
			return err
		}
		if s.Phase == PhaseEnded {
			return fmt.Errorf("%w: game already ended", ErrInvalidPhase)
		}
		s.Phase = PhaseEnded
		return nil
	})
}

func (st *Store) CreateTeam(id, name string) (*Team, error) {
	var created Team
	_, err := st.update(id, func(s *Session) error {
		if s.Phase != PhaseSetup {
			return fmt.Errorf("%w: teams can only be created during %s", ErrInvalidPhase, PhaseSetup)
		}
		if len(s.Teams) >= s.MaxTeams {
			return fmt.Errorf("%w: maximum of %d teams", ErrCapacityExceeded, s.MaxTeams)
		}
		teamID, err := newID(s.hasTeamID)
		if err != nil {
			return err
		}
		s.Teams = append(s.Teams, Team{ID: teamID, Name: name})
		created = s.Teams[len(s.Teams)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (st *Store) JoinTeam(id, teamID, name, contact string) (*Player, error) {
	var joined Player
	_, err := st.update(id, func(s *Session) error {
		team := s.findTeam(teamID)
		if team == nil {
			return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		if len(team.Members) >= s.MaxTeamMembers {
			return fmt.Errorf("%w: team is full", ErrCapacityExceeded)
		}
		playerID, err := newID(s.hasPlayerID)
		if err != nil {
			return err
		}
		team.Members = append(team.Members, Player{
			ID:      playerID,
			Name:    name,
			Contact: contact,
			TeamID:  teamID,
		})
		joined = team.Members[len(team.Members)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &joined, nil
}

// SubmitInput records a player's free-text input for the current round.
// Resubmission overwrites; the team's input list is re-derived from its
// members on every call.
func (st *Store) SubmitInput(id, teamID, playerID, text string) ([]string, error) {
	var inputs []string
	_, err := st.update(id, func(s *Session) error {
		if s.Phase != PhaseInputCollection {
			return fmt.Errorf("%w: inputs are only accepted during %s", ErrInvalidPhase, PhaseInputCollection)
		}
		team := s.findTeam(teamID)
		if team == nil {
			return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		player := s.findPlayer(teamID, playerID)
		if player == nil {
			return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
		}
		round := s.currentRound()
		if round == nil {
			return fmt.Errorf("%w: no active round", ErrInvalidPhase)
		}
		player.Input = text
		rebuildTeamInputs(round, team)
		inputs = append([]string(nil), round.TeamInputs[teamID]...)
		return nil
	})
	return inputs, err
}

func (st *Store) JoinAudience(id, name, contact string) (*AudienceMember, error) {
	var joined AudienceMember
	_, err := st.update(id, func(s *Session) error {
		if s.Phase == PhaseEnded {
			return fmt.Errorf("%w: game has ended", ErrInvalidPhase)
		}
		audienceID, err := newID(s.hasAudienceID)
		if err != nil {
			return err
		}
		s.Audience = append(s.Audience, AudienceMember{
			ID:      audienceID,
			Name:    name,
			Contact: contact,
		})
		joined = s.Audience[len(s.Audience)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &joined, nil
}

// SubmitVote records an audience member's choice for the current round.
// Resubmission replaces the prior choice and never double-counts.
func (st *Store) SubmitVote(id, audienceID, teamID string) error {
	_, err := st.update(id, func(s *Session) error {
		if s.Phase != PhaseAudienceVote {
			return fmt.Errorf("%w: votes are only accepted during %s", ErrInvalidPhase, PhaseAudienceVote)
		}
		member := s.findAudience(audienceID)
		if member == nil {
			return fmt.Errorf("%w: audience member %s", ErrNotFound, audienceID)
		}
		if s.findTeam(teamID) == nil {
			return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		round := s.currentRound()
		if round == nil {
			return fmt.Errorf("%w: no active round", ErrInvalidPhase)
		}
		member.VotedFor = teamID
		round.Votes[audienceID] = teamID
		return nil
	})
	return err
}

// VoteCount is the live per-team result view for the current round.
type VoteCount struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Votes    int    `json:"votes"`
}

func (st *Store) VoteCounts(id string) ([]VoteCount, Phase, error) {
	var counts []VoteCount
	var phase Phase
	err := st.view(id, func(s *Session) error {
		phase = s.Phase
		round := s.currentRound()
		tally := map[string]int{}
		if round != nil {
			tally = Tally(round)
		}
		counts = make([]VoteCount, 0, len(s.Teams))
		for _, team := range s.Teams {
			counts = append(counts, VoteCount{
				TeamID:   team.ID,
				TeamName: team.Name,
				Votes:    tally[team.ID],
			})
		}
		return nil
	})
	return counts, phase, err
}

// Results returns the cumulative ranking: score descending, stable on team
// creation order for exact ties.
func (st *Store) Results(id string) ([]Team, Phase, error) {
	var ranked []Team
	var phase Phase
	err := st.view(id, func(s *Session) error {
		phase = s.Phase
		ranked = Ranking(s)
		return nil
	})
	return ranked, phase, err
}

// Restore registers a previously persisted session, used during the bulk
// load at startup. Restoring an id that is already live is a conflict.
func (st *Store) Restore(s *Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: empty session", ErrNotFound)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ID]; ok {
		return fmt.Errorf("%w: session %s already live", ErrConflict, s.ID)
	}
	st.sessions[s.ID] = &entry{sem: make(chan struct{}, 1), session: s}
	return nil
}

// LoadFromPersistence bulk-loads every persisted snapshot. Records that
// cannot be restored are skipped with a warning rather than failing boot.
func (st *Store) LoadFromPersistence() int {
	if st.persist == nil {
		return 0
	}
	sessions, err := st.persist.LoadAll()
	if err != nil {
		log.Warn().Err(err).Msg("snapshot bulk load failed")
		return 0
	}
	restored := 0
	for _, session := range sessions {
		if err := st.Restore(session); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("skipping snapshot")
			continue
		}
		restored++
	}
	return restored
}

// Flush writes a snapshot of every live session, used at shutdown.
func (st *Store) Flush() {
	if st.persist == nil {
		return
	}
	st.mu.RLock()
	entries := make([]*entry, 0, len(st.sessions))
	for _, e := range st.sessions {
		entries = append(entries, e)
	}
	st.mu.RUnlock()
	for _, e := range entries {
		if err := e.acquire(st.lockWait); err != nil {
			log.Warn().Str("session_id", e.session.ID).Msg("flush skipped busy session")
			continue
		}
		st.persistSession(e.session)
		e.release()
	}
}

func (s *Session) checkHost(hostSecret string) error {
	if hostSecret != s.HostSecret {
		return ErrForbidden
	}
	return nil
}

func (st *Store) update(id string, fn func(*Session) error) (*Session, error) {
	e, err := st.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := e.acquire(st.lockWait); err != nil {
		return nil, err
	}
	defer e.release()
	if err := fn(e.session); err != nil {
		return nil, err
	}
	st.persistSession(e.session)
	return e.session.Clone(), nil
}

func (st *Store) view(id string, fn func(*Session) error) error {
	e, err := st.lookup(id)
	if err != nil {
		return err
	}
	if err := e.acquire(st.lockWait); err != nil {
		return err
	}
	defer e.release()
	return fn(e.session)
}

func (st *Store) lookup(id string) (*entry, error) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return e, nil
	}
	// Fall back to the persisted snapshot so a restarted process can serve
	// sessions that were never bulk-loaded. A Restore conflict means a
	// concurrent lookup won the race; use its entry.
	if st.persist != nil {
		if session, err := st.persist.Load(id); err == nil {
			if err := st.Restore(session); err != nil && !errors.Is(err, ErrConflict) {
				return nil, err
			}
			st.mu.RLock()
			e, ok = st.sessions[id]
			st.mu.RUnlock()
			if ok {
				return e, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
}

func (e *entry) acquire(wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	}
}

func (e *entry) release() {
	<-e.sem
}

func (st *Store) persistSession(s *Session) {
	if st.persist == nil {
		return
	}
	if err := st.persist.Save(s); err != nil {
		log.Warn().Err(err).Str("session_id", s.ID).Msg("snapshot write failed")
	}
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
