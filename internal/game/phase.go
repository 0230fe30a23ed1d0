package game

import (
	"context"
	"errors"
	"fmt"
)

type phaseTransition struct {
	advance func(st *Store, s *Session) (Phase, error)
}

// phaseTransitions is the single authoritative map of legal phase steps.
// Advancing from a phase with no entry fails with ErrInvalidPhase, and a
// failed advance leaves the session untouched: side effects are staged and
// applied only once the whole transition has succeeded.
var phaseTransitions = map[Phase]phaseTransition{
	PhaseSetup: {
		advance: func(st *Store, s *Session) (Phase, error) {
			materializeRounds(s)
			s.CurrentRound = 0
			s.Phase = PhaseInputCollection
			return PhaseInputCollection, nil
		},
	},
	PhaseInputCollection: {
		advance: func(st *Store, s *Session) (Phase, error) {
			round := s.currentRound()
			if round == nil {
				return "", fmt.Errorf("%w: no active round", ErrInvalidPhase)
			}
			staged, err := st.generateArtifacts(s, round)
			if err != nil {
				return "", err
			}
			round.Artifacts = staged
			openVoting(s, round)
			s.Phase = PhaseAudienceVote
			return PhaseAudienceVote, nil
		},
	},
	PhaseAudienceVote: {
		advance: func(st *Store, s *Session) (Phase, error) {
			round := s.currentRound()
			if round == nil {
				return "", fmt.Errorf("%w: no active round", ErrInvalidPhase)
			}
			applyScores(s.Teams, Tally(round))
			if s.CurrentRound+1 < len(s.Rounds) {
				s.CurrentRound++
				s.Phase = PhaseInputCollection
				return PhaseInputCollection, nil
			}
			s.Phase = PhaseEnded
			return PhaseEnded, nil
		},
	},
}

func advancePhase(st *Store, s *Session) (Phase, error) {
	transition, ok := phaseTransitions[s.Phase]
	if !ok {
		return "", fmt.Errorf("%w: cannot advance from %s", ErrInvalidPhase, s.Phase)
	}
	return transition.advance(st, s)
}

func (st *Store) generateArtifacts(s *Session, round *Round) (map[string]string, error) {
	staged := make(map[string]string, len(s.Teams))
	for i := range s.Teams {
		team := &s.Teams[i]
		ctx, cancel := context.WithTimeout(context.Background(), st.genTimeout)
		ref, err := st.generator.Generate(ctx, round.PromptRef, round.TeamInputs[team.ID])
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: team %s", ErrUpstreamTimeout, team.ID)
			}
			return nil, fmt.Errorf("generate artifact for team %s: %w", team.ID, err)
		}
		staged[team.ID] = ref
	}
	return staged, nil
}
