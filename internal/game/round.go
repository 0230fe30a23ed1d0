package game

import (
	"fmt"
	"strings"
)

func materializeRounds(s *Session) {
	s.Rounds = make([]Round, s.RoundsCount)
	for i := range s.Rounds {
		s.Rounds[i] = Round{
			ID:         fmt.Sprintf("round-%d", i+1),
			Number:     i + 1,
			PromptRef:  hiddenPromptRef(i),
			TeamInputs: make(map[string][]string),
			Artifacts:  make(map[string]string),
			Votes:      make(map[string]string),
		}
	}
}

func hiddenPromptRef(index int) string {
	return fmt.Sprintf("/images/hidden-%d.jpg", (index%5)+1)
}

// rebuildTeamInputs re-derives a team's input list from its members rather
// than trusting any client-sent aggregate: one entry per member with a
// non-empty input, in join order.
func rebuildTeamInputs(round *Round, team *Team) {
	if round.TeamInputs == nil {
		round.TeamInputs = make(map[string][]string)
	}
	inputs := make([]string, 0, len(team.Members))
	for _, member := range team.Members {
		if strings.TrimSpace(member.Input) == "" {
			continue
		}
		inputs = append(inputs, member.Input)
	}
	round.TeamInputs[team.ID] = inputs
}

// openVoting clears every audience member's standing choice for the round
// about to be voted on. The round's own vote map starts empty.
func openVoting(s *Session, round *Round) {
	for i := range s.Audience {
		s.Audience[i].VotedFor = ""
	}
	if round.Votes == nil {
		round.Votes = make(map[string]string)
	}
}
