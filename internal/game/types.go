package game

import "time"

type Phase string

const (
	PhaseSetup           Phase = "setup"
	PhaseInputCollection Phase = "team-input"
	PhaseAudienceVote    Phase = "audience-vote"
	PhaseEnded           Phase = "ended"
)

// Session is the full aggregate for one game. It owns every team, player,
// audience member and round reachable from it; snapshots serialize it
// verbatim, so all cross-references are ids, never pointers.
type Session struct {
	ID               string           `json:"id"`
	HostSecret       string           `json:"hostSecret,omitempty"`
	MaxTeams         int              `json:"maxTeams"`
	MaxTeamMembers   int              `json:"maxTeamMembers"`
	TimeLimitSeconds int              `json:"timeLimitSeconds"`
	RoundsCount      int              `json:"roundsCount"`
	Phase            Phase            `json:"phase"`
	CurrentRound     int              `json:"currentRound"`
	Teams            []Team           `json:"teams"`
	Audience         []AudienceMember `json:"audience"`
	Rounds           []Round          `json:"rounds"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Player `json:"members"`
	Score   int      `json:"score"`
}

type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	TeamID  string `json:"teamId"`
	Input   string `json:"input,omitempty"`
}

type AudienceMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	VotedFor string `json:"votedFor,omitempty"`
}

// Round records one input-collection/vote cycle. Once Artifacts is
// populated at the vote transition it is never written again.
type Round struct {
	ID         string              `json:"id"`
	Number     int                 `json:"number"`
	PromptRef  string              `json:"promptRef"`
	TeamInputs map[string][]string `json:"teamInputs"`
	Artifacts  map[string]string   `json:"artifacts"`
	Votes      map[string]string   `json:"votes"`
}

func (s *Session) findTeam(teamID string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == teamID {
			return &s.Teams[i]
		}
	}
	return nil
}

func (s *Session) findPlayer(teamID, playerID string) *Player {
	team := s.findTeam(teamID)
	if team == nil {
		return nil
	}
	for i := range team.Members {
		if team.Members[i].ID == playerID {
			return &team.Members[i]
		}
	}
	return nil
}

func (s *Session) findAudience(audienceID string) *AudienceMember {
	for i := range s.Audience {
		if s.Audience[i].ID == audienceID {
			return &s.Audience[i]
		}
	}
	return nil
}

func (s *Session) currentRound() *Round {
	if s.CurrentRound < 0 || s.CurrentRound >= len(s.Rounds) {
		return nil
	}
	return &s.Rounds[s.CurrentRound]
}

// Clone deep-copies the aggregate so callers can read a snapshot after the
// session's exclusion has been released.
func (s *Session) Clone() *Session {
	out := *s
	out.Teams = make([]Team, len(s.Teams))
	for i, team := range s.Teams {
		out.Teams[i] = team
		out.Teams[i].Members = append([]Player(nil), team.Members...)
	}
	out.Audience = append([]AudienceMember(nil), s.Audience...)
	out.Rounds = make([]Round, len(s.Rounds))
	for i, round := range s.Rounds {
		out.Rounds[i] = round
		out.Rounds[i].TeamInputs = cloneInputs(round.TeamInputs)
		out.Rounds[i].Artifacts = cloneStringMap(round.Artifacts)
		out.Rounds[i].Votes = cloneStringMap(round.Votes)
	}
	return &out
}

func cloneInputs(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
