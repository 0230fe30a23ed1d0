package game

import (
	"strings"

	"github.com/google/uuid"
)

// newID produces an identifier unique among the ids reported taken. A
// collision is regenerated once before surfacing ErrConflict.
func newID(taken func(string) bool) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", ErrConflict
}

func (s *Session) hasTeamID(id string) bool {
	return s.findTeam(id) != nil
}

func (s *Session) hasPlayerID(id string) bool {
	for i := range s.Teams {
		for j := range s.Teams[i].Members {
			if s.Teams[i].Members[j].ID == id {
				return true
			}
		}
	}
	return false
}

func (s *Session) hasAudienceID(id string) bool {
	return s.findAudience(id) != nil
}
