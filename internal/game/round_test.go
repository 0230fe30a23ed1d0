package game

import "testing"

func TestMaterializeRounds(t *testing.T) {
	s := &Session{RoundsCount: 7}
	materializeRounds(s)
	if len(s.Rounds) != 7 {
		t.Fatalf("expected 7 rounds, got %d", len(s.Rounds))
	}
	if s.Rounds[0].PromptRef != "/images/hidden-1.jpg" {
		t.Fatalf("unexpected first prompt ref %q", s.Rounds[0].PromptRef)
	}
	// prompt refs cycle through the five available images
	if s.Rounds[5].PromptRef != "/images/hidden-1.jpg" {
		t.Fatalf("expected prompt refs to cycle, got %q", s.Rounds[5].PromptRef)
	}
	for i, round := range s.Rounds {
		if round.TeamInputs == nil || round.Artifacts == nil || round.Votes == nil {
			t.Fatalf("round %d maps not initialized", i)
		}
	}
}

func TestRebuildTeamInputsSkipsEmpty(t *testing.T) {
	team := &Team{ID: "a", Members: []Player{
		{ID: "p1", Input: "first"},
		{ID: "p2", Input: "   "},
		{ID: "p3"},
		{ID: "p4", Input: "last"},
	}}
	round := &Round{TeamInputs: make(map[string][]string)}
	rebuildTeamInputs(round, team)
	got := round.TeamInputs["a"]
	if len(got) != 2 || got[0] != "first" || got[1] != "last" {
		t.Fatalf("expected [first last], got %v", got)
	}
}
