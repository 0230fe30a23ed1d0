package game

import "testing"

func TestTallyEmptyRound(t *testing.T) {
	round := &Round{Votes: map[string]string{}}
	if tally := Tally(round); len(tally) != 0 {
		t.Fatalf("expected empty tally, got %v", tally)
	}
}

func TestTallyCountsOnePerVoter(t *testing.T) {
	round := &Round{Votes: map[string]string{
		"v1": "team-a",
		"v2": "team-a",
		"v3": "team-b",
		"v4": "",
	}}
	tally := Tally(round)
	if tally["team-a"] != 2 || tally["team-b"] != 1 {
		t.Fatalf("unexpected tally %v", tally)
	}
	if _, ok := tally[""]; ok {
		t.Fatal("empty choices must not be counted")
	}
}

func TestApplyScoresEmptyTally(t *testing.T) {
	teams := []Team{{ID: "a", Score: 3}, {ID: "b", Score: 0}}
	applyScores(teams, map[string]int{})
	if teams[0].Score != 3 || teams[1].Score != 0 {
		t.Fatalf("expected scores unchanged, got %v", teams)
	}
}

func TestApplyScoresAccumulates(t *testing.T) {
	teams := []Team{{ID: "a", Score: 2}, {ID: "b", Score: 1}}
	applyScores(teams, map[string]int{"a": 1, "c": 5})
	if teams[0].Score != 3 {
		t.Fatalf("expected a=3, got %d", teams[0].Score)
	}
	if teams[1].Score != 1 {
		t.Fatalf("expected b unchanged, got %d", teams[1].Score)
	}
}

func TestRankingStableOnTies(t *testing.T) {
	s := &Session{Teams: []Team{
		{ID: "a", Score: 1},
		{ID: "b", Score: 3},
		{ID: "c", Score: 1},
	}}
	ranked := Ranking(s)
	if ranked[0].ID != "b" || ranked[1].ID != "a" || ranked[2].ID != "c" {
		t.Fatalf("expected [b a c], got %v", ranked)
	}
	// Ranking must not reorder the session's own team list.
	if s.Teams[0].ID != "a" {
		t.Fatalf("session team order mutated: %v", s.Teams)
	}
}
