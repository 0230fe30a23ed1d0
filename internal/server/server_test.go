package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prompt-arena/internal/artifact"
	"prompt-arena/internal/config"
	"prompt-arena/internal/game"
)

const testSecret = "s3cret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := game.NewStore(nil, artifact.Placeholder{}, game.Options{LockWait: 200 * time.Millisecond})
	ts := httptest.NewServer(New(store, config.Default()).Router())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func createGame(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{
		"hostSecret":  testSecret,
		"maxTeams":    2,
		"roundsCount": 1,
	})
	assertStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	gameID, _ := body["gameId"].(string)
	if gameID == "" {
		t.Fatalf("expected gameId, got %v", body)
	}
	return gameID
}

func createTeam(t *testing.T, ts *httptest.Server, gameID, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams", map[string]string{"name": name})
	assertStatus(t, resp, http.StatusCreated)
	teamID, _ := decodeBody(t, resp)["teamId"].(string)
	if teamID == "" {
		t.Fatal("expected teamId")
	}
	return teamID
}

func joinTeam(t *testing.T, ts *httptest.Server, gameID, teamID, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams/"+teamID+"/join", map[string]string{
		"name":    name,
		"contact": name + "@example.com",
	})
	assertStatus(t, resp, http.StatusOK)
	playerID, _ := decodeBody(t, resp)["playerId"].(string)
	if playerID == "" {
		t.Fatal("expected playerId")
	}
	return playerID
}

func hostCommand(t *testing.T, ts *httptest.Server, gameID, action string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/"+action, map[string]string{"hostSecret": testSecret})
	assertStatus(t, resp, http.StatusOK)
	return decodeBody(t, resp)
}

func TestCreateGameRequiresHostSecret(t *testing.T) {
	ts := newTestServer(t)
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]string{})
	assertStatus(t, resp, http.StatusBadRequest)
	body := decodeBody(t, resp)
	if body["error"] != "hostSecret is required" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
}

func TestGetGameStatuses(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)

	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+gameID, nil)
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["phase"] != string(game.PhaseSetup) {
		t.Fatalf("expected setup phase, got %v", body["phase"])
	}
	if secret, ok := body["hostSecret"]; ok && secret != "" {
		t.Fatalf("host secret leaked to public read: %v", secret)
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+gameID+"?hostSecret=wrong", nil)
	assertStatus(t, resp, http.StatusForbidden)

	resp = doRequest(t, ts, http.MethodGet, "/api/games/does-not-exist", nil)
	assertStatus(t, resp, http.StatusNotFound)
}

func TestTeamCreationLockedAfterStart(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)
	teamID := createTeam(t, ts, gameID, "Alpha")
	joinTeam(t, ts, gameID, teamID, "Ada")
	hostCommand(t, ts, gameID, "start")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams", map[string]string{"name": "Beta"})
	assertStatus(t, resp, http.StatusConflict)
}

func TestSubmitInputOutsidePhase(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)
	teamID := createTeam(t, ts, gameID, "Alpha")
	playerID := joinTeam(t, ts, gameID, teamID, "Ada")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams/"+teamID+"/input", map[string]string{
		"playerId": playerID,
		"text":     "too early",
	})
	assertStatus(t, resp, http.StatusConflict)
}

func TestVoteRequiresVotingPhase(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)
	teamID := createTeam(t, ts, gameID, "Alpha")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/audience", map[string]string{
		"name":    "Eve",
		"contact": "eve@example.com",
	})
	assertStatus(t, resp, http.StatusOK)
	audienceID, _ := decodeBody(t, resp)["audienceId"].(string)

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/votes", map[string]string{
		"audienceId": audienceID,
		"teamId":     teamID,
	})
	assertStatus(t, resp, http.StatusConflict)
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)
	alphaID := createTeam(t, ts, gameID, "Alpha")
	betaID := createTeam(t, ts, gameID, "Beta")
	playerA := joinTeam(t, ts, gameID, alphaID, "Ada")
	playerB := joinTeam(t, ts, gameID, betaID, "Bob")

	started := hostCommand(t, ts, gameID, "start")
	if started["phase"] != string(game.PhaseInputCollection) {
		t.Fatalf("expected input collection, got %v", started["phase"])
	}

	for _, submit := range []struct{ team, player, text string }{
		{alphaID, playerA, "a red fox"},
		{betaID, playerB, "a blue bird"},
	} {
		resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams/"+submit.team+"/input", map[string]string{
			"playerId": submit.player,
			"text":     submit.text,
		})
		assertStatus(t, resp, http.StatusOK)
	}

	advanced := hostCommand(t, ts, gameID, "advance")
	if advanced["phase"] != string(game.PhaseAudienceVote) {
		t.Fatalf("expected audience vote, got %v", advanced["phase"])
	}

	voters := make([]string, 0, 3)
	for _, name := range []string{"Eve", "Sam", "Kim"} {
		resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/audience", map[string]string{
			"name":    name,
			"contact": name + "@example.com",
		})
		assertStatus(t, resp, http.StatusOK)
		id, _ := decodeBody(t, resp)["audienceId"].(string)
		voters = append(voters, id)
	}
	for i, target := range []string{alphaID, alphaID, betaID} {
		resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/votes", map[string]string{
			"audienceId": voters[i],
			"teamId":     target,
		})
		assertStatus(t, resp, http.StatusOK)
	}

	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+gameID+"/votes", nil)
	assertStatus(t, resp, http.StatusOK)

	ended := hostCommand(t, ts, gameID, "advance")
	if ended["phase"] != string(game.PhaseEnded) {
		t.Fatalf("expected ended, got %v", ended["phase"])
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+gameID+"/results", nil)
	assertStatus(t, resp, http.StatusOK)
	results := decodeBody(t, resp)
	ranking, _ := results["ranking"].([]any)
	if len(ranking) != 2 {
		t.Fatalf("expected 2 ranked teams, got %v", results)
	}
	top, _ := ranking[0].(map[string]any)
	if top["teamName"] != "Alpha" || top["score"] != float64(2) {
		t.Fatalf("expected Alpha on top with 2 votes, got %v", top)
	}
}

func TestAdvanceWrongSecret(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/advance", map[string]string{"hostSecret": "wrong"})
	assertStatus(t, resp, http.StatusForbidden)
}

func TestUpdateConfigEndpoint(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)

	resp := doRequest(t, ts, http.MethodPatch, "/api/games/"+gameID+"/config", map[string]any{
		"hostSecret":  testSecret,
		"roundsCount": 3,
	})
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["roundsCount"] != float64(3) {
		t.Fatalf("expected roundsCount 3, got %v", body["roundsCount"])
	}

	createTeam(t, ts, gameID, "Alpha")
	hostCommand(t, ts, gameID, "start")
	resp = doRequest(t, ts, http.MethodPatch, "/api/games/"+gameID+"/config", map[string]any{
		"hostSecret": testSecret,
		"maxTeams":   9,
	})
	assertStatus(t, resp, http.StatusConflict)
}

func TestJoinTeamValidation(t *testing.T) {
	ts := newTestServer(t)
	gameID := createGame(t, ts)
	teamID := createTeam(t, ts, gameID, "Alpha")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams/"+teamID+"/join", map[string]string{
		"name": "Ada",
	})
	assertStatus(t, resp, http.StatusBadRequest)

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams/missing/join", map[string]string{
		"name":    "Ada",
		"contact": "ada@example.com",
	})
	assertStatus(t, resp, http.StatusNotFound)
}

func TestTeamCapacityResponse(t *testing.T) {
	ts := newTestServer(t)
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{
		"hostSecret":     testSecret,
		"maxTeamMembers": 1,
	})
	assertStatus(t, resp, http.StatusCreated)
	gameID, _ := decodeBody(t, resp)["gameId"].(string)
	teamID := createTeam(t, ts, gameID, "Alpha")
	joinTeam(t, ts, gameID, teamID, "Ada")

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/teams/"+teamID+"/join", map[string]string{
		"name":    "Bob",
		"contact": "bob@example.com",
	})
	assertStatus(t, resp, http.StatusUnprocessableEntity)
}
