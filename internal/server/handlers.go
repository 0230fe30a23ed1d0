package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-arena/internal/game"
)

type createGameRequest struct {
	HostSecret       string `json:"hostSecret" binding:"required"`
	MaxTeams         int    `json:"maxTeams" binding:"omitempty,min=1,max=20"`
	MaxTeamMembers   int    `json:"maxTeamMembers" binding:"omitempty,min=1,max=20"`
	TimeLimitSeconds int    `json:"timeLimitSeconds" binding:"omitempty,min=10,max=600"`
	RoundsCount      int    `json:"roundsCount" binding:"omitempty,min=1,max=10"`
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req, bindMessages{
		"HostSecret": {"required": "hostSecret is required"},
	}, "invalid game settings") {
		return
	}
	session, err := s.store.CreateSession(game.SessionParams{
		HostSecret:       req.HostSecret,
		MaxTeams:         req.MaxTeams,
		MaxTeamMembers:   req.MaxTeamMembers,
		TimeLimitSeconds: req.TimeLimitSeconds,
		RoundsCount:      req.RoundsCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameId": session.ID})
}

func (s *Server) handleGetGame(c *gin.Context) {
	hostSecret := c.Query("hostSecret")
	session, err := s.store.GetSession(c.Param("gameID"), hostSecret)
	if err != nil {
		respondError(c, err)
		return
	}
	if hostSecret == "" {
		session.HostSecret = ""
	}
	c.JSON(http.StatusOK, session)
}

type updateConfigRequest struct {
	HostSecret       string `json:"hostSecret" binding:"required"`
	MaxTeams         *int   `json:"maxTeams" binding:"omitempty,min=1,max=20"`
	MaxTeamMembers   *int   `json:"maxTeamMembers" binding:"omitempty,min=1,max=20"`
	TimeLimitSeconds *int   `json:"timeLimitSeconds" binding:"omitempty,min=10,max=600"`
	RoundsCount      *int   `json:"roundsCount" binding:"omitempty,min=1,max=10"`
}

func (s *Server) handleUpdateConfig(c *gin.Context) {
	var req updateConfigRequest
	if !bindJSON(c, &req, bindMessages{
		"HostSecret": {"required": "hostSecret is required"},
	}, "invalid game settings") {
		return
	}
	session, err := s.store.UpdateConfig(c.Param("gameID"), req.HostSecret, game.ConfigUpdate{
		MaxTeams:         req.MaxTeams,
		MaxTeamMembers:   req.MaxTeamMembers,
		TimeLimitSeconds: req.TimeLimitSeconds,
		RoundsCount:      req.RoundsCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	session.HostSecret = ""
	c.JSON(http.StatusOK, session)
}

type hostRequest struct {
	HostSecret string `json:"hostSecret" binding:"required"`
}

func (s *Server) handleStartGame(c *gin.Context) {
	s.handleHostCommand(c, s.store.StartGame)
}

func (s *Server) handleAdvancePhase(c *gin.Context) {
	s.handleHostCommand(c, s.store.AdvancePhase)
}

func (s *Server) handleEndGame(c *gin.Context) {
	s.handleHostCommand(c, s.store.EndGame)
}

func (s *Server) handleHostCommand(c *gin.Context, command func(id, hostSecret string) (*game.Session, error)) {
	var req hostRequest
	if !bindJSON(c, &req, bindMessages{
		"HostSecret": {"required": "hostSecret is required"},
	}, "") {
		return
	}
	session, err := command(c.Param("gameID"), req.HostSecret)
	if err != nil {
		respondError(c, err)
		return
	}
	session.HostSecret = ""
	c.JSON(http.StatusOK, session)
}

type createTeamRequest struct {
	Name string `json:"name" binding:"required,name"`
}

func (s *Server) handleCreateTeam(c *gin.Context) {
	var req createTeamRequest
	if !bindJSON(c, &req, bindMessages{
		"Name": {
			"required": "team name is required",
			"name":     "team name is invalid",
		},
	}, "") {
		return
	}
	name, _ := validateName(req.Name)
	team, err := s.store.CreateTeam(c.Param("gameID"), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"teamId": team.ID, "teamName": team.Name})
}

type joinRequest struct {
	Name    string `json:"name" binding:"required,name"`
	Contact string `json:"contact" binding:"required,contact"`
}

var joinMessages = bindMessages{
	"Name": {
		"required": "name is required",
		"name":     "name is invalid",
	},
	"Contact": {
		"required": "contact is required",
		"contact":  "contact is invalid",
	},
}

func (s *Server) handleJoinTeam(c *gin.Context) {
	var req joinRequest
	if !bindJSON(c, &req, joinMessages, "") {
		return
	}
	name, _ := validateName(req.Name)
	contact, _ := validateContact(req.Contact)
	player, err := s.store.JoinTeam(c.Param("gameID"), c.Param("teamID"), name, contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"playerId": player.ID,
		"teamId":   player.TeamID,
	})
}

type submitInputRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Text     string `json:"text" binding:"freetext"`
}

func (s *Server) handleSubmitInput(c *gin.Context) {
	var req submitInputRequest
	if !bindJSON(c, &req, bindMessages{
		"PlayerID": {"required": "playerId is required"},
		"Text":     {"freetext": "input is invalid"},
	}, "") {
		return
	}
	text, _ := validateInput(req.Text)
	inputs, err := s.store.SubmitInput(c.Param("gameID"), c.Param("teamID"), req.PlayerID, text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teamInputs": inputs})
}

func (s *Server) handleJoinAudience(c *gin.Context) {
	var req joinRequest
	if !bindJSON(c, &req, joinMessages, "") {
		return
	}
	name, _ := validateName(req.Name)
	contact, _ := validateContact(req.Contact)
	member, err := s.store.JoinAudience(c.Param("gameID"), name, contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audienceId": member.ID, "name": member.Name})
}

type submitVoteRequest struct {
	AudienceID string `json:"audienceId" binding:"required"`
	TeamID     string `json:"teamId" binding:"required"`
}

func (s *Server) handleSubmitVote(c *gin.Context) {
	var req submitVoteRequest
	if !bindJSON(c, &req, bindMessages{
		"AudienceID": {"required": "audienceId is required"},
		"TeamID":     {"required": "teamId is required"},
	}, "") {
		return
	}
	gameID := c.Param("gameID")
	if err := s.store.SubmitVote(gameID, req.AudienceID, req.TeamID); err != nil {
		respondError(c, err)
		return
	}
	counts, _, err := s.store.VoteCounts(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "voteCounts": counts})
}

func (s *Server) handleVoteCounts(c *gin.Context) {
	counts, phase, err := s.store.VoteCounts(c.Param("gameID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": phase, "voteCounts": counts})
}

func (s *Server) handleResults(c *gin.Context) {
	ranked, phase, err := s.store.Results(c.Param("gameID"))
	if err != nil {
		respondError(c, err)
		return
	}
	ranking := make([]gin.H, 0, len(ranked))
	for _, team := range ranked {
		ranking = append(ranking, gin.H{
			"teamId":   team.ID,
			"teamName": team.Name,
			"score":    team.Score,
		})
	}
	c.JSON(http.StatusOK, gin.H{"phase": phase, "ranking": ranking})
}
