package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"prompt-arena/internal/config"
	"prompt-arena/internal/game"
)

type Server struct {
	store *game.Store
	cfg   config.Config
}

func New(store *game.Store, cfg config.Config) *Server {
	registerValidators()
	return &Server{store: store, cfg: cfg}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	api := r.Group("/api")
	{
		api.POST("/games", s.handleCreateGame)
		api.GET("/games/:gameID", s.handleGetGame)
		api.PATCH("/games/:gameID/config", s.handleUpdateConfig)
		api.POST("/games/:gameID/start", s.handleStartGame)
		api.POST("/games/:gameID/advance", s.handleAdvancePhase)
		api.POST("/games/:gameID/end", s.handleEndGame)
		api.POST("/games/:gameID/teams", s.handleCreateTeam)
		api.POST("/games/:gameID/teams/:teamID/join", s.handleJoinTeam)
		api.POST("/games/:gameID/teams/:teamID/input", s.handleSubmitInput)
		api.POST("/games/:gameID/audience", s.handleJoinAudience)
		api.POST("/games/:gameID/votes", s.handleSubmitVote)
		api.GET("/games/:gameID/votes", s.handleVoteCounts)
		api.GET("/games/:gameID/results", s.handleResults)
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/health" {
			return
		}
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	}
}
