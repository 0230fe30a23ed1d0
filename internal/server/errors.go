package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"prompt-arena/internal/game"
)

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrInvalidPhase):
		status = http.StatusConflict
	case errors.Is(err, game.ErrCapacityExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, game.ErrBusy):
		status = http.StatusTooManyRequests
	case errors.Is(err, game.ErrUpstreamTimeout):
		status = http.StatusGatewayTimeout
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("command failed")
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message})
}
