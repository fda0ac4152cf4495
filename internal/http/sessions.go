package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avolkov/memodeck/internal/database/sessions"
)

// SessionsController exposes import session progress for polling.
type SessionsController struct {
	sessions *sessions.Repository
}

func NewSessionsController(repo *sessions.Repository) *SessionsController {
	return &SessionsController{sessions: repo}
}

// Get handles GET /import/sessions/:id
func (controller *SessionsController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	session, err := controller.sessions.Get(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, session)
}
