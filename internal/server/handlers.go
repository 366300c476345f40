package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/careeradvisor/internal/advisor"
)

type chatTurnRequest struct {
	Role  string   `json:"role"  binding:"required"`
	Parts []string `json:"parts" binding:"required"`
}

type chatRequest struct {
	History    []chatTurnRequest `json:"history"     binding:"required,dive"`
	NewMessage *string           `json:"new_message" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"model": s.model,
	})
}

// careerAdvice always answers 200 once the body is valid; failures are
// reported in the "error" field.
func (s *Server) careerAdvice(c *gin.Context) {
	var profile advisor.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	startTime := time.Now()
	advice, err := s.advisor.Advise(c.Request.Context(), profile)
	s.recordAdvice(c, profile, advice, err, time.Since(startTime))

	if err != nil {
		c.JSON(http.StatusOK, advisor.ErrorBody(err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", advice)
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	history := make([]advisor.ChatTurn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, advisor.ChatTurn{Role: t.Role, Parts: t.Parts})
	}

	startTime := time.Now()
	reply, err := s.relay.Reply(c.Request.Context(), history, *req.NewMessage)
	s.recordChat(c, len(history), *req.NewMessage, reply, err, time.Since(startTime))

	if err != nil {
		c.JSON(http.StatusOK, advisor.ErrorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// marshalProfile is used for history records only.
func marshalProfile(profile advisor.UserProfile) string {
	b, err := json.Marshal(profile)
	if err != nil {
		return "{}"
	}
	return string(b)
}
