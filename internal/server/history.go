package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/careeradvisor/internal/advisor"
	"github.com/edgard/careeradvisor/internal/database"
	"github.com/edgard/careeradvisor/internal/logger"
)

const recordTimeout = 5 * time.Second

func (s *Server) recordAdvice(c *gin.Context, profile advisor.UserProfile, advice json.RawMessage, adviceErr error, duration time.Duration) {
	if s.store == nil {
		return
	}

	record := &database.AdviceRecord{
		RequestID:  logger.RequestID(c),
		Profile:    marshalProfile(profile),
		Status:     database.StatusOK,
		Response:   string(advice),
		DurationMS: duration.Milliseconds(),
	}
	if adviceErr != nil {
		record.Status = database.StatusError
		record.Error = adviceErr.Error()
		var invalid *advisor.InvalidJSONError
		if errors.As(adviceErr, &invalid) {
			record.Status = database.StatusInvalidJSON
			record.Response = invalid.Raw
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), recordTimeout)
	defer cancel()
	if err := s.store.SaveAdviceRecord(ctx, record); err != nil {
		s.log.WarnContext(ctx, "Failed to record advice request", "request_id", record.RequestID, "error", err)
	}
}

func (s *Server) recordChat(c *gin.Context, historyTurns int, message, reply string, chatErr error, duration time.Duration) {
	if s.store == nil {
		return
	}

	record := &database.ChatRecord{
		RequestID:    logger.RequestID(c),
		HistoryTurns: historyTurns,
		Message:      message,
		Status:       database.StatusOK,
		Reply:        reply,
		DurationMS:   duration.Milliseconds(),
	}
	if chatErr != nil {
		record.Status = database.StatusError
		record.Error = chatErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), recordTimeout)
	defer cancel()
	if err := s.store.SaveChatRecord(ctx, record); err != nil {
		s.log.WarnContext(ctx, "Failed to record chat request", "request_id", record.RequestID, "error", err)
	}
}

func (s *Server) listAdvice(c *gin.Context) {
	limit, ok := s.parseLimit(c)
	if !ok {
		return
	}

	records, err := s.store.ListAdviceRecords(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list advice history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) listChat(c *gin.Context) {
	limit, ok := s.parseLimit(c)
	if !ok {
		return
	}

	records, err := s.store.ListChatRecords(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list chat history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) parseLimit(c *gin.Context) (int, bool) {
	maxList := s.history.MaxList
	if maxList <= 0 {
		maxList = 100
	}

	raw := c.Query("limit")
	if raw == "" {
		return min(20, maxList), true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(c, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return min(limit, maxList), true
}
