package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toonforge/battlelab/internal/constants"
	"github.com/toonforge/battlelab/internal/loader"
	"github.com/toonforge/battlelab/internal/service"
	"github.com/toonforge/battlelab/internal/sim"
)

// Handler exposes the analyzer and advisor services over HTTP.
type Handler struct {
	analyzer *service.AnalyzerService
	advisor  *service.AdvisorService
}

func NewHandler(analyzer *service.AnalyzerService, advisor *service.AdvisorService) *Handler {
	return &Handler{analyzer: analyzer, advisor: advisor}
}

type AnalyzeRequest struct {
	LogText string `json:"log_text"`
}

type StartRequest struct {
	LogText    string                   `json:"log_text,omitempty"`
	Definition *loader.BattleDefinition `json:"definition,omitempty"`
}

type ActionRequest struct {
	SessionID string `json:"session_id"`
	SkillID   string `json:"skill_id"`
	TargetID  string `json:"target_id,omitempty"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Analyze parses a raw battle log and returns the structured record with
// its computed metrics.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	res, err := h.analyzer.Analyze(req.LogText)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyLog):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrLogTextRequired})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrAnalysisFailed})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": res.Battle, "metrics": res.Metrics})
}

// StartBattle begins an advised session. With a log text the rosters come
// from the log, with a definition from the synthetic description, and with
// neither the built-in sample battle is used.
func (h *Handler) StartBattle(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	var (
		view *service.TurnView
		err  error
	)
	switch {
	case req.LogText != "":
		view, err = h.advisor.StartFromLog(c.Request.Context(), req.LogText)
	case req.Definition != nil:
		view, err = h.advisor.StartFromDefinition(c.Request.Context(), req.Definition)
	default:
		view, err = h.advisor.StartSample(c.Request.Context())
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyLog):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrLogTextRequired})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartBattle})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// ApplyAction executes one skill for the current actor.
func (h *Handler) ApplyAction(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}
	res, err := h.advisor.ApplyAction(req.SessionID, req.SkillID, req.TargetID)
	if err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PlayTurn executes the player's skill and runs the enemy phase, returning
// the action outcome together with the next turn.
func (h *Handler) PlayTurn(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}
	action, next, err := h.advisor.PlayTurn(c.Request.Context(), req.SessionID, req.SkillID, req.TargetID)
	if err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "turn": next})
}

// NextTurn ends the current turn and auto-plays enemy actors.
func (h *Handler) NextTurn(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSessionIDRequired})
		return
	}
	view, err := h.advisor.AdvanceTurn(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		case errors.Is(err, sim.ErrBattleOver):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedAdvanceTurn})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// AcceptRecommendation applies the advisor's suggestion for the acting
// player character.
func (h *Handler) AcceptRecommendation(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSessionIDRequired})
		return
	}
	res, err := h.advisor.AcceptRecommendation(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		case errors.Is(err, service.ErrNotPlayerTurn), errors.Is(err, sim.ErrBattleOver):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
		case errors.Is(err, service.ErrNoActor):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRecommendationUnavailable})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedApplyAction})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListSessions returns every live session.
func (h *Handler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.advisor.ListSessions()})
}

// GetSession returns the current turn of one session.
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSessionIDRequired})
		return
	}
	view, err := h.advisor.TurnState(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, view)
}

// EndSession deletes a session.
func (h *Handler) EndSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if !h.advisor.EndSession(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Session ended"})
}

func bindAction(c *gin.Context) (ActionRequest, bool) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return req, false
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSessionIDRequired})
		return req, false
	}
	return req, true
}

func writeActionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrSkillNotFound), errors.Is(err, sim.ErrSkillNotOwned):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
	case errors.Is(err, sim.ErrBattleOver), errors.Is(err, service.ErrNoActor):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedApplyAction})
	}
}
