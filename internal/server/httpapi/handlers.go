package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/modules"
	"github.com/dmitrijs2005/nihongo/internal/server/auth"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/services"
)

type Authenticator interface {
	Register(ctx context.Context, username, password, secret string) (*services.Session, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Resume(ctx context.Context, token string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (models.Identity, error)
	Logout(ctx context.Context, token string) error
}

type HistoryRecorder interface {
	Record(ctx context.Context, userID string, module modules.Type, durationSec, accuracyScore int) (*models.StudyLog, error)
	ListRecent(ctx context.Context, userID string) ([]models.StudyLog, error)
}

type Exporter interface {
	Export(ctx context.Context, userID string) (*services.Export, error)
}

type Handler struct {
	Auth    Authenticator
	History HistoryRecorder
	Export  Exporter
	Ready   func(ctx context.Context) error
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	s, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password, req.APIKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	s, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) Session(c *gin.Context) {
	token, err := auth.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if err != nil {
		respondError(c, err)
		return
	}

	s, err := h.Auth.Resume(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) Logout(c *gin.Context) {
	token, err := auth.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListHistory(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		respondBadRequest(c, "userId is required")
		return
	}
	if !h.allowedFor(c, userID) {
		return
	}

	logs, err := h.History.ListRecent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) RecordHistory(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.ModuleType == "" {
		respondBadRequest(c, "missing required fields")
		return
	}
	if !h.allowedFor(c, string(req.UserID)) {
		return
	}

	module, err := modules.Parse(req.ModuleType)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	_, err = h.History.Record(c.Request.Context(), string(req.UserID), module,
		intOrZero(req.DurationSec), intOrZero(req.AccuracyScore))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ExportHistory(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" {
		respondBadRequest(c, "user_id is required")
		return
	}
	if !h.allowedFor(c, string(req.UserID)) {
		return
	}

	out, err := h.Export.Export(c.Request.Context(), string(req.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Health(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// allowedFor checks a bearer token, when one is sent, against the user the
// request targets. Requests without a token are let through unchanged.
// It writes the error response itself and reports whether to continue.
func (h *Handler) allowedFor(c *gin.Context, userID string) bool {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if header == "" {
		return true
	}

	token, err := auth.BearerToken(header)
	if err != nil {
		respondError(c, err)
		return false
	}

	id, err := h.Auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return false
	}
	if id.ID != userID {
		respondError(c, common.ErrorForbidden)
		return false
	}

	return true
}
