package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/abhishek622/slotwise/internal/auth"
	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/abhishek622/slotwise/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key the auth middleware stores claims under.
const ClaimsKey = "claims"

type ApplicationReader interface {
	GetApplication(ctx context.Context, applicationID int64) (*model.Application, error)
}

type Handler struct {
	Logger       *zap.Logger
	Engine       *negotiation.Engine
	Applications ApplicationReader
}

// GetClaimsFromContext retrieves the verified token claims from the gin context
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

func parseID(c *gin.Context, param string) (int64, bool) {
	idStr := c.Param(param)
	if idStr == "" {
		response.BadRequest(c, "missing "+param)
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+param)
		return 0, false
	}
	return id, true
}

// writeError maps engine and storage errors to responses. Storage details are
// only logged.
func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "")
	case errors.Is(err, model.ErrInvalidTimeRange):
		response.ValidationError(c, err.Error())
	case errors.Is(err, model.ErrInvalidStateTransition):
		response.Conflict(c, err.Error())
	default:
		h.Logger.Sugar().Errorw(msg, "path", c.Request.URL.Path, "err", err)
		response.InternalError(c, "")
	}
}
