package handler

import (
	"errors"

	"github.com/abhishek622/slotwise/internal/auth"
	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/abhishek622/slotwise/pkg/response"
	"github.com/gin-gonic/gin"
)

// ProposeSlot lets the employer propose a time for an application of their company.
func (h *Handler) ProposeSlot(c *gin.Context) {
	h.propose(c, false)
}

// CounterProposeSlot lets the candidate answer with an alternative time.
func (h *Handler) CounterProposeSlot(c *gin.Context) {
	h.propose(c, true)
}

func (h *Handler) propose(c *gin.Context, counter bool) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	applicationID, ok := parseID(c, "application_id")
	if !ok {
		return
	}

	var req model.ProposeSlotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	app, err := h.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		h.writeError(c, err, "failed to get application")
		return
	}

	allowed := claims.IsEmployerOf(app.CompanyID)
	if counter {
		allowed = isCandidateOf(claims, app)
	}
	if !allowed {
		// same answer as a missing application so ids cannot be probed
		response.NotFound(c, "application not found")
		return
	}

	interview, err := h.Engine.GetOrCreateInterview(ctx, app.ApplicationID, app.CompanyID)
	if err != nil {
		h.writeError(c, err, "failed to get interview")
		return
	}

	slot, err := h.Engine.ProposeSlot(ctx, negotiation.ProposeSlotParams{
		InterviewID:     interview.InterviewID,
		ProposedBy:      claims.UserID,
		Start:           req.StartTime,
		End:             req.EndTime,
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
		Notes:           req.Notes,
		CounterProposal: counter,
	})
	if err != nil {
		h.writeError(c, err, "failed to propose slot")
		return
	}

	h.Logger.Sugar().Infow("slot proposed",
		"interview_id", interview.InterviewID, "slot_id", slot.SlotID, "status", slot.Status, "user_id", claims.UserID)
	response.Created(c, slot)
}

// ListSlots returns the negotiation history of an application to either party.
func (h *Handler) ListSlots(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	applicationID, ok := parseID(c, "application_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	app, err := h.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		h.writeError(c, err, "failed to get application")
		return
	}
	if !isPartyTo(claims, app) {
		response.NotFound(c, "application not found")
		return
	}

	interview, err := h.Engine.GetInterviewByApplication(ctx, applicationID)
	if errors.Is(err, model.ErrNotFound) {
		// nothing proposed yet
		response.OK(c, model.InterviewSlotsRes{Slots: []model.InterviewSlot{}})
		return
	}
	if err != nil {
		h.writeError(c, err, "failed to get interview")
		return
	}

	slots, err := h.Engine.ListSlots(ctx, interview.InterviewID)
	if err != nil {
		h.writeError(c, err, "failed to list slots")
		return
	}

	response.OK(c, model.InterviewSlotsRes{
		Interview:    interview,
		Slots:        slots,
		AcceptedSlot: negotiation.AcceptedSlot(slots),
	})
}

// AcceptSlot lets the candidate accept the employer's proposal or the employer
// accept the candidate's counter-proposal. Nobody accepts their own side's slot.
func (h *Handler) AcceptSlot(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	slotID, ok := parseID(c, "slot_id")
	if !ok {
		return
	}

	slot, app, ok := h.loadSlotForParty(c, claims, slotID)
	if !ok {
		return
	}

	// this read is outside the engine's transaction; AcceptSlot re-checks the
	// locked slot, so a concurrent change still ends in 409
	if isCandidateOf(claims, app) && slot.Status == model.SlotStatusCounterProposed {
		response.Conflict(c, "the candidate cannot accept their own counter-proposal")
		return
	}
	if claims.IsEmployerOf(app.CompanyID) && slot.Status == model.SlotStatusProposed {
		response.Conflict(c, "the employer can only accept counter-proposals")
		return
	}

	if err := h.Engine.AcceptSlot(c.Request.Context(), slotID); err != nil {
		h.writeError(c, err, "failed to accept slot")
		return
	}

	h.Logger.Sugar().Infow("slot accepted", "slot_id", slotID, "application_id", app.ApplicationID, "user_id", claims.UserID)
	response.Message(c, "interview slot accepted")
}

// RejectSlot lets either party reject a slot.
func (h *Handler) RejectSlot(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	slotID, ok := parseID(c, "slot_id")
	if !ok {
		return
	}

	if _, _, ok := h.loadSlotForParty(c, claims, slotID); !ok {
		return
	}

	if err := h.Engine.RejectSlot(c.Request.Context(), slotID); err != nil {
		h.writeError(c, err, "failed to reject slot")
		return
	}

	response.Message(c, "interview slot rejected")
}

// CloseInterview marks an interview completed or canceled. Admin only.
func (h *Handler) CloseInterview(c *gin.Context) {
	interviewID, ok := parseID(c, "interview_id")
	if !ok {
		return
	}

	var req model.CloseInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	interview, err := h.Engine.CloseInterview(c.Request.Context(), interviewID, req.Status)
	if err != nil {
		h.writeError(c, err, "failed to close interview")
		return
	}

	response.OK(c, interview)
}

// loadSlotForParty resolves slot -> interview -> application and checks the
// caller is the candidate or an employer of the interviewing company. It
// writes the response itself when it returns false.
func (h *Handler) loadSlotForParty(c *gin.Context, claims *auth.UserClaims, slotID int64) (*model.InterviewSlot, *model.Application, bool) {
	ctx := c.Request.Context()

	slot, err := h.Engine.GetSlot(ctx, slotID)
	if err != nil {
		h.writeError(c, err, "failed to get slot")
		return nil, nil, false
	}
	interview, err := h.Engine.GetInterview(ctx, slot.InterviewID)
	if err != nil {
		h.writeError(c, err, "failed to get interview")
		return nil, nil, false
	}
	app, err := h.Applications.GetApplication(ctx, interview.ApplicationID)
	if err != nil {
		h.writeError(c, err, "failed to get application")
		return nil, nil, false
	}

	if !isCandidateOf(claims, app) && !claims.IsEmployerOf(interview.CompanyID) {
		response.NotFound(c, "slot not found")
		return nil, nil, false
	}
	return slot, app, true
}

func isCandidateOf(claims *auth.UserClaims, app *model.Application) bool {
	return claims.Role == model.UserRoleCandidate && claims.UserID == app.CandidateID
}

func isPartyTo(claims *auth.UserClaims, app *model.Application) bool {
	return isCandidateOf(claims, app) || claims.IsEmployerOf(app.CompanyID)
}
