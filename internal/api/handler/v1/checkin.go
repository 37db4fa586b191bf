package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campus-events-api/internal/api/handler/v1/request"
	"github.com/campushub/campus-events-api/internal/api/handler/v1/response"
	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/service"
)

type CheckInService interface {
	CheckIn(ctx context.Context, organizer domain.User, eventID uint, token string) (service.CheckInResult, error)
}

type CheckInHandler struct {
	svc  CheckInService
	uSvc UserService
}

func NewCheckInHandler(svc CheckInService, uSvc UserService) *CheckInHandler {
	return &CheckInHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCheckIn godoc
// @Summary      Check in a scanned ticket
// @Description  Resolves the scanned QR token, marks attendance, and issues the ATTENDANCE credit atomically. A second scan of the same ticket reports the student as already checked in.
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                     true  "Event ID"
// @Param        input    body      request.CheckInRequest  true  "Scanned token"
// @Success      200      {object}  service.CheckInResult
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/checkin [post]
// @Security     BearerAuth
func (h *CheckInHandler) HandleCheckIn(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseUintParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.CheckInRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CheckIn(ctx.Request.Context(), user, eventID, input.TicketToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEventOrganizer):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrInvalidTicket):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "token", "scanned"))
		case errors.Is(err, service.ErrWrongEvent), errors.Is(err, service.ErrTicketCanceled):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrAlreadyCheckedIn):
			// Informational for the operator, not a retryable failure.
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("already checked in: %v", result.StudentName)))
		default:
			err = fmt.Errorf("v1.HandleCheckIn -> h.svc.CheckIn -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}
