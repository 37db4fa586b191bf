package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campus-events-api/internal/api/handler/v1/response"
	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/service"
)

type AdminService interface {
	ApproveOrganizer(ctx context.Context, admin domain.User, userID uint) (domain.User, error)
	Dashboard(ctx context.Context, admin domain.User) (service.DashboardStats, error)
}

type AdminHandler struct {
	svc  AdminService
	uSvc UserService
}

func NewAdminHandler(svc AdminService, uSvc UserService) *AdminHandler {
	return &AdminHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleApproveOrganizer godoc
// @Summary      Approve a pending organizer account
// @Tags         admin
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/approvals/{userID} [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleApproveOrganizer(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	approved, err := h.svc.ApproveOrganizer(ctx.Request.Context(), user, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		case errors.Is(err, service.ErrNotOrganizerAccount):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleApproveOrganizer -> h.svc.ApproveOrganizer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, approved)
}

// HandleDashboard godoc
// @Summary      Aggregate platform statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  service.DashboardStats
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/dashboard [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleDashboard(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.Dashboard(ctx.Request.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
