package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campus-events-api/internal/api/handler/v1/response"
	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/service"
)

type CreditService interface {
	GetLedger(ctx context.Context, actor domain.User, category domain.CreditCategory) (service.CreditLedger, error)
}

type CreditHandler struct {
	svc  CreditService
	uSvc UserService
}

func NewCreditHandler(svc CreditService, uSvc UserService) *CreditHandler {
	return &CreditHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetCredits godoc
// @Summary      Get the authenticated user's activity credits
// @Tags         credits
// @Produce      json
// @Param        category  query     string  false  "ATTENDANCE or ORGANIZE"
// @Success      200  {object}  service.CreditLedger
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /my/credits [get]
// @Security     BearerAuth
func (h *CreditHandler) HandleGetCredits(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	category := domain.CreditCategory(ctx.Query("category"))
	ledger, err := h.svc.GetLedger(ctx.Request.Context(), user, category)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCredits -> h.svc.GetLedger -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ledger)
}
