// Package handlers exposes the subscription lifecycle over REST.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appsub "github.com/planhub-io/planhub/internal/application/subscription"
	subdto "github.com/planhub-io/planhub/internal/application/subscription/dto"
	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/errors"
	"github.com/planhub-io/planhub/internal/shared/logger"
	"github.com/planhub-io/planhub/internal/shared/utils"
)

type SubscriptionHandler struct {
	engine *appsub.Engine
	logger logger.Interface
}

func NewSubscriptionHandler(engine *appsub.Engine) *SubscriptionHandler {
	return &SubscriptionHandler{
		engine: engine,
		logger: logger.NewLogger(),
	}
}

type CreateSubscriptionRequest struct {
	PlanID        string `json:"plan_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	Request       string `json:"request"`
	SubscribedBy  string `json:"subscribed_by" binding:"required"`
}

type ProcessSubscriptionRequest struct {
	Accepted    bool       `json:"accepted"`
	StartingAt  *time.Time `json:"starting_at"`
	EndingAt    *time.Time `json:"ending_at"`
	Reason      *string    `json:"reason"`
	ProcessedBy string     `json:"processed_by" binding:"required"`
}

type UpdateSubscriptionRequest struct {
	StartingAt *time.Time `json:"starting_at"`
	EndingAt   *time.Time `json:"ending_at"`
	ClientID   *string    `json:"client_id"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	sub, err := h.engine.Create.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		PlanID:        req.PlanID,
		ApplicationID: req.ApplicationID,
		Request:       req.Request,
		SubscribedBy:  subscription.UserActor(req.SubscribedBy),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, subdto.ToSubscriptionDTO(sub), "Subscription created successfully")
}

func (h *SubscriptionHandler) Process(c *gin.Context) {
	var req ProcessSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for process subscription",
			"subscription_id", c.Param("sid"), "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	sub, err := h.engine.Process.Execute(c.Request.Context(), usecases.ProcessSubscriptionCommand{
		SubscriptionID: c.Param("sid"),
		Accepted:       req.Accepted,
		StartingAt:     req.StartingAt,
		EndingAt:       req.EndingAt,
		Reason:         req.Reason,
		ProcessedBy:    subscription.UserActor(req.ProcessedBy),
	})
	if err != nil && sub == nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	// A cascade failure still carries the committed transition back.
	utils.SuccessResponse(c, http.StatusOK, cascadeMessage(err), subdto.ToSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	detail, err := h.engine.Get.Execute(c.Request.Context(), usecases.GetSubscriptionQuery{
		SubscriptionID: c.Param("sid"),
		IncludeKeys:    c.Query("include") == "keys",
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	dto := subdto.ToSubscriptionDTO(detail.Subscription)
	if detail.ApiKeys != nil {
		dto.ApiKeys = subdto.ToApiKeyDTOList(detail.ApiKeys)
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto)
}

func (h *SubscriptionHandler) Search(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid time filter", err.Error()))
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid time filter", err.Error()))
		return
	}

	page, err := h.engine.Search.Execute(c.Request.Context(), usecases.SearchSubscriptionsQuery{
		APIs:         c.QueryArray("api"),
		Applications: c.QueryArray("application"),
		Plans:        c.QueryArray("plan"),
		Statuses:     parseStatuses(c.QueryArray("status")),
		From:         from,
		To:           to,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.ListSuccessResponse(c, subdto.ToSubscriptionDTOList(page.Items), page.Total, page.Page, page.PageSize)
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update subscription",
			"subscription_id", c.Param("sid"), "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	sub, err := h.engine.Update.Execute(c.Request.Context(), usecases.UpdateSubscriptionCommand{
		SubscriptionID: c.Param("sid"),
		StartingAt:     req.StartingAt,
		EndingAt:       req.EndingAt,
		ClientID:       req.ClientID,
	})
	if err != nil && sub == nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, cascadeMessage(err), subdto.ToSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) Close(c *gin.Context) {
	sub, err := h.engine.Close.Execute(c.Request.Context(), usecases.CloseSubscriptionCommand{
		SubscriptionID: c.Param("sid"),
	})
	if err != nil && sub == nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, cascadeMessage(err), subdto.ToSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	err := h.engine.Delete.Execute(c.Request.Context(), usecases.DeleteSubscriptionCommand{
		SubscriptionID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.NoContentResponse(c)
}

func (h *SubscriptionHandler) RenewApiKey(c *gin.Context) {
	key, err := h.engine.Renew.Execute(c.Request.Context(), usecases.RenewApiKeyCommand{
		SubscriptionID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, subdto.ToApiKeyDTO(key), "API key renewed successfully")
}

func cascadeMessage(err error) string {
	if err != nil {
		return "completed with partial api key failures"
	}
	return ""
}

func parseStatuses(values []string) []vo.SubscriptionStatus {
	statuses := make([]vo.SubscriptionStatus, 0, len(values))
	for _, v := range values {
		statuses = append(statuses, vo.SubscriptionStatus(v))
	}
	return statuses
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, fmt.Errorf("query parameter %q must be an RFC3339 timestamp", key)
	}
	return &t, nil
}
