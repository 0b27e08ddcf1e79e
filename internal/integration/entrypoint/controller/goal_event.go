// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/savings-tracker/backend/internal/application/usecase/ledger"
	"github.com/savings-tracker/backend/internal/domain/entity"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/savings-tracker/backend/internal/integration/entrypoint/middleware"
)

// GoalEventController handles goal ledger event endpoints.
type GoalEventController struct {
	createUseCase *ledger.CreateEventUseCase
	listUseCase   *ledger.ListEventsUseCase
}

// NewGoalEventController creates a new goal event controller instance.
func NewGoalEventController(
	createUseCase *ledger.CreateEventUseCase,
	listUseCase *ledger.ListEventsUseCase,
) *GoalEventController {
	return &GoalEventController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
	}
}

// Create handles POST /goals/:id/events requests.
func (c *GoalEventController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	var req dto.CreateGoalEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingEventFields),
		})
		return
	}

	occurredOn, err := time.Parse("2006-01-02", req.OccurredOn)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "occurred_on must be a YYYY-MM-DD date",
			Code:  string(domainerror.ErrCodeMissingEventFields),
		})
		return
	}

	input := ledger.CreateEventInput{
		UserID:          userID,
		GoalID:          goalID,
		Type:            entity.GoalEventType(req.Type),
		AmountCents:     req.AmountCents,
		OccurredOn:      occurredOn,
		ClientRequestID: req.ClientRequestID,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCreateGoalEventResponse(output))
}

// ListByGoal handles GET /goals/:id/events requests.
func (c *GoalEventController) ListByGoal(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	c.list(ctx, userID, &goalID)
}

// List handles GET /events requests across all goals of the caller.
func (c *GoalEventController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var goalID *uuid.UUID
	if raw := ctx.Query("goal_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid goal_id format",
			})
			return
		}
		goalID = &parsed
	}

	c.list(ctx, userID, goalID)
}

// list runs the shared listing flow for both event endpoints.
func (c *GoalEventController) list(ctx *gin.Context, userID uuid.UUID, goalID *uuid.UUID) {
	input := ledger.ListEventsInput{
		UserID: userID,
		GoalID: goalID,
	}

	if raw := ctx.Query("month"); raw != "" {
		input.Month = &raw
	}
	if raw := ctx.Query("type"); raw != "" {
		input.Type = &raw
	}
	if raw := ctx.Query("cursor"); raw != "" {
		input.Cursor = &raw
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "limit must be an integer",
				Code:  string(domainerror.ErrCodeInvalidLimit),
			})
			return
		}
		input.Limit = &limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalEventListResponse(output))
}

// handleEventError handles ledger and goal errors for event endpoints.
func (c *GoalEventController) handleEventError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(getStatusCodeForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	var goalErr *domainerror.GoalError
	if errors.As(err, &goalErr) {
		ctx.JSON(getStatusCodeForGoalError(goalErr.Code), dto.ErrorResponse{
			Error: goalErr.Message,
			Code:  string(goalErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForLedgerError maps ledger error codes to HTTP status codes.
func getStatusCodeForLedgerError(code domainerror.LedgerErrorCode) int {
	switch code {
	case domainerror.ErrCodeDuplicateRequest,
		domainerror.ErrCodeInsufficientBalance:
		return http.StatusConflict
	case domainerror.ErrCodeFutureDate,
		domainerror.ErrCodeInvalidEventAmount,
		domainerror.ErrCodeInvalidEventType,
		domainerror.ErrCodeMissingRequestID,
		domainerror.ErrCodeInvalidCursor,
		domainerror.ErrCodeInvalidMonth,
		domainerror.ErrCodeInvalidLimit,
		domainerror.ErrCodeMissingEventFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
