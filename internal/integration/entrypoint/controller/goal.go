// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/savings-tracker/backend/internal/application/usecase/goal"
	"github.com/savings-tracker/backend/internal/application/usecase/ledger"
	domainerror "github.com/savings-tracker/backend/internal/domain/error"
	"github.com/savings-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/savings-tracker/backend/internal/integration/entrypoint/middleware"
)

// GoalController handles goal endpoints.
type GoalController struct {
	listUseCase        *goal.ListGoalsUseCase
	createUseCase      *goal.CreateGoalUseCase
	getUseCase         *goal.GetGoalUseCase
	updateUseCase      *goal.UpdateGoalUseCase
	setPriorityUseCase *goal.SetPriorityUseCase
	archiveUseCase     *goal.ArchiveGoalUseCase
	deleteUseCase      *goal.DeleteGoalUseCase
	summaryUseCase     *ledger.GetMonthSummaryUseCase
	rebuildUseCase     *ledger.RebuildMonthTotalsUseCase
}

// NewGoalController creates a new goal controller instance.
func NewGoalController(
	listUseCase *goal.ListGoalsUseCase,
	createUseCase *goal.CreateGoalUseCase,
	getUseCase *goal.GetGoalUseCase,
	updateUseCase *goal.UpdateGoalUseCase,
	setPriorityUseCase *goal.SetPriorityUseCase,
	archiveUseCase *goal.ArchiveGoalUseCase,
	deleteUseCase *goal.DeleteGoalUseCase,
	summaryUseCase *ledger.GetMonthSummaryUseCase,
	rebuildUseCase *ledger.RebuildMonthTotalsUseCase,
) *GoalController {
	return &GoalController{
		listUseCase:        listUseCase,
		createUseCase:      createUseCase,
		getUseCase:         getUseCase,
		updateUseCase:      updateUseCase,
		setPriorityUseCase: setPriorityUseCase,
		archiveUseCase:     archiveUseCase,
		deleteUseCase:      deleteUseCase,
		summaryUseCase:     summaryUseCase,
		rebuildUseCase:     rebuildUseCase,
	}
}

// List handles GET /goals requests.
func (c *GoalController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	input := goal.ListGoalsInput{
		UserID:          userID,
		IncludeArchived: ctx.Query("include_archived") == "true",
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve goals",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalListResponse(output.Goals))
}

// Create handles POST /goals requests.
func (c *GoalController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingGoalFields),
		})
		return
	}

	input := goal.CreateGoalInput{
		UserID:            userID,
		Name:              req.Name,
		TypeCode:          req.TypeCode,
		TargetAmountCents: req.TargetAmountCents,
		IsPriority:        req.IsPriority,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGoalResponse(output.Goal))
}

// Get handles GET /goals/:id requests.
func (c *GoalController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	input := goal.GetGoalInput{
		GoalID: goalID,
		UserID: userID,
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	response := dto.GoalDetailResponse{
		GoalResponse:       dto.ToGoalResponse(output.Goal),
		MonthDepositCents:  output.MonthDepositCents,
		MonthWithdrawCents: output.MonthWithdrawCents,
	}
	ctx.JSON(http.StatusOK, response)
}

// Update handles PATCH /goals/:id requests.
func (c *GoalController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingGoalFields),
		})
		return
	}

	input := goal.UpdateGoalInput{
		GoalID:            goalID,
		UserID:            userID,
		Name:              req.Name,
		TypeCode:          req.TypeCode,
		TargetAmountCents: req.TargetAmountCents,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalResponse(output.Goal))
}

// SetPriority handles PATCH /goals/:id/priority requests.
func (c *GoalController) SetPriority(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	var req dto.SetPriorityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: is_priority is required",
			Code:  string(domainerror.ErrCodeMissingGoalFields),
		})
		return
	}

	input := goal.SetPriorityInput{
		GoalID:   goalID,
		UserID:   userID,
		Priority: *req.IsPriority,
	}

	output, err := c.setPriorityUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalResponse(output.Goal))
}

// Archive handles POST /goals/:id/archive requests.
func (c *GoalController) Archive(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	input := goal.ArchiveGoalInput{
		GoalID: goalID,
		UserID: userID,
	}

	output, err := c.archiveUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalResponse(output.Goal))
}

// Delete handles DELETE /goals/:id requests.
func (c *GoalController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	input := goal.DeleteGoalInput{
		GoalID: goalID,
		UserID: userID,
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), input); err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// MonthSummary handles GET /goals/:id/summary requests.
func (c *GoalController) MonthSummary(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	month := ctx.Query("month")
	if month == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "month query parameter is required",
			Code:  string(domainerror.ErrCodeInvalidMonth),
		})
		return
	}

	input := ledger.GetMonthSummaryInput{
		UserID: userID,
		GoalID: goalID,
		Month:  month,
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthSummaryResponse(output))
}

// RebuildSummary handles POST /goals/:id/summary/rebuild requests.
func (c *GoalController) RebuildSummary(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	goalID, ok := parseGoalID(ctx)
	if !ok {
		return
	}

	month := ctx.Query("month")
	if month == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "month query parameter is required",
			Code:  string(domainerror.ErrCodeInvalidMonth),
		})
		return
	}

	input := ledger.RebuildMonthTotalsInput{
		UserID: userID,
		GoalID: goalID,
		Month:  month,
	}

	output, err := c.rebuildUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	netCents := output.DepositTotalCents - output.WithdrawTotalCents
	ctx.JSON(http.StatusOK, dto.MonthSummaryResponse{
		GoalID:             output.GoalID.String(),
		Month:              output.Month,
		DepositTotalCents:  output.DepositTotalCents,
		DepositTotal:       decimal.New(output.DepositTotalCents, -2).StringFixed(2),
		WithdrawTotalCents: output.WithdrawTotalCents,
		WithdrawTotal:      decimal.New(output.WithdrawTotalCents, -2).StringFixed(2),
		NetCents:           netCents,
		Net:                decimal.New(netCents, -2).StringFixed(2),
	})
}

// handleGoalError handles goal and ledger errors and returns appropriate HTTP responses.
func (c *GoalController) handleGoalError(ctx *gin.Context, err error) {
	var goalErr *domainerror.GoalError
	if errors.As(err, &goalErr) {
		ctx.JSON(getStatusCodeForGoalError(goalErr.Code), dto.ErrorResponse{
			Error: goalErr.Message,
			Code:  string(goalErr.Code),
		})
		return
	}

	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(getStatusCodeForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForGoalError maps goal error codes to HTTP status codes.
func getStatusCodeForGoalError(code domainerror.GoalErrorCode) int {
	switch code {
	case domainerror.ErrCodeGoalNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeGoalNotPriority,
		domainerror.ErrCodePriorityGoalArchive:
		return http.StatusConflict
	case domainerror.ErrCodeGoalNameRequired,
		domainerror.ErrCodeInvalidTargetAmount,
		domainerror.ErrCodeGoalArchived,
		domainerror.ErrCodeGoalAlreadyArchived,
		domainerror.ErrCodeMissingGoalFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondUnauthenticated writes the standard missing-authentication response.
func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}

// parseGoalID parses the :id path parameter, writing a 400 on failure.
func parseGoalID(ctx *gin.Context) (uuid.UUID, bool) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid goal ID format",
		})
		return uuid.Nil, false
	}
	return goalID, true
}
