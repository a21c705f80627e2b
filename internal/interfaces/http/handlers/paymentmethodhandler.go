package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paydesk/internal/application/billing/usecases"
	infraauth "paydesk/internal/infrastructure/auth"
	"paydesk/internal/interfaces/http/middleware"
	sharedconfig "paydesk/internal/shared/config"
	"paydesk/internal/shared/id"
	"paydesk/internal/shared/logger"
	"paydesk/internal/shared/utils"
)

// PaymentMethodHandler handles the authenticated direct-debit contract
// lifecycle and payment method management.
type PaymentMethodHandler struct {
	createUseCase     ContractCreator
	verifyUseCase     ContractVerifier
	cancelUseCase     ContractCanceller
	recoverUseCase    ContractRecoverer
	setDefaultUseCase DefaultPaymentMethodSetter
	listUseCase       PaymentMethodLister
	cookieSigner      *infraauth.ContractCookieSigner
	cookieConfig      sharedconfig.CookieConfig
	logger            logger.Interface
}

// NewPaymentMethodHandler creates a new payment method handler.
func NewPaymentMethodHandler(
	createUC ContractCreator,
	verifyUC ContractVerifier,
	cancelUC ContractCanceller,
	recoverUC ContractRecoverer,
	setDefaultUC DefaultPaymentMethodSetter,
	listUC PaymentMethodLister,
	cookieSigner *infraauth.ContractCookieSigner,
	cookieConfig sharedconfig.CookieConfig,
	logger logger.Interface,
) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		createUseCase:     createUC,
		verifyUseCase:     verifyUC,
		cancelUseCase:     cancelUC,
		recoverUseCase:    recoverUC,
		setDefaultUseCase: setDefaultUC,
		listUseCase:       listUC,
		cookieSigner:      cookieSigner,
		cookieConfig:      cookieConfig,
		logger:            logger,
	}
}

// CreateContractRequest carries the requested contract terms.
type CreateContractRequest struct {
	Mobile          string    `json:"mobile" binding:"required,mobile"`
	NationalID      string    `json:"national_id"`
	MaxAmount       int64     `json:"max_amount" binding:"required,gt=0"`
	MaxDailyCount   int       `json:"max_daily_count" binding:"required,gt=0"`
	MaxMonthlyCount int       `json:"max_monthly_count" binding:"required,gt=0"`
	ExpireAt        time.Time `json:"expire_at" binding:"required"`
}

// CreateContract starts a contract negotiation and returns the bank list
// with per-bank signing URLs.
func (h *PaymentMethodHandler) CreateContract(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.CreateContractCommand{
		UserID:          userID,
		Mobile:          req.Mobile,
		NationalID:      req.NationalID,
		MaxAmount:       req.MaxAmount,
		MaxDailyCount:   req.MaxDailyCount,
		MaxMonthlyCount: req.MaxMonthlyCount,
		ExpireAt:        req.ExpireAt,
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create contract", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	// The recovery cookie lets the callback identify this user after the
	// bank redirect even when the session cookie does not survive it.
	if cookieValue, err := h.cookieSigner.Sign(userID, result.PaymanAuthority); err != nil {
		h.logger.Errorw("failed to sign contract cookie", "error", err, "user_id", userID)
	} else {
		utils.SetContractCookie(c, h.cookieConfig, infraauth.ContractCookieName, cookieValue, h.cookieSigner.MaxAge())
	}

	utils.CreatedResponse(c, result, "Contract created successfully")
}

// VerifyContractRequest carries the parameters the client received from
// the bank redirect.
type VerifyContractRequest struct {
	PaymanAuthority string `json:"payman_authority" binding:"required"`
	Status          string `json:"status" binding:"required"`
}

// VerifyContract exchanges the authority for a signature and activates
// the contract.
func (h *PaymentMethodHandler) VerifyContract(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pmSID := c.Param("id")
	if err := id.ValidatePrefix(pmSID, id.PrefixPaymentMethod); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid payment method ID format, expected pm_xxxxx")
		return
	}

	var req VerifyContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.VerifyContractCommand{
		UserID:          userID,
		PaymentMethodID: pmSID,
		Authority:       req.PaymanAuthority,
		Status:          req.Status,
	}

	result, err := h.verifyUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to verify contract", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearCookie(c, h.cookieConfig, infraauth.ContractCookieName)

	utils.SuccessResponse(c, http.StatusOK, "Contract verified successfully", result)
}

// CancelContract revokes the contract upstream and removes the payment
// method.
func (h *PaymentMethodHandler) CancelContract(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pmSID := c.Param("id")
	if err := id.ValidatePrefix(pmSID, id.PrefixPaymentMethod); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid payment method ID format, expected pm_xxxxx")
		return
	}

	cmd := usecases.CancelContractCommand{
		UserID:          userID,
		PaymentMethodID: pmSID,
	}

	if err := h.cancelUseCase.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Errorw("failed to cancel contract", "error", err, "user_id", userID, "payment_method_id", pmSID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Contract cancelled successfully", nil)
}

// RecoverContractRequest identifies the authority to re-verify. When the
// body omits it the pending-contract cookie is consulted.
type RecoverContractRequest struct {
	PaymanAuthority string `json:"payman_authority"`
}

// RecoverContract re-runs verification for a contract whose callback
// never completed.
func (h *PaymentMethodHandler) RecoverContract(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req RecoverContractRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	authority := req.PaymanAuthority
	if authority == "" {
		cookieValue := utils.GetTokenFromCookie(c, infraauth.ContractCookieName)
		if cookieValue == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "no authority provided and no pending contract cookie")
			return
		}
		claims, err := h.cookieSigner.Verify(cookieValue)
		if err != nil {
			h.logger.Warnw("invalid contract cookie on recover", "error", err, "user_id", userID)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid pending contract cookie")
			return
		}
		if claims.UserID != userID {
			utils.ErrorResponse(c, http.StatusForbidden, "pending contract belongs to another user")
			return
		}
		authority = claims.Authority
	}

	cmd := usecases.RecoverContractCommand{
		UserID:    userID,
		Authority: authority,
	}

	result, err := h.recoverUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to recover contract", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearCookie(c, h.cookieConfig, infraauth.ContractCookieName)

	utils.SuccessResponse(c, http.StatusOK, "Contract recovered successfully", result)
}

// SetDefault marks the payment method as the user's default.
func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pmSID := c.Param("id")
	if err := id.ValidatePrefix(pmSID, id.PrefixPaymentMethod); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid payment method ID format, expected pm_xxxxx")
		return
	}

	cmd := usecases.SetDefaultPaymentMethodCommand{
		UserID:          userID,
		PaymentMethodID: pmSID,
	}

	result, err := h.setDefaultUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to set default payment method", "error", err, "user_id", userID, "payment_method_id", pmSID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default payment method updated", result)
}

// List returns the user's payment methods.
func (h *PaymentMethodHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), usecases.ListPaymentMethodsQuery{UserID: userID})
	if err != nil {
		h.logger.Errorw("failed to list payment methods", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
