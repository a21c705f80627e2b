package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paydesk/internal/application/billing/usecases"
	infraauth "paydesk/internal/infrastructure/auth"
	"paydesk/internal/interfaces/http/middleware"
	sharedconfig "paydesk/internal/shared/config"
	"paydesk/internal/shared/logger"
	"paydesk/internal/shared/utils"
)

// ContractCallbackHandler answers the browser redirect from the bank.
// The endpoint is public: the bank controls the redirect, so it always
// responds HTTP 200 and signals the outcome in the body.
type ContractCallbackHandler struct {
	callbackUseCase ContractCallbackExecutor
	cookieSigner    *infraauth.ContractCookieSigner
	cookieConfig    sharedconfig.CookieConfig
	logger          logger.Interface
}

// NewContractCallbackHandler creates a new contract callback handler.
func NewContractCallbackHandler(
	callbackUC ContractCallbackExecutor,
	cookieSigner *infraauth.ContractCookieSigner,
	cookieConfig sharedconfig.CookieConfig,
	logger logger.Interface,
) *ContractCallbackHandler {
	return &ContractCallbackHandler{
		callbackUseCase: callbackUC,
		cookieSigner:    cookieSigner,
		cookieConfig:    cookieConfig,
		logger:          logger,
	}
}

// Callback handles GET with payman_authority and status query parameters.
// The user is resolved from the session when present, else from the
// pending-contract cookie when its authority matches the inbound one.
func (h *ContractCallbackHandler) Callback(c *gin.Context) {
	authority := c.Query("payman_authority")
	status := c.Query("status")

	userID := middleware.UserID(c)
	userFromCookie := false

	if userID == 0 && authority != "" {
		if cookieValue := utils.GetTokenFromCookie(c, infraauth.ContractCookieName); cookieValue != "" {
			claims, err := h.cookieSigner.VerifyForAuthority(cookieValue, authority)
			if err != nil {
				h.logger.Warnw("contract cookie rejected on callback", "error", err)
			} else {
				userID = claims.UserID
				userFromCookie = true
			}
		}
	}

	cmd := usecases.ContractCallbackCommand{
		UserID:         userID,
		Authority:      authority,
		Status:         status,
		UserFromCookie: userFromCookie,
	}

	result := h.callbackUseCase.Execute(c.Request.Context(), cmd)

	if result.Success {
		utils.ClearCookie(c, h.cookieConfig, infraauth.ContractCookieName)
	}

	c.JSON(http.StatusOK, utils.APIResponse{
		Success: result.Success,
		Message: result.Message,
		Data:    result,
	})
}
