package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"advisormatch_backend/internal/auth/service"
	"advisormatch_backend/internal/auth/transport"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        transport.ToUserResponse(result.User),
	})
}

// GetMe handles GET /auth/me.
func (h *Handler) GetMe(c *gin.Context) {
	ident := httpkit.GetIdentity(c)
	if !ident.IsAuthenticated() {
		httpkit.HandleError(c, apperr.Unauthorized("authentication required"))
		return
	}

	user, err := h.svc.Me(c.Request.Context(), ident.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToUserResponse(user))
}

// CreateAdvisorUser handles POST /admin/users.
func (h *Handler) CreateAdvisorUser(c *gin.Context) {
	var req transport.CreateAdvisorUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	advisorID, err := uuid.Parse(req.AdvisorID)
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid advisorId"))
		return
	}

	user, err := h.svc.CreateAdvisorUser(c.Request.Context(), req.Email, req.Password, advisorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToUserResponse(user))
}
