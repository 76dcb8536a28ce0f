package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"advisormatch_backend/internal/advisors/repository"
	"advisormatch_backend/internal/advisors/service"
	"advisormatch_backend/internal/advisors/transport"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateAdvisor handles POST /admin/advisors.
func (h *Handler) CreateAdvisor(c *gin.Context) {
	var req transport.CreateAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	advisor, err := h.svc.Create(c.Request.Context(), service.CreateAdvisorInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		FirmName:  req.FirmName,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, h.toResponse(c, advisor))
}

// GetAdvisor handles GET /admin/advisors/:id.
func (h *Handler) GetAdvisor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	advisor, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, h.toResponse(c, advisor))
}

// ListAdvisors handles GET /admin/advisors.
func (h *Handler) ListAdvisors(c *gin.Context) {
	input := service.ListInput{
		Search: c.Query("search"),
	}
	if raw := c.Query("isActive"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid isActive filter", nil)
			return
		}
		input.IsActive = &isActive
	}
	input.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))

	advisors, total, err := h.svc.List(c.Request.Context(), input)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.AdvisorResponse, 0, len(advisors))
	for _, advisor := range advisors {
		responses = append(responses, h.toResponse(c, advisor))
	}
	httpkit.OK(c, transport.ListAdvisorsResponse{
		Advisors: responses,
		Total:    total,
		Offset:   input.Offset,
		Limit:    input.Limit,
	})
}

// SetActive handles PATCH /admin/advisors/:id/active.
func (h *Handler) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.svc.SetActive(c.Request.Context(), id, *req.IsActive); httpkit.HandleError(c, err) {
		return
	}

	advisor, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.toResponse(c, advisor))
}

// UpdateTargeting handles PATCH /admin/advisors/:id/targeting.
func (h *Handler) UpdateTargeting(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	h.updateTargeting(c, id)
}

// UpdateMyTargeting handles PATCH /advisors/me/targeting for the advisor's
// own record.
func (h *Handler) UpdateMyTargeting(c *gin.Context) {
	id, ok := selfAdvisorID(c)
	if !ok {
		return
	}
	h.updateTargeting(c, id)
}

func (h *Handler) updateTargeting(c *gin.Context, id uuid.UUID) {
	var req transport.UpdateTargetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	advisor, err := h.svc.UpdateTargeting(c.Request.Context(), id, service.TargetingInput{
		MinAssets:    req.MinAssets.Value,
		MinAssetsSet: req.MinAssets.Set,
		MaxAssets:    req.MaxAssets.Value,
		MaxAssetsSet: req.MaxAssets.Set,
		MinAge:       req.MinAge.Value,
		MinAgeSet:    req.MinAge.Set,
		MaxAge:       req.MaxAge.Value,
		MaxAgeSet:    req.MaxAge.Set,
		TargetStates: req.TargetStates,
		TargetGoals:  req.TargetGoals,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.toResponse(c, advisor))
}

// UpdateBranding handles PATCH /admin/advisors/:id/branding.
func (h *Handler) UpdateBranding(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	h.updateBranding(c, id)
}

// UpdateMyBranding handles PATCH /advisors/me/branding.
func (h *Handler) UpdateMyBranding(c *gin.Context) {
	id, ok := selfAdvisorID(c)
	if !ok {
		return
	}
	h.updateBranding(c, id)
}

func (h *Handler) updateBranding(c *gin.Context, id uuid.UUID) {
	var req transport.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	advisor, err := h.svc.UpdateBranding(c.Request.Context(), id, service.BrandingInput{
		Bio:      req.Bio.Value,
		BioSet:   req.Bio.Set,
		FirmName: req.FirmName,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.toResponse(c, advisor))
}

// UploadBrandingAsset handles POST /admin/advisors/:id/branding/:kind with a
// multipart file field named "file". Kind is "logo" or "photo".
func (h *Handler) UploadBrandingAsset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	h.uploadBrandingAsset(c, id)
}

// UploadMyBrandingAsset handles POST /advisors/me/branding/:kind.
func (h *Handler) UploadMyBrandingAsset(c *gin.Context) {
	id, ok := selfAdvisorID(c)
	if !ok {
		return
	}
	h.uploadBrandingAsset(c, id)
}

func (h *Handler) uploadBrandingAsset(c *gin.Context, id uuid.UUID) {
	kind := service.BrandingAssetKind(c.Param("kind"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to read file upload", nil)
		return
	}
	defer file.Close()

	advisor, err := h.svc.UploadBrandingAsset(
		c.Request.Context(), id, kind,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"),
		file, fileHeader.Size,
	)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.toResponse(c, advisor))
}

// GetMe handles GET /advisors/me.
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := selfAdvisorID(c)
	if !ok {
		return
	}

	advisor, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.toResponse(c, advisor))
}

func (h *Handler) toResponse(c *gin.Context, advisor repository.Advisor) transport.AdvisorResponse {
	ctx := c.Request.Context()
	return transport.ToAdvisorResponse(
		advisor,
		h.svc.AssetURL(ctx, advisor.LogoFileKey),
		h.svc.AssetURL(ctx, advisor.PhotoFileKey),
	)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid advisor id"))
		return uuid.Nil, false
	}
	return id, true
}

// selfAdvisorID resolves the advisor record linked to the authenticated
// user. Admin accounts have no linked advisor and are rejected here.
func selfAdvisorID(c *gin.Context) (uuid.UUID, bool) {
	ident := httpkit.GetIdentity(c)
	advisorID, ok := ident.AdvisorID()
	if !ok {
		httpkit.HandleError(c, apperr.Forbidden("no advisor profile linked to this account"))
		return uuid.Nil, false
	}
	return advisorID, true
}
