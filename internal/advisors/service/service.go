package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"advisormatch_backend/internal/advisors/repository"
	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/matching"
	"advisormatch_backend/internal/storage"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/logger"
	"advisormatch_backend/platform/sanitize"
	"advisormatch_backend/platform/validator"
)

// Repository abstracts advisor persistence for the service layer.
type Repository interface {
	Create(ctx context.Context, params repository.CreateAdvisorParams) (repository.Advisor, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Advisor, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Advisor, int, error)
	ListActive(ctx context.Context) ([]repository.Advisor, error)
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
	UpdateTargeting(ctx context.Context, id uuid.UUID, update repository.TargetingUpdate) (repository.Advisor, error)
	UpdateBranding(ctx context.Context, id uuid.UUID, update repository.BrandingUpdate) (repository.Advisor, error)
	IncrementLeadsAssigned(ctx context.Context, id uuid.UUID) error
}

// Config exposes the storage settings the service needs.
type Config interface {
	GetMinioBucketAdvisorBranding() string
}

type Service struct {
	repo    Repository
	storage storage.Service
	bucket  string
	val     *validator.Validator
	bus     events.Bus
	logger  *logger.Logger
}

func New(repo Repository, store storage.Service, cfg Config, val *validator.Validator, bus events.Bus, log *logger.Logger) *Service {
	_ = val.RegisterValidation("statecode", isStateCode)
	return &Service{
		repo:    repo,
		storage: store,
		bucket:  cfg.GetMinioBucketAdvisorBranding(),
		val:     val,
		bus:     bus,
		logger:  log,
	}
}

// isStateCode accepts exactly two ASCII uppercase letters. Inputs are
// trimmed and uppercased before validation.
func isStateCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

type CreateAdvisorInput struct {
	Email     string
	FirstName string
	LastName  string
	FirmName  string
}

func (s *Service) Create(ctx context.Context, input CreateAdvisorInput) (repository.Advisor, error) {
	const op = "advisors.Create"

	advisor, err := s.repo.Create(ctx, repository.CreateAdvisorParams{
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName: sanitize.Text(input.FirstName),
		LastName:  sanitize.Text(input.LastName),
		FirmName:  sanitize.Text(input.FirmName),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return repository.Advisor{}, apperr.Wrap(apperr.KindConflict, "an advisor with this email already exists", err).WithOp(op)
		}
		return repository.Advisor{}, apperr.Wrap(apperr.KindInternal, "failed to create advisor", err).WithOp(op)
	}
	return advisor, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Advisor, error) {
	const op = "advisors.GetByID"

	advisor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Advisor{}, apperr.Wrap(apperr.KindNotFound, "advisor not found", err).WithOp(op)
		}
		return repository.Advisor{}, apperr.Wrap(apperr.KindInternal, "failed to fetch advisor", err).WithOp(op)
	}
	return advisor, nil
}

type ListInput struct {
	IsActive *bool
	Search   string
	Offset   int
	Limit    int
}

func (s *Service) List(ctx context.Context, input ListInput) ([]repository.Advisor, int, error) {
	const op = "advisors.List"

	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 25
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	advisors, total, err := s.repo.List(ctx, repository.ListParams{
		IsActive: input.IsActive,
		Search:   strings.TrimSpace(input.Search),
		Offset:   input.Offset,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list advisors", err).WithOp(op)
	}
	return advisors, total, nil
}

// SetActive toggles matching eligibility. Deactivation leaves already
// assigned leads in place; only future matching is affected.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	const op = "advisors.SetActive"

	if err := s.repo.SetActive(ctx, id, isActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "advisor not found", err).WithOp(op)
		}
		return apperr.Wrap(apperr.KindInternal, "failed to update advisor status", err).WithOp(op)
	}

	if !isActive {
		s.bus.Publish(ctx, events.AdvisorDeactivated{
			BaseEvent: events.NewBaseEvent(),
			AdvisorID: id,
		})
	}
	return nil
}

type TargetingInput struct {
	MinAssets    *int64
	MinAssetsSet bool
	MaxAssets    *int64
	MaxAssetsSet bool
	MinAge       *int
	MinAgeSet    bool
	MaxAge       *int
	MaxAgeSet    bool
	TargetStates *[]string
	TargetGoals  *[]string
}

// UpdateTargeting applies a sparse targeting update after merging the
// provided fields with the current record to validate the resulting bounds.
func (s *Service) UpdateTargeting(ctx context.Context, id uuid.UUID, input TargetingInput) (repository.Advisor, error) {
	const op = "advisors.UpdateTargeting"

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return repository.Advisor{}, err
	}

	if err := s.validateTargeting(current, input); err != nil {
		return repository.Advisor{}, err
	}

	update := repository.TargetingUpdate{
		MinAssets:    input.MinAssets,
		MinAssetsSet: input.MinAssetsSet,
		MaxAssets:    input.MaxAssets,
		MaxAssetsSet: input.MaxAssetsSet,
		MinAge:       input.MinAge,
		MinAgeSet:    input.MinAgeSet,
		MaxAge:       input.MaxAge,
		MaxAgeSet:    input.MaxAgeSet,
	}
	if input.TargetStates != nil {
		update.TargetStates = normalizeStates(*input.TargetStates)
	}
	if input.TargetGoals != nil {
		update.TargetGoals = normalizeGoals(*input.TargetGoals)
	}

	advisor, err := s.repo.UpdateTargeting(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Advisor{}, apperr.Wrap(apperr.KindNotFound, "advisor not found", err).WithOp(op)
		}
		return repository.Advisor{}, apperr.Wrap(apperr.KindInternal, "failed to update targeting", err).WithOp(op)
	}
	return advisor, nil
}

// validateTargeting checks that the bounds resulting from the merge of
// current values and requested changes remain coherent.
func (s *Service) validateTargeting(current repository.Advisor, input TargetingInput) error {
	const op = "advisors.UpdateTargeting"

	minAssets := current.MinAssets
	if input.MinAssetsSet {
		minAssets = input.MinAssets
	}
	maxAssets := current.MaxAssets
	if input.MaxAssetsSet {
		maxAssets = input.MaxAssets
	}
	if minAssets != nil && *minAssets < 0 {
		return apperr.Validation("minAssets must not be negative").WithOp(op)
	}
	if maxAssets != nil && *maxAssets < 0 {
		return apperr.Validation("maxAssets must not be negative").WithOp(op)
	}
	if minAssets != nil && maxAssets != nil && *minAssets > *maxAssets {
		return apperr.Validation("minAssets must not exceed maxAssets").WithOp(op)
	}

	minAge := current.MinAge
	if input.MinAgeSet {
		minAge = input.MinAge
	}
	maxAge := current.MaxAge
	if input.MaxAgeSet {
		maxAge = input.MaxAge
	}
	if minAge != nil && (*minAge < 0 || *minAge > 150) {
		return apperr.Validation("minAge is out of range").WithOp(op)
	}
	if maxAge != nil && (*maxAge < 0 || *maxAge > 150) {
		return apperr.Validation("maxAge is out of range").WithOp(op)
	}
	if minAge != nil && maxAge != nil && *minAge > *maxAge {
		return apperr.Validation("minAge must not exceed maxAge").WithOp(op)
	}

	if input.TargetStates != nil {
		for _, state := range *input.TargetStates {
			if err := s.val.Var(strings.ToUpper(strings.TrimSpace(state)), "statecode"); err != nil {
				return apperr.Validation(fmt.Sprintf("invalid state code %q", state)).WithOp(op)
			}
		}
	}
	return nil
}

func normalizeStates(states []string) []string {
	out := make([]string, 0, len(states))
	seen := make(map[string]bool, len(states))
	for _, state := range states {
		normalized := strings.ToUpper(strings.TrimSpace(state))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}

func normalizeGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	seen := make(map[string]bool, len(goals))
	for _, goal := range goals {
		normalized := strings.ToLower(strings.TrimSpace(goal))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}

type BrandingInput struct {
	Bio      *string
	BioSet   bool
	FirmName *string
}

func (s *Service) UpdateBranding(ctx context.Context, id uuid.UUID, input BrandingInput) (repository.Advisor, error) {
	const op = "advisors.UpdateBranding"

	update := repository.BrandingUpdate{
		BioSet: input.BioSet,
	}
	if input.BioSet && input.Bio != nil {
		clean := sanitize.Text(*input.Bio)
		update.Bio = &clean
	}
	if input.FirmName != nil {
		clean := sanitize.Text(*input.FirmName)
		update.FirmName = &clean
	}

	advisor, err := s.repo.UpdateBranding(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Advisor{}, apperr.Wrap(apperr.KindNotFound, "advisor not found", err).WithOp(op)
		}
		return repository.Advisor{}, apperr.Wrap(apperr.KindInternal, "failed to update branding", err).WithOp(op)
	}
	return advisor, nil
}

// BrandingAssetKind identifies which branding slot an upload fills.
type BrandingAssetKind string

const (
	BrandingLogo  BrandingAssetKind = "logo"
	BrandingPhoto BrandingAssetKind = "photo"
)

// UploadBrandingAsset stores a logo or profile photo and records its file
// key on the advisor. The previous object, if any, is deleted best-effort.
func (s *Service) UploadBrandingAsset(ctx context.Context, id uuid.UUID, kind BrandingAssetKind, fileName, contentType string, reader io.Reader, size int64) (repository.Advisor, error) {
	const op = "advisors.UploadBrandingAsset"

	if s.storage == nil {
		return repository.Advisor{}, apperr.Unavailable("file storage is not configured").WithOp(op)
	}
	if kind != BrandingLogo && kind != BrandingPhoto {
		return repository.Advisor{}, apperr.Validation("unknown branding asset kind").WithOp(op)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return repository.Advisor{}, err
	}

	if err := s.storage.ValidateContentType(contentType); err != nil {
		return repository.Advisor{}, apperr.Wrap(apperr.KindValidation, err.Error(), err).WithOp(op)
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return repository.Advisor{}, apperr.Wrap(apperr.KindValidation, err.Error(), err).WithOp(op)
	}

	folder := fmt.Sprintf("advisors/%s/%s", id, kind)
	fileKey, err := s.storage.UploadFile(ctx, s.bucket, folder, fileName, contentType, reader, size)
	if err != nil {
		return repository.Advisor{}, apperr.Wrap(apperr.KindUnavailable, "failed to store branding asset", err).WithOp(op)
	}

	update := repository.BrandingUpdate{}
	var previousKey *string
	switch kind {
	case BrandingLogo:
		update.LogoFileKey = &fileKey
		update.LogoFileKeySet = true
		previousKey = current.LogoFileKey
	case BrandingPhoto:
		update.PhotoFileKey = &fileKey
		update.PhotoFileKeySet = true
		previousKey = current.PhotoFileKey
	}

	advisor, err := s.repo.UpdateBranding(ctx, id, update)
	if err != nil {
		return repository.Advisor{}, apperr.Wrap(apperr.KindInternal, "failed to record branding asset", err).WithOp(op)
	}

	if previousKey != nil {
		if err := s.storage.DeleteObject(ctx, s.bucket, *previousKey); err != nil {
			s.logger.Warn("failed to delete replaced branding asset",
				slog.String("fileKey", *previousKey),
				slog.String("error", err.Error()),
			)
		}
	}
	return advisor, nil
}

// AssetURL resolves a stored file key to a presigned download URL.
// Returns nil when the key is empty or storage is not configured.
func (s *Service) AssetURL(ctx context.Context, fileKey *string) *string {
	if fileKey == nil || s.storage == nil {
		return nil
	}
	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, *fileKey)
	if err != nil {
		s.logger.Warn("failed to presign branding asset",
			slog.String("fileKey", *fileKey),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &presigned.URL
}

// ActiveCandidates converts the active advisor roster into matching
// candidates, preserving repository order.
func (s *Service) ActiveCandidates(ctx context.Context) ([]matching.Candidate, error) {
	const op = "advisors.ActiveCandidates"

	advisors, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load active advisors", err).WithOp(op)
	}

	candidates := make([]matching.Candidate, 0, len(advisors))
	for _, a := range advisors {
		candidates = append(candidates, matching.Candidate{
			ID:            a.ID,
			MinAssets:     a.MinAssets,
			MaxAssets:     a.MaxAssets,
			MinAge:        a.MinAge,
			MaxAge:        a.MaxAge,
			TargetStates:  a.TargetStates,
			TargetGoals:   a.TargetGoals,
			HasLogo:       a.LogoFileKey != nil,
			HasPhoto:      a.PhotoFileKey != nil,
			HasBio:        a.Bio != nil && strings.TrimSpace(*a.Bio) != "",
			LeadsAssigned: a.LeadsAssignedCount,
		})
	}
	return candidates, nil
}

// IsActive reports whether the advisor exists and is eligible for
// assignment.
func (s *Service) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	advisor, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return advisor.IsActive, nil
}

// RecordAssignment bumps the advisor's load counter after a lead is
// assigned to them.
func (s *Service) RecordAssignment(ctx context.Context, id uuid.UUID) error {
	const op = "advisors.RecordAssignment"

	if err := s.repo.IncrementLeadsAssigned(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "advisor not found", err).WithOp(op)
		}
		return apperr.Wrap(apperr.KindInternal, "failed to record assignment", err).WithOp(op)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
