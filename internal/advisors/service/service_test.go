package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"advisormatch_backend/internal/advisors/repository"
	"advisormatch_backend/internal/events"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/logger"
	"advisormatch_backend/platform/validator"
)

type fakeRepo struct {
	advisors map[uuid.UUID]repository.Advisor
	updated  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{advisors: make(map[uuid.UUID]repository.Advisor)}
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateAdvisorParams) (repository.Advisor, error) {
	advisor := repository.Advisor{
		ID:        uuid.New(),
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		FirmName:  params.FirmName,
		IsActive:  true,
	}
	r.advisors[advisor.ID] = advisor
	return advisor, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Advisor, error) {
	advisor, ok := r.advisors[id]
	if !ok {
		return repository.Advisor{}, repository.ErrNotFound
	}
	return advisor, nil
}

func (r *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Advisor, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) ListActive(_ context.Context) ([]repository.Advisor, error) {
	var out []repository.Advisor
	for _, a := range r.advisors {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) SetActive(_ context.Context, id uuid.UUID, isActive bool) error {
	advisor, ok := r.advisors[id]
	if !ok {
		return repository.ErrNotFound
	}
	advisor.IsActive = isActive
	r.advisors[id] = advisor
	return nil
}

func (r *fakeRepo) UpdateTargeting(_ context.Context, id uuid.UUID, update repository.TargetingUpdate) (repository.Advisor, error) {
	advisor, ok := r.advisors[id]
	if !ok {
		return repository.Advisor{}, repository.ErrNotFound
	}
	r.updated = true
	if update.MinAssetsSet {
		advisor.MinAssets = update.MinAssets
	}
	if update.MaxAssetsSet {
		advisor.MaxAssets = update.MaxAssets
	}
	if update.MinAgeSet {
		advisor.MinAge = update.MinAge
	}
	if update.MaxAgeSet {
		advisor.MaxAge = update.MaxAge
	}
	if update.TargetStates != nil {
		advisor.TargetStates = update.TargetStates
	}
	if update.TargetGoals != nil {
		advisor.TargetGoals = update.TargetGoals
	}
	r.advisors[id] = advisor
	return advisor, nil
}

func (r *fakeRepo) UpdateBranding(_ context.Context, id uuid.UUID, _ repository.BrandingUpdate) (repository.Advisor, error) {
	advisor, ok := r.advisors[id]
	if !ok {
		return repository.Advisor{}, repository.ErrNotFound
	}
	return advisor, nil
}

func (r *fakeRepo) IncrementLeadsAssigned(_ context.Context, id uuid.UUID) error {
	advisor, ok := r.advisors[id]
	if !ok {
		return repository.ErrNotFound
	}
	advisor.LeadsAssignedCount++
	r.advisors[id] = advisor
	return nil
}

type testConfig struct{}

func (testConfig) GetMinioBucketAdvisorBranding() string { return "advisor-branding" }

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event)           {}
func (noopBus) PublishSync(context.Context, events.Event) error { return nil }
func (noopBus) Subscribe(string, events.Handler)                {}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, nil, testConfig{}, validator.New(), noopBus{}, logger.New("test"))
}

func seedAdvisor(t *testing.T, repo *fakeRepo) repository.Advisor {
	t.Helper()
	advisor, err := repo.Create(context.Background(), repository.CreateAdvisorParams{
		Email:     "jordan@firm.test",
		FirstName: "Jordan",
		LastName:  "Lee",
		FirmName:  "Lee Wealth",
	})
	if err != nil {
		t.Fatalf("seed advisor: %v", err)
	}
	return advisor
}

func TestUpdateTargetingRejectsMalformedStateCodes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	advisor := seedAdvisor(t, repo)

	for _, code := range []string{"Cali", "C1", "C", "12"} {
		states := []string{code}
		_, err := svc.UpdateTargeting(context.Background(), advisor.ID, TargetingInput{
			TargetStates: &states,
		})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("state %q: expected validation error, got %v", code, err)
		}
	}
	if repo.updated {
		t.Fatal("expected no repository write after rejected targeting")
	}
}

func TestUpdateTargetingNormalizesStateCodes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	advisor := seedAdvisor(t, repo)

	states := []string{" ca ", "NY", "ny"}
	updated, err := svc.UpdateTargeting(context.Background(), advisor.ID, TargetingInput{
		TargetStates: &states,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"CA", "NY"}
	if len(updated.TargetStates) != len(want) {
		t.Fatalf("expected states %v, got %v", want, updated.TargetStates)
	}
	for i, state := range want {
		if updated.TargetStates[i] != state {
			t.Fatalf("expected states %v, got %v", want, updated.TargetStates)
		}
	}
}

func TestUpdateTargetingRejectsCrossedBounds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	advisor := seedAdvisor(t, repo)

	low := int64(500_000)
	high := int64(100_000)
	_, err := svc.UpdateTargeting(context.Background(), advisor.ID, TargetingInput{
		MinAssets:    &low,
		MinAssetsSet: true,
		MaxAssets:    &high,
		MaxAssetsSet: true,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTargetingValidatesAgainstCurrentBounds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	advisor := seedAdvisor(t, repo)

	max := int64(200_000)
	if _, err := svc.UpdateTargeting(context.Background(), advisor.ID, TargetingInput{
		MaxAssets:    &max,
		MaxAssetsSet: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The new minimum must be checked against the stored maximum even
	// though this update leaves the maximum untouched.
	min := int64(300_000)
	_, err := svc.UpdateTargeting(context.Background(), advisor.ID, TargetingInput{
		MinAssets:    &min,
		MinAssetsSet: true,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
