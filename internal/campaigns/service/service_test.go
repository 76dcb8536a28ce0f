package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"advisormatch_backend/internal/campaigns/repository"
	"advisormatch_backend/platform/apperr"
)

type fakeRepo struct {
	campaigns map[uuid.UUID]repository.Campaign
	deleted   []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{campaigns: make(map[uuid.UUID]repository.Campaign)}
}

func (f *fakeRepo) seed(advisorID uuid.UUID, active bool) repository.Campaign {
	campaign := repository.Campaign{
		ID:        uuid.New(),
		AdvisorID: advisorID,
		Name:      "Spring Retirement Webinar",
		Source:    "webinar",
		IsActive:  active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.campaigns[campaign.ID] = campaign
	return campaign
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateCampaignParams) (repository.Campaign, error) {
	campaign := repository.Campaign{
		ID:        uuid.New(),
		AdvisorID: params.AdvisorID,
		Name:      params.Name,
		Source:    params.Source,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.campaigns[campaign.ID] = campaign
	return campaign, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Campaign, error) {
	campaign, ok := f.campaigns[id]
	if !ok {
		return repository.Campaign{}, repository.ErrNotFound
	}
	return campaign, nil
}

func (f *fakeRepo) ListByAdvisor(_ context.Context, advisorID uuid.UUID) ([]repository.Campaign, error) {
	var out []repository.Campaign
	for _, campaign := range f.campaigns {
		if campaign.AdvisorID == advisorID {
			out = append(out, campaign)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]repository.Campaign, error) {
	var out []repository.Campaign
	for _, campaign := range f.campaigns {
		out = append(out, campaign)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, update repository.CampaignUpdate) (repository.Campaign, error) {
	campaign, ok := f.campaigns[id]
	if !ok {
		return repository.Campaign{}, repository.ErrNotFound
	}
	if update.Name != nil {
		campaign.Name = *update.Name
	}
	if update.Source != nil {
		campaign.Source = *update.Source
	}
	if update.IsActive != nil {
		campaign.IsActive = *update.IsActive
	}
	f.campaigns[id] = campaign
	return campaign, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.campaigns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.campaigns, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCounter struct {
	counts map[uuid.UUID]int
}

func (f fakeCounter) CountByCampaign(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		out[id] = f.counts[id]
	}
	return out, nil
}

func TestValidateActive(t *testing.T) {
	repo := newFakeRepo()
	advisorID := uuid.New()
	active := repo.seed(advisorID, true)
	paused := repo.seed(advisorID, false)
	svc := New(repo, fakeCounter{})
	ctx := context.Background()

	if err := svc.ValidateActive(ctx, active.ID); err != nil {
		t.Fatalf("expected active campaign to validate, got %v", err)
	}
	if err := svc.ValidateActive(ctx, paused.ID); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for paused campaign, got %v", err)
	}
	if err := svc.ValidateActive(ctx, uuid.New()); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown campaign, got %v", err)
	}
}

func TestGetByID_OwnershipBoundary(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	campaign := repo.seed(owner, true)
	svc := New(repo, fakeCounter{})
	ctx := context.Background()

	stranger := uuid.New()
	if _, err := svc.GetByID(ctx, campaign.ID, Actor{AdvisorID: &stranger}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for foreign advisor, got %v", err)
	}
	if _, err := svc.GetByID(ctx, campaign.ID, Actor{AdvisorID: &owner}); err != nil {
		t.Fatalf("expected owner access, got %v", err)
	}
	if _, err := svc.GetByID(ctx, campaign.ID, Actor{IsAdmin: true}); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
	if _, err := svc.GetByID(ctx, uuid.New(), Actor{IsAdmin: true}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestCreate_AdvisorCannotCreateForAnother(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, fakeCounter{})
	ctx := context.Background()

	self := uuid.New()
	other := uuid.New()

	if _, err := svc.Create(ctx, CreateInput{AdvisorID: other, Name: "x", Source: "y"}, Actor{AdvisorID: &self}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	created, err := svc.Create(ctx, CreateInput{AdvisorID: self, Name: "Referral Push", Source: "referral"}, Actor{AdvisorID: &self})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.AdvisorID != self || !created.IsActive {
		t.Fatalf("unexpected campaign %+v", created)
	}
}

func TestList_PairsCampaignsWithLeadCounts(t *testing.T) {
	repo := newFakeRepo()
	advisorID := uuid.New()
	mine := repo.seed(advisorID, true)
	theirs := repo.seed(uuid.New(), true)

	svc := New(repo, fakeCounter{counts: map[uuid.UUID]int{mine.ID: 7}})

	listed, err := svc.List(context.Background(), Actor{AdvisorID: &advisorID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected only own campaigns, got %d", len(listed))
	}
	if listed[0].Campaign.ID != mine.ID || listed[0].LeadCount != 7 {
		t.Fatalf("unexpected listing %+v", listed[0])
	}

	all, err := svc.List(context.Background(), Actor{IsAdmin: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected admin to see both campaigns, got %d", len(all))
	}
	_ = theirs

	if _, err := svc.List(context.Background(), Actor{}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden without advisor profile, got %v", err)
	}
}

func TestDelete_RequiresOwnership(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	campaign := repo.seed(owner, true)
	svc := New(repo, fakeCounter{})
	ctx := context.Background()

	stranger := uuid.New()
	if err := svc.Delete(ctx, campaign.ID, Actor{AdvisorID: &stranger}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("expected no deletion after forbidden access")
	}

	if err := svc.Delete(ctx, campaign.ID, Actor{AdvisorID: &owner}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != campaign.ID {
		t.Fatalf("expected campaign deleted, got %v", repo.deleted)
	}
}
