package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("campaign not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Campaign struct {
	ID        uuid.UUID
	AdvisorID uuid.UUID
	Name      string
	Source    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const campaignColumns = `id, advisor_id, name, source, is_active, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.AdvisorID, &c.Name, &c.Source, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

type CreateCampaignParams struct {
	AdvisorID uuid.UUID
	Name      string
	Source    string
}

func (r *Repository) Create(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO campaigns (advisor_id, name, source)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, campaignColumns), params.AdvisorID, params.Name, params.Source)
	return scanCampaign(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Campaign, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM campaigns WHERE id = $1
	`, campaignColumns), id)
	return scanCampaign(row)
}

// ListByAdvisor returns an advisor's campaigns, newest first.
func (r *Repository) ListByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM campaigns
		WHERE advisor_id = $1
		ORDER BY created_at DESC
	`, campaignColumns), advisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *Repository) ListAll(ctx context.Context) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM campaigns ORDER BY created_at DESC
	`, campaignColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func collectCampaigns(rows pgx.Rows) ([]Campaign, error) {
	campaigns := make([]Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

// CampaignUpdate carries a sparse campaign mutation.
type CampaignUpdate struct {
	Name     *string
	Source   *string
	IsActive *bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, update CampaignUpdate) (Campaign, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{update.Name != nil, "name", update.Name},
		{update.Source != nil, "source", update.Source},
		{update.IsActive != nil, "is_active", update.IsActive},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE campaigns SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, campaignColumns)

	return scanCampaign(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
