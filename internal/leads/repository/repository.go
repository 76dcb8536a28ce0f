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

	"advisormatch_backend/internal/leads/domain"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                uuid.UUID
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	State             string
	PortfolioBucket   string
	AgeBucket         string
	Goals             []string
	Status            domain.Status
	IsQualified       *bool
	AssignedAdvisorID *uuid.UUID
	ScheduledAt       *time.Time
	CampaignID        *uuid.UUID
	FirmName          *string
	CRDNumber         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const leadColumns = `id, first_name, last_name, email, phone, state,
	portfolio_bucket, age_bucket, goals, status, is_qualified,
	assigned_advisor_id, scheduled_at, campaign_id, firm_name, crd_number,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.State,
		&l.PortfolioBucket, &l.AgeBucket, &l.Goals, &l.Status, &l.IsQualified,
		&l.AssignedAdvisorID, &l.ScheduledAt, &l.CampaignID, &l.FirmName, &l.CRDNumber,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

type CreateLeadParams struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	State           string
	PortfolioBucket string
	AgeBucket       string
	Goals           []string
	CampaignID      *uuid.UUID
	FirmName        *string
	CRDNumber       *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO leads (
			first_name, last_name, email, phone, state,
			portfolio_bucket, age_bucket, goals, campaign_id, firm_name, crd_number
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s
	`, leadColumns),
		params.FirstName, params.LastName, params.Email, params.Phone, params.State,
		params.PortfolioBucket, params.AgeBucket, params.Goals,
		params.CampaignID, params.FirmName, params.CRDNumber,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM leads WHERE id = $1
	`, leadColumns), id)
	return scanLead(row)
}

// LeadUpdate carries a sparse mutation of a lead record. Nil pointers mean
// "leave unchanged"; IsQualifiedSet distinguishes clearing the tri-state
// qualification verdict from omitting it.
type LeadUpdate struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	State           *string
	PortfolioBucket *string
	AgeBucket       *string
	Goals           []string
	Status          *domain.Status
	IsQualified     *bool
	IsQualifiedSet  bool
}

// Update merges only the provided fields. Each clause is field-scoped so
// concurrent sparse updates to different fields both land.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, update LeadUpdate) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{update.FirstName != nil, "first_name", update.FirstName},
		{update.LastName != nil, "last_name", update.LastName},
		{update.Email != nil, "email", update.Email},
		{update.Phone != nil, "phone", update.Phone},
		{update.State != nil, "state", update.State},
		{update.PortfolioBucket != nil, "portfolio_bucket", update.PortfolioBucket},
		{update.AgeBucket != nil, "age_bucket", update.AgeBucket},
		{update.Goals != nil, "goals", update.Goals},
		{update.Status != nil, "status", update.Status},
		{update.IsQualifiedSet, "is_qualified", update.IsQualified},
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
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// SetAssigned records the advisor a lead was routed to.
func (r *Repository) SetAssigned(ctx context.Context, id uuid.UUID, advisorID uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads
		SET assigned_advisor_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, leadColumns), id, advisorID)
	return scanLead(row)
}

// Schedule records the appointment time and moves the lead to scheduled in
// a single UPDATE so the two writes cannot be observed apart.
func (r *Repository) Schedule(ctx context.Context, id uuid.UUID, scheduledAt time.Time) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads
		SET scheduled_at = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, leadColumns), id, scheduledAt, domain.StatusScheduled)
	return scanLead(row)
}

type ListParams struct {
	Status            *domain.Status
	AssignedAdvisorID *uuid.UUID
	Unassigned        bool
	CampaignID        *uuid.UUID
	IsQualified       *bool
	Search            string
	Offset            int
	Limit             int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.AssignedAdvisorID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("assigned_advisor_id = $%d", argIdx))
		args = append(args, *params.AssignedAdvisorID)
		argIdx++
	}
	if params.Unassigned {
		whereClauses = append(whereClauses, "assigned_advisor_id IS NULL")
	}
	if params.CampaignID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *params.CampaignID)
		argIdx++
	}
	if params.IsQualified != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("is_qualified = $%d", argIdx))
		args = append(args, *params.IsQualified)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// CountByCampaign returns lead totals keyed by campaign for a set of
// campaign IDs.
func (r *Repository) CountByCampaign(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(campaignIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT campaign_id, COUNT(*)
		FROM leads
		WHERE campaign_id = ANY($1)
		GROUP BY campaign_id
	`, campaignIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(campaignIDs))
	for rows.Next() {
		var campaignID uuid.UUID
		var count int
		if err := rows.Scan(&campaignID, &count); err != nil {
			return nil, err
		}
		counts[campaignID] = count
	}
	return counts, rows.Err()
}
