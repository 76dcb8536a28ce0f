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

var ErrNotFound = errors.New("advisor not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Advisor struct {
	ID                 uuid.UUID
	Email              string
	FirstName          string
	LastName           string
	FirmName           string
	IsActive           bool
	MinAssets          *int64
	MaxAssets          *int64
	MinAge             *int
	MaxAge             *int
	TargetStates       []string
	TargetGoals        []string
	Bio                *string
	LogoFileKey        *string
	PhotoFileKey       *string
	LeadsAssignedCount int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const advisorColumns = `id, email, first_name, last_name, firm_name, is_active,
	min_assets, max_assets, min_age, max_age, target_states, target_goals,
	bio, logo_file_key, photo_file_key, leads_assigned_count, created_at, updated_at`

func scanAdvisor(row pgx.Row) (Advisor, error) {
	var a Advisor
	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.FirmName, &a.IsActive,
		&a.MinAssets, &a.MaxAssets, &a.MinAge, &a.MaxAge, &a.TargetStates, &a.TargetGoals,
		&a.Bio, &a.LogoFileKey, &a.PhotoFileKey, &a.LeadsAssignedCount,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Advisor{}, ErrNotFound
	}
	return a, err
}

type CreateAdvisorParams struct {
	Email     string
	FirstName string
	LastName  string
	FirmName  string
}

func (r *Repository) Create(ctx context.Context, params CreateAdvisorParams) (Advisor, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO advisors (email, first_name, last_name, firm_name)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, advisorColumns),
		params.Email, params.FirstName, params.LastName, params.FirmName,
	)
	return scanAdvisor(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Advisor, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM advisors WHERE id = $1
	`, advisorColumns), id)
	return scanAdvisor(row)
}

// ListActive returns all advisors eligible for matching.
// The ordering (created_at, id) is fixed so the matching engine's
// first-in-order tie-break is reproducible.
func (r *Repository) ListActive(ctx context.Context) ([]Advisor, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM advisors
		WHERE is_active = true
		ORDER BY created_at ASC, id ASC
	`, advisorColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advisors := make([]Advisor, 0)
	for rows.Next() {
		advisor, err := scanAdvisor(rows)
		if err != nil {
			return nil, err
		}
		advisors = append(advisors, advisor)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return advisors, nil
}

type ListParams struct {
	IsActive *bool
	Search   string
	Offset   int
	Limit    int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Advisor, int, error) {
	whereClauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if params.IsActive != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *params.IsActive)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR firm_name ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM advisors WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM advisors
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, advisorColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	advisors := make([]Advisor, 0)
	for rows.Next() {
		advisor, err := scanAdvisor(rows)
		if err != nil {
			return nil, 0, err
		}
		advisors = append(advisors, advisor)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return advisors, total, nil
}

// SetActive toggles an advisor's matching eligibility. Existing assignments
// are left untouched.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE advisors SET is_active = $2, updated_at = now() WHERE id = $1
	`, id, isActive)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TargetingUpdate carries the sparse targeting mutation. Nil pointers mean
// "leave unchanged"; the *Set flags distinguish "set to null" from omission
// for the nullable bound fields.
type TargetingUpdate struct {
	MinAssets    *int64
	MinAssetsSet bool
	MaxAssets    *int64
	MaxAssetsSet bool
	MinAge       *int
	MinAgeSet    bool
	MaxAge       *int
	MaxAgeSet    bool
	TargetStates []string
	TargetGoals  []string
}

// UpdateTargeting merges only the provided targeting fields. Updates are
// field-scoped SET clauses so concurrent sparse updates to disjoint fields
// never clobber each other.
func (r *Repository) UpdateTargeting(ctx context.Context, id uuid.UUID, update TargetingUpdate) (Advisor, error) {
	setClauses, args := buildTargetingSet(update)

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE advisors SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), len(args), advisorColumns)

	return scanAdvisor(r.pool.QueryRow(ctx, query, args...))
}

// buildTargetingSet translates a TargetingUpdate into SET clauses and args.
// Split out so the sparse-update contract is testable without a database.
func buildTargetingSet(update TargetingUpdate) ([]string, []interface{}) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{update.MinAssetsSet, "min_assets", update.MinAssets},
		{update.MaxAssetsSet, "max_assets", update.MaxAssets},
		{update.MinAgeSet, "min_age", update.MinAge},
		{update.MaxAgeSet, "max_age", update.MaxAge},
		{update.TargetStates != nil, "target_states", update.TargetStates},
		{update.TargetGoals != nil, "target_goals", update.TargetGoals},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	return setClauses, args
}

// BrandingUpdate carries the sparse branding mutation.
type BrandingUpdate struct {
	Bio             *string
	BioSet          bool
	LogoFileKey     *string
	LogoFileKeySet  bool
	PhotoFileKey    *string
	PhotoFileKeySet bool
	FirmName        *string
}

// UpdateBranding merges only the provided branding fields.
func (r *Repository) UpdateBranding(ctx context.Context, id uuid.UUID, update BrandingUpdate) (Advisor, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{update.BioSet, "bio", update.Bio},
		{update.LogoFileKeySet, "logo_file_key", update.LogoFileKey},
		{update.PhotoFileKeySet, "photo_file_key", update.PhotoFileKey},
		{update.FirmName != nil, "firm_name", update.FirmName},
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
		UPDATE advisors SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, advisorColumns)

	return scanAdvisor(r.pool.QueryRow(ctx, query, args...))
}

// IncrementLeadsAssigned bumps the load counter with a single atomic UPDATE.
// Concurrent assignments to the same advisor each add exactly one; a
// read-modify-write here would lose increments under load.
func (r *Repository) IncrementLeadsAssigned(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE advisors
		SET leads_assigned_count = leads_assigned_count + 1, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
