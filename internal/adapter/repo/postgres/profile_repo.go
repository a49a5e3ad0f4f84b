package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nextmatch/matching-engine/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by ProfileRepo, kept
// narrow so tests can satisfy it with a hand-rolled stub.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileRepo implements domain.ProfileStore against PostgreSQL,
// storing each profile as a JSONB blob keyed by caller-supplied ID.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

var _ domain.ProfileStore = (*ProfileRepo)(nil)

func (r *ProfileRepo) SaveCandidate(ctx domain.Context, id string, p domain.CandidateProfile) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.SaveCandidate")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "candidate_profiles"),
	)

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("op=profile.save_candidate.encode: %w", err)
	}
	q := `INSERT INTO candidate_profiles (id, payload, updated_at) VALUES ($1,$2,$3)
	      ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.Pool.Exec(ctx, q, id, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=profile.save_candidate: %w", err)
	}
	return nil
}

func (r *ProfileRepo) GetCandidate(ctx domain.Context, id string) (domain.CandidateProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetCandidate")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "candidate_profiles"),
	)

	q := `SELECT payload FROM candidate_profiles WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == pgx.ErrNoRows {
			return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_candidate: %w", domain.ErrNotFound)
		}
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_candidate: %w", err)
	}
	var p domain.CandidateProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_candidate.decode: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) SaveCompany(ctx domain.Context, id string, p domain.CompanyProfile) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.SaveCompany")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "company_profiles"),
	)

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("op=profile.save_company.encode: %w", err)
	}
	q := `INSERT INTO company_profiles (id, payload, updated_at) VALUES ($1,$2,$3)
	      ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.Pool.Exec(ctx, q, id, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=profile.save_company: %w", err)
	}
	return nil
}

func (r *ProfileRepo) GetCompany(ctx domain.Context, id string) (domain.CompanyProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetCompany")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "company_profiles"),
	)

	q := `SELECT payload FROM company_profiles WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == pgx.ErrNoRows {
			return domain.CompanyProfile{}, fmt.Errorf("op=profile.get_company: %w", domain.ErrNotFound)
		}
		return domain.CompanyProfile{}, fmt.Errorf("op=profile.get_company: %w", err)
	}
	var p domain.CompanyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("op=profile.get_company.decode: %w", err)
	}
	return p, nil
}
