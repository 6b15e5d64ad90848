package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adstronaut/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, name, platform, status, health, budget, spent,
       impressions, clicks, conversions, ctr, cpc, roas, created_at, updated_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	var health *string
	if err := row.Scan(&c.ID, &c.Name, &c.Platform, &c.Status, &health, &c.Budget, &c.Spent,
		&c.Impressions, &c.Clicks, &c.Conversions, &c.CTR, &c.CPC, &c.ROAS,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if health != nil {
		c.Health = *health
	}
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts c. A zero CreatedAt is filled in by the database.
func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	var createdAt *time.Time
	if !c.CreatedAt.IsZero() {
		createdAt = &c.CreatedAt
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (name, platform, status, health, budget, spent,
		                       impressions, clicks, conversions, ctr, cpc, roas, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, now()))
		RETURNING id, created_at, updated_at
	`, c.Name, c.Platform, c.Status, nullable(c.Health), c.Budget, c.Spent,
		c.Impressions, c.Clicks, c.Conversions, c.CTR, c.CPC, c.ROAS, createdAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET name = $1, platform = $2, status = $3, health = $4,
		       budget = $5, spent = $6, impressions = $7, clicks = $8, conversions = $9,
		       ctr = $10, cpc = $11, roas = $12, updated_at = now()
		WHERE id = $13
		RETURNING updated_at
	`, c.Name, c.Platform, c.Status, nullable(c.Health),
		c.Budget, c.Spent, c.Impressions, c.Clicks, c.Conversions,
		c.CTR, c.CPC, c.ROAS, c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *CampaignRepo) UpdateHealth(ctx context.Context, id uuid.UUID, prev, next string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET health = $1, updated_at = now()
		WHERE id = $2 AND status = $3 AND health IS NOT DISTINCT FROM $4
	`, nullable(next), id, models.CampaignStatusActive, nullable(prev))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf("name ILIKE '%%' || $%d || '%%' ESCAPE '\\'", argIdx))
		args = append(args, escapeLike(s))
		argIdx++
	}
	if f.Platform != nil {
		where = append(where, fmt.Sprintf("platform = $%d", argIdx))
		args = append(args, *f.Platform)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.Since != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *f.Since)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	col, desc := f.sort()
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id LIMIT $%d OFFSET $%d", col, dir, argIdx, argIdx+1)
	args = append(args, f.limit(), f.offset())

	return r.query(ctx, query, args...)
}

func (r *CampaignRepo) All(ctx context.Context) ([]models.Campaign, error) {
	return r.query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC, id`)
}

func (r *CampaignRepo) query(ctx context.Context, query string, args ...any) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}
