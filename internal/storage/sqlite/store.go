// Package sqlite provides a SQLite-backed fundraising ledger for local
// development and tests. Amounts are stored as integer cents.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"alumni/internal/domain"
	"alumni/internal/money"
	"alumni/internal/storage/sqlite/migrations"
)

const dateLayout = "2006-01-02"

// Store persists campaigns and donations in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; also keeps pragmas on a single connection
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FetchCampaignFinancials returns the goal and raised amounts of a campaign.
func (s *Store) FetchCampaignFinancials(ctx context.Context, campaignID string) (domain.CampaignFinancials, error) {
	var goal, raised int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT goal_cents, raised_cents FROM fundraising_campaigns WHERE id = ?`, campaignID,
	).Scan(&goal, &raised)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CampaignFinancials{}, domain.ErrNotFound
		}
		return domain.CampaignFinancials{}, err
	}
	return domain.CampaignFinancials{GoalAmount: money.FromCents(goal), RaisedAmount: money.FromCents(raised)}, nil
}

// AppendDonation inserts an immutable donation row.
func (s *Store) AppendDonation(ctx context.Context, donation *domain.Donation) (string, error) {
	if donation == nil {
		return "", fmt.Errorf("donation is required")
	}
	amount, err := money.Cents(donation.Amount)
	if err != nil {
		return "", fmt.Errorf("donation amount: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO donations (id, campaign_id, donor_id, amount_cents, payment_method, transaction_id, is_anonymous, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		donation.ID,
		donation.CampaignID,
		donation.DonorID,
		amount,
		donation.PaymentMethod,
		donation.TransactionID,
		donation.IsAnonymous,
		toMillis(donation.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return donation.ID, nil
}

// RecomputeRaisedTotal rewrites raised_cents from the donation rows.
func (s *Store) RecomputeRaisedTotal(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE fundraising_campaigns
SET raised_cents = (
    SELECT COALESCE(SUM(d.amount_cents), 0)
    FROM donations d
    WHERE d.campaign_id = fundraising_campaigns.id
), updated_at = ?
WHERE id = ?`, toMillis(time.Now()), campaignID)
	if err != nil {
		return decimal.Zero, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return decimal.Zero, domain.ErrNotFound
	}
	financials, err := s.FetchCampaignFinancials(ctx, campaignID)
	if err != nil {
		return decimal.Zero, err
	}
	return financials.RaisedAmount, nil
}

// CreateCampaign inserts a campaign record.
func (s *Store) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	goal, err := money.Cents(campaign.GoalAmount)
	if err != nil {
		return fmt.Errorf("campaign goal: %w", err)
	}
	raised, err := money.Cents(campaign.RaisedAmount)
	if err != nil {
		return fmt.Errorf("campaign raised amount: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO fundraising_campaigns (id, title, description, goal_cents, raised_cents, start_date, end_date, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.ID,
		campaign.Title,
		campaign.Description,
		goal,
		raised,
		formatDate(campaign.StartDate),
		formatDate(campaign.EndDate),
		campaign.CreatedBy,
		toMillis(campaign.CreatedAt),
		toMillis(campaign.UpdatedAt),
	)
	return err
}

const campaignColumns = `
SELECT fc.id, fc.title, fc.description, fc.goal_cents, fc.raised_cents, fc.start_date, fc.end_date,
       fc.created_by, fc.created_at, fc.updated_at, COUNT(d.id)
FROM fundraising_campaigns fc
LEFT JOIN donations d ON d.campaign_id = fc.id`

// ListCampaigns returns every campaign, newest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.sqlDB.QueryContext(ctx, campaignColumns+`
GROUP BY fc.id
ORDER BY fc.created_at DESC, fc.rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// GetCampaign returns domain.ErrNotFound for unknown ids.
func (s *Store) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	row := s.sqlDB.QueryRowContext(ctx, campaignColumns+`
WHERE fc.id = ?
GROUP BY fc.id`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// UpdateCampaign replaces the editable campaign fields.
func (s *Store) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	goal, err := money.Cents(campaign.GoalAmount)
	if err != nil {
		return fmt.Errorf("campaign goal: %w", err)
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE fundraising_campaigns
SET title = ?, description = ?, goal_cents = ?, start_date = ?, end_date = ?, updated_at = ?
WHERE id = ?`,
		campaign.Title,
		campaign.Description,
		goal,
		formatDate(campaign.StartDate),
		formatDate(campaign.EndDate),
		toMillis(campaign.UpdatedAt),
		campaign.ID,
	)
	return affectedOne(res, err)
}

// DeleteCampaign removes a campaign; its donations cascade.
func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM fundraising_campaigns WHERE id = ?`, id)
	return affectedOne(res, err)
}

const donationColumns = `
SELECT id, campaign_id, donor_id, amount_cents, payment_method, transaction_id, is_anonymous, created_at
FROM donations`

// ListCampaignDonations returns a campaign's donations, newest first.
func (s *Store) ListCampaignDonations(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	return s.queryDonations(ctx, donationColumns+`
WHERE campaign_id = ?
ORDER BY created_at DESC, rowid DESC`, campaignID)
}

// ListDonorDonations returns one donor's donations to a campaign.
func (s *Store) ListDonorDonations(ctx context.Context, campaignID, donorID string) ([]domain.Donation, error) {
	return s.queryDonations(ctx, donationColumns+`
WHERE campaign_id = ? AND donor_id = ?
ORDER BY created_at DESC, rowid DESC`, campaignID, donorID)
}

// TotalRaised sums all donations.
func (s *Store) TotalRaised(ctx context.Context) (decimal.Decimal, error) {
	var cents int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM donations`).Scan(&cents); err != nil {
		return decimal.Zero, err
	}
	return money.FromCents(cents), nil
}

func (s *Store) queryDonations(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var (
			d         domain.Donation
			cents     int64
			createdAt int64
		)
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorID, &cents, &d.PaymentMethod, &d.TransactionID, &d.IsAnonymous, &createdAt); err != nil {
			return nil, err
		}
		d.Amount = money.FromCents(cents)
		d.CreatedAt = fromMillis(createdAt)
		items = append(items, d)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row scanner) (*domain.Campaign, error) {
	var (
		c                    domain.Campaign
		goal, raised         int64
		startDate, endDate   sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &goal, &raised, &startDate, &endDate,
		&c.CreatedBy, &createdAt, &updatedAt, &c.DonationCount); err != nil {
		return nil, err
	}
	c.GoalAmount = money.FromCents(goal)
	c.RaisedAmount = money.FromCents(raised)
	c.StartDate = parseDate(startDate)
	c.EndDate = parseDate(endDate)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

func parseDate(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

var _ domain.FundraisingStore = (*Store)(nil)
