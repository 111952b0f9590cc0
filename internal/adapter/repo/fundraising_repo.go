package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"alumni/internal/domain"
	"alumni/internal/infra"
	"alumni/internal/sqlinline"
)

// FundraisingRepositoryPG implements domain.FundraisingStore backed by PostgreSQL.
type FundraisingRepositoryPG struct {
	db infra.SQLExecutor
}

// NewFundraisingRepository creates a new FundraisingRepositoryPG.
func NewFundraisingRepository(db infra.SQLExecutor) *FundraisingRepositoryPG {
	return &FundraisingRepositoryPG{db: db}
}

// EnsureSchema creates the campaign and donation tables when missing.
func (r *FundraisingRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// FetchCampaignFinancials returns the goal and raised amounts of a campaign.
func (r *FundraisingRepositoryPG) FetchCampaignFinancials(ctx context.Context, campaignID string) (domain.CampaignFinancials, error) {
	if !validID(campaignID) {
		return domain.CampaignFinancials{}, domain.ErrNotFound
	}
	var goal, raised string
	if err := r.db.QueryRow(ctx, sqlinline.QSelectCampaignFinancials, campaignID).Scan(&goal, &raised); err != nil {
		return domain.CampaignFinancials{}, notFound(err)
	}
	goalAmount, err := parseNumeric(goal)
	if err != nil {
		return domain.CampaignFinancials{}, err
	}
	raisedAmount, err := parseNumeric(raised)
	if err != nil {
		return domain.CampaignFinancials{}, err
	}
	return domain.CampaignFinancials{GoalAmount: goalAmount, RaisedAmount: raisedAmount}, nil
}

// AppendDonation inserts an immutable donation row and returns its id.
func (r *FundraisingRepositoryPG) AppendDonation(ctx context.Context, donation *domain.Donation) (string, error) {
	if donation == nil {
		return "", fmt.Errorf("donation is required")
	}
	if !validID(donation.CampaignID) {
		return "", domain.ErrNotFound
	}
	var id string
	err := r.db.QueryRow(ctx, sqlinline.QInsertDonation,
		donation.ID,
		donation.CampaignID,
		donation.DonorID,
		donation.Amount.String(),
		donation.PaymentMethod,
		donation.TransactionID,
		donation.IsAnonymous,
		donation.CreatedAt,
	).Scan(&id)
	if err != nil {
		if infra.IsForeignKeyViolation(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// RecomputeRaisedTotal rewrites raised_amount from the donation rows.
func (r *FundraisingRepositoryPG) RecomputeRaisedTotal(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	if !validID(campaignID) {
		return decimal.Zero, domain.ErrNotFound
	}
	var raised string
	if err := r.db.QueryRow(ctx, sqlinline.QRecomputeRaisedAmount, campaignID).Scan(&raised); err != nil {
		return decimal.Zero, notFound(err)
	}
	return parseNumeric(raised)
}

// CreateCampaign inserts a campaign record.
func (r *FundraisingRepositoryPG) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	_, err := r.db.Exec(ctx, sqlinline.QInsertCampaign,
		campaign.ID,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount.String(),
		campaign.RaisedAmount.String(),
		campaign.StartDate,
		campaign.EndDate,
		campaign.CreatedBy,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	return err
}

// ListCampaigns returns every campaign, newest first.
func (r *FundraisingRepositoryPG) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCampaigns)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCampaign fetches a campaign with its donation count.
func (r *FundraisingRepositoryPG) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return scanCampaign(r.db.QueryRow(ctx, sqlinline.QSelectCampaignByID, id))
}

// UpdateCampaign replaces the editable campaign fields.
func (r *FundraisingRepositoryPG) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	if !validID(campaign.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, sqlinline.QUpdateCampaign,
		campaign.ID,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount.String(),
		campaign.StartDate,
		campaign.EndDate,
		campaign.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCampaign removes a campaign; its donations cascade.
func (r *FundraisingRepositoryPG) DeleteCampaign(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteCampaign, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListCampaignDonations returns a campaign's donations, newest first.
func (r *FundraisingRepositoryPG) ListCampaignDonations(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	if !validID(campaignID) {
		return nil, nil
	}
	return r.queryDonations(ctx, sqlinline.QListCampaignDonations, campaignID)
}

// ListDonorDonations returns one donor's donations to a campaign.
func (r *FundraisingRepositoryPG) ListDonorDonations(ctx context.Context, campaignID, donorID string) ([]domain.Donation, error) {
	if !validID(campaignID) {
		return nil, nil
	}
	return r.queryDonations(ctx, sqlinline.QListDonorDonations, campaignID, donorID)
}

// TotalRaised sums all donations.
func (r *FundraisingRepositoryPG) TotalRaised(ctx context.Context) (decimal.Decimal, error) {
	var total string
	if err := r.db.QueryRow(ctx, sqlinline.QSumDonations).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return parseNumeric(total)
}

func (r *FundraisingRepositoryPG) queryDonations(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var (
			d      domain.Donation
			amount string
		)
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorID, &amount, &d.PaymentMethod, &d.TransactionID, &d.IsAnonymous, &d.CreatedAt); err != nil {
			return nil, err
		}
		if d.Amount, err = parseNumeric(amount); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c            domain.Campaign
		goal, raised string
		start, end   *time.Time
	)
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&goal,
		&raised,
		&start,
		&end,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DonationCount,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if c.GoalAmount, err = parseNumeric(goal); err != nil {
		return nil, err
	}
	if c.RaisedAmount, err = parseNumeric(raised); err != nil {
		return nil, err
	}
	c.StartDate = start
	c.EndDate = end
	return &c, nil
}

func notFound(err error) error {
	if infra.IsNoRows(err) {
		return domain.ErrNotFound
	}
	return err
}

func parseNumeric(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", v, err)
	}
	return d, nil
}

// Ids are uuid columns; anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var _ domain.FundraisingStore = (*FundraisingRepositoryPG)(nil)
