package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/topbid/auction-api/internal/auction/domain"
)

// AuctionRepository implements domain.AuctionRepository on postgres. The
// auction row carries the optimistic-lock version column; bets are
// append-only child rows ordered by their position in the bet sequence.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository creates a new instance of AuctionRepository.
func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// Save upserts the snapshot in one transaction. Updates guard on the
// version the snapshot was loaded at: zero rows affected on an existing id
// means a concurrent writer won and the caller gets ErrVersionConflict.
func (r *AuctionRepository) Save(ctx context.Context, snapshot domain.AuctionSnapshot) (domain.AuctionSnapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	savedVersion := snapshot.Version

	updateQuery := `
        UPDATE auctions
        SET status = $1, version = version + 1
        WHERE id = $2 AND version = $3
    `
	tag, err := tx.Exec(ctx, updateQuery, string(snapshot.Status), snapshot.ID.String(), snapshot.Version)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: failed to update auction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1)`, snapshot.ID.String()).Scan(&exists); err != nil {
			return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: failed to check auction existence: %w", err)
		}
		if exists {
			return domain.AuctionSnapshot{}, domain.ErrVersionConflict
		}

		insertQuery := `
            INSERT INTO auctions (id, code, minimal_price_amount, minimal_price_currency, start_date, end_date, creation_time, status, version)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `
		_, err = tx.Exec(ctx, insertQuery,
			snapshot.ID.String(),
			snapshot.Code,
			snapshot.MinimalPrice.Amount().String(),
			string(snapshot.MinimalPrice.Currency()),
			snapshot.StartDate,
			snapshot.EndDate,
			snapshot.CreationTime,
			string(snapshot.Status),
			snapshot.Version,
		)
		if err != nil {
			return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: failed to insert auction: %w", err)
		}
	} else {
		savedVersion++
	}

	// bets are immutable once accepted, only new tail rows get inserted
	betQuery := `
        INSERT INTO bets (id, auction_id, bidder_id, price_amount, price_currency, creation_time, position)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING
    `
	for position, bet := range snapshot.Bets {
		_, err = tx.Exec(ctx, betQuery,
			bet.ID.String(),
			snapshot.ID.String(),
			bet.BidderID.String(),
			bet.Price.Amount().String(),
			string(bet.Price.Currency()),
			bet.CreationTime,
			position,
		)
		if err != nil {
			return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: failed to insert bet: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: failed to commit transaction: %w", err)
	}

	saved := snapshot
	saved.Version = savedVersion
	return saved, nil
}

// FindOne retrieves a single auction matching the query, including its bets
// in bid order.
func (r *AuctionRepository) FindOne(ctx context.Context, query domain.AuctionQuery) (domain.AuctionSnapshot, error) {
	selectQuery := buildSelect(query) + " LIMIT 1"
	args := buildArgs(query)

	row := r.pool.QueryRow(ctx, selectQuery, args...)
	snapshot, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuctionSnapshot{}, domain.ErrAuctionNotFound
		}
		return domain.AuctionSnapshot{}, err
	}

	if err := r.loadBets(ctx, &snapshot); err != nil {
		return domain.AuctionSnapshot{}, err
	}
	return snapshot, nil
}

// FindAll retrieves every auction matching the query, each with its bets in
// bid order.
func (r *AuctionRepository) FindAll(ctx context.Context, query domain.AuctionQuery) ([]domain.AuctionSnapshot, error) {
	rows, err := r.pool.Query(ctx, buildSelect(query), buildArgs(query)...)
	if err != nil {
		return nil, fmt.Errorf("auction repository: failed to query auctions: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.AuctionSnapshot
	for rows.Next() {
		snapshot, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range snapshots {
		if err := r.loadBets(ctx, &snapshots[i]); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

func (r *AuctionRepository) loadBets(ctx context.Context, snapshot *domain.AuctionSnapshot) error {
	betsQuery := `
        SELECT id, bidder_id, price_amount::text, price_currency, creation_time
        FROM bets
        WHERE auction_id = $1
        ORDER BY position ASC
    `
	rows, err := r.pool.Query(ctx, betsQuery, snapshot.ID.String())
	if err != nil {
		return fmt.Errorf("auction repository: failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []domain.BetSnapshot
	for rows.Next() {
		var (
			id, bidderID, amount, currency string
			creationTime                   time.Time
		)
		if err := rows.Scan(&id, &bidderID, &amount, &currency, &creationTime); err != nil {
			return err
		}
		bet, err := mapBet(id, bidderID, amount, currency, creationTime)
		if err != nil {
			return err
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	snapshot.Bets = bets
	// the leading price lives in the bet rows, recompute it after loading
	if len(bets) > 0 {
		snapshot.CurrentAuctionedPrice = bets[len(bets)-1].Price
	} else {
		snapshot.CurrentAuctionedPrice = domain.ZeroMoney(snapshot.MinimalPrice.Currency())
	}
	return nil
}

func buildSelect(query domain.AuctionQuery) string {
	sql := `
        SELECT id, code, minimal_price_amount::text, minimal_price_currency, start_date, end_date, creation_time, status, version
        FROM auctions
    `
	var conditions []string
	arg := 1
	if query.Code != "" {
		conditions = append(conditions, fmt.Sprintf("code = $%d", arg))
		arg++
	}
	if len(query.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", arg))
	}
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	return sql
}

func buildArgs(query domain.AuctionQuery) []any {
	var args []any
	if query.Code != "" {
		args = append(args, query.Code)
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, 0, len(query.Statuses))
		for _, status := range query.Statuses {
			statuses = append(statuses, string(status))
		}
		args = append(args, statuses)
	}
	return args
}

func scanAuction(row pgx.Row) (domain.AuctionSnapshot, error) {
	var (
		id, code, amount, currency, status string
		startDate, endDate, creationTime   time.Time
		version                            int
	)
	err := row.Scan(&id, &code, &amount, &currency, &startDate, &endDate, &creationTime, &status, &version)
	if err != nil {
		return domain.AuctionSnapshot{}, err
	}
	return mapAuction(id, code, amount, currency, startDate, endDate, creationTime, status, version)
}

func mapAuction(id, code, amount, currency string, startDate, endDate, creationTime time.Time, status string, version int) (domain.AuctionSnapshot, error) {
	auctionID, err := domain.ParseID(id)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: bad auction id: %w", err)
	}
	parsedCurrency, err := domain.ParseCurrency(currency)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: bad currency: %w", err)
	}
	minimalPrice, err := domain.NewMoney(amount, parsedCurrency)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: bad minimal price: %w", err)
	}
	parsedStatus, err := domain.ParseAuctionStatus(status)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("auction repository: bad status: %w", err)
	}
	return domain.AuctionSnapshot{
		ID:           auctionID,
		Code:         code,
		MinimalPrice: minimalPrice,
		StartDate:    startDate,
		EndDate:      endDate,
		CreationTime: creationTime,
		Status:       parsedStatus,
		Version:      version,
	}, nil
}

func mapBet(id, bidderID, amount, currency string, creationTime time.Time) (domain.BetSnapshot, error) {
	betID, err := domain.ParseID(id)
	if err != nil {
		return domain.BetSnapshot{}, fmt.Errorf("auction repository: bad bet id: %w", err)
	}
	bidder, err := domain.ParseID(bidderID)
	if err != nil {
		return domain.BetSnapshot{}, fmt.Errorf("auction repository: bad bidder id: %w", err)
	}
	parsedCurrency, err := domain.ParseCurrency(currency)
	if err != nil {
		return domain.BetSnapshot{}, fmt.Errorf("auction repository: bad bet currency: %w", err)
	}
	price, err := domain.NewMoney(amount, parsedCurrency)
	if err != nil {
		return domain.BetSnapshot{}, fmt.Errorf("auction repository: bad bet price: %w", err)
	}
	return domain.BetSnapshot{
		ID:           betID,
		BidderID:     bidder,
		CreationTime: creationTime,
		Price:        price,
	}, nil
}
