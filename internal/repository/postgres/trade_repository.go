package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
)

type tradeRepository struct {
	db *sqlx.DB
}

func NewTradeRepository(db *sqlx.DB) repository.TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *domain.TradeOpportunity) error {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	query := `
		INSERT INTO trade_opportunities (id, user1_id, user2_id, item1_id, item2_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		trade.ID, trade.User1ID, trade.User2ID,
		trade.Item1ID, trade.Item2ID, trade.Status,
	).Scan(&trade.CreatedAt, &trade.UpdatedAt)
}

func (r *tradeRepository) GetByID(ctx context.Context, id string) (*domain.TradeOpportunity, error) {
	var trade domain.TradeOpportunity
	query := `SELECT * FROM trade_opportunities WHERE id = $1`
	err := r.db.GetContext(ctx, &trade, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) GetByItems(ctx context.Context, itemA, itemB string) (*domain.TradeOpportunity, error) {
	var trade domain.TradeOpportunity
	query := `
		SELECT * FROM trade_opportunities
		WHERE (item1_id = $1 AND item2_id = $2) OR (item1_id = $2 AND item2_id = $1)
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &trade, query, itemA, itemB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TradeOpportunity, error) {
	var trades []*domain.TradeOpportunity
	query := `
		SELECT * FROM trade_opportunities
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &trades, query, userID)
	return trades, err
}

func (r *tradeRepository) UpdateStatus(ctx context.Context, id string, status domain.TradeStatus) error {
	query := `UPDATE trade_opportunities SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

func (r *tradeRepository) UpdatePitch(ctx context.Context, id string, pitch string) error {
	query := `UPDATE trade_opportunities SET pitch = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, pitch, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}
