package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"cinegram/internal/model"
)

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert creates a reaction or switches its type in place.
//
// The existing row is locked with FOR UPDATE so that two concurrent
// switches from the same user serialize; the UNIQUE constraint on
// (user_id, target_kind, target_id) is the backstop for two concurrent
// first-time reactions that both observe "no existing record".
func (r *reactionRepository) Upsert(ctx context.Context, tx *sqlx.Tx, userID int64, kind model.TargetKind, targetID int64, rtype model.ReactionType) (*model.ReactionRecord, bool, model.ReactionType, error) {
	var existing model.ReactionRecord
	err := tx.GetContext(ctx, &existing, `
		SELECT id, user_id, target_kind, target_id, reaction_type, created_at, updated_at
		FROM reactions
		WHERE user_id = $1 AND target_kind = $2 AND target_id = $3
		FOR UPDATE
	`, userID, kind, targetID)

	if err == sql.ErrNoRows {
		var rec model.ReactionRecord
		err = tx.GetContext(ctx, &rec, `
			INSERT INTO reactions (user_id, target_kind, target_id, reaction_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, target_kind, target_id, reaction_type, created_at, updated_at
		`, userID, kind, targetID, rtype)
		if err != nil {
			// A concurrent request inserted first; treat like a re-submit.
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return nil, false, "", model.ErrDuplicateReaction
			}
			return nil, false, "", fmt.Errorf("insert reaction: %w", err)
		}
		return &rec, true, "", nil
	}
	if err != nil {
		return nil, false, "", fmt.Errorf("get reaction: %w", err)
	}

	if existing.Type == rtype {
		return nil, false, "", model.ErrDuplicateReaction
	}

	var rec model.ReactionRecord
	err = tx.GetContext(ctx, &rec, `
		UPDATE reactions
		SET reaction_type = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, target_kind, target_id, reaction_type, created_at, updated_at
	`, rtype, existing.ID)
	if err != nil {
		return nil, false, "", fmt.Errorf("switch reaction type: %w", err)
	}
	return &rec, false, existing.Type, nil
}

// Remove deletes the user's reaction and returns its type so the caller
// can decrement the matching counter in the same transaction.
func (r *reactionRepository) Remove(ctx context.Context, tx *sqlx.Tx, userID int64, kind model.TargetKind, targetID int64) (model.ReactionType, error) {
	var rtype model.ReactionType
	err := tx.GetContext(ctx, &rtype, `
		DELETE FROM reactions
		WHERE user_id = $1 AND target_kind = $2 AND target_id = $3
		RETURNING reaction_type
	`, userID, kind, targetID)
	if err == sql.ErrNoRows {
		return "", model.ErrReactionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete reaction: %w", err)
	}
	return rtype, nil
}

// FindByUser returns the user's reaction on a target, if any.
func (r *reactionRepository) FindByUser(ctx context.Context, userID int64, kind model.TargetKind, targetID int64) (*model.ReactionRecord, error) {
	var rec model.ReactionRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, user_id, target_kind, target_id, reaction_type, created_at, updated_at
		FROM reactions
		WHERE user_id = $1 AND target_kind = $2 AND target_id = $3
	`, userID, kind, targetID)
	if err == sql.ErrNoRows {
		return nil, model.ErrReactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find reaction: %w", err)
	}
	return &rec, nil
}

// CountsByTarget returns reaction counts per type for a target.
func (r *reactionRepository) CountsByTarget(ctx context.Context, kind model.TargetKind, targetID int64) (map[model.ReactionType]int, error) {
	type countRow struct {
		Type  model.ReactionType `db:"reaction_type"`
		Count int                `db:"count"`
	}
	var rows []countRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT reaction_type, COUNT(*) AS count
		FROM reactions
		WHERE target_kind = $1 AND target_id = $2
		GROUP BY reaction_type
	`, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}

	counts := make(map[model.ReactionType]int, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
