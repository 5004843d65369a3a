package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cinegram/internal/model"
	"cinegram/internal/repository"
)

// CounterMaintainer translates reaction store mutations into the exact
// ±1 adjustments on the parent entity's denormalized counters. Every
// method takes the transaction the record mutation ran on, so counter
// and record always commit or roll back together.
//
// Movie ratings never pass through here: their average cannot be kept
// with ±1 arithmetic, so it is recomputed from the rating records on
// every read instead.
type CounterMaintainer struct {
	counters repository.CounterRepository
}

func NewCounterMaintainer(counters repository.CounterRepository) *CounterMaintainer {
	return &CounterMaintainer{counters: counters}
}

// OnCreate increments the counter matching the new record's type.
func (m *CounterMaintainer) OnCreate(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetID int64, rtype model.ReactionType) error {
	if err := m.counters.Apply(ctx, tx, kind, targetID, rtype, 1); err != nil {
		return fmt.Errorf("increment %s counter: %w", rtype, err)
	}
	return nil
}

// OnSwitch moves one count from the old type's counter to the new
// type's. The sum of the target's counters is unchanged.
func (m *CounterMaintainer) OnSwitch(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetID int64, oldType, newType model.ReactionType) error {
	if err := m.counters.Apply(ctx, tx, kind, targetID, oldType, -1); err != nil {
		return fmt.Errorf("decrement %s counter: %w", oldType, err)
	}
	if err := m.counters.Apply(ctx, tx, kind, targetID, newType, 1); err != nil {
		return fmt.Errorf("increment %s counter: %w", newType, err)
	}
	return nil
}

// OnRemove decrements the counter matching the removed record's type.
func (m *CounterMaintainer) OnRemove(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetID int64, rtype model.ReactionType) error {
	if err := m.counters.Apply(ctx, tx, kind, targetID, rtype, -1); err != nil {
		return fmt.Errorf("decrement %s counter: %w", rtype, err)
	}
	return nil
}
