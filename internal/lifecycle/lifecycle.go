// Package lifecycle implements the request/approval state machine shared
// by every tradable resource kind. A resource moves
//
//	available -> pending -> terminal (rented/booked/sold)
//	pending   -> available (rejection)
//
// and terminal states have no outgoing transition. Each transition is a
// single conditional UPDATE whose WHERE clause carries the guard, so the
// database evaluates guard and effect atomically: under concurrent
// requests on one available row exactly one write reports rows-affected=1
// and every other caller sees the guard fail.
package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/farmaid/farmaid-server/internal/apperrors"
)

// Resource states
const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusRented    = "rented"
	StatusBooked    = "booked"
	StatusSold      = "sold"
)

// Kind describes one resource table to the engine. ProviderColumn is the
// column holding the owning user, which differs per table in the schema.
type Kind struct {
	Name           string // singular, used in messages ("land", "loan", ...)
	Table          string
	ProviderColumn string
	ProviderRole   string
	Terminal       string
}

var (
	Land       = Kind{Name: "land", Table: "lands", ProviderColumn: "owner_id", ProviderRole: "landowner", Terminal: StatusRented}
	Loan       = Kind{Name: "loan", Table: "loans", ProviderColumn: "bank_id", ProviderRole: "bank", Terminal: StatusBooked}
	Pesticide  = Kind{Name: "pesticide", Table: "pesticides", ProviderColumn: "store_id", ProviderRole: "pesticide_store", Terminal: StatusSold}
	Instrument = Kind{Name: "instrument", Table: "instruments", ProviderColumn: "owner_id", ProviderRole: "instrument_owner", Terminal: StatusRented}
)

// Kinds lists every resource kind the engine governs
var Kinds = []Kind{Land, Loan, Pesticide, Instrument}

// Engine applies lifecycle transitions. Only the engine may write the
// status and requested_by columns.
type Engine struct {
	db *sqlx.DB
}

// NewEngine creates a lifecycle engine over the given database
func NewEngine(db *sqlx.DB) *Engine {
	return &Engine{db: db}
}

// Request claims an available resource for a farmer. The guard
// (status='available') is part of the UPDATE itself; a read-then-write
// check here would reintroduce the race the conditional update avoids.
func (e *Engine) Request(ctx context.Context, kind Kind, resourceID, requesterID string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET status = $1, requested_by = $2 WHERE id = $3 AND status = $4`,
		kind.Table,
	)

	res, err := e.db.ExecContext(ctx, query, StatusPending, requesterID, resourceID, StatusAvailable)
	if err != nil {
		return fmt.Errorf("error requesting %s: %w", kind.Name, err)
	}

	return e.checkAffected(ctx, kind, resourceID, res,
		fmt.Sprintf("%s is not available", kind.Name))
}

// Accept moves a pending resource to its terminal state. Whoever is
// recorded in requested_by is implicitly the accepted party.
func (e *Engine) Accept(ctx context.Context, kind Kind, resourceID string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET status = $1 WHERE id = $2 AND status = $3`,
		kind.Table,
	)

	res, err := e.db.ExecContext(ctx, query, kind.Terminal, resourceID, StatusPending)
	if err != nil {
		return fmt.Errorf("error accepting %s request: %w", kind.Name, err)
	}

	return e.checkAffected(ctx, kind, resourceID, res,
		fmt.Sprintf("%s has no pending request", kind.Name))
}

// Reject returns a pending resource to the pool and clears the claimant
func (e *Engine) Reject(ctx context.Context, kind Kind, resourceID string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET status = $1, requested_by = NULL WHERE id = $2 AND status = $3`,
		kind.Table,
	)

	res, err := e.db.ExecContext(ctx, query, StatusAvailable, resourceID, StatusPending)
	if err != nil {
		return fmt.Errorf("error rejecting %s request: %w", kind.Name, err)
	}

	return e.checkAffected(ctx, kind, resourceID, res,
		fmt.Sprintf("%s has no pending request", kind.Name))
}

// checkAffected distinguishes a failed guard from a missing row once a
// conditional update reports zero rows affected.
func (e *Engine) checkAffected(ctx context.Context, kind Kind, resourceID string, res sql.Result, conflictMsg string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query := fmt.Sprintf(`SELECT status FROM %s WHERE id = $1`, kind.Table)

	var status string
	if err := e.db.GetContext(ctx, &status, query, resourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound(fmt.Sprintf("%s not found", kind.Name))
		}
		return fmt.Errorf("error checking %s status: %w", kind.Name, err)
	}

	return apperrors.Conflict(conflictMsg)
}
