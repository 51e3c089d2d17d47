// Package user persists landing-page leads.
package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/user"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/database"
	"github.com/ettle-app/ettle-go/internal/infrastructure/security"
)

// LeadRepository reads and writes leads rows.
type LeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewLeadRepository creates a lead repository.
func NewLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *LeadRepository {
	return &LeadRepository{db: db, logger: logger}
}

// UpsertByEmail stores a lead, touching the changed timestamp when the email
// is already known. Returns the stored lead and whether it was newly created.
func (r *LeadRepository) UpsertByEmail(ctx context.Context, email string) (*user.Lead, bool, error) {
	const query = `
		INSERT INTO leads (id, email, created, changed) VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET changed = excluded.changed`

	now := time.Now().UTC()
	id := security.GenerateULID()

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, id, email, now, now)
	duration := time.Since(start)

	if duration > database.GetSlowQueryThreshold() {
		r.logger.LogSlowQuery(query, duration)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert lead: %w", err)
	}

	lead, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	created := lead.ID == id

	r.logger.Database().Debug("Lead upserted",
		"leadId", lead.ID, "created", created, "duration", duration)
	return lead, created, nil
}

// FindByEmail returns the lead with the given email.
func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*user.Lead, error) {
	const query = `SELECT id, email, created, changed FROM leads WHERE email = ?`

	var lead user.Lead
	err := r.db.QueryRowContext(ctx, query, email).Scan(&lead.ID, &lead.Email, &lead.Created, &lead.Changed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return &lead, nil
}

// Count returns the number of captured leads.
func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM leads`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}
