package database

import (
	"database/sql"
	"fmt"
)

// tables holds the schema for the submissions store. signup_submissions
// mirrors the typed projection column set; list-valued and map-valued columns
// are stored as JSON text. run_id is the upsert conflict key.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		created TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		changed TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS signup_submissions (
		run_id TEXT PRIMARY KEY,
		full_name TEXT,
		age_group TEXT,
		gender TEXT,
		email TEXT,
		phone_e164 TEXT,
		nationality TEXT,
		employment_status TEXT,
		activity_level TEXT,
		primary_goal TEXT,
		training_environment TEXT,
		weight_training_experience TEXT,
		greatest_challenge TEXT,
		details_general TEXT,
		sports_participation BOOLEAN,
		sports_list TEXT,
		sports_context TEXT,
		trainer_experience TEXT,
		trainer_benefits TEXT,
		trainer_benefits_details TEXT,
		trainer_challenges TEXT,
		trainer_challenges_details TEXT,
		trainer_stop_reasons TEXT,
		trainer_stop_details TEXT,
		trainer_past_benefits TEXT,
		trainer_past_benefits_details TEXT,
		future_trainer_intent TEXT,
		future_trainer_details TEXT,
		apps_used BOOLEAN,
		apps_list TEXT,
		apps_improvements TEXT,
		apps_improvements_details TEXT,
		subscription_intent TEXT,
		features_important TEXT,
		features_details TEXT,
		price_expectation TEXT,
		injuries TEXT,
		medication TEXT,
		limitations TEXT,
		early_access_choice TEXT,
		marketing_opt_in BOOLEAN,
		answers TEXT,
		consent_given_at TIMESTAMP,
		updated_at TIMESTAMP
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_updated_at ON signup_submissions(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_email ON signup_submissions(email)`,
}

// TableCreator handles the creation of the submissions store schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all queries needed to build the tables and indexes.
// Every statement is idempotent.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}
	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
