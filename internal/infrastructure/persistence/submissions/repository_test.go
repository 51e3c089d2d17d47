package submissions

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/database"
	_ "github.com/mattn/go-sqlite3"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every pooled connection to :memory: would get its own database.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := database.NewTableCreator().CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("NewChanneledLogger: %v", err)
	}

	return NewRepository(&database.DB{DB: conn}, logger)
}

func TestUpsertInsertThenUpdate(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := forms.Record{
		"run_id":     "run-1",
		"full_name":  "Ada Lovelace",
		"updated_at": "2026-03-01T10:00:00Z",
		"answers":    forms.Answers{forms.Key(2): forms.Text("Ada Lovelace")},
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert(insert): %v", err)
	}

	second := forms.Record{
		"run_id":     "run-1",
		"age_group":  "25-34",
		"updated_at": "2026-03-01T10:01:00Z",
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert(update): %v", err)
	}

	row, err := repo.FindByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("FindByRunID: %v", err)
	}
	// The second upsert must not clobber columns it did not carry.
	if row["full_name"] != "Ada Lovelace" {
		t.Errorf("full_name = %v, want Ada Lovelace", row["full_name"])
	}
	if row["age_group"] != "25-34" {
		t.Errorf("age_group = %v, want 25-34", row["age_group"])
	}
	if row["updated_at"] != "2026-03-01T10:01:00Z" {
		t.Errorf("updated_at = %v, want the later stamp", row["updated_at"])
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 1 {
		t.Errorf("Count() = %d, %v, want 1 row", count, err)
	}
}

func TestUpsertEncodesListsAsJSON(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	rec := forms.Record{
		"run_id":           "run-2",
		"trainer_benefits": []string{"Accountability", "Other: injury prevention"},
		"marketing_opt_in": true,
		"full_name":        nil,
		"updated_at":       "2026-03-01T10:00:00Z",
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	row, err := repo.FindByRunID(ctx, "run-2")
	if err != nil {
		t.Fatalf("FindByRunID: %v", err)
	}
	if row["trainer_benefits"] != `["Accountability","Other: injury prevention"]` {
		t.Errorf("trainer_benefits = %v", row["trainer_benefits"])
	}
	if row["full_name"] != nil {
		t.Errorf("full_name = %v, want nil", row["full_name"])
	}
}

func TestUpsertRequiresRunID(t *testing.T) {
	repo := testRepo(t)
	if err := repo.Upsert(context.Background(), forms.Record{"full_name": "Ada"}); err == nil {
		t.Error("Upsert without run_id did not error")
	}
}

func TestFindByRunIDMissing(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.FindByRunID(context.Background(), "nope"); err != sql.ErrNoRows {
		t.Errorf("FindByRunID(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, rec := range []forms.Record{
		{"run_id": "run-a", "updated_at": "2026-03-01T10:00:00Z"},
		{"run_id": "run-b", "updated_at": "2026-03-01T11:00:00Z"},
	} {
		if err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	rows, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 || rows[0]["run_id"] != "run-b" {
		t.Errorf("List returned %d rows, first %v", len(rows), rows[0]["run_id"])
	}
}
