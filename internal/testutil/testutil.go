package testutil

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/isdelr/medicare-be/internal/database"
)

// OpenTestDB opens a shared-cache in-memory SQLite database and applies the
// schema. The name keeps the memory database distinct per test. The pool is
// capped at one connection; shared-cache in-memory databases take table locks
// that the busy timeout does not cover.
func OpenTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	db, err := database.New("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
