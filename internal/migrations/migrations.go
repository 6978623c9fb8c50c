// Package migrations applies the embedded SQL schema and tracks the applied version
// in the schema_migrations table.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/books4all/internal/logger"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Migration is one numbered schema change.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version   int       `db:"version"`
	Name      string    `db:"name"`
	AppliedAt time.Time `db:"applied_at"`
}

// Status describes which migrations are applied and which are pending.
type Status struct {
	Current int
	Applied []AppliedMigration
	Pending []Migration
}

// Load reads <version>_<name>.up.sql / .down.sql pairs from fsys under dir.
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid migration file name %q", name)
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("invalid migration version in %q", name)
		}
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, name)
		}
		seen[version] = name

		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read up migration %s: %w", name, err)
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("read down migration %s: %w", base, err)
		}

		out = append(out, Migration{
			Version:    version,
			Name:       parts[1],
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Embedded returns the migrations shipped with the binary.
func Embedded() ([]Migration, error) {
	return Load(sqlFS, "sql")
}

// Runner applies migrations against a database.
type Runner struct {
	db         *sqlx.DB
	migrations []Migration
}

// NewRunner creates a Runner over the given migrations.
func NewRunner(db *sqlx.DB, migrations []Migration) *Runner {
	return &Runner{db: db, migrations: migrations}
}

const ensureTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    BIGINT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

func (r *Runner) ensureTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, ensureTableSQL); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) ([]AppliedMigration, error) {
	var rows []AppliedMigration
	err := r.db.SelectContext(ctx, &rows, `SELECT version, name, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	return rows, nil
}

// Up applies every pending migration in version order, each in its own transaction.
func (r *Runner) Up(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return err
	}
	if err := r.checkKnown(applied); err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}

	for _, m := range r.migrations {
		if done[m.Version] {
			logger.Log.Debugw("migration already applied", "migration", m.String())
			continue
		}
		logger.Log.Infow("applying migration", "migration", m.String())
		if err := r.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.UpScript); err != nil {
		return fmt.Errorf("apply migration %s: %w", m, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
		return fmt.Errorf("record migration %s: %w", m, err)
	}
	return tx.Commit()
}

// Down rolls back the given version. Only the latest applied version may be rolled back.
func (r *Runner) Down(ctx context.Context, version int) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 || applied[len(applied)-1].Version != version {
		return fmt.Errorf("migration %d is not the latest applied migration", version)
	}

	var target *Migration
	for i := range r.migrations {
		if r.migrations[i].Version == version {
			target = &r.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	logger.Log.Infow("rolling back migration", "migration", target.String())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollback %s: %w", target, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, target.DownScript); err != nil {
		return fmt.Errorf("rollback migration %s: %w", target, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version); err != nil {
		return fmt.Errorf("unrecord migration %s: %w", target, err)
	}
	return tx.Commit()
}

// Status reports the current schema version and pending migrations.
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	st := &Status{Applied: applied}
	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
		if a.Version > st.Current {
			st.Current = a.Version
		}
	}
	for _, m := range r.migrations {
		if !done[m.Version] {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

func (r *Runner) checkKnown(applied []AppliedMigration) error {
	known := make(map[int]bool, len(r.migrations))
	for _, m := range r.migrations {
		known[m.Version] = true
	}
	var unknown []string
	for _, a := range applied {
		if !known[a.Version] {
			unknown = append(unknown, fmt.Sprintf("%06d", a.Version))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("schema_migrations contains versions unknown to this binary: %s", strings.Join(unknown, ", "))
	}
	return nil
}
