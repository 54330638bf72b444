package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// sqlitePragmas are appended to file DSNs: WAL, busy timeout and foreign keys.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Open opens a database for the given driver and verifies the connection.
// PRE: driver is DriverSQLite or DriverPostgres; dsn is non-empty
// POST: Returns a live pool sized for the driver
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.Contains(dsn, "_pragma=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + sqlitePragmas
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite && dsn == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// migrations is the ordered schema history. Index i holds the statements of version i+1.
// Statements are portable between SQLite and PostgreSQL; timestamps are stored as RFC 3339 text.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS medical_staff (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS patient (
			staff_id TEXT NOT NULL REFERENCES medical_staff(id),
			email TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			date_of_birth TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL,
			PRIMARY KEY (staff_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS activity (
			name TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			time_limit INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS patient_activity (
			patient_email TEXT NOT NULL,
			activity_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			time_limit INTEGER NOT NULL,
			PRIMARY KEY (patient_email, activity_name)
		)`,
		`CREATE TABLE IF NOT EXISTS score_document (
			id TEXT PRIMARY KEY,
			patient_email TEXT NOT NULL,
			received_at TEXT NOT NULL,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_document_patient ON score_document (patient_email, received_at)`,
		`CREATE TABLE IF NOT EXISTS comment (
			id TEXT PRIMARY KEY,
			patient_email TEXT NOT NULL,
			activity TEXT NOT NULL,
			comment_date TEXT NOT NULL,
			body TEXT NOT NULL,
			author_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comment_thread ON comment (patient_email, activity, comment_date)`,
	},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the applied schema version, 0 for an empty database.
// PRE: db is a valid database connection
// POST: schema_version table exists
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every migration newer than the recorded schema version.
// PRE: db is a valid database connection for driver
// POST: Schema is at LatestSchemaVersion; each version is applied in its own transaction
func MigrateDB(db *sql.DB, driver string) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		for _, stmt := range migrations[i] {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d: %w", version, err)
			}
		}
		if _, err := tx.Exec(Rebind(driver, `INSERT INTO schema_version (version) VALUES (?)`), version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		slog.Info("schema_migrated", "version", version, "driver", driver)
	}
	return nil
}
