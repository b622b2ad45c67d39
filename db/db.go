package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// DB is the database struct.
type DB struct {
	db *sql.DB
}

var _ federation.Database = (*DB)(nil)

// Open opens the sqlite database at path and prepares it for concurrent
// federation traffic. The handle is passed explicitly to every consumer;
// there is no package-level instance.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	var journalMode string
	if err := conn.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode); err != nil {
		log.Printf("Warning: Failed to enable WAL mode: %v", err)
	} else {
		log.Printf("Database journal mode: %s", journalMode)
	}

	// Optimize PRAGMAs for concurrent inbox workload
	conn.Exec("PRAGMA synchronous = NORMAL")
	conn.Exec("PRAGMA cache_size = -64000")
	conn.Exec("PRAGMA temp_store = MEMORY")
	conn.Exec("PRAGMA busy_timeout = 5000")
	conn.Exec("PRAGMA foreign_keys = ON")

	database := &DB{db: conn}
	if err := database.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.db.Close()
}

// wrapTransaction runs the given function within a transaction, retrying
// while the database is busy.
func (db *DB) wrapTransaction(f func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("error starting transaction: %s", err)
		return err
	}
	for {
		err = f(tx)
		if err != nil {
			serr, ok := err.(*sqlite.Error)
			if ok && serr.Code() == sqlitelib.SQLITE_BUSY {
				continue
			}
			tx.Rollback()
			return err
		}
		err = tx.Commit()
		if err != nil {
			log.Printf("error committing transaction: %s", err)
			return err
		}
		break
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite unique-constraint
// conflict.
func isUniqueViolation(err error) bool {
	serr, ok := err.(*sqlite.Error)
	if !ok {
		return false
	}
	return serr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE ||
		serr.Code() == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
}

// Local site and instance tables

const (
	sqlUpsertLocalSite = `INSERT INTO local_site(id, federation_enabled) VALUES (1, ?)
                        ON CONFLICT(id) DO UPDATE SET federation_enabled = excluded.federation_enabled`
	sqlSelectLocalSite = `SELECT federation_enabled FROM local_site WHERE id = 1`

	sqlUpsertInstance = `INSERT INTO instances(id, domain, allowed, blocked) VALUES (?, ?, ?, ?)
                        ON CONFLICT(domain) DO UPDATE SET allowed = excluded.allowed, blocked = excluded.blocked`
	sqlSelectAllowlist = `SELECT id, domain, allowed, blocked FROM instances WHERE allowed = 1`
	sqlSelectBlocklist = `SELECT id, domain, allowed, blocked FROM instances WHERE blocked = 1`
)

func (db *DB) SaveLocalSite(site *domain.LocalSite) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertLocalSite, boolToInt(site.FederationEnabled))
		return err
	})
}

func (db *DB) ReadLocalSite() (error, *domain.LocalSite) {
	row := db.db.QueryRow(sqlSelectLocalSite)
	var enabled int
	err := row.Scan(&enabled)
	if err == sql.ErrNoRows {
		return err, nil
	}
	if err != nil {
		return err, nil
	}
	return nil, &domain.LocalSite{FederationEnabled: enabled != 0}
}

func (db *DB) UpsertInstance(inst *domain.Instance) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertInstance, inst.Id.String(), inst.Domain,
			boolToInt(inst.Allowed), boolToInt(inst.Blocked))
		return err
	})
}

func (db *DB) ReadAllowlist() (error, *[]domain.Instance) {
	return db.readInstances(sqlSelectAllowlist)
}

func (db *DB) ReadBlocklist() (error, *[]domain.Instance) {
	return db.readInstances(sqlSelectBlocklist)
}

func (db *DB) readInstances(query string) (error, *[]domain.Instance) {
	rows, err := db.db.Query(query)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var instances []domain.Instance
	for rows.Next() {
		var inst domain.Instance
		var id string
		var allowed, blocked int
		if err := rows.Scan(&id, &inst.Domain, &allowed, &blocked); err != nil {
			return err, nil
		}
		inst.Id = mustParseUUID(id)
		inst.Allowed = allowed != 0
		inst.Blocked = blocked != 0
		instances = append(instances, inst)
	}
	return rows.Err(), &instances
}

// Activity ledger

const (
	sqlInsertLedgerEntry = `INSERT INTO activities(id, ap_id, data, local, sensitive, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	sqlSelectLedgerEntry = `SELECT id, ap_id, data, local, sensitive, created_at FROM activities WHERE ap_id = ?`
)

// CreateLedgerEntry inserts a ledger row keyed uniquely by ap_id. The
// insert itself arbitrates concurrent delivery of the same activity: a
// unique-constraint conflict comes back as federation.ErrDuplicate and the
// loser must produce no further side effects.
func (db *DB) CreateLedgerEntry(entry *domain.LedgerEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := db.db.Exec(sqlInsertLedgerEntry,
		entry.Id.String(),
		entry.ApID,
		entry.Data,
		boolToInt(entry.Local),
		boolToInt(entry.Sensitive),
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", federation.ErrDuplicate, entry.ApID)
		}
		return err
	}
	return nil
}

func (db *DB) ReadLedgerEntry(apID string) (error, *domain.LedgerEntry) {
	row := db.db.QueryRow(sqlSelectLedgerEntry, apID)
	var entry domain.LedgerEntry
	var id string
	var local, sensitive int
	err := row.Scan(&id, &entry.ApID, &entry.Data, &local, &sensitive, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		return err, nil
	}
	if err != nil {
		return err, nil
	}
	entry.Id = mustParseUUID(id)
	entry.Local = local != 0
	entry.Sensitive = sensitive != 0
	return nil, &entry
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
