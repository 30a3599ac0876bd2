package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS param_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	bundle        BLOB NOT NULL,
	note          TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES param_versions(version_id)
);

CREATE TABLE IF NOT EXISTS active_params (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES param_versions(version_id)
);

CREATE TABLE IF NOT EXISTS inference_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	params_version TEXT,
	method         TEXT NOT NULL,
	profile_hash   TEXT NOT NULL,
	path_json      TEXT NOT NULL,
	confidence     REAL NOT NULL,
	eval_passed    INTEGER NOT NULL,
	reason         TEXT,
	created_at     TEXT NOT NULL
);
`

// TimeLayout is a fixed-width RFC 3339 layout so stored timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #endregion schema

// #region store-struct
// Store keeps versioned parameter bundles in SQLite. Every version is immutable; the
// active_params row points at the one the service loads on startup.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region create-initial
// CreateInitial stores p as a root version and makes it active.
func (s *Store) CreateInitial(p *model.Params, note string) (ParamRecord, error) {
	return s.insert("", p, note)
}

// #endregion create-initial

// #region commit
// Commit stores p as a child of parentID and makes it active atomically.
func (s *Store) Commit(parentID string, p *model.Params, note string) (ParamRecord, error) {
	if parentID == "" {
		return ParamRecord{}, fmt.Errorf("commit: parent version required")
	}
	return s.insert(parentID, p, note)
}

func (s *Store) insert(parentID string, p *model.Params, note string) (ParamRecord, error) {
	if p == nil {
		return ParamRecord{}, fmt.Errorf("insert version: nil params")
	}
	rec := ParamRecord{
		VersionID: uuid.New().String(),
		ParentID:  parentID,
		Params:    p,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ParamRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO param_versions (version_id, parent_id, bundle, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.VersionID, nullIfEmpty(parentID), model.MarshalBundle(p), nullIfEmpty(note),
		rec.CreatedAt.Format(TimeLayout),
	)
	if err != nil {
		return ParamRecord{}, fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_params (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		rec.VersionID,
	)
	if err != nil {
		return ParamRecord{}, fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ParamRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion commit

// #region get-current
// GetCurrent reads the active parameter version.
func (s *Store) GetCurrent() (ParamRecord, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_params WHERE id = 1`).Scan(&versionID)
	if err != nil {
		return ParamRecord{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(versionID)
}

// #endregion get-current

// #region get-version
// GetVersion retrieves and revalidates a specific parameter version.
func (s *Store) GetVersion(id string) (ParamRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, bundle, note, created_at
		 FROM param_versions WHERE version_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return ParamRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-version

// #region activate
// Activate points the active pointer at an existing version.
func (s *Store) Activate(targetVersionID string) error {
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM param_versions WHERE version_id = ?`, targetVersionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("version %s not found", targetVersionID)
	}

	_, err = s.db.Exec(`UPDATE active_params SET version_id = ? WHERE id = 1`, targetVersionID)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	return nil
}

// #endregion activate

// #region ensure-active
// EnsureActive returns the active version, storing fallback as the initial version when
// the store is empty.
func (s *Store) EnsureActive(fallback *model.Params) (ParamRecord, error) {
	rec, err := s.GetCurrent()
	if err == nil {
		return rec, nil
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM active_params`).Scan(&count); err != nil {
		return ParamRecord{}, fmt.Errorf("count active: %w", err)
	}
	if count > 0 {
		return ParamRecord{}, err
	}
	return s.CreateInitial(fallback, "default parameters")
}

// #endregion ensure-active

// #region list-versions
// ListVersions returns the most recent parameter versions.
func (s *Store) ListVersions(limit int) ([]ParamRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, bundle, note, created_at
		 FROM param_versions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []ParamRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ActiveVersionID returns the active version ID, or "" when none is set.
func (s *Store) ActiveVersionID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT version_id FROM active_params WHERE id = 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("active version: %w", err)
	}
	return id, nil
}

// #endregion list-versions

// #region helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (ParamRecord, error) {
	var rec ParamRecord
	var parentID, note sql.NullString
	var bundle []byte
	var createdStr string

	if err := row.Scan(&rec.VersionID, &parentID, &bundle, &note, &createdStr); err != nil {
		return ParamRecord{}, err
	}
	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	if note.Valid {
		rec.Note = note.String
	}
	p, err := model.UnmarshalBundle(bundle)
	if err != nil {
		return ParamRecord{}, fmt.Errorf("decode bundle: %w", err)
	}
	rec.Params = p
	rec.CreatedAt, _ = time.Parse(TimeLayout, createdStr)
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
