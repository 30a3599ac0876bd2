package logging

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/state"
)

// #region log-inference
// LogInference writes an audit entry to the inference_log table.
func LogInference(db *sql.DB, entry InferenceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.RunID == "" {
		entry.RunID = uuid.New().String()
	}
	path := entry.Path
	if path == nil {
		path = []string{}
	}
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO inference_log (run_id, params_version, method, profile_hash, path_json, confidence, eval_passed, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullIfEmpty(entry.ParamsVersion),
		entry.Method,
		entry.ProfileHash,
		string(pathJSON),
		entry.Confidence,
		boolInt(entry.EvalPassed),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(state.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("log inference: %w", err)
	}
	return nil
}

// #endregion log-inference

// #region list-inferences
// ListInferences returns the most recent audit entries, newest first.
func ListInferences(db *sql.DB, limit int) ([]InferenceEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, params_version, method, profile_hash, path_json, confidence, eval_passed, reason, created_at
		 FROM inference_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list inferences: %w", err)
	}
	defer rows.Close()

	var entries []InferenceEntry
	for rows.Next() {
		var e InferenceEntry
		var version, reason sql.NullString
		var pathJSON, created string
		var passed int
		if err := rows.Scan(&e.RunID, &version, &e.Method, &e.ProfileHash, &pathJSON, &e.Confidence, &passed, &reason, &created); err != nil {
			return nil, fmt.Errorf("scan inference: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &e.Path); err != nil {
			return nil, fmt.Errorf("decode path: %w", err)
		}
		e.ParamsVersion = version.String
		e.Reason = reason.String
		e.EvalPassed = passed != 0
		e.CreatedAt, _ = time.Parse(state.TimeLayout, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-inferences

// #region profile-hash
// ProfileHash fingerprints the normalized profile so audit rows never carry the raw
// health fields.
func ProfileHash(p profile.Profile) string {
	data, _ := json.Marshal(p.Normalize())
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// #endregion profile-hash

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
