package database

import (
	"database/sql"
	"fmt"
	"time"

	"imagetagger/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		source_prefix TEXT,
		format TEXT,
		width INTEGER,
		height INTEGER,
		created_at TEXT,
		modified_at TEXT,
		size INTEGER,
		average_hash TEXT,
		tags TEXT,
		vibe_label TEXT,
		vibe_confidence REAL,
		lighting TEXT,
		visual_appeal INTEGER,
		consistency INTEGER,
		metrics TEXT,
		camera_model TEXT,
		taken_at TEXT,
		UNIQUE(path, source_prefix)
	);
	CREATE INDEX IF NOT EXISTS idx_path ON analyses(path);
	CREATE INDEX IF NOT EXISTS idx_average_hash ON analyses(average_hash);
	CREATE INDEX IF NOT EXISTS idx_vibe_label ON analyses(vibe_label);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %v", err)
	}

	return db, nil
}

// OpenDatabase opens an existing database connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath)
}

// CheckImageExists checks if an analysis row already exists and returns its
// stored modification time so unchanged files can be skipped.
func CheckImageExists(db *sql.DB, path string, sourcePrefix string) (bool, string, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM analyses WHERE path = ? AND source_prefix = ?", path, sourcePrefix).Scan(&count)
	if err != nil {
		return false, "", fmt.Errorf("database error for %s: %v", path, err)
	}

	if count == 0 {
		return false, "", nil
	}

	var storedModTime string
	err = db.QueryRow("SELECT modified_at FROM analyses WHERE path = ? AND source_prefix = ?", path, sourcePrefix).Scan(&storedModTime)
	if err != nil {
		return true, "", fmt.Errorf("cannot get modified time for %s: %v", path, err)
	}

	return true, storedModTime, nil
}

// StoreImageRecord stores one analysis record in the database
func StoreImageRecord(db *sql.DB, record types.ImageRecord, forceRewrite bool) error {
	now := time.Now().Format(time.RFC3339)

	verb := "INSERT OR IGNORE"
	if forceRewrite {
		verb = "INSERT OR REPLACE"
	}

	stmt, err := db.Prepare(verb + ` INTO analyses (
		path, source_prefix, format, width, height, created_at, modified_at, size,
		average_hash, tags, vibe_label, vibe_confidence, lighting, visual_appeal,
		consistency, metrics, camera_model, taken_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %v", record.Path, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		record.Path,
		record.SourcePrefix,
		record.Format,
		record.Width,
		record.Height,
		now,
		record.ModifiedAt,
		record.Size,
		record.AverageHash,
		record.Tags,
		record.VibeLabel,
		record.VibeConfidence,
		record.Lighting,
		record.VisualAppeal,
		record.Consistency,
		record.MetricsJSON,
		record.CameraModel,
		record.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("cannot insert data for %s: %v", record.Path, err)
	}

	return nil
}

// ScanStats contains statistics from a scan operation
type ScanStats struct {
	TotalImages   int
	UniqueHashes  int
	DistinctVibes int
	TopVibe       string
}

// GetScanStats retrieves summary statistics about stored analyses
func GetScanStats(db *sql.DB, sourcePrefix string) (*ScanStats, error) {
	var stats ScanStats

	where := ""
	var args []interface{}
	if sourcePrefix != "" {
		where = " WHERE source_prefix = ?"
		args = append(args, sourcePrefix)
	}

	err := db.QueryRow("SELECT COUNT(*) FROM analyses"+where, args...).Scan(&stats.TotalImages)
	if err != nil {
		return nil, fmt.Errorf("failed to get total images: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(DISTINCT average_hash) FROM analyses"+where, args...).Scan(&stats.UniqueHashes)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique hashes: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(DISTINCT vibe_label) FROM analyses"+where, args...).Scan(&stats.DistinctVibes)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct vibes: %v", err)
	}

	err = db.QueryRow(
		"SELECT vibe_label FROM analyses"+where+" GROUP BY vibe_label ORDER BY COUNT(*) DESC LIMIT 1",
		args...).Scan(&stats.TopVibe)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get top vibe: %v", err)
	}

	return &stats, nil
}

// QueryRecordsByTag returns stored records whose tag list contains the tag.
// Tags are stored as a sorted JSON array, so a quoted substring match is
// exact for whole tags.
func QueryRecordsByTag(db *sql.DB, tag string, sourcePrefix string, limit int) ([]types.ImageRecord, error) {
	query := `SELECT id, path, source_prefix, format, width, height, modified_at, size,
		average_hash, tags, vibe_label, vibe_confidence, lighting, visual_appeal,
		consistency, metrics, camera_model, taken_at
		FROM analyses WHERE tags LIKE ?`
	args := []interface{}{`%"` + tag + `"%`}

	if sourcePrefix != "" {
		query += " AND source_prefix = ?"
		args = append(args, sourcePrefix)
	}
	query += " ORDER BY visual_appeal DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("tag query failed: %v", err)
	}
	defer rows.Close()

	var records []types.ImageRecord
	for rows.Next() {
		var r types.ImageRecord
		err := rows.Scan(&r.ID, &r.Path, &r.SourcePrefix, &r.Format, &r.Width, &r.Height,
			&r.ModifiedAt, &r.Size, &r.AverageHash, &r.Tags, &r.VibeLabel, &r.VibeConfidence,
			&r.Lighting, &r.VisualAppeal, &r.Consistency, &r.MetricsJSON, &r.CameraModel, &r.TakenAt)
		if err != nil {
			return nil, fmt.Errorf("cannot scan record: %v", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
