package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const DefaultRecentFolderLimit = 10

// Fixed width so timestamps order correctly as text.
const scannedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

var ErrRecentFolderNotFound = errors.New("recent folder not found")

// RecentFolder is a folder the user scanned explicitly. Tracks are never
// persisted, only the count seen on the last scan.
type RecentFolder struct {
	ID            int64  `json:"id"`
	Path          string `json:"path"`
	TrackCount    int    `json:"trackCount"`
	LastScannedAt string `json:"lastScannedAt"`
}

type RecentFolderRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecentFolderRepository(database *sql.DB) *RecentFolderRepository {
	return &RecentFolderRepository{db: database, now: time.Now}
}

// List returns the most recently scanned folders first. A non-positive limit
// falls back to DefaultRecentFolderLimit.
func (r *RecentFolderRepository) List(ctx context.Context, limit int) ([]RecentFolder, error) {
	if limit <= 0 {
		limit = DefaultRecentFolderLimit
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, path, track_count, last_scanned_at FROM recent_folders
		 ORDER BY last_scanned_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent folders: %w", err)
	}
	defer rows.Close()

	folders := make([]RecentFolder, 0)
	for rows.Next() {
		var folder RecentFolder
		if err := rows.Scan(&folder.ID, &folder.Path, &folder.TrackCount, &folder.LastScannedAt); err != nil {
			return nil, fmt.Errorf("scan recent folder row: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent folder rows: %w", err)
	}

	return folders, nil
}

// Touch records a scan of path, inserting it or refreshing its count and
// timestamp.
func (r *RecentFolderRepository) Touch(ctx context.Context, path string, trackCount int) (RecentFolder, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return RecentFolder{}, errors.New("path is required")
	}
	path = filepath.Clean(path)

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO recent_folders(path, track_count, last_scanned_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   track_count = excluded.track_count,
		   last_scanned_at = excluded.last_scanned_at`,
		path,
		trackCount,
		r.now().UTC().Format(scannedAtLayout),
	)
	if err != nil {
		return RecentFolder{}, fmt.Errorf("upsert recent folder: %w", err)
	}

	return r.getByPath(ctx, path)
}

func (r *RecentFolderRepository) getByPath(ctx context.Context, path string) (RecentFolder, error) {
	var folder RecentFolder
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, path, track_count, last_scanned_at FROM recent_folders WHERE path = ?",
		path,
	).Scan(&folder.ID, &folder.Path, &folder.TrackCount, &folder.LastScannedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RecentFolder{}, ErrRecentFolderNotFound
		}
		return RecentFolder{}, fmt.Errorf("get recent folder %q: %w", path, err)
	}

	return folder, nil
}

func (r *RecentFolderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM recent_folders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recent folder %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read deleted recent folder count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecentFolderNotFound
	}

	return nil
}
