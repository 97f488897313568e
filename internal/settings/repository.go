package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	ThemeModeMono       = "mono"
	ThemeModeAccent     = "accent"
	ThemeModeAdaptive   = "adaptive"
	ThemeModeBlackWhite = "black_white"
)

const (
	BackgroundModeNone      = "none"
	BackgroundModeAurora    = "aurora"
	BackgroundModeParticles = "particles"
)

const (
	keyThemeMode       = "theme_mode"
	keyBackgroundPath  = "background_path"
	keyBackgroundModes = "background_modes"
)

var ErrInvalidThemeMode = errors.New("invalid theme mode")

var ErrInvalidBackgroundMode = errors.New("invalid background mode")

var themeModes = []string{ThemeModeMono, ThemeModeAccent, ThemeModeAdaptive, ThemeModeBlackWhite}

var backgroundModes = []string{BackgroundModeNone, BackgroundModeAurora, BackgroundModeParticles}

// Preferences are UI choices that survive restarts. Scan results are never
// stored here.
type Preferences struct {
	ThemeMode       string   `json:"themeMode"`
	BackgroundPath  *string  `json:"backgroundPath"`
	BackgroundModes []string `json:"backgroundModes"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		ThemeMode:       ThemeModeMono,
		BackgroundModes: []string{BackgroundModeNone},
	}
}

type Repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{db: database}
}

func (r *Repository) Get(ctx context.Context) (Preferences, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM preferences")
	if err != nil {
		return Preferences{}, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	preferences := DefaultPreferences()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Preferences{}, fmt.Errorf("scan preference row: %w", err)
		}

		switch key {
		case keyThemeMode:
			if slices.Contains(themeModes, value) {
				preferences.ThemeMode = value
			}
		case keyBackgroundPath:
			if strings.TrimSpace(value) != "" {
				path := value
				preferences.BackgroundPath = &path
			}
		case keyBackgroundModes:
			var modes []string
			if err := json.Unmarshal([]byte(value), &modes); err == nil && validBackgroundModes(modes) == nil {
				preferences.BackgroundModes = modes
			}
		}
	}

	if err := rows.Err(); err != nil {
		return Preferences{}, fmt.Errorf("iterate preference rows: %w", err)
	}

	return preferences, nil
}

func (r *Repository) Save(ctx context.Context, preferences Preferences) (Preferences, error) {
	normalized, err := normalize(preferences)
	if err != nil {
		return Preferences{}, err
	}

	modesJSON, err := json.Marshal(normalized.BackgroundModes)
	if err != nil {
		return Preferences{}, fmt.Errorf("marshal background modes: %w", err)
	}

	backgroundPath := ""
	if normalized.BackgroundPath != nil {
		backgroundPath = *normalized.BackgroundPath
	}

	values := map[string]string{
		keyThemeMode:       normalized.ThemeMode,
		keyBackgroundPath:  backgroundPath,
		keyBackgroundModes: string(modesJSON),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Preferences{}, fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback()

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	for key, value := range values {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO preferences(key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key,
			value,
			updatedAt,
		); err != nil {
			return Preferences{}, fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Preferences{}, fmt.Errorf("commit preferences tx: %w", err)
	}

	return normalized, nil
}

func normalize(preferences Preferences) (Preferences, error) {
	normalized := Preferences{
		ThemeMode: strings.ToLower(strings.TrimSpace(preferences.ThemeMode)),
	}
	if normalized.ThemeMode == "" {
		normalized.ThemeMode = ThemeModeMono
	}
	if !slices.Contains(themeModes, normalized.ThemeMode) {
		return Preferences{}, fmt.Errorf("%q: %w", preferences.ThemeMode, ErrInvalidThemeMode)
	}

	if preferences.BackgroundPath != nil {
		if trimmed := strings.TrimSpace(*preferences.BackgroundPath); trimmed != "" {
			normalized.BackgroundPath = &trimmed
		}
	}

	modes := make([]string, 0, len(preferences.BackgroundModes))
	for _, mode := range preferences.BackgroundModes {
		mode = strings.ToLower(strings.TrimSpace(mode))
		if !slices.Contains(modes, mode) {
			modes = append(modes, mode)
		}
	}
	if err := validBackgroundModes(modes); err != nil {
		return Preferences{}, err
	}
	if len(modes) == 0 {
		modes = append(modes, BackgroundModeNone)
	}
	normalized.BackgroundModes = modes

	return normalized, nil
}

func validBackgroundModes(modes []string) error {
	for _, mode := range modes {
		if !slices.Contains(backgroundModes, mode) {
			return fmt.Errorf("%q: %w", mode, ErrInvalidBackgroundMode)
		}
	}

	return nil
}
