package main

import (
	"context"
	"monochrome/internal/library"
	"monochrome/internal/scanner"
	"monochrome/internal/settings"

	"github.com/rs/zerolog"
)

const defaultBootstrapRecentLimit = 8

// StartupSnapshot is everything the UI needs for its first paint in one call.
type StartupSnapshot struct {
	AppDir        string                    `json:"appDir"`
	Preferences   settings.Preferences      `json:"preferences"`
	RecentFolders []library.RecentFolder    `json:"recentFolders"`
	Backgrounds   []scanner.BackgroundImage `json:"backgrounds"`
}

type BootstrapService struct {
	scanner     *scanner.Service
	preferences *settings.Repository
	recent      *library.RecentFolderRepository
	logger      zerolog.Logger
}

func NewBootstrapService(
	scanService *scanner.Service,
	preferences *settings.Repository,
	recent *library.RecentFolderRepository,
	logger zerolog.Logger,
) *BootstrapService {
	return &BootstrapService{
		scanner:     scanService,
		preferences: preferences,
		recent:      recent,
		logger:      logger,
	}
}

// GetInitialState fails only when preferences cannot be read. A missing
// backgrounds folder or recent list degrades to empty.
func (s *BootstrapService) GetInitialState(recentLimit int) (StartupSnapshot, error) {
	if recentLimit <= 0 {
		recentLimit = defaultBootstrapRecentLimit
	}

	ctx := context.Background()
	preferences, err := s.preferences.Get(ctx)
	if err != nil {
		return StartupSnapshot{}, err
	}

	recentFolders, err := s.recent.List(ctx, recentLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("list recent folders")
		recentFolders = []library.RecentFolder{}
	}

	backgrounds, err := s.scanner.ListBackgrounds()
	if err != nil {
		s.logger.Warn().Err(err).Msg("list backgrounds")
		backgrounds = []scanner.BackgroundImage{}
	}

	return StartupSnapshot{
		AppDir:        s.scanner.AppDir(),
		Preferences:   preferences,
		RecentFolders: recentFolders,
		Backgrounds:   backgrounds,
	}, nil
}
