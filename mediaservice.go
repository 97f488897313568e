package main

import (
	"context"
	"monochrome/internal/library"
	"monochrome/internal/scanner"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

type MediaService struct {
	scanner *scanner.Service
	recent  *library.RecentFolderRepository
	logger  zerolog.Logger
}

func NewMediaService(scanService *scanner.Service, recent *library.RecentFolderRepository, logger zerolog.Logger) *MediaService {
	return &MediaService{scanner: scanService, recent: recent, logger: logger}
}

// ScanDirectory scans root and remembers it as a recent folder. Failing to
// remember it does not fail the scan.
func (s *MediaService) ScanDirectory(root string) ([]scanner.Track, error) {
	tracks, err := s.scanner.ScanDirectory(root)
	if err != nil {
		return nil, err
	}

	if s.recent != nil {
		recorded := strings.TrimSpace(root)
		if absRoot, absErr := filepath.Abs(recorded); absErr == nil {
			recorded = absRoot
		}
		if _, err := s.recent.Touch(context.Background(), recorded, len(tracks)); err != nil {
			s.logger.Warn().Err(err).Str("root", root).Msg("record recent folder")
		}
	}

	return tracks, nil
}

func (s *MediaService) ScanLocal() ([]scanner.Track, error) {
	return s.scanner.ScanLocal()
}

func (s *MediaService) ScanFiles(paths []string) ([]scanner.Track, error) {
	return s.scanner.ScanFiles(paths)
}

func (s *MediaService) ListBackgrounds() ([]scanner.BackgroundImage, error) {
	return s.scanner.ListBackgrounds()
}

func (s *MediaService) ListBackgroundsIn(root string) ([]string, error) {
	return s.scanner.ListBackgroundsIn(root)
}

func (s *MediaService) GetAppDir() string {
	return s.scanner.AppDir()
}
