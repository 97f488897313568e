package scanner

import (
	"errors"
	"fmt"
	"monochrome/internal/config"
	"monochrome/internal/tags"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

var ErrRootNotDirectory = errors.New("scan root is not a directory")

type TagReader interface {
	ReadTags(path string) tags.Metadata
}

type Emitter func(eventName string, payload any)

// Service runs scans against the filesystem. Scans share no mutable state,
// so concurrent calls need no locking; mu only guards the watcher.
type Service struct {
	baseDir        string
	backgroundsDir string
	reader         TagReader
	logger         zerolog.Logger

	mu        sync.Mutex
	emit      Emitter
	watcher   *fsnotify.Watcher
	watchDone chan struct{}
}

// NewService scans with the directories in paths, made absolute so every
// returned path is absolute too. An empty BackgroundsDir defaults to the
// backgrounds folder under BaseDir.
func NewService(paths config.Paths, reader TagReader, logger zerolog.Logger) *Service {
	baseDir := absPath(paths.BaseDir)
	backgroundsDir := filepath.Join(baseDir, config.BackgroundsDirName)
	if strings.TrimSpace(paths.BackgroundsDir) != "" {
		backgroundsDir = absPath(paths.BackgroundsDir)
	}

	return &Service{
		baseDir:        baseDir,
		backgroundsDir: backgroundsDir,
		reader:         reader,
		logger:         logger.With().Str("component", "scanner").Logger(),
	}
}

func (s *Service) AppDir() string {
	return s.baseDir
}

func (s *Service) BackgroundsDir() string {
	return s.backgroundsDir
}

func (s *Service) ScanDirectory(root string) ([]Track, error) {
	rootPath, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	scan := newAudioScan(s.reader)
	s.scanTree(scan, rootPath)
	tracks := scan.result()

	s.logger.Info().
		Str("root", rootPath).
		Int("tracks", len(tracks)).
		Dur("elapsed", time.Since(startedAt)).
		Msg("directory scan complete")

	return tracks, nil
}

func (s *Service) ScanLocal() ([]Track, error) {
	tracks, err := s.ScanDirectory(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("scan app dir: %w", err)
	}

	return tracks, nil
}

// ScanFiles accepts a mix of files and directories. Directories are scanned
// recursively; files are kept only when they classify as audio. Paths that
// do not exist are skipped.
func (s *Service) ScanFiles(paths []string) ([]Track, error) {
	scan := newAudioScan(s.reader)

	for _, rawPath := range paths {
		trimmed := strings.TrimSpace(rawPath)
		if trimmed == "" {
			continue
		}

		absPath, err := filepath.Abs(trimmed)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", trimmed).Msg("skipping unresolvable path")
			continue
		}

		info, err := os.Stat(absPath)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", absPath).Msg("skipping missing path")
			continue
		}

		if info.IsDir() {
			s.scanTree(scan, absPath)
			continue
		}

		if info.Mode().IsRegular() && IsAudio(absPath) {
			scan.add(absPath)
		}
	}

	return scan.result(), nil
}

func (s *Service) ListBackgrounds() ([]BackgroundImage, error) {
	if err := os.MkdirAll(s.backgroundsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backgrounds dir: %w", err)
	}

	return s.listBackgrounds(s.backgroundsDir), nil
}

// ListBackgroundsIn lists the images directly inside root and returns their
// paths.
func (s *Service) ListBackgroundsIn(root string) ([]string, error) {
	rootPath, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	backgrounds := s.listBackgrounds(rootPath)
	paths := make([]string, 0, len(backgrounds))
	for _, background := range backgrounds {
		paths = append(paths, background.Path)
	}

	return paths, nil
}

func (s *Service) listBackgrounds(dir string) []BackgroundImage {
	backgrounds := make([]BackgroundImage, 0)
	for entry := range Walk(dir, 1, s.logger) {
		if !IsImage(entry.Path) {
			continue
		}

		backgrounds = append(backgrounds, BackgroundImage{
			Path: entry.Path,
			Name: stem(entry.Name),
		})
	}

	sortBackgrounds(backgrounds)
	return backgrounds
}

func (s *Service) scanTree(scan *audioScan, root string) {
	for entry := range Walk(root, Unbounded, s.logger) {
		if IsAudio(entry.Path) {
			scan.add(entry.Path)
		}
	}
}

func absPath(path string) string {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return resolved
}

func resolveRoot(root string) (string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	absPath, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("open scan root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", absPath, ErrRootNotDirectory)
	}

	return absPath, nil
}

// audioScan accumulates one scan's tracks, reading tags as files are found
// and dropping repeated paths.
type audioScan struct {
	reader    TagReader
	assembler trackAssembler
	seen      map[string]struct{}
}

func newAudioScan(reader TagReader) *audioScan {
	return &audioScan{
		reader:    reader,
		assembler: trackAssembler{tracks: make([]Track, 0)},
		seen:      make(map[string]struct{}),
	}
}

func (a *audioScan) add(path string) {
	if _, ok := a.seen[path]; ok {
		return
	}
	a.seen[path] = struct{}{}

	a.assembler.add(path, a.reader.ReadTags(path))
}

func (a *audioScan) result() []Track {
	sortTracks(a.assembler.tracks)
	return a.assembler.tracks
}
