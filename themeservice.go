package main

import (
	"monochrome/internal/palette"
	"monochrome/internal/scanner"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const maxAccentCacheEntries = 96

const (
	accentSourceCover      = "cover"
	accentSourceBackground = "background"
)

type accentCacheEntry struct {
	accent            palette.Accent
	sourceModUnixNano int64
	cachedAt          time.Time
}

type ThemeService struct {
	covers    CoverSource
	extractor *palette.Extractor
	options   palette.ExtractOptions
	logger    zerolog.Logger
	cacheMu   sync.RWMutex
	cache     map[string]accentCacheEntry
}

func NewThemeService(covers CoverSource, logger zerolog.Logger) *ThemeService {
	return &ThemeService{
		covers:    covers,
		extractor: palette.NewExtractor(),
		options:   palette.DefaultExtractOptions(),
		logger:    logger.With().Str("component", "theme").Logger(),
		cache:     make(map[string]accentCacheEntry),
	}
}

// AccentFromCover averages the centre of the embedded cover of audioPath.
// Files without a usable cover get palette.Fallback.
func (s *ThemeService) AccentFromCover(audioPath string) palette.Accent {
	return s.accentFor(accentSourceCover, audioPath, func(path string) (palette.Accent, bool) {
		cover := s.covers.ReadCover(path)
		if cover == nil {
			return palette.Fallback, false
		}

		imageData, err := cover.Decode()
		if err != nil {
			s.logger.Debug().Err(err).Str("path", path).Msg("decode cover data")
			return palette.Fallback, false
		}

		accent, err := s.extractor.ExtractFromBytes(imageData, s.options)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", path).Msg("extract cover accent")
			return palette.Fallback, false
		}

		return accent, true
	})
}

// AccentFromBackground averages the centre of the image at imagePath.
func (s *ThemeService) AccentFromBackground(imagePath string) palette.Accent {
	return s.accentFor(accentSourceBackground, imagePath, func(path string) (palette.Accent, bool) {
		if !scanner.IsImage(path) {
			return palette.Fallback, false
		}

		accent, err := s.extractor.ExtractFromPath(path, s.options)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", path).Msg("extract background accent")
			return palette.Fallback, false
		}

		return accent, true
	})
}

func (s *ThemeService) accentFor(
	source string,
	path string,
	extract func(path string) (palette.Accent, bool),
) palette.Accent {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return palette.Fallback
	}

	sourceInfo, err := os.Stat(trimmedPath)
	if err != nil || sourceInfo.IsDir() {
		return palette.Fallback
	}
	sourceModUnixNano := sourceInfo.ModTime().UnixNano()

	cacheKey := source + "|" + trimmedPath
	if cachedAccent, ok := s.loadCachedAccent(cacheKey, sourceModUnixNano); ok {
		return cachedAccent
	}

	accent, ok := extract(trimmedPath)
	if ok {
		s.storeCachedAccent(cacheKey, sourceModUnixNano, accent)
	}

	return accent
}

func (s *ThemeService) loadCachedAccent(cacheKey string, sourceModUnixNano int64) (palette.Accent, bool) {
	s.cacheMu.RLock()
	entry, ok := s.cache[cacheKey]
	s.cacheMu.RUnlock()
	if !ok || entry.sourceModUnixNano != sourceModUnixNano {
		return palette.Accent{}, false
	}

	return entry.accent, true
}

func (s *ThemeService) storeCachedAccent(cacheKey string, sourceModUnixNano int64, accent palette.Accent) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[cacheKey] = accentCacheEntry{
		accent:            accent,
		sourceModUnixNano: sourceModUnixNano,
		cachedAt:          time.Now(),
	}

	if len(s.cache) <= maxAccentCacheEntries {
		return
	}

	oldestKey := ""
	oldestAt := time.Now()
	for key, entry := range s.cache {
		if oldestKey == "" || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}
