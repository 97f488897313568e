package scanner

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

const EventBackgroundsChanged = "scanner:backgrounds"

const backgroundOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// BackgroundsChanged tells the UI to list backgrounds again.
type BackgroundsChanged struct {
	Path string `json:"path"`
	Op   string `json:"op"`
	At   string `json:"at"`
}

func (s *Service) SetEmitter(emitter Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emitter
}

func (s *Service) StartWatching() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return nil
	}

	if err := os.MkdirAll(s.backgroundsDir, 0o755); err != nil {
		return fmt.Errorf("create backgrounds dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create backgrounds watcher: %w", err)
	}

	if err := watcher.Add(s.backgroundsDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.backgroundsDir, err)
	}

	done := make(chan struct{})
	s.watcher = watcher
	s.watchDone = done

	go s.watchBackgrounds(watcher, done)
	return nil
}

func (s *Service) StopWatching() {
	s.mu.Lock()
	watcher := s.watcher
	done := s.watchDone
	s.watcher = nil
	s.watchDone = nil
	s.mu.Unlock()

	if watcher == nil {
		return
	}

	if err := watcher.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("close backgrounds watcher")
	}
	<-done
}

func (s *Service) watchBackgrounds(watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&backgroundOps == 0 {
				continue
			}
			if !IsImage(event.Name) {
				continue
			}

			s.logger.Debug().Str("path", event.Name).Stringer("op", event.Op).Msg("backgrounds changed")
			s.emitEvent(EventBackgroundsChanged, BackgroundsChanged{
				Path: event.Name,
				Op:   event.Op.String(),
				At:   time.Now().UTC().Format(time.RFC3339),
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("backgrounds watcher error")
		}
	}
}

func (s *Service) emitEvent(eventName string, payload any) {
	s.mu.Lock()
	emitter := s.emit
	s.mu.Unlock()

	if emitter != nil {
		emitter(eventName, payload)
	}
}
