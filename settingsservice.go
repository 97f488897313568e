package main

import (
	"context"
	"errors"
	"fmt"
	"monochrome/internal/library"
	"monochrome/internal/settings"
)

type SettingsService struct {
	preferences *settings.Repository
	recent      *library.RecentFolderRepository
}

func NewSettingsService(preferences *settings.Repository, recent *library.RecentFolderRepository) *SettingsService {
	return &SettingsService{preferences: preferences, recent: recent}
}

func (s *SettingsService) GetPreferences() (settings.Preferences, error) {
	return s.preferences.Get(context.Background())
}

func (s *SettingsService) SavePreferences(preferences settings.Preferences) (settings.Preferences, error) {
	return s.preferences.Save(context.Background(), preferences)
}

func (s *SettingsService) ListRecentFolders(limit int) ([]library.RecentFolder, error) {
	return s.recent.List(context.Background(), limit)
}

func (s *SettingsService) RemoveRecentFolder(id int64) error {
	err := s.recent.Delete(context.Background(), id)
	if errors.Is(err, library.ErrRecentFolderNotFound) {
		return fmt.Errorf("recent folder %d does not exist", id)
	}
	return err
}
