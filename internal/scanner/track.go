package scanner

import (
	"monochrome/internal/tags"
	"path/filepath"
	"slices"
	"strings"
)

// Track is a discovered audio file. ID is only unique within the result of
// the scan that produced it.
type Track struct {
	ID       int     `json:"id"`
	Path     string  `json:"path"`
	Filename string  `json:"filename"`
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	Album    *string `json:"album"`
}

type BackgroundImage struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// trackAssembler hands out ids in discovery order for a single scan.
type trackAssembler struct {
	nextID int
	tracks []Track
}

func (a *trackAssembler) add(path string, metadata tags.Metadata) {
	a.tracks = append(a.tracks, newTrack(a.nextID, path, metadata))
	a.nextID++
}

func newTrack(id int, path string, metadata tags.Metadata) Track {
	filename := filepath.Base(path)

	title := metadata.Title
	if title == "" {
		title = stem(filename)
	}

	return Track{
		ID:       id,
		Path:     path,
		Filename: filename,
		Title:    &title,
		Artist:   optionalString(metadata.Artist),
		Album:    optionalString(metadata.Album),
	}
}

func stem(filename string) string {
	extension := filepath.Ext(filename)
	if extension == filename {
		return filename
	}

	return strings.TrimSuffix(filename, extension)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func sortTracks(tracks []Track) {
	slices.SortStableFunc(tracks, func(left Track, right Track) int {
		return strings.Compare(strings.ToLower(left.Filename), strings.ToLower(right.Filename))
	})
}

func sortBackgrounds(backgrounds []BackgroundImage) {
	slices.SortStableFunc(backgrounds, func(left BackgroundImage, right BackgroundImage) int {
		return strings.Compare(strings.ToLower(left.Name), strings.ToLower(right.Name))
	})
}
