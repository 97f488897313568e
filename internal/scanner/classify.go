package scanner

import (
	"path/filepath"
	"strings"
)

// Matching is by extension only. A renamed non-audio file with an allowed
// extension is still classified as audio.
var audioExtensions = map[string]struct{}{
	".aac":  {},
	".flac": {},
	".m4a":  {},
	".mp3":  {},
	".ogg":  {},
	".wav":  {},
	".wma":  {},
}

var imageExtensions = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

func IsAudio(path string) bool {
	_, ok := audioExtensions[extensionOf(path)]
	return ok
}

func IsImage(path string) bool {
	_, ok := imageExtensions[extensionOf(path)]
	return ok
}

// Dotfiles such as ".mp3" have no extension.
func extensionOf(path string) string {
	name := filepath.Base(path)
	extension := filepath.Ext(name)
	if extension == name {
		return ""
	}

	return strings.ToLower(extension)
}
