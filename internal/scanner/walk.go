package scanner

import (
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Unbounded disables the depth limit of a walk.
const Unbounded = 0

type Entry struct {
	Path string
	Name string
}

// Walk lazily yields the regular files below root. A maxDepth of 1 visits
// only the direct children of root.
func Walk(root string, maxDepth int, logger zerolog.Logger) iter.Seq[Entry] {
	return WalkFS(os.DirFS(root), root, maxDepth, logger)
}

// WalkFS walks fsys and reports entries joined onto root. Entries that fail
// to stat or list are skipped.
func WalkFS(fsys fs.FS, root string, maxDepth int, logger zerolog.Logger) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		_ = fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				logger.Debug().Err(walkErr).Str("path", joinRoot(root, name)).Msg("skipping unreadable entry")
				if entry != nil && entry.IsDir() && name != "." {
					return fs.SkipDir
				}
				return nil
			}

			depth := entryDepth(name)
			if entry.IsDir() {
				if maxDepth > Unbounded && depth >= maxDepth {
					return fs.SkipDir
				}
				return nil
			}

			if !entry.Type().IsRegular() {
				return nil
			}

			if !yield(Entry{Path: joinRoot(root, name), Name: entry.Name()}) {
				return fs.SkipAll
			}

			return nil
		})
	}
}

func entryDepth(name string) int {
	if name == "." {
		return 0
	}

	return strings.Count(path.Clean(name), "/") + 1
}

func joinRoot(root string, name string) string {
	if name == "." {
		return root
	}

	return filepath.Join(root, filepath.FromSlash(name))
}
