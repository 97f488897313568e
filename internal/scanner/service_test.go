package scanner

import (
	"errors"
	"monochrome/internal/config"
	"monochrome/internal/tags"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rs/zerolog"
)

type stubTagReader map[string]tags.Metadata

func (r stubTagReader) ReadTags(path string) tags.Metadata {
	return r[filepath.Base(path)]
}

func newTestService(t *testing.T, baseDir string, reader TagReader) *Service {
	t.Helper()

	if reader == nil {
		reader = stubTagReader{}
	}

	return NewService(config.Paths{BaseDir: baseDir}, reader, zerolog.Nop())
}

func trackFilenames(tracks []Track) []string {
	names := make([]string, 0, len(tracks))
	for _, track := range tracks {
		names = append(names, track.Filename)
	}
	return names
}

func TestScanDirectoryReturnsOnlyAudioFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Zebra.MP3"))
	writeFile(t, filepath.Join(root, "alpha.flac"))
	writeFile(t, filepath.Join(root, "cover.jpg"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "disc 2", "beta.ogg"))
	writeFile(t, filepath.Join(root, "disc 2", "extras", "gamma.WAV"))
	writeFile(t, filepath.Join(root, "disc 2", "extras", "readme"))

	tracks, err := newTestService(t, t.TempDir(), nil).ScanDirectory(root)
	if err != nil {
		t.Fatalf("scan directory: %v", err)
	}

	got := trackFilenames(tracks)
	want := []string{"alpha.flac", "beta.ogg", "gamma.WAV", "Zebra.MP3"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected tracks: got %v, want %v", got, want)
	}

	ids := make([]int, 0, len(tracks))
	for _, track := range tracks {
		if !filepath.IsAbs(track.Path) {
			t.Fatalf("expected absolute path, got %q", track.Path)
		}
		ids = append(ids, track.ID)
	}
	slices.Sort(ids)
	if !slices.Equal(ids, []int{0, 1, 2, 3}) {
		t.Fatalf("expected ids 0..3, got %v", ids)
	}
}

func TestScanDirectoryAppliesTags(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "track01.mp3"))
	writeFile(t, filepath.Join(root, "track02.mp3"))

	reader := stubTagReader{
		"track02.mp3": {Title: "Song", Artist: "Band"},
	}

	tracks, err := newTestService(t, t.TempDir(), reader).ScanDirectory(root)
	if err != nil {
		t.Fatalf("scan directory: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("unexpected track count: got %d, want 2", len(tracks))
	}

	if *tracks[0].Title != "track01" || tracks[0].Artist != nil {
		t.Fatalf("unexpected fallback track: %+v", tracks[0])
	}
	if *tracks[1].Title != "Song" || tracks[1].Artist == nil || *tracks[1].Artist != "Band" || tracks[1].Album != nil {
		t.Fatalf("unexpected tagged track: %+v", tracks[1])
	}
}

func TestScanDirectoryIsDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"c.mp3", "B.mp3", "a.mp3", "sub/b2.mp3"} {
		writeFile(t, filepath.Join(root, name))
	}

	service := newTestService(t, t.TempDir(), nil)
	first, err := service.ScanDirectory(root)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := service.ScanDirectory(root)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if !slices.Equal(trackFilenames(first), trackFilenames(second)) {
		t.Fatalf("scans disagree: %v vs %v", trackFilenames(first), trackFilenames(second))
	}
	if want := []string{"a.mp3", "B.mp3", "b2.mp3", "c.mp3"}; !slices.Equal(trackFilenames(first), want) {
		t.Fatalf("unexpected order: got %v, want %v", trackFilenames(first), want)
	}
}

func TestScanDirectoryRejectsMissingRoot(t *testing.T) {
	t.Parallel()

	service := newTestService(t, t.TempDir(), nil)
	if _, err := service.ScanDirectory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "song.mp3")
	writeFile(t, file)
	_, err := service.ScanDirectory(file)
	if !errors.Is(err, ErrRootNotDirectory) {
		t.Fatalf("expected ErrRootNotDirectory, got %v", err)
	}

	if _, err := service.ScanDirectory("   "); err == nil {
		t.Fatal("expected error for blank root")
	}
}

func TestScanDirectoryEmptyTreeReturnsEmptySlice(t *testing.T) {
	t.Parallel()

	tracks, err := newTestService(t, t.TempDir(), nil).ScanDirectory(t.TempDir())
	if err != nil {
		t.Fatalf("scan directory: %v", err)
	}
	if tracks == nil || len(tracks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tracks)
	}
}

func TestScanLocalUsesBaseDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "bundled", "intro.mp3"))
	writeFile(t, filepath.Join(base, "monochrome.exe"))

	tracks, err := newTestService(t, base, nil).ScanLocal()
	if err != nil {
		t.Fatalf("scan local: %v", err)
	}
	if got := trackFilenames(tracks); !slices.Equal(got, []string{"intro.mp3"}) {
		t.Fatalf("unexpected tracks: %v", got)
	}
}

func TestScanFilesMixesFilesAndDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	song := filepath.Join(root, "song.mp3")
	writeFile(t, song)
	writeFile(t, filepath.Join(root, "subdir", "b.flac"))
	writeFile(t, filepath.Join(root, "subdir", "a.ogg"))
	writeFile(t, filepath.Join(root, "subdir", "cover.png"))
	image := filepath.Join(root, "poster.png")
	writeFile(t, image)

	tracks, err := newTestService(t, t.TempDir(), nil).ScanFiles([]string{
		song,
		filepath.Join(root, "subdir"),
		image,
		filepath.Join(root, "vanished.mp3"),
	})
	if err != nil {
		t.Fatalf("scan files: %v", err)
	}

	got := trackFilenames(tracks)
	want := []string{"a.ogg", "b.flac", "song.mp3"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected tracks: got %v, want %v", got, want)
	}

	if tracks[2].ID != 0 {
		t.Fatalf("expected the first dropped path to get id 0, got %d", tracks[2].ID)
	}
}

func TestScanFilesIncludesRepeatedPathsOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	song := filepath.Join(root, "song.mp3")
	writeFile(t, song)

	tracks, err := newTestService(t, t.TempDir(), nil).ScanFiles([]string{song, root, song})
	if err != nil {
		t.Fatalf("scan files: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected one track, got %v", trackFilenames(tracks))
	}
}

func TestListBackgroundsCreatesFolder(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	service := newTestService(t, base, nil)

	backgrounds, err := service.ListBackgrounds()
	if err != nil {
		t.Fatalf("list backgrounds: %v", err)
	}
	if backgrounds == nil || len(backgrounds) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", backgrounds)
	}

	info, err := os.Stat(filepath.Join(base, config.BackgroundsDirName))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected backgrounds dir to exist: %v", err)
	}
}

func TestListBackgroundsReturnsDirectImagesSortedByName(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	dir := filepath.Join(base, config.BackgroundsDirName)
	writeFile(t, filepath.Join(dir, "Sunset.PNG"))
	writeFile(t, filepath.Join(dir, "aurora.webp"))
	writeFile(t, filepath.Join(dir, "forest.jpeg"))
	writeFile(t, filepath.Join(dir, "readme.txt"))
	writeFile(t, filepath.Join(dir, "nested", "hidden.png"))

	backgrounds, err := newTestService(t, base, nil).ListBackgrounds()
	if err != nil {
		t.Fatalf("list backgrounds: %v", err)
	}

	want := []BackgroundImage{
		{Path: filepath.Join(dir, "aurora.webp"), Name: "aurora"},
		{Path: filepath.Join(dir, "forest.jpeg"), Name: "forest"},
		{Path: filepath.Join(dir, "Sunset.PNG"), Name: "Sunset"},
	}
	if !slices.Equal(backgrounds, want) {
		t.Fatalf("unexpected backgrounds: got %+v, want %+v", backgrounds, want)
	}
}

func TestListBackgroundsFailsWhenFolderCannotBeCreated(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, config.BackgroundsDirName))

	if _, err := newTestService(t, base, nil).ListBackgrounds(); err == nil {
		t.Fatal("expected error when backgrounds path is a file")
	}
}

func TestListBackgroundsInReturnsPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.gif"))
	writeFile(t, filepath.Join(dir, "A.jpg"))
	writeFile(t, filepath.Join(dir, "track.mp3"))

	paths, err := newTestService(t, t.TempDir(), nil).ListBackgroundsIn(dir)
	if err != nil {
		t.Fatalf("list backgrounds in: %v", err)
	}

	want := []string{filepath.Join(dir, "A.jpg"), filepath.Join(dir, "b.gif")}
	if !slices.Equal(paths, want) {
		t.Fatalf("unexpected paths: got %v, want %v", paths, want)
	}
}

func TestNewServiceMakesRelativeBaseDirAbsolute(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	writeFile(t, filepath.Join(workDir, "app", config.BackgroundsDirName, "dunes.png"))
	service := newTestService(t, "app", nil)

	if want := filepath.Join(workDir, "app"); service.AppDir() != want {
		t.Fatalf("unexpected app dir: got %q, want %q", service.AppDir(), want)
	}

	backgrounds, err := service.ListBackgrounds()
	if err != nil {
		t.Fatalf("list backgrounds: %v", err)
	}
	want := filepath.Join(workDir, "app", config.BackgroundsDirName, "dunes.png")
	if len(backgrounds) != 1 || backgrounds[0].Path != want {
		t.Fatalf("unexpected backgrounds: got %+v, want path %q", backgrounds, want)
	}
}

func TestNewServiceUsesConfiguredBackgroundsDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	backgroundsDir := filepath.Join(t.TempDir(), "walls")
	writeFile(t, filepath.Join(backgroundsDir, "Fog.jpg"))

	service := NewService(config.Paths{BaseDir: base, BackgroundsDir: backgroundsDir}, stubTagReader{}, zerolog.Nop())
	backgrounds, err := service.ListBackgrounds()
	if err != nil {
		t.Fatalf("list backgrounds: %v", err)
	}
	if len(backgrounds) != 1 || backgrounds[0].Name != "Fog" {
		t.Fatalf("unexpected backgrounds: %+v", backgrounds)
	}
}
