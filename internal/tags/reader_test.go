package tags

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/rs/zerolog"
)

func TestReadTagsReturnsEmbeddedFrames(t *testing.T) {
	t.Parallel()

	path := writeID3File(t, t.TempDir(), "track01.mp3", func(id3Tag *id3v2.Tag) {
		id3Tag.SetTitle("Song")
		id3Tag.SetArtist("Band")
		id3Tag.SetAlbum("Record")
	})

	metadata := NewReader(zerolog.Nop()).ReadTags(path)
	want := Metadata{Title: "Song", Artist: "Band", Album: "Record"}
	if metadata != want {
		t.Fatalf("unexpected metadata: got %+v, want %+v", metadata, want)
	}
}

func TestReadTagsLeavesMissingFramesEmpty(t *testing.T) {
	t.Parallel()

	path := writeID3File(t, t.TempDir(), "Track.MP3", func(id3Tag *id3v2.Tag) {
		id3Tag.SetArtist("Band")
	})

	metadata := NewReader(zerolog.Nop()).ReadTags(path)
	if metadata.Title != "" || metadata.Album != "" {
		t.Fatalf("expected only artist, got %+v", metadata)
	}
	if metadata.Artist != "Band" {
		t.Fatalf("unexpected artist: got %q, want %q", metadata.Artist, "Band")
	}
}

func TestReadTagsIgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tagged := writeID3File(t, dir, "song.mp3", func(id3Tag *id3v2.Tag) {
		id3Tag.SetTitle("Song")
	})
	renamed := filepath.Join(dir, "song.flac")
	if err := os.Rename(tagged, renamed); err != nil {
		t.Fatalf("rename fixture: %v", err)
	}

	reader := NewReader(zerolog.Nop())
	if metadata := reader.ReadTags(renamed); !metadata.IsEmpty() {
		t.Fatalf("expected no metadata, got %+v", metadata)
	}

	_, err := reader.Read(renamed)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadTagsRejectsNonID3Container(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fake.mp3")
	payload := append([]byte("fLaC"), make([]byte, 256)...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	reader := NewReader(zerolog.Nop())
	if metadata := reader.ReadTags(path); !metadata.IsEmpty() {
		t.Fatalf("expected no metadata, got %+v", metadata)
	}

	_, err := reader.Read(path)
	if !errors.Is(err, ErrNotID3) {
		t.Fatalf("expected ErrNotID3, got %v", err)
	}
}

func TestReadTagsAbsorbsUnreadableFiles(t *testing.T) {
	t.Parallel()

	reader := NewReader(zerolog.Nop())
	missing := filepath.Join(t.TempDir(), "missing.mp3")

	if metadata := reader.ReadTags(missing); !metadata.IsEmpty() {
		t.Fatalf("expected no metadata, got %+v", metadata)
	}
	if cover := reader.ReadCover(missing); cover != nil {
		t.Fatalf("expected no cover, got %+v", cover)
	}
}

func TestOrAbsentMapsErrorsToZeroValue(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	value := Metadata{Title: "Song"}

	if got := orAbsent(logger, "a.mp3", "read tags", value, nil); got != value {
		t.Fatalf("expected value to pass through, got %+v", got)
	}
	if got := orAbsent(logger, "a.mp3", "read tags", value, errors.New("corrupt frame")); got != (Metadata{}) {
		t.Fatalf("expected zero metadata, got %+v", got)
	}
	if got := orAbsent(logger, "a.flac", "read tags", value, ErrUnsupportedFormat); got != (Metadata{}) {
		t.Fatalf("expected zero metadata, got %+v", got)
	}
}

// mpegFrame is a silent MPEG-1 Layer III frame (128 kbps, 44.1 kHz).
func mpegFrame() []byte {
	frame := make([]byte, 417)
	copy(frame, []byte{0xff, 0xfb, 0x90, 0x64})
	return frame
}

func writeID3File(t *testing.T, dir string, name string, configure func(id3Tag *id3v2.Tag)) string {
	t.Helper()

	id3Tag := id3v2.NewEmptyTag()
	id3Tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	configure(id3Tag)

	var buffer bytes.Buffer
	if _, err := id3Tag.WriteTo(&buffer); err != nil {
		t.Fatalf("encode id3 tag: %v", err)
	}
	for range 8 {
		buffer.Write(mpegFrame())
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return path
}
