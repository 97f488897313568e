package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
	"go.senan.xyz/taglib"
)

var ErrUnsupportedFormat = errors.New("unsupported tag format")

var ErrNotID3 = errors.New("file is not id3 tagged")

var ErrNoCover = errors.New("no supported cover picture")

const id3Extension = ".mp3"

// Metadata holds display tags. Empty fields mean no tag was found.
type Metadata struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}

func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == ""
}

// Reader extracts display metadata from ID3-tagged files. Only the .mp3
// extension is probed; everything else reports ErrUnsupportedFormat.
type Reader struct {
	logger zerolog.Logger
}

func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadTags never fails: any read error yields empty Metadata.
func (r *Reader) ReadTags(path string) Metadata {
	metadata, err := r.Read(path)
	return orAbsent(r.logger, path, "read tags", metadata, err)
}

// Read is the strict variant of ReadTags.
func (r *Reader) Read(path string) (Metadata, error) {
	format, err := identify(path)
	if err != nil {
		return Metadata{}, err
	}

	values, taglibErr := taglib.ReadTags(path)
	if taglibErr == nil {
		return Metadata{
			Title:  firstTagValue(values, taglib.Title),
			Artist: firstTagValue(values, taglib.Artist),
			Album:  firstTagValue(values, taglib.Album),
		}, nil
	}

	if format == tag.ID3v1 {
		return Metadata{}, fmt.Errorf("read id3v1 tags %s: %w", path, taglibErr)
	}

	metadata, fallbackErr := readID3v2Text(path)
	if fallbackErr != nil {
		return Metadata{}, errors.Join(
			fmt.Errorf("read tags with taglib %s: %w", path, taglibErr),
			fallbackErr,
		)
	}

	return metadata, nil
}

func readID3v2Text(path string) (Metadata, error) {
	id3Tag, err := id3v2.Open(path, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Artist", "Album/Movie/Show title"},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("read id3v2 tags %s: %w", path, err)
	}
	defer id3Tag.Close()

	return Metadata{
		Title:  strings.TrimSpace(id3Tag.Title()),
		Artist: strings.TrimSpace(id3Tag.Artist()),
		Album:  strings.TrimSpace(id3Tag.Album()),
	}, nil
}

// identify checks the extension and then the container, so that a FLAC
// stream renamed to .mp3 is not handed to the ID3 parsers.
func identify(path string) (tag.Format, error) {
	if strings.ToLower(filepath.Ext(path)) != id3Extension {
		return tag.UnknownFormat, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}

	file, err := os.Open(path)
	if err != nil {
		return tag.UnknownFormat, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	format, fileType, err := tag.Identify(file)
	if err != nil {
		return tag.UnknownFormat, fmt.Errorf("identify %s: %w", filepath.Base(path), errors.Join(ErrNotID3, err))
	}
	if fileType != tag.MP3 {
		return tag.UnknownFormat, fmt.Errorf("%s is %s: %w", filepath.Base(path), fileType, ErrNotID3)
	}

	switch format {
	case tag.ID3v1, tag.ID3v2_2, tag.ID3v2_3, tag.ID3v2_4:
		return format, nil
	default:
		return tag.UnknownFormat, fmt.Errorf("%s has %s tags: %w", filepath.Base(path), format, ErrNotID3)
	}
}

func firstTagValue(values map[string][]string, keys ...string) string {
	for _, key := range keys {
		for _, value := range values[key] {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}

	return ""
}

// orAbsent is the single point where tag read failures turn into "no
// metadata". The error is logged and the zero value returned.
func orAbsent[T any](logger zerolog.Logger, path string, operation string, value T, err error) T {
	if err == nil {
		return value
	}

	event := logger.Debug()
	if errors.Is(err, ErrUnsupportedFormat) {
		event = logger.Trace()
	}
	event.Err(err).Str("path", path).Str("operation", operation).Msg("treating tags as absent")

	var zero T
	return zero
}
