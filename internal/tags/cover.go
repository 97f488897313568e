package tags

import (
	"fmt"
	"monochrome/internal/coverart"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// ReadCover returns the first JPEG or PNG picture embedded in path, or nil.
func (r *Reader) ReadCover(path string) *coverart.CoverArt {
	cover, err := r.Cover(path)
	return orAbsent(r.logger, path, "read cover", cover, err)
}

// Cover is the strict variant of ReadCover. Pictures are considered in the
// order they are stored in the tag, including repeated frames with the same
// picture type and ID3v2.2 PIC frames.
func (r *Reader) Cover(path string) (*coverart.CoverArt, error) {
	format, err := identify(path)
	if err != nil {
		return nil, err
	}
	if format == tag.ID3v1 {
		return nil, fmt.Errorf("id3v1 cannot carry pictures: %w", ErrNoCover)
	}

	properties, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, fmt.Errorf("read picture list %s: %w", path, err)
	}

	index, ok := coverart.FirstSupported(imageMIMETypes(properties.Images))
	if !ok {
		return nil, ErrNoCover
	}

	imageData, err := taglib.ReadImageOptions(path, index)
	if err != nil {
		return nil, fmt.Errorf("read picture %d %s: %w", index, path, err)
	}
	if len(imageData) == 0 {
		return nil, fmt.Errorf("picture %d is empty: %w", index, ErrNoCover)
	}

	cover := coverart.Encode(coverart.Picture{
		MIMEType: properties.Images[index].MIMEType,
		Data:     imageData,
	})
	return &cover, nil
}

func imageMIMETypes(images []taglib.ImageDesc) []string {
	mimeTypes := make([]string, len(images))
	for i, image := range images {
		mimeTypes[i] = image.MIMEType
	}

	return mimeTypes
}
