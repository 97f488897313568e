package coverart

import (
	"encoding/base64"
	"fmt"
	"slices"
)

const MIMETypeJPEG = "image/jpeg"

const MIMETypePNG = "image/png"

// CoverArt is an embedded picture prepared for a text transport.
type CoverArt struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

// Picture is a raw embedded picture as stored in a tag.
type Picture struct {
	MIMEType string
	Data     []byte
}

// IsSupportedMIMEType reports whether mimeType is exactly one of the types
// the UI can render. No normalisation is applied.
func IsSupportedMIMEType(mimeType string) bool {
	switch mimeType {
	case MIMETypeJPEG, MIMETypePNG:
		return true
	default:
		return false
	}
}

// FirstSupported returns the position of the first supported MIME type in
// stored order. Unsupported entries are skipped without ending the search.
func FirstSupported(mimeTypes []string) (int, bool) {
	index := slices.IndexFunc(mimeTypes, IsSupportedMIMEType)
	return index, index >= 0
}

func Encode(picture Picture) CoverArt {
	return CoverArt{
		Data:     base64.StdEncoding.EncodeToString(picture.Data),
		MIMEType: picture.MIMEType,
	}
}

func (c CoverArt) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(c.Data)
	if err != nil {
		return nil, fmt.Errorf("decode cover data: %w", err)
	}

	return data, nil
}
