package main

import (
	"errors"
	"monochrome/internal/coverart"
	"net/http"
	"strconv"
	"strings"
)

const coverRoute = "/media/cover"

// CoverSource is satisfied by tags.Reader.
type CoverSource interface {
	ReadCover(path string) *coverart.CoverArt
}

type CoverService struct {
	source CoverSource
}

func NewCoverService(source CoverSource) *CoverService {
	return &CoverService{source: source}
}

// GetCoverArt returns nil when the file has no supported embedded picture.
func (s *CoverService) GetCoverArt(path string) (*coverart.CoverArt, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, errors.New("path is required")
	}

	return s.source.ReadCover(trimmedPath), nil
}

func (s *CoverService) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	audioPath := strings.TrimSpace(req.URL.Query().Get("path"))
	if audioPath == "" {
		http.Error(rw, "missing audio path", http.StatusBadRequest)
		return
	}

	cover := s.source.ReadCover(audioPath)
	if cover == nil {
		http.Error(rw, "cover not found", http.StatusNotFound)
		return
	}

	imageData, err := cover.Decode()
	if err != nil {
		http.Error(rw, "cover not found", http.StatusNotFound)
		return
	}

	rw.Header().Set("Content-Type", cover.MIMEType)
	rw.Header().Set("Content-Length", strconv.Itoa(len(imageData)))
	rw.Header().Set("Cache-Control", "no-cache")

	if req.Method == http.MethodHead {
		return
	}

	_, _ = rw.Write(imageData)
}
