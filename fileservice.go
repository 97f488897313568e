package main

import (
	"monochrome/internal/scanner"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const fileRoute = "/media/file"

// FileService lets the webview load local audio and background images. Only
// files the classifier accepts are served.
type FileService struct{}

func NewFileService() *FileService {
	return &FileService{}
}

func (s *FileService) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requested := strings.TrimSpace(req.URL.Query().Get("path"))
	if requested == "" {
		http.Error(rw, "missing file path", http.StatusBadRequest)
		return
	}

	if !scanner.IsAudio(requested) && !scanner.IsImage(requested) {
		http.Error(rw, "file type not allowed", http.StatusForbidden)
		return
	}

	resolvedPath, err := filepath.Abs(requested)
	if err != nil {
		http.Error(rw, "file not found", http.StatusNotFound)
		return
	}

	info, err := os.Stat(resolvedPath)
	if err != nil || !info.Mode().IsRegular() {
		http.Error(rw, "file not found", http.StatusNotFound)
		return
	}

	http.ServeFile(rw, req, resolvedPath)
}
