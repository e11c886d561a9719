// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"scalers/internal/catalog"
	"scalers/internal/models"
)

// maxUploadSize is the largest media file accepted (50 MB).
const maxUploadSize = 50 << 20

// videoTypes names containers the sniffer does not recognise. The system
// MIME table is only consulted after these.
var videoTypes = map[string]string{
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

var (
	errUploadTooLarge = errors.New("upload too large")
	errUploadType     = errors.New("file type not allowed")
)

// readUpload pulls the "file" part out of a parsed multipart form. It
// returns (nil, nil) when no file was chosen. The content type is sniffed
// from the bytes, never taken from the client.
func readUpload(r *http.Request) (*catalog.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, nil
	}
	if header.Size > maxUploadSize {
		return nil, errUploadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadSize {
		return nil, errUploadTooLarge
	}

	contentType := sniffContentType(header.Filename, data)
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return nil, errUploadType
	}
	return &catalog.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// sniffContentType detects the media type from the first 512 bytes. SVG
// sniffs as XML or text, and containers such as QuickTime sniff as
// octet-stream; both fall back to the file extension.
func sniffContentType(filename string, data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".svg" && (strings.Contains(contentType, "xml") || contentType == "text/plain"):
		return "image/svg+xml"
	case contentType == "application/octet-stream" && videoTypes[ext] != "":
		return videoTypes[ext]
	case contentType == "application/octet-stream":
		if byExt := mime.TypeByExtension(ext); strings.HasPrefix(byExt, "video/") {
			return byExt
		}
	}
	return contentType
}

// uploadMessage turns a readUpload error into text for the form.
func uploadMessage(err error) string {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return "File too large. Maximum size is 50 MB."
	case errors.Is(err, errUploadType):
		return "Only image and video files can be uploaded."
	}
	return "The file could not be read. Please try again."
}

// MediaUpload stores a single file and answers with its public URL, for
// example a client logo picked before the item itself is saved.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if !a.catalog.UploadsEnabled() {
		writeJSONError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, "File too large. Maximum size is 50 MB.", http.StatusRequestEntityTooLarge)
		return
	}
	up, err := readUpload(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSONError(w, uploadMessage(err), status)
		return
	}
	if up == nil {
		writeJSONError(w, "No file provided.", http.StatusBadRequest)
		return
	}

	kind, err := models.ParseContentKind(r.FormValue("content_type"))
	if err != nil {
		kind = models.KindCreatives
	}

	url, err := a.catalog.UploadMedia(r.Context(), kind, r.FormValue("title"), up)
	if err != nil {
		if msg := catalog.Message(err); msg != "" {
			writeJSONError(w, msg, http.StatusUnprocessableEntity)
			return
		}
		slog.Error("media upload failed", "error", err)
		writeJSONError(w, "Failed to upload file.", http.StatusInternalServerError)
		return
	}

	slog.Info("media uploaded", "url", url, "type", up.ContentType, "size", len(up.Data))
	writeJSON(w, http.StatusCreated, map[string]string{"url": url, "content_type": up.ContentType})
}
