// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/olegiv/cmsadmin/internal/util"
)

// upload accepts a multipart "file" field, stores it under UploadsDir and
// answers with its public URL in the configured response shape.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(s.opts.MaxUploadSize); err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.opts.MaxUploadSize {
		uploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}

	name, err := util.StoredName(header.Filename)
	if err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, http.StatusBadRequest, "Invalid file name")
		return
	}
	dest, err := util.SafeJoinPath(s.opts.UploadsDir, name)
	if err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, http.StatusBadRequest, "Invalid file name")
		return
	}

	size, err := saveFile(dest, file)
	if err != nil {
		uploadsTotal.WithLabelValues("failed").Inc()
		logAndInternalError(w, s.logger, "failed to store upload", "name", name, "error", err)
		return
	}
	uploadsTotal.WithLabelValues("stored").Inc()

	url := s.publicURL(r) + "/uploads/" + name
	s.logger.Info("file uploaded", "name", name, "size", size)

	switch s.opts.UploadShape {
	case UploadShapeFile:
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"file": map[string]any{
					"url":          url,
					"name":         name,
					"originalName": header.Filename,
					"size":         size,
				},
			},
		})
	case UploadShapeBare:
		writeJSON(w, http.StatusOK, map[string]any{"data": url})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "File uploaded successfully",
			"data":    map[string]any{"url": url},
		})
	}
}

func (s *Server) publicURL(r *http.Request) string {
	if s.opts.PublicURL != "" {
		return s.opts.PublicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func saveFile(dest string, src io.Reader) (int64, error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, err
	}
	return n, nil
}
