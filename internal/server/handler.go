package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/sketch2html/internal/pipeline"
	"github.com/ivlev/sketch2html/internal/system"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// convert reads the multipart field "file" and responds with the generated document.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithField("request_id", middleware.GetReqID(r.Context()))

	if r.ContentLength > s.maxUpload {
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return
	}

	if err := system.CheckImageBudget(data, s.maxPixels); err != nil {
		if errors.Is(err, system.ErrImageTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		log.WithError(err).Warn("pixel budget unavailable, skipping check")
	}

	var name string
	if header.Filename != "" {
		name = filepath.Base(header.Filename)
	}
	res, err := s.conv.Convert(r.Context(), s.store, data, name)
	if err != nil {
		status := statusFor(err)
		log.WithFields(logrus.Fields{"file": name, "status": status}).WithError(err).Warn("conversion failed")
		http.Error(w, err.Error(), status)
		return
	}

	if res.Upload.ID != "" {
		w.Header().Set("X-Upload-ID", res.Upload.ID)
	}
	if res.Output != "" {
		w.Header().Set("X-Document-Location", res.Output)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, res.Document)
}

func statusFor(err error) int {
	switch {
	case pipeline.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrRecognitionUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, system.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
