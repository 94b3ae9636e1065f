package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
)

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, http.StatusOK, "index.html", indexView{Provider: s.analyzer.Provider()})
}

// analyzePage handles the HTML form. Diagnostics are rendered on the upload
// page; a summary gets the result page.
func (s *Server) analyzePage(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		view := indexView{Provider: s.analyzer.Provider()}
		out, code := uploadFailure(err)
		switch {
		case out != nil:
			view.Diagnostic = out.Diagnostic
		case errors.Is(err, errNoFile):
			view.Diagnostic = "Choose an exported chat file to upload."
		default:
			view.Diagnostic = analyzer.Diagnostic(analyzer.ReasonUnreadable)
		}
		s.pages.render(w, code, "index.html", view)
		return
	}
	defer u.Close()

	out := s.analyzer.Analyze(r.Context(), u.req)
	if out.Failed() {
		s.pages.render(w, statusFor(out), "index.html", indexView{
			Provider:   s.analyzer.Provider(),
			Diagnostic: out.Diagnostic,
		})
		return
	}

	s.pages.render(w, http.StatusOK, "result.html", resultView{
		Filename: u.req.Filename,
		Outcome:  out,
	})
}

func (s *Server) analyzeJSON(w http.ResponseWriter, r *http.Request) {
	s.serveJSON(w, r, s.analyzer.Analyze)
}

func (s *Server) parseJSON(w http.ResponseWriter, r *http.Request) {
	s.serveJSON(w, r, s.analyzer.Parse)
}

func (s *Server) serveJSON(w http.ResponseWriter, r *http.Request, run func(context.Context, analyzer.Request) *analyzer.Outcome) {
	u, err := s.readUpload(w, r)
	if err != nil {
		out, code := uploadFailure(err)
		if out == nil {
			s.logger.Warn("rejected upload", "request_id", middleware.GetReqID(r.Context()), "error", err)
			writeJSON(w, code, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, code, out)
		return
	}
	defer u.Close()

	out := run(r.Context(), u.req)
	writeJSON(w, statusFor(out), out)
}
