package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/hyperjump/corretor/pkg/utils"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; text length is checked separately in runes.
const maxBodyBytes = 1 << 20

type checkRequest struct {
	Text *string `json:"text"`
}

type correctRequest struct {
	Word *string `json:"word"`
}

type correctResponse struct {
	Word       string   `json:"word"`
	Suggestion string   `json:"suggestion"`
	Candidates []string `json:"candidates"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == nil {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	text := *req.Text
	if n := utf8.RuneCountInString(text); s.config.MaxTextLength > 0 && n > s.config.MaxTextLength {
		s.respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text has %d characters, limit is %d", n, s.config.MaxTextLength))
		return
	}
	s.logger.Debug("check request", zap.String("text", utils.Truncate(text, 80)))
	result, err := s.speller.Check(r.Context(), text)
	if err != nil {
		s.respondContextError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Word == nil {
		s.respondError(w, http.StatusBadRequest, "word is required")
		return
	}
	word := *req.Word
	if n := utf8.RuneCountInString(word); s.config.MaxTextLength > 0 && n > s.config.MaxTextLength {
		s.respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("word has %d characters, limit is %d", n, s.config.MaxTextLength))
		return
	}
	s.logger.Debug("correct request", zap.String("word", word))
	suggestion, cands, err := s.speller.Suggest(r.Context(), word)
	if err != nil {
		s.respondContextError(w, err)
		return
	}
	if cands == nil {
		cands = []string{}
	}
	s.respondJSON(w, http.StatusOK, correctResponse{
		Word:       word,
		Suggestion: suggestion,
		Candidates: cands,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.speller.Vocabulary().Stats()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"vocabulary": stats,
		"source":     s.source,
		"config": map[string]interface{}{
			"max_text_length": s.config.MaxTextLength,
			"request_timeout": s.config.RequestTimeout.String(),
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON object from the request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid request body")
	}
	return nil
}

// respondContextError maps an aborted correction to a status code.
func (s *Server) respondContextError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("correction timed out", zap.Error(err))
		s.respondError(w, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		s.logger.Debug("correction canceled", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		s.logger.Error("correction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
