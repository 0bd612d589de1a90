package server

import (
	"errors"
	"net/http"

	"contextAgent/internal/budget"
	"contextAgent/internal/contract"
	"contextAgent/internal/digest"
	"contextAgent/internal/injection"
	"contextAgent/internal/message"
	"contextAgent/internal/packer"
	"contextAgent/internal/pipeline"
	"contextAgent/internal/retrieval"
	"contextAgent/internal/toollog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type packRequest struct {
	Messages []message.Message `json:"messages" binding:"required"`
	MaxChars *int              `json:"max_chars"`
	Policy   string            `json:"policy"`
}

type packResponse struct {
	Packed     []message.Message `json:"packed"`
	Dropped    []message.Message `json:"dropped"`
	FinalChars int               `json:"final_chars"`
}

func (s *Server) handlePack(c *gin.Context) {
	var req packRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateRoles(req.Messages); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy := s.cfg.Context.Policy
	if req.Policy != "" {
		p, err := packer.ParsePolicy(req.Policy)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		policy = p
	}

	maxChars := s.cfg.Context.MaxChars
	if req.MaxChars != nil {
		maxChars = *req.MaxChars
	}

	res := policy.Pack(req.Messages, budget.Budget{MaxChars: maxChars})
	s.metrics.ObservePack(string(policy), res.FinalChars, len(res.Dropped))

	c.JSON(http.StatusOK, packResponse{
		Packed:     nonNil(res.Packed),
		Dropped:    nonNil(res.Dropped),
		FinalChars: res.FinalChars,
	})
}

type digestRequest struct {
	Text     string `json:"text"`
	MaxChars *int   `json:"max_chars"`
}

func (s *Server) handleDigest(c *gin.Context) {
	var req digestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxChars := s.cfg.Context.DigestMaxChars
	if req.MaxChars != nil {
		maxChars = *req.MaxChars
	}

	d := digest.Text(req.Text, maxChars)
	c.JSON(http.StatusOK, gin.H{
		"text":           d.Text,
		"original_chars": d.OriginalChars,
		"digest_chars":   d.DigestChars,
	})
}

type scanRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	findings := injection.Scan(req.Text)
	s.countFindings(findings)

	c.JSON(http.StatusOK, gin.H{
		"findings":  nonNilFindings(findings),
		"sanitized": injection.Sanitize(req.Text),
	})
}

type bundleRequest struct {
	Chunks   []retrieval.Chunk `json:"chunks" binding:"required"`
	Sanitize *bool             `json:"sanitize"`
}

func (s *Server) handleBundle(c *gin.Context) {
	var req bundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sanitize := s.cfg.Context.SanitizeRetrieval
	if req.Sanitize != nil {
		sanitize = *req.Sanitize
	}

	res := retrieval.Bundle(req.Chunks, retrieval.WithSanitize(sanitize))
	s.countFindings(res.Findings)

	c.JSON(http.StatusOK, gin.H{
		"text":          res.Text,
		"had_injection": res.HadInjection,
		"findings":      nonNilFindings(res.Findings),
	})
}

type transcriptRequest struct {
	Events   []toollog.Event `json:"events"`
	MaxChars *int            `json:"max_chars"`
}

func (s *Server) handleTranscript(c *gin.Context) {
	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxChars := s.cfg.Context.TranscriptMaxChars
	if req.MaxChars != nil {
		maxChars = *req.MaxChars
	}

	text := toollog.Render(req.Events, maxChars)
	c.JSON(http.StatusOK, gin.H{"text": text, "chars": budget.Len(text)})
}

type contextRequest struct {
	Messages []message.Message `json:"messages" binding:"required"`
	Chunks   []retrieval.Chunk `json:"chunks"`
	Events   []toollog.Event   `json:"events"`
}

type contextResponse struct {
	Instructions string              `json:"instructions"`
	Input        string              `json:"input"`
	FinalChars   int                 `json:"final_chars"`
	Dropped      []message.Message   `json:"dropped"`
	HadInjection bool                `json:"had_injection"`
	Sanitized    bool                `json:"sanitized"`
	Findings     []injection.Finding `json:"findings"`
}

func (s *Server) bindContext(c *gin.Context) (pipeline.Request, bool) {
	var req contextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return pipeline.Request{}, false
	}
	if err := validateRoles(req.Messages); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return pipeline.Request{}, false
	}
	return pipeline.Request{Messages: req.Messages, Chunks: req.Chunks, Events: req.Events}, true
}

func (s *Server) observeContext(built *pipeline.Context) {
	s.metrics.ObservePack(string(s.cfg.Context.Policy), built.Pack.FinalChars, len(built.Pack.Dropped))
	s.countFindings(built.Findings)
}

func (s *Server) handleContext(c *gin.Context) {
	req, ok := s.bindContext(c)
	if !ok {
		return
	}

	built, err := s.assembler.Assemble(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.observeContext(built)

	c.JSON(http.StatusOK, toContextResponse(built))
}

func (s *Server) handleAsk(c *gin.Context) {
	if s.gen == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "LLM не настроен"})
		return
	}

	req, ok := s.bindContext(c)
	if !ok {
		return
	}

	ans, err := s.assembler.Ask(c.Request.Context(), s.gen, req)
	if ans != nil {
		s.observeContext(ans.Context)
	}
	if err != nil {
		var cerr *contract.Error
		switch {
		case errors.Is(err, pipeline.ErrEmptyRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &cerr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": cerr.Message,
				"kind":  cerr.Kind.String(),
				"raw":   cerr.Raw,
			})
		default:
			s.log.Error("Ошибка запроса к модели", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": ans.Response,
		"context":  toContextResponse(ans.Context),
	})
}

func (s *Server) countFindings(findings []injection.Finding) {
	for _, f := range findings {
		s.metrics.IncFinding(f.Kind)
	}
}

func toContextResponse(built *pipeline.Context) contextResponse {
	return contextResponse{
		Instructions: built.Instructions,
		Input:        built.Input,
		FinalChars:   built.Pack.FinalChars,
		Dropped:      nonNil(built.Pack.Dropped),
		HadInjection: built.HadInjection,
		Sanitized:    built.Sanitized,
		Findings:     nonNilFindings(built.Findings),
	}
}

var errUnknownRole = errors.New("неизвестная роль сообщения")

func validateRoles(msgs []message.Message) error {
	for _, m := range msgs {
		if !m.Role.Valid() {
			return errUnknownRole
		}
	}
	return nil
}

func nonNil(msgs []message.Message) []message.Message {
	if msgs == nil {
		return []message.Message{}
	}
	return msgs
}

func nonNilFindings(f []injection.Finding) []injection.Finding {
	if f == nil {
		return []injection.Finding{}
	}
	return f
}
