// Package server hosts the generation HTTP API behind the client:
// a multipart upload endpoint that structures pasted text into slides
// and renders them onto the uploaded template.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slidecraft/deckgen/internal/pptx"
	"github.com/slidecraft/deckgen/internal/slides"
)

// MaxUploadBytes caps the template upload. Real decks rarely pass a
// few megabytes; 40MB leaves room for image-heavy corporate templates.
const MaxUploadBytes = 40 << 20

// Structurer turns raw text into a deck. Satisfied by slides.Structure;
// tests substitute their own.
type Structurer func(ctx context.Context, provider, apiKey, text, guidance string) *slides.Deck

// Server wires the generation handlers onto a gin engine.
type Server struct {
	structure Structurer
}

// NewRouter returns the engine serving the generation API.
func NewRouter() *gin.Engine {
	s := &Server{structure: slides.Structure}
	return s.router()
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/generate", s.handleGenerate)
	}
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleGenerate accepts the multipart submission, structures the text
// into slides and streams the rendered deck back. Errors carry a
// "detail" field so clients can surface the message verbatim.
func (s *Server) handleGenerate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	file, err := c.FormFile("template")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "Upload too large; the limit is 40MB."})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A template file is required."})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pptx" && ext != ".potx" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Please upload a .pptx or .potx file"})
		return
	}

	text := strings.TrimSpace(c.PostForm("text"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Text content is required."})
		return
	}
	guidance := c.PostForm("guidance")
	provider := c.PostForm("provider")
	apiKey := c.PostForm("api_key")
	speakerNotes := c.PostForm("speaker_notes") == "true"

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Could not read the uploaded template."})
		return
	}
	defer src.Close()
	templateData, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Could not read the uploaded template."})
		return
	}

	deck := s.structure(c.Request.Context(), provider, apiKey, text, guidance)
	if !speakerNotes {
		deck.StripNotes()
	}

	out, err := pptx.Build(templateData, deck)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Could not generate the presentation: %v", err)})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="generated.pptx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.presentationml.presentation", out)
}

// requestLogger logs method, path and status only. Form fields are
// never logged; the submission can carry an API credential.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Printf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
