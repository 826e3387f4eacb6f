package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayasuda/kumitate/internal/builder"
	"github.com/ayasuda/kumitate/internal/grader"
	"github.com/ayasuda/kumitate/internal/language"
)

// gradeRequest is the POST /api/grade body. ExerciseID is a pointer so a
// missing field is distinguishable from the valid sentence ID 0.
type gradeRequest struct {
	ExerciseID *int     `json:"exercise_id" binding:"required"`
	Language   string   `json:"language" binding:"required"`
	Tokens     []string `json:"tokens"`
}

func (s *Server) getManifest(c *gin.Context) {
	m, err := s.store.Manifest(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) getExercise(c *gin.Context) {
	langs := splitLangs(c.Query("langs"))
	ex, err := s.builder.Build(c.Request.Context(), langs)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (s *Server) getExerciseByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exercise id"})
		return
	}
	ex, err := s.builder.BuildForSentence(c.Request.Context(), id, splitLangs(c.Query("langs")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (s *Server) postGrade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid grade request"})
		return
	}

	ex, err := s.builder.BuildForSentence(c.Request.Context(), *req.ExerciseID, []string{req.Language})
	if err != nil {
		s.fail(c, err)
		return
	}
	langEx, ok := ex.Languages[req.Language]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no exercise for language " + req.Language})
		return
	}

	result := grader.Grade(
		language.Lookup(req.Language),
		grader.Expected{Text: langEx.Text, Tokens: langEx.Tokens},
		req.Tokens,
	)
	c.JSON(http.StatusOK, result)
}

// fail maps builder and collaborator errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, builder.ErrNoSuitableSentence):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "no suitable sentence found",
			"retryable": true,
		})
	case errors.Is(err, builder.ErrSentenceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
	default:
		s.log.Error("corpus failure",
			"request_id", c.GetString("request_id"),
			"error", err.Error(),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "corpus unavailable"})
	}
}

// splitLangs parses the comma-separated langs query parameter. Empty
// means every language the manifest advertises.
func splitLangs(q string) []string {
	if q == "" {
		return nil
	}
	var langs []string
	for _, part := range strings.Split(q, ",") {
		if part = strings.TrimSpace(part); part != "" {
			langs = append(langs, part)
		}
	}
	return langs
}
