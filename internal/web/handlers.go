// SPDX-License-Identifier: Apache-2.0

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kusari-oss/readmegen/internal/core/template"
	"github.com/kusari-oss/readmegen/internal/defaults"
	"github.com/kusari-oss/readmegen/internal/generator"
	"github.com/kusari-oss/readmegen/internal/logger"
	"github.com/kusari-oss/readmegen/internal/session"
	"github.com/kusari-oss/readmegen/internal/version"
)

// SessionHeader selects an existing session for a generate request
const SessionHeader = "X-Session-ID"

type errorResponse struct {
	Error string `json:"error"`
	Log   string `json:"log,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// health reports liveness
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
}

// optionDefaults returns the options a new generation starts from
func (s *Server) optionDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, s.config.Defaults.Redacted())
}

// optionSchema returns the JSON schema requests are validated against
func (s *Server) optionSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/schema+json", defaults.OptionsSchema())
}

// generate runs a generation and streams its progress as server-sent events:
// "session", then "log" for every diagnostic line, then "result" or "error".
func (s *Server) generate(c *gin.Context) {
	opts := s.config.Defaults
	opts.Output = ""
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	// the server allocates the output file, clients never name a path on its disk
	if opts.Output != "" {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "output cannot be set over HTTP"})
		return
	}
	if err := s.service.Validate(opts); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	sess, err := s.sessionFor(c.GetHeader(SessionHeader))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	logs := make(chan string, 16)
	done := make(chan error, 1)

	go func() {
		done <- s.service.Generate(ctx, sess, opts, func(current string) {
			select {
			case logs <- current:
			case <-ctx.Done():
			}
		})
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("session", gin.H{"id": sess.ID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case current := <-logs:
			c.SSEvent("log", gin.H{"log": current})
			return true

		case err := <-done:
			// observer calls happen before Generate returns, flush what is queued
			flushLogs(c, logs)
			s.finish(c, sess, err)
			return false

		case <-ctx.Done():
			logger.FromContext(ctx).Info("client disconnected", "session_id", sess.ID)
			return false
		}
	})
}

func flushLogs(c *gin.Context, logs <-chan string) {
	for {
		select {
		case current := <-logs:
			c.SSEvent("log", gin.H{"log": current})
		default:
			return
		}
	}
}

func (s *Server) finish(c *gin.Context, sess *session.Session, err error) {
	if err != nil {
		var genErr *generator.GenerationError
		if errors.As(err, &genErr) {
			c.SSEvent("error", errorResponse{Error: genErr.Message, Log: genErr.Log})
			return
		}
		c.SSEvent("error", errorResponse{Error: err.Error()})
		return
	}
	c.SSEvent("result", gin.H{
		"session_id": sess.ID,
		"content":    sess.Content,
		"download":   fmt.Sprintf("/api/v1/sessions/%s/download", sess.ID),
	})
}

func (s *Server) sessionFor(id string) (*session.Session, error) {
	if id == "" {
		return s.store.Create()
	}
	return s.store.Get(id)
}

// getSession returns the stored state of a session
func (s *Server) getSession(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// resetSession clears a session's results
func (s *Server) resetSession(c *gin.Context) {
	sess, err := s.store.Reset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// download serves the generated README as a Markdown attachment
func (s *Server) download(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if !sess.Generated {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no README has been generated for this session"})
		return
	}

	name, err := template.DownloadName(s.config.DownloadName, sess.Options)
	if err != nil {
		logger.Error(c.Request.Context(), "invalid download name template", err)
		name = template.DefaultDownloadName
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(sess.Content))
}
