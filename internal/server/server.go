package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/facturx/internal/export"
	"github.com/rezonia/facturx/internal/model"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server exposes the export pipeline over HTTP
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *export.Pipeline
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:   config,
		router:   router,
		pipeline: export.NewPipeline(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/export", s.handleExport)
		v1.POST("/xml", s.handleXML)
		v1.POST("/validate", s.handleValidate)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readInvoice decodes the invoice JSON body shared by export and xml
func (s *Server) readInvoice(c *gin.Context) (*model.Invoice, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return nil, false
	}

	var inv model.Invoice
	if err := json.Unmarshal(body, &inv); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid invoice JSON: " + err.Error()})
		return nil, false
	}
	if inv.Number == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing invoice number"})
		return nil, false
	}
	return &inv, true
}

func (s *Server) handleExport(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}

	profile := model.ParseProfile(c.Query("profile"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result := s.pipeline.Export(ctx, inv, profile)
	if result.Error != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error.Error()})
		return
	}

	reportJSON, _ := json.Marshal(result.Report)
	c.Header("X-Facturx-Report", string(reportJSON))
	c.Header("Content-Disposition", `attachment; filename="`+inv.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

func (s *Server) handleXML(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}

	profile := model.ParseProfile(c.Query("profile"))
	xml := s.pipeline.GenerateXML(inv, profile)

	c.Data(http.StatusOK, "application/xml", []byte(xml))
}

func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	report := s.pipeline.Validate(body)

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:           report.Valid,
		HasXML:          report.HasXML,
		HasXMPMetadata:  report.HasXMPMetadata,
		HasAF:           report.HasAF,
		HasOutputIntent: report.HasOutputIntent,
		Errors:          report.Errors,
	})
}
