// Command crossmini-server exposes the puzzle synthesis engine over HTTP:
// one POST /generate route plus /health and /metrics, with graceful
// shutdown on SIGINT/SIGTERM. The server is stateless; every request
// carries everything the engine needs.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/internal/config"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/internal/middleware"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/engine"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/orchestrator"
)

func main() {
	cfg := config.LoadServer()

	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.PerformanceMonitor())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.GetMetrics())
	})

	router.POST("/generate", handleGenerate)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("crossmini-server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// handleGenerate accepts an engine.Request body and returns the engine's
// Result as JSON. A malformed request (bad JSON, empty theme list, negative
// max_time_ms) reports 400; any other outcome, including an unsuccessful
// synthesis attempt, is 200 with Result.Success reporting which.
func handleGenerate(c *gin.Context) {
	var req engine.Request
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	// engine.Generate treats an explicit 0 literally as "no time at all",
	// so a caller that simply omits max_time_ms (the common case over
	// HTTP) gets the 15-second default here rather than the
	// immediate-failure edge case.
	if req.Options.MaxTimeMS == 0 {
		req.Options.MaxTimeMS = orchestrator.DefaultMaxTimeMS
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := engine.Generate(ctx, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if result.Fingerprint != "" {
		c.Header("ETag", `"`+result.Fingerprint+`"`)
	}
	c.JSON(http.StatusOK, result)
}
