// Command interviewserver runs the reference HTTP binding for the mock
// interview and proctoring core: question generation, answer scoring,
// adaptive difficulty, report synthesis, and proctoring frame analysis.
//
// Usage:
//
//	go run ./cmd/interviewserver
//	go run ./cmd/interviewserver -config ./config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/altoai/interview-platform/pkg/agent"
	"github.com/altoai/interview-platform/pkg/collab"
	"github.com/altoai/interview-platform/pkg/config"
	"github.com/altoai/interview-platform/pkg/httpapi"
	"github.com/altoai/interview-platform/pkg/interview"
	"github.com/altoai/interview-platform/pkg/proctor"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	bankPath := flag.String("bank", "", "path to an external question-bank JSON file (defaults to the embedded bank)")
	debug := flag.Bool("debug", false, "enable gin debug mode and request logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	bank, err := loadBank(cfg, *bankPath)
	if err != nil {
		slog.Error("failed to load question bank", slog.String("error", err.Error()))
		os.Exit(1)
	}
	catalog := interview.NewCatalog(bank)

	history := collab.NewStubHistoryReader()
	transcriber := &collab.StubTranscriber{Backend: collab.BackendWhisper}
	faceDetector := &collab.StubFaceDetector{}
	faceMesh := &collab.StubFaceMesh{}
	faceEmbedder := &collab.StubFaceEmbedder{}

	a := agent.New(catalog, transcriber, faceDetector, history,
		cfg.Scoring.WeakThreshold, cfg.Scoring.StrongThreshold, cfg.Scoring.QuestionCount)
	p := proctor.New(faceDetector, faceMesh, faceEmbedder, cfg.Proctor.Sensitivity)

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	httpapi.NewServer(a, p).Routes(v1)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}

	go func() {
		slog.Info("starting interview platform server", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server exited unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down interview platform server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadBank(cfg *config.Config, flagPath string) (*interview.Bank, error) {
	path := cfg.BankPath
	if flagPath != "" {
		path = flagPath
	}
	if path == "" {
		return interview.LoadEmbeddedBank()
	}
	bank, err := interview.LoadBankFile(path)
	if err != nil {
		return nil, fmt.Errorf("load bank file %s: %w", path, err)
	}
	return bank, nil
}
