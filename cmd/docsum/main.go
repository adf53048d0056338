package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/docsum-service/internal/config"
	"github.com/MalithGihan/docsum-service/internal/ingest"
	"github.com/MalithGihan/docsum-service/internal/ocr/tesseract"
	"github.com/MalithGihan/docsum-service/internal/store"
	"github.com/MalithGihan/docsum-service/internal/summarize"
	"github.com/MalithGihan/docsum-service/internal/web"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	setupLogger(log, cfg)

	scratch, err := store.New(cfg.ScratchDir)
	if err != nil {
		log.WithError(err).Fatal("scratch dir")
	}

	extractor := &ingest.Service{
		OCR:     tesseract.New(),
		Scratch: scratch,
		Log:     log,
	}

	pc := summarize.ProviderConfig{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey(),
		OllamaURL: cfg.LLM.OllamaURL,
		Timeout:   cfg.LLM.Timeout,
	}
	summarizer := summarize.New(summarize.NewModel(pc, log), summarize.WithModel(pc.ModelName()))

	srv := web.NewServer(extractor, summarizer, cfg.MaxUploadBytes(), log)

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"scratch":  scratch.Root,
		"provider": cfg.LLM.Provider,
	}).Info("docsum-service listening")
	if err := http.ListenAndServe(":"+cfg.Port, srv.Routes()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func setupLogger(log *logrus.Logger, cfg *config.Config) {
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}
