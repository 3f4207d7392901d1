package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"jobscout/internal/config"
	"jobscout/internal/core/extract"
	"jobscout/internal/core/fetch"
	"jobscout/internal/core/ingest"
	"jobscout/internal/core/leads"
	"jobscout/internal/core/mapper"
	"jobscout/internal/core/match"
	"jobscout/internal/logger"
	"jobscout/internal/platform/llm"
	rds "jobscout/internal/platform/redis"
	tasks "jobscout/internal/platform/tasks"
	"jobscout/internal/server"
	"jobscout/internal/store"
	"jobscout/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[jobscout] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Core services
	fetchSvc := fetch.NewService(fetch.Options{
		Headless:    true,
		NavTimeout:  cfg.NavTimeout,
		SettleDelay: cfg.SettleDelay,
	}, redisSvc)
	defer fetchSvc.Close()

	llmSvc, err := llm.NewService(llm.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		log.Fatalf("initializing llm service: %v", err)
	}

	leadsSvc := leads.NewService(fetchSvc)
	ingestSvc := ingest.NewService(leadsSvc, st)
	extractSvc := extract.NewService(fetchSvc, llmSvc, st, cfg.MaxConcurrentFetches)
	mapSvc := mapper.NewService(st)
	matchSvc := match.NewService(st, cfg.ProfilePath)

	ingestHandler := ingest.NewHandler(ingestSvc, taskClient, cfg.SourceURL, cfg.TaskMaxRetries)
	extractHandler := extract.NewHandler(extractSvc, taskClient, cfg.TaskMaxRetries)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeIngest, ingestHandler.HandleTask)
	mux.HandleFunc(tasks.TaskTypeExtract, extractHandler.HandleTask)

	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Jobscout",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	deps := server.Dependencies{
		Ingest:  ingestHandler,
		Extract: extractHandler,
		Map:     mapper.NewHandler(mapSvc),
		Match:   match.NewHandler(matchSvc),
		Store:   st,
		Redis:   redisSvc,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	go func() {
		time.Sleep(5 * time.Second) // Allow services to fully initialize
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
