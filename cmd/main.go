package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yukifw/ragbot/pkg/bot"
	cfgPkg "github.com/yukifw/ragbot/pkg/config"
	"github.com/yukifw/ragbot/pkg/extract"
	"github.com/yukifw/ragbot/pkg/llm"
	"github.com/yukifw/ragbot/pkg/pipeline"
	"github.com/yukifw/ragbot/pkg/prompt"
	"github.com/yukifw/ragbot/pkg/router"
	"github.com/yukifw/ragbot/pkg/search"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	// Missing .env is fine; credentials may come from the real environment.
	_ = godotenv.Load()

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if errs := config.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
}

func run(config *cfgPkg.Config, logger *zap.Logger) error {
	searcher, err := search.NewWithConfig(search.ClientConfig{
		BaseURL: config.Search.BaseURL,
		APIKey:  config.BraveAPIKey,
		Timeout: time.Duration(config.Search.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	extractor := extract.NewWithConfig(extract.ExtractorConfig{
		Timeout:   time.Duration(config.Extract.TimeoutSeconds) * time.Second,
		MaxChars:  config.Extract.MaxChars,
		RateLimit: config.Extract.RateLimit,
	})

	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		APIKey:      config.LLMAPIKey,
		Model:       config.LLM.Model,
		Temperature: config.LLM.Temperature,
		MaxTokens:   config.LLM.MaxTokens,
		BaseURL:     config.LLM.BaseURL,
		Timeout:     time.Duration(config.LLM.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	assembler := prompt.NewWithConfig(prompt.AssemblerConfig{
		Language: config.Prompt.Language,
		MaxChars: config.Prompt.MaxChars,
	})

	pipe := pipeline.New(pipeline.PipelineConfig{
		SearchCount:   config.Search.Count,
		TopURLs:       config.Extract.TopURLs,
		Persona:       config.Prompt.Persona,
		AlwaysAugment: config.Bot.AlwaysAugment,
	}, searcher, extractor, chatEngine, assembler, logger)

	b, err := bot.New(config.DiscordToken, router.New(config.Bot.AllowedChannel), pipe, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := b.Start(ctx); err != nil {
		return err
	}
	color.Cyan("ragbot is running. Press Ctrl+C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	b.Stop()
	return nil
}
