package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ai-marketing-content-creator/modules/assistant"
	"ai-marketing-content-creator/modules/common/config"
	"ai-marketing-content-creator/modules/toolserver"
)

// runToolServer - stdout은 MCP 전용, 로그는 모두 stderr
func runToolServer(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gem, err := buildGeminiClient(cfg)
	if err != nil {
		return err
	}
	gen, err := buildGenerator(cfg, gem)
	if err != nil {
		return err
	}
	writer, err := buildWriter(cfg, gem)
	if err != nil {
		return err
	}

	store, closeHistory, err := buildHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	svc := toolserver.NewService(assistant.New(writer, cfg.PromptCacheTTL), gen, store, cfg.GenerationRatePerSec)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return toolserver.Serve(ctx, svc)
}
