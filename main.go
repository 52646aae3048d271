package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketing-creator",
	Short: "AI marketing content creator (web UI + MCP tool server)",
	Long: `Generates marketing images with Flux on Modal GPU.
"serve" runs the web UI and the tool broker; the broker starts "tool-server"
as a child process and talks to it over MCP on stdio.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and the tool broker",
	RunE:  runServe,
}

var toolServerCmd = &cobra.Command{
	Use:   "tool-server",
	Short: "Run the MCP tool server on stdin/stdout",
	RunE:  runToolServer,
}

func init() {
	rootCmd.AddCommand(serveCmd, toolServerCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
