package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mealgraph/mealgraph/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the pipeline as an MCP Server so AI agents can drive the
nutrition flows as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		a, err := bootstrap(cmd)
		if err != nil {
			fmt.Printf("Error initializing mealgraph: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		slog.SetDefault(a.logger)

		srv := mcp.NewServer(a.pipeline, a.store, a.store, a.store, version)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			a.logger.Info("starting MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				a.logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			a.logger.Info("starting MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					a.logger.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			a.logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8765, "Port to listen on (only for SSE)")
}
