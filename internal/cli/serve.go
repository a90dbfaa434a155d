package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leenscore/leenscore/internal/analyze"
	"github.com/leenscore/leenscore/internal/server"
	"github.com/leenscore/leenscore/internal/storage"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the LeenScore HTTP API",
	Long: `Serve exposes the analysis pipeline over HTTP:

  POST /v1/analyze       analyze text, a URL, or an uploaded screenshot URL
  POST /v1/upload        preprocess and store a screenshot
  GET  /v1/analyses/{id} resume a previous analysis ("last" with X-Session-ID)
  GET  /health           liveness check`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	analyzer, err := analyze.New(cfg)
	if err != nil {
		return err
	}

	store := storage.NewClient(cfg.Storage)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg, analyzer, store)
}
