package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rpg/internal/platform/tui"
)

var (
	flagHost        string
	flagPort        int
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game. Every user name gets its own save
database in an "ssh" directory next to save.path.

Examples:
  rpg serve                       # Listen on server.host:server.port
  rpg serve --port 2222           # Listen on port 2222
  rpg serve --host-key ./host_key # Use a specific host key

Users can connect with:
  ssh localhost -p 2323`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Address to listen on (default server.host)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on (default server.port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file, generated if missing")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagHost != "" {
		cfg.Server.Host = flagHost
	}
	if flagPort > 0 {
		cfg.Server.Port = flagPort
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}

	logger := newLogger(cfg, os.Stderr, "rpg-ssh")
	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Connect with: ssh localhost -p %d\n", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.ListenAndServe(ctx); err != nil {
		fatal("%v", err)
	}
}
