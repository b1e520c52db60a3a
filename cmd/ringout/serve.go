package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ringout/internal/platform/tui"
)

var (
	flagSSHAddr      string
	flagHostKey      string
	flagIdleTimeout  int
	flagLobbyTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ringout SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the full menu. Local
matches put both fighters on the connecting keyboard; "Host Online"
opens a lobby with a six-character join code that another connection
enters under "Join Online". Match history is stored per server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ringout/host_key

Examples:
  ringout serve                           # Listen on :23234 with auto-generated key
  ringout serve --ssh :2222               # Listen on port 2222
  ringout serve --host-key ./my_host_key  # Use specific host key
  ringout serve --db ./history.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagLobbyTimeout, "lobby-timeout", 120, "Seconds an online lobby waits for an opponent")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Game = loadConfig()
	cfg.Online.TickRate = flagFPS
	cfg.Online.LobbyTimeout = time.Duration(flagLobbyTimeout) * time.Second

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting ringout SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
