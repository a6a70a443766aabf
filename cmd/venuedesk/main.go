package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/juju/loggo"

	"github.com/nhle/venuedesk/internal/credential"
	"github.com/nhle/venuedesk/internal/keys"
	"github.com/nhle/venuedesk/internal/logging"
	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/server"
	"github.com/nhle/venuedesk/internal/theme"
	"github.com/nhle/venuedesk/internal/ui/panel"
	"github.com/nhle/venuedesk/internal/ui/setup"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var logger = loggo.GetLogger("venuedesk.cmd")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cmd := "watch"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Println("venuedesk " + version)
		return nil
	case "help", "--help", "-h":
		printHelp()
		return nil
	case "logout":
		return runLogout()
	}

	cfgPath := os.Getenv("VENUEDESK_CONFIG")
	if cfgPath == "" {
		cfgPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	switch cmd {
	case "setup":
		if err := setup.Run(cfgPath, cfg); err != nil {
			return err
		}
		fmt.Println("Saved configuration to " + cfgPath)
		return nil
	case "watch":
		return runWatch(cfg)
	case "serve":
		return runServe(cfg)
	case "once":
		return runOnce(cfg, len(os.Args) > 2 && os.Args[2] == "--json")
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printHelp() {
	fmt.Print(`venuedesk - venue back-office notifications

Usage:
  venuedesk [command]

Commands:
  watch          live notification panel in the terminal (default)
  serve          serve notifications over HTTP
  once [--json]  run one pass and print the notifications
  setup          configure the backend and store its token
  logout         remove the stored backend token
  version        print the version

Configuration is read from ~/.config/venuedesk/config.yaml and
VENUEDESK_* environment variables; VENUEDESK_TOKEN overrides the
stored token.
`)
}

func setupLogging(cfg *model.AppConfig, defaultFile string) (func(), error) {
	file := cfg.Log.File
	if file == "" {
		file = defaultFile
	}
	closer, err := logging.Setup(cfg.Log.Level, file)
	if err != nil {
		return nil, err
	}
	return func() { closer.Close() }, nil
}

func runWatch(cfg *model.AppConfig) error {
	// The panel owns the terminal, so logs go to a file.
	closeLog, err := setupLogging(cfg, filepath.Join(model.ConfigDir(), "venuedesk.log"))
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSession(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	m := panel.New(s.poller, keys.DefaultKeyMap())
	defer m.Close()

	s.poller.Start()
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runServe(cfg *model.AppConfig) error {
	closeLog, err := setupLogging(cfg, "")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(s.poller)

	s.poller.Start()
	return srv.Run(ctx, cfg.Server.Addr)
}

func runOnce(cfg *model.AppConfig, asJSON bool) error {
	closeLog, err := setupLogging(cfg, "")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	s, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	snap := s.poller.Refresh(ctx)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Printf("%d notifications, %d unread\n", len(snap.Notifications), snap.UnreadCount)
	now := time.Now()
	for _, n := range snap.Notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %-9s %s: %s (%s)\n",
			marker, theme.TypeLabel(n.Type), n.Title, n.Message, panel.Age(n.CreatedAt, now))
	}
	for _, st := range snap.Sources {
		if !st.OK {
			fmt.Fprintf(os.Stderr, "warning: %s unavailable: %s\n", st.Source, st.Error)
		}
	}
	return nil
}

func runLogout() error {
	if err := credential.Delete(credential.TokenKey); err != nil {
		return err
	}
	if os.Getenv(credential.TokenEnv) != "" {
		fmt.Println("Removed stored token; " + credential.TokenEnv + " is still set in the environment.")
		return nil
	}
	fmt.Println("Removed stored token.")
	return nil
}
