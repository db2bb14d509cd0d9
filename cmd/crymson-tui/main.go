package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ytget/crymson/internal/bootstrap"
	"github.com/ytget/crymson/internal/config"
	"github.com/ytget/crymson/internal/logging"
	"github.com/ytget/crymson/internal/platform"
	"github.com/ytget/crymson/internal/tui"
	"github.com/ytget/crymson/internal/view"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the TOML settings file")
	flag.Parse()

	store, err := config.NewViperStore(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	settings := config.NewSettings(store)

	// Log lines would corrupt the alternate screen, so they go to a file
	logFile := openLogFile(filepath.Join(filepath.Dir(store.Path()), "crymson-tui.log"))
	defer logFile.Close()
	logging.SetupWriter(settings.GetLogging(), logFile)
	logging.Info("starting", "app", "crymson-tui", "version", version, "config", store.Path())

	telemetry := bootstrap.StartTelemetry(context.Background(), settings, version)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)
	}()

	platform.SilenceBrowser()

	queue := view.NewQueue()
	m := tui.NewModel(queue)
	surface := view.NewSurface(m, queue)
	client := bootstrap.NewCatalogClient(settings)
	fetcher, searcher := bootstrap.NewServices(client, surface, settings)
	m.Bind(fetcher, searcher)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openLogFile opens path for appending, falling back to discarding logs
func openLogFile(path string) io.WriteCloser {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nopCloser{io.Discard}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nopCloser{io.Discard}
	}
	return f
}
