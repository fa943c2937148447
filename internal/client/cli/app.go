package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/client/client"
	"github.com/dmitrijs2005/geokeeper/internal/client/config"
	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/dmitrijs2005/geokeeper/internal/client/services"
	"github.com/dmitrijs2005/geokeeper/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	apiClient client.Client
	repos     *client.Repositories
	catalog   services.CatalogService
	feed      *services.StateFeed
	userName  string
	Mode      Mode
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewRESTClient(c.ServerEndpointAddr, c.RequestTimeout)

	// Warnings and errors go to stderr so they do not interleave with REPL
	// output on stdout.
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	feed := services.NewStateFeed()
	catalog := services.NewCatalogService(apiClient, repos.Countries, repos.SyncMark, feed, logger)

	a := &App{
		config:    c,
		apiClient: apiClient,
		repos:     repos,
		catalog:   catalog,
		feed:      feed,
		reader:    bufio.NewReader(os.Stdin),
	}

	a.restoreSession(ctx)

	return a, nil
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.apiClient.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	states, unsub := a.feed.Subscribe()
	defer unsub()
	go printSyncProgress(states)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to GeoKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	a.feed.Close()
	if err := a.apiClient.Close(); err != nil {
		log.Printf("error closing api client: %v", err)
	}
}

// printSyncProgress announces origin refreshes started by any command, so
// the user sees feedback while the round-trip is in flight. Data and error
// outcomes are rendered by the command itself.
func printSyncProgress(states <-chan models.SyncState) {
	for st := range states {
		if st.Loading {
			printlnFn("Syncing with origin...")
		}
	}
}

// checkOnline probes the origin once and flips the connectivity mode
// accordingly.
func (a *App) checkOnline() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	err := a.apiClient.Ping(ctx)
	cancel()

	if err != nil {
		if a.Mode != ModeOffline {
			a.setMode(ModeOffline)
		}
	} else {
		if a.Mode != ModeOnline {
			a.setMode(ModeOnline)
		}
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	a.checkOnline()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline()
		case <-ctx.Done():
			return
		}
	}
}
