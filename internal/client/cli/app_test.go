package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/geokeeper/internal/client/client"
	"github.com/dmitrijs2005/geokeeper/internal/client/config"
	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/countries"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/syncmark"
	"github.com/dmitrijs2005/geokeeper/internal/client/services"
	"github.com/dmitrijs2005/geokeeper/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ------------ helpers ------------

// fakeAPI implements client.Client for CLI tests.
type fakeAPI struct {
	mu     sync.Mutex
	authed bool
	access string
	refr   string

	pingErr error

	loginErr error
	gotUser  string
	gotPass  string

	fetchOut   []models.Country
	fetchErr   error
	fetchCalls int

	pushErr error
	pushed  []models.Country

	flagURL string
	flagErr error
	gotFlag string
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) FetchAll(ctx context.Context) ([]models.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.fetchOut, f.fetchErr
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAPI) Login(ctx context.Context, username, password string) error {
	f.gotUser, f.gotPass = username, password
	if f.loginErr != nil {
		return f.loginErr
	}
	f.SetTokens("acc-1", "ref-1")
	return nil
}

func (f *fakeAPI) Logout() { f.SetTokens("", "") }

func (f *fakeAPI) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authed
}

func (f *fakeAPI) Tokens() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access, f.refr
}

func (f *fakeAPI) SetTokens(access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access, f.refr = access, refresh
	f.authed = access != ""
}

func (f *fakeAPI) PushDataset(ctx context.Context, items []models.Country) error {
	f.pushed = items
	return f.pushErr
}

func (f *fakeAPI) RequestFlagUpload(ctx context.Context, countryName string) (string, error) {
	f.gotFlag = countryName
	if f.flagErr != nil {
		return "", f.flagErr
	}
	return f.flagURL, nil
}

var _ client.Client = (*fakeAPI)(nil)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupCLIDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:cliapp?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS countries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL DEFAULT '',
  capital TEXT NOT NULL DEFAULT '',
  currency TEXT NOT NULL DEFAULT '',
  language TEXT NOT NULL DEFAULT '',
  flag TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM countries; DELETE FROM metadata;`)
	require.NoError(t, err)

	return db
}

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

// newTestApp builds an App over a real in-memory cache and the provided
// fake API client.
func newTestApp(t *testing.T, api *fakeAPI, inputLines ...string) *App {
	t.Helper()
	db := setupCLIDB(t)
	meta := metadata.NewSQLiteRepository(db)
	repos := &client.Repositories{
		Metadata:  meta,
		Countries: countries.NewSQLiteRepository(db),
		SyncMark:  syncmark.NewMetadataRepository(meta),
	}

	feed := services.NewStateFeed()
	t.Cleanup(feed.Close)

	return &App{
		config:    &config.Config{ServerEndpointAddr: "http://origin.test"},
		apiClient: api,
		repos:     repos,
		catalog:   services.NewCatalogService(api, repos.Countries, repos.SyncMark, feed, testLogger()),
		feed:      feed,
		reader:    readerFromLines(inputLines...),
	}
}

// capturePrint redirects printlnFn into a buffer for output assertions.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func printed(lines *[]string) string {
	return strings.Join(*lines, "\n")
}

// ------------ tests ------------

func TestIsLoggedIn_FollowsClient(t *testing.T) {
	api := &fakeAPI{}
	app := &App{apiClient: api}
	if app.isLoggedIn() {
		t.Fatalf("expected isLoggedIn() == false without tokens")
	}

	api.SetTokens("acc", "ref")
	if !app.isLoggedIn() {
		t.Fatalf("expected isLoggedIn() == true with tokens")
	}
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	app := &App{}
	buf := captureLog(t)

	app.setMode(ModeOnline)
	if app.Mode != ModeOnline {
		t.Fatalf("expected mode to be %q, got %q", ModeOnline, app.Mode)
	}
	if got := buf.String(); got == "" {
		t.Fatalf("expected log output on mode change, got empty")
	}

	buf.Reset()

	app.setMode(ModeOnline)
	if app.Mode != ModeOnline {
		t.Fatalf("expected mode to remain %q, got %q", ModeOnline, app.Mode)
	}
	if got := buf.String(); got != "" {
		t.Fatalf("expected no log output when mode doesn't change, got: %q", got)
	}

	app.setMode(ModeOffline)
	if app.Mode != ModeOffline {
		t.Fatalf("expected mode to be %q, got %q", ModeOffline, app.Mode)
	}
	if got := buf.String(); got == "" {
		t.Fatalf("expected log output on mode change to offline, got empty")
	}
}

func TestGetStatus(t *testing.T) {
	app := &App{}
	if got := app.getStatus(); got != "" {
		t.Fatalf("empty status expected, got %q", got)
	}

	app.Mode = ModeOnline
	if got := app.getStatus(); got != "(online)" {
		t.Fatalf("got %q", got)
	}

	app.userName = "admin"
	if got := app.getStatus(); got != "(admin online)" {
		t.Fatalf("got %q", got)
	}
}

func TestCheckOnline_FlipsModes(t *testing.T) {
	captureLog(t)

	api := &fakeAPI{}
	app := &App{apiClient: api}

	app.checkOnline()
	if app.Mode != ModeOnline {
		t.Fatalf("expected online after successful ping, got %q", app.Mode)
	}

	api.pingErr = errors.New("down")
	app.checkOnline()
	if app.Mode != ModeOffline {
		t.Fatalf("expected offline after failed ping, got %q", app.Mode)
	}

	api.pingErr = nil
	app.checkOnline()
	if app.Mode != ModeOnline {
		t.Fatalf("expected online again, got %q", app.Mode)
	}
}

func TestPrintSyncProgress_OnlyLoadingStates(t *testing.T) {
	lines := capturePrint(t)

	ch := make(chan models.SyncState, 4)
	ch <- models.SyncState{Loading: true}
	ch <- models.SyncState{Data: []models.Country{{Name: "Latvia"}}}
	ch <- models.SyncState{Err: true}
	close(ch)

	printSyncProgress(ch)

	out := printed(lines)
	if !strings.Contains(out, "Syncing with origin...") {
		t.Fatalf("missing progress line, got %q", out)
	}
	if strings.Count(out, "Syncing") != 1 {
		t.Fatalf("want exactly one progress line, got %q", out)
	}
}
