package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/nihongo/internal/client/client"
	"github.com/dmitrijs2005/nihongo/internal/client/config"
	"github.com/dmitrijs2005/nihongo/internal/client/history"
	"github.com/dmitrijs2005/nihongo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nihongo/internal/client/session"
	"github.com/dmitrijs2005/nihongo/internal/content"
	"github.com/dmitrijs2005/nihongo/internal/filex"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/netx"
)

// DownloadFunc fetches an exported snapshot from its presigned URL.
type DownloadFunc func(ctx context.Context, url string) ([]byte, error)

// GeneratorFactory builds a content generator for the signed-in user's key.
type GeneratorFactory func(ctx context.Context, apiKey string) (content.Generator, error)

type App struct {
	config       *config.Config
	api          client.API
	session      *session.Manager
	history      *history.Recorder
	newGenerator GeneratorFactory
	download     DownloadFunc
	db           *sql.DB
	log          logging.Logger
	reader       *bufio.Reader
	out          io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	log, err := logging.NewWithWriter(c.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	dataFile, err := filex.EnsureParentDir(c.DataFile)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, dataFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := client.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	model := c.GeminiModel
	gen := func(ctx context.Context, apiKey string) (content.Generator, error) {
		return content.NewGeminiGenerator(ctx, apiKey, model)
	}

	app := newApp(c, api, metadata.NewSQLiteRepository(db), gen, log, os.Stdin, os.Stdout)
	app.db = db
	httpClient := &http.Client{Timeout: c.RequestTimeout}
	app.download = func(ctx context.Context, url string) ([]byte, error) {
		return netx.DownloadPresignedURL(ctx, httpClient, url)
	}
	return app, nil
}

func newApp(c *config.Config, api client.API, store metadata.Repository, gen GeneratorFactory,
	log logging.Logger, in io.Reader, out io.Writer) *App {
	sm := session.NewManager(api, store, log)
	return &App{
		config:       c,
		api:          api,
		session:      sm,
		history:      history.NewRecorder(api, sm, log),
		newGenerator: gen,
		log:          log,
		reader:       bufio.NewReader(in),
		out:          out,
	}
}

// Run resumes a saved session when there is one and serves the REPL until
// the user exits. Pending history writes are flushed before returning.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to nihongo (type 'help' for commands)")

	ok, err := a.session.Restore(ctx)
	switch {
	case err != nil:
		a.log.Warn(ctx, "could not resume session", "error", err)
	case ok:
		id, _ := a.session.CurrentIdentity()
		fmt.Fprintf(a.out, "Welcome back, %s\n", id.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) close() {
	a.history.Wait()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.CurrentIdentity()
	return ok
}

func (a *App) getStatus() string {
	if id, ok := a.session.CurrentIdentity(); ok {
		return "(" + id.Username + ")"
	}
	return ""
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
