// Package cli is the interactive storefront front end: a REPL over the
// catalog, cart, session, order-history and checkout services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/example/storefront/internal/client/cart"
	"github.com/example/storefront/internal/client/catalog"
	"github.com/example/storefront/internal/client/config"
	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/client/orders"
	"github.com/example/storefront/internal/client/session"
	"github.com/example/storefront/internal/client/storage"
	"github.com/example/storefront/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	gw      gateway.Gateway
	session *session.Store
	cart    *cart.Store
	catalog *catalog.Service
	orders  *orders.Service
	reader  *bufio.Reader
}

// NewApp wires the stores together: one session store, one cart store
// subscribed to its authentication transitions, and the read services.
// Bootstrap runs here so a persisted session is resumed before the
// first prompt.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewDefault()

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	repo := storage.NewSQLiteRepository(db)
	gw := gateway.NewHTTPGateway(c.GatewayBaseURL, c.RequestTimeout)

	sess := session.New(gw, repo, log)
	cartStore := cart.NewStore(gw, repo, sess, log)
	sess.Subscribe(func(authenticated bool) {
		cartStore.HandleAuthChange(context.Background(), authenticated)
	})

	sess.Bootstrap(ctx)
	if !sess.Authenticated() {
		// No transition fired; load the anonymous cart explicitly.
		_ = cartStore.Load(ctx)
	}

	return &App{
		config:  c,
		log:     log,
		db:      db,
		gw:      gw,
		session: sess,
		cart:    cartStore,
		catalog: catalog.NewService(gw),
		orders:  orders.NewService(gw, sess),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}
