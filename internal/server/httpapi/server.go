// Package httpapi exposes the cart service over JSON endpoints. Every
// successful response carries the full cart snapshot for the caller's
// user, never a delta.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cartkeeper/internal/logging"
	"github.com/dmitrijs2005/cartkeeper/internal/server/carts"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// CartService is the surface the handlers need. *carts.Service satisfies it.
type CartService interface {
	GetCart(ctx context.Context, userID string) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error)
	SetQuantity(ctx context.Context, userID, lineKey string, quantity int) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, userID, lineKey string) ([]models.CartItem, error)
	Clear(ctx context.Context, userID string) ([]models.CartItem, error)
	Sync(ctx context.Context, userID, syncID string, pairs []carts.SyncPair) ([]models.CartItem, error)
}

type HTTPServer struct {
	addr    string
	logger  logging.Logger
	service CartService
	secret  []byte
}

func NewHTTPServer(addr string, logger logging.Logger, service CartService, secret []byte) *HTTPServer {
	return &HTTPServer{addr: addr, logger: logger, service: service, secret: secret}
}

// Router builds the chi router: a public ping plus the authenticated cart
// endpoints.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleGetCart)
		r.Delete("/", s.handleClear)
		r.Post("/items", s.handleAddItem)
		r.Put("/items/{lineKey}", s.handleSetQuantity)
		r.Delete("/items/{lineKey}", s.handleRemoveItem)
		r.Post("/sync", s.handleSync)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
