package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"restaurant/ordering/internal/notify"
	"restaurant/ordering/internal/session"
	"restaurant/ordering/internal/view"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Server translates browser interaction into session calls and answers with
// rendered pages.
type Server struct {
	session  *session.Session
	renderer *view.Renderer
	toasts   *notify.Queue
	cartList *view.CartList
	router   chi.Router
}

func New(sess *session.Session, renderer *view.Renderer, toasts *notify.Queue) *Server {
	s := &Server{
		session:  sess,
		renderer: renderer,
		toasts:   toasts,
		cartList: renderer.NewCartList(sess),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/menu", s.handleMenu)
	r.Get("/product/{id}", s.handleProduct)
	r.Get("/favorites", s.handleFavorites)
	r.Get("/cart", s.handleCart)
	r.Get("/contact", s.handleContact)

	r.Post("/cart/add", s.handleCartAdd)
	r.Post("/cart/inc", s.handleCartIncrement)
	r.Post("/cart/dec", s.handleCartDecrement)
	r.Post("/cart/set", s.handleCartSet)
	r.Post("/cart/remove", s.handleCartRemove)
	r.Post("/cart/clear", s.handleCartClear)
	r.Post("/favorites/toggle", s.handleFavoriteToggle)
	r.Post("/favorites/remove", s.handleFavoriteRemove)
	r.Post("/checkout", s.handleCheckout)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops the live cart list.
func (s *Server) Close() {
	s.cartList.Close()
}

// Unavailable answers every route with the same error page. It is served
// when the catalog could not be loaded at startup.
func Unavailable(cause error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("Serving unavailable page: %v", cause)
		writeDocument(w, http.StatusServiceUnavailable,
			view.ErrorDocument("Temporarily unavailable", "We could not load the menu. Please check your connection and try again later."))
	})
	return r
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func writeDocument(w http.ResponseWriter, status int, doc *goquery.Document) {
	out, err := view.HTML(doc)
	if err != nil {
		log.Errorf("❌ Failed to render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(out))
}

func (s *Server) renderError(w http.ResponseWriter, status int, title, message string) {
	doc := s.renderer.Error(s.session, title, message, s.toasts.Drain())
	writeDocument(w, status, doc)
}

// localPath keeps redirects on this site.
func localPath(back, fallback string) string {
	if back == "" || !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") || strings.Contains(back, `\`) {
		return fallback
	}
	return back
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"status":     ww.Status(),
			"duration":   time.Since(start).Round(time.Microsecond),
		}).Debugf("%s %s", r.Method, r.URL.Path)
	})
}
