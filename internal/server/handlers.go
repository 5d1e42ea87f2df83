package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/view"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, http.StatusOK, s.renderer.Home(s.session, s.toasts.Drain()))
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		Category: q.Get("cat"),
		Tag:      q.Get("tag"),
		Query:    q.Get("q"),
	}
	writeDocument(w, http.StatusOK, s.renderer.Menu(s.session, filter, s.toasts.Drain()))
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Catalog().Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, http.StatusNotFound, "Product not found", "This product is no longer on the menu.")
		return
	}
	size, err := domain.ParseSize(r.URL.Query().Get("size"))
	if err != nil {
		size = domain.SizeNone
	}
	writeDocument(w, http.StatusOK, s.renderer.Product(s.session, p, size, s.toasts.Drain()))
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, http.StatusOK, s.renderer.Favorites(s.session, s.toasts.Drain()))
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, http.StatusOK, s.renderer.Cart(s.session, s.cartList, view.CheckoutForm{}, s.toasts.Drain()))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, http.StatusOK, s.renderer.Contact(s.session, s.toasts.Drain()))
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	qty := 1
	if raw := strings.TrimSpace(r.FormValue("qty")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.renderError(w, http.StatusUnprocessableEntity, "Invalid quantity", "Quantity must be a whole number.")
			return
		}
		qty = n
	}

	_, err := s.session.AddToCart(r.FormValue("id"), r.FormValue("size"), qty)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		s.renderError(w, http.StatusNotFound, "Product not found", "This product is no longer on the menu.")
		return
	case err != nil:
		s.renderError(w, http.StatusUnprocessableEntity, "Could not add to cart", err.Error())
		return
	}
	http.Redirect(w, r, localPath(r.FormValue("back"), "/cart"), http.StatusSeeOther)
}

func (s *Server) handleCartIncrement(w http.ResponseWriter, r *http.Request) {
	key, ok := s.lineKey(w, r)
	if !ok {
		return
	}
	s.session.IncrementLine(key)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) handleCartDecrement(w http.ResponseWriter, r *http.Request) {
	key, ok := s.lineKey(w, r)
	if !ok {
		return
	}
	s.session.DecrementLine(key)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) handleCartSet(w http.ResponseWriter, r *http.Request) {
	key, ok := s.lineKey(w, r)
	if !ok {
		return
	}
	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("qty")))
	if err != nil {
		s.renderError(w, http.StatusUnprocessableEntity, "Invalid quantity", "Quantity must be a whole number.")
		return
	}
	s.session.SetLineQuantity(key, qty)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// handleCartRemove accepts either a line key or a row index.
func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if raw := r.FormValue("index"); raw != "" && r.FormValue("key") == "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			s.renderError(w, http.StatusBadRequest, "Invalid request", "Unknown cart line.")
			return
		}
		s.session.RemoveLineAt(idx)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	key, ok := s.lineKey(w, r)
	if !ok {
		return
	}
	s.session.RemoveLine(key)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	s.session.ClearCart()
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.ToggleFavorite(r.FormValue("id")); err != nil {
		s.renderError(w, http.StatusNotFound, "Product not found", "This product is no longer on the menu.")
		return
	}
	http.Redirect(w, r, localPath(r.FormValue("back"), "/favorites"), http.StatusSeeOther)
}

func (s *Server) handleFavoriteRemove(w http.ResponseWriter, r *http.Request) {
	s.session.RemoveFavorite(r.FormValue("id"))
	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	contact := domain.Contact{
		Name:    r.FormValue("name"),
		Phone:   r.FormValue("phone"),
		Address: r.FormValue("address"),
		Notes:   r.FormValue("notes"),
		Payment: r.FormValue("pay"),
	}

	msg, err := s.session.Checkout(r.Context(), contact)
	if err != nil {
		form := view.CheckoutForm{Contact: contact}
		var missing *domain.MissingFieldError
		switch {
		case errors.As(err, &missing):
			form.ErrorField = missing.Field
		case errors.Is(err, domain.ErrInvalidPhoneFormat):
			form.ErrorField = "phone"
		}
		writeDocument(w, http.StatusUnprocessableEntity, s.renderer.Cart(s.session, s.cartList, form, s.toasts.Drain()))
		return
	}

	http.Redirect(w, r, msg.Link, http.StatusSeeOther)
}

func (s *Server) lineKey(w http.ResponseWriter, r *http.Request) (domain.LineKey, bool) {
	key, err := domain.ParseLineKey(r.FormValue("key"))
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid request", "Unknown cart line.")
		return domain.LineKey{}, false
	}
	return key, true
}
