// pkg/server/handlers.go

package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/invoice-builder/pkg/archive"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/render"
	"github.com/invoice-builder/pkg/session"
	"github.com/shopspring/decimal"
)

// itemForm echoes rejected item input back into the form.
type itemForm struct {
	Description string
	Quantity    string
	UnitPrice   string
}

type pageData struct {
	ID     string
	Error  string
	Header invoice.Header
	Date   string
	Items  []invoice.LineItem
	Total  decimal.Decimal
	Form   itemForm
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.writeTemplate(w, http.StatusOK, "index.html", nil)
}

func (s *Server) newSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.Create()
	if errors.Is(err, session.ErrFull) {
		s.logger.Warn("session limit reached", "sessions", s.store.Len())
		http.Error(w, "Too many open invoices, try again later", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.logger.Info("session created", "session_id", id)
	http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
}

func (s *Server) sessionPageHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.store.Do(id, func(b *invoice.Builder) error {
		s.writePage(w, http.StatusOK, id, b, "", itemForm{Quantity: "1"})
		return nil
	})
	if errors.Is(err, session.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) updateHeaderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	err := s.store.Do(id, func(b *invoice.Builder) error {
		h := b.Header()
		h.Number = strings.TrimSpace(r.Form.Get("number"))
		if ds := strings.TrimSpace(r.Form.Get("date")); ds != "" {
			date, err := time.Parse(invoice.DateLayout, ds)
			if err != nil {
				s.writePage(w, http.StatusBadRequest, id, b, "Invoice date must be YYYY-MM-DD", itemForm{Quantity: "1"})
				return nil
			}
			h.Date = date
		}
		h.Issuer = invoice.Party{
			Name:    r.Form.Get("issuer_name"),
			Address: r.Form.Get("issuer_address"),
			Email:   r.Form.Get("issuer_email"),
		}
		h.Client = invoice.Party{
			Name:    r.Form.Get("client_name"),
			Address: r.Form.Get("client_address"),
			Email:   r.Form.Get("client_email"),
		}
		b.SetHeader(h)
		http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
		return nil
	})
	s.sessionError(w, err)
}

func (s *Server) addItemHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	form := itemForm{
		Description: r.Form.Get("description"),
		Quantity:    r.Form.Get("quantity"),
		UnitPrice:   r.Form.Get("unit_price"),
	}

	err := s.store.Do(id, func(b *invoice.Builder) error {
		item, err := b.AddItem(form.Description, form.Quantity, form.UnitPrice)
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			s.logger.Info("item rejected", "session_id", id, "field", verr.Field, "reason", verr.Reason)
			s.writePage(w, http.StatusBadRequest, id, b, verr.Error(), form)
			return nil
		}
		if err != nil {
			return err
		}
		s.logger.Debug("item added", "session_id", id, "description", item.Description(), "items", b.Len())
		http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
		return nil
	})
	s.sessionError(w, err)
}

func (s *Server) clearItemsHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.store.Do(id, func(b *invoice.Builder) error {
		b.Clear()
		http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
		return nil
	})
	s.sessionError(w, err)
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	format := render.FormatPDF
	if vars["ext"] == "txt" {
		format = render.FormatText
	}
	renderer, err := s.renderer(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var inv invoice.Invoice
	if err := s.store.Do(id, func(b *invoice.Builder) error {
		inv = b.Invoice()
		return nil
	}); err != nil {
		s.sessionError(w, err)
		return
	}

	body, err := renderer.Render(inv)
	if err != nil {
		s.logger.Error("render failed", "session_id", id, "invoice_number", inv.Number, "format", format, "error", err)
		http.Error(w, "Error generating invoice", http.StatusInternalServerError)
		return
	}
	s.archive(r, inv, format, renderer, body)
	writeDocument(w, render.Filename(inv, renderer), renderer.ContentType(), body)
}

func (s *Server) archive(r *http.Request, inv invoice.Invoice, format string, renderer render.Renderer, body []byte) {
	doc := archive.Document{
		Number:      inv.Number,
		ClientName:  inv.Client.Name,
		Date:        inv.Date,
		Total:       inv.Total(),
		Format:      format,
		Extension:   renderer.Extension(),
		ContentType: renderer.ContentType(),
		Body:        body,
	}
	if err := s.archiver.Archive(r.Context(), doc); err != nil {
		s.logger.Warn("archive failed", "invoice_number", inv.Number, "format", format, "error", err)
	}
}

func writeDocument(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func (s *Server) writePage(w http.ResponseWriter, status int, id string, b *invoice.Builder, msg string, form itemForm) {
	h := b.Header()
	data := pageData{
		ID:     id,
		Error:  msg,
		Header: h,
		Items:  b.Items(),
		Total:  b.Total(),
		Form:   form,
	}
	if !h.Date.IsZero() {
		data.Date = h.Date.Format(invoice.DateLayout)
	}
	s.writeTemplate(w, status, "session.html", data)
}

func (s *Server) writeTemplate(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("page template failed", "template", name, "error", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	default:
		s.logger.Error("session request failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
