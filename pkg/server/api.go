// pkg/server/api.go

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/render"
)

// maxRenderBody bounds JSON render requests.
const maxRenderBody = 1 << 20

// APIError is the JSON error body of the API.
type APIError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Index       *int   `json:"index,omitempty"`
	Description string `json:"description,omitempty"`
}

// renderHandler renders a complete invoice in one request.
//
//	@Summary		Render an invoice document
//	@Description	Validates the items of an invoice draft and returns the rendered document.
//	@Tags			invoices
//	@Accept			json
//	@Produce		application/pdf
//	@Produce		plain
//	@Param			format			query		string			false	"pdf or text"	Enums(pdf, text)	default(pdf)
//	@Param			skip_malformed	query		bool			false	"drop malformed items instead of failing"
//	@Param			draft			body		invoice.Draft	true	"invoice draft"
//	@Success		200				{file}		file
//	@Failure		400				{object}	APIError
//	@Failure		422				{object}	APIError
//	@Router			/render [post]
func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	renderer, err := s.renderer(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: "BAD_FORMAT", Message: err.Error()})
		return
	}
	skip := false
	if v := q.Get("skip_malformed"); v != "" {
		if skip, err = strconv.ParseBool(v); err != nil {
			writeJSON(w, http.StatusBadRequest, APIError{Code: "BAD_REQUEST", Message: "skip_malformed must be a boolean"})
			return
		}
	}

	var draft invoice.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRenderBody))
	dec.UseNumber()
	if err := dec.Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: "BAD_REQUEST", Message: "invalid JSON: " + err.Error()})
		return
	}

	inv, skipped, err := draft.Resolve(s.DefaultHeader(), invoice.ResolveOptions{
		SkipMalformed: skip,
		MaxItems:      s.cfg.MaxItems,
	})
	if err != nil {
		s.writeItemError(w, err)
		return
	}
	for _, rerr := range skipped {
		s.logger.Warn("malformed item dropped", "invoice_number", inv.Number, "index", rerr.Index, "description", rerr.Description, "error", rerr.Err)
	}

	body, err := renderer.Render(inv)
	if err != nil {
		s.writeItemError(w, err)
		return
	}
	s.archive(r, inv, formatName(renderer.Extension()), renderer, body)
	w.Header().Set("X-Skipped-Items", strconv.Itoa(len(skipped)))
	writeDocument(w, render.Filename(inv, renderer), renderer.ContentType(), body)
}

func (s *Server) writeItemError(w http.ResponseWriter, err error) {
	var rerr *invoice.RenderError
	if errors.As(err, &rerr) {
		idx := rerr.Index
		writeJSON(w, http.StatusUnprocessableEntity, APIError{
			Code:        "MALFORMED_ITEM",
			Message:     rerr.Error(),
			Index:       &idx,
			Description: rerr.Description,
		})
		return
	}
	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, APIError{Code: "VALIDATION_FAILED", Message: verr.Error()})
		return
	}
	s.logger.Error("render request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, APIError{Code: "INTERNAL_ERROR", Message: "failed to render invoice"})
}

func formatName(ext string) string {
	if ext == "txt" {
		return "text"
	}
	return ext
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
