package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/config"
	"github.com/baditaflorin/go_cra_records/internal/store"
	"github.com/baditaflorin/go_cra_records/pkg/records"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

// app carries the state shared by every request handler.
type app struct {
	analyzer *records.Analyzer
	datasets *store.Store
	logger   l.Logger
	cfg      *config.Config
}

// FilterRequest holds the criteria of a filter or export request plus the
// requested page.
type FilterRequest struct {
	records.Criteria
	Page    int `json:"page,omitempty"`
	PerPage int `json:"per_page,omitempty"`
}

// DatasetResponse describes a loaded dataset.
type DatasetResponse struct {
	store.Info
	StatusCodes []string `json:"status_codes"`
}

// FilterResponse carries one page of filtered rows.
type FilterResponse struct {
	Stats      records.Stats `json:"stats"`
	Columns    []string      `json:"columns"`
	Rows       []records.Row `json:"rows"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	Caption    string        `json:"caption,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// requestHandler is the main fasthttp request handler
func (a *app) requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	path := strings.Trim(string(ctx.Path()), "/")
	parts := strings.Split(path, "/")

	// Route based on path
	switch {
	case path == "health":
		a.handleHealthCheck(ctx)
	case path == "datasets":
		switch {
		case ctx.IsPost():
			a.handleUpload(ctx)
		case ctx.IsGet():
			a.handleList(ctx)
		default:
			methodNotAllowed(ctx)
		}
	case len(parts) == 2 && parts[0] == "datasets":
		switch {
		case ctx.IsGet():
			a.handleInfo(ctx, parts[1])
		case ctx.IsDelete():
			a.handleDelete(ctx, parts[1])
		default:
			methodNotAllowed(ctx)
		}
	case len(parts) == 3 && parts[0] == "datasets" && parts[2] == "filter":
		a.handleFilter(ctx, parts[1])
	case len(parts) == 3 && parts[0] == "datasets" && parts[2] == "export":
		a.handleExport(ctx, parts[1])
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	// Log request
	a.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (a *app) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().Format(time.RFC3339),
		"datasets": len(a.datasets.List()),
	})
}

// handleUpload loads the request body as a record file
func (a *app) handleUpload(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()
	name := string(ctx.QueryArgs().Peek("name"))
	charset := string(ctx.QueryArgs().Peek("charset"))
	if charset == "" {
		charset = a.cfg.Normalizer.Charset
	}

	c := context.Background()
	if timeout := a.cfg.Server.ReadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, timeout)
		defer cancel()
	}

	table, ok, err := a.analyzer.LoadBytes(c, body, charset)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid upload: "+err.Error())
		return
	}
	if !ok {
		ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
		writeJSONError(ctx, records.ErrParseFailed.Error())
		return
	}

	dataset := a.datasets.Put(name, len(body), table)
	a.logger.Info("Dataset loaded",
		"id", dataset.ID,
		"name", name,
		"bytes", len(body),
		"rows", table.Len(),
		"columns", table.Width(),
	)

	ctx.SetStatusCode(fasthttp.StatusCreated)
	writeJSONResponse(ctx, DatasetResponse{Info: dataset.Info(), StatusCodes: records.StatusCodes()})
}

// handleList lists loaded datasets
func (a *app) handleList(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, a.datasets.List())
}

// handleInfo describes one dataset
func (a *app) handleInfo(ctx *fasthttp.RequestCtx, id string) {
	dataset, ok := a.lookup(ctx, id)
	if !ok {
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, DatasetResponse{Info: dataset.Info(), StatusCodes: records.StatusCodes()})
}

// handleDelete drops one dataset
func (a *app) handleDelete(ctx *fasthttp.RequestCtx, id string) {
	if err := a.datasets.Delete(id); err != nil {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// handleFilter applies criteria to a dataset and returns one page of rows
func (a *app) handleFilter(ctx *fasthttp.RequestCtx, id string) {
	if !ctx.IsPost() {
		methodNotAllowed(ctx)
		return
	}

	dataset, ok := a.lookup(ctx, id)
	if !ok {
		return
	}
	req, ok := parseFilterRequest(ctx)
	if !ok {
		return
	}
	if req.PerPage == 0 {
		req.PerPage = a.cfg.Preview.PerPage
	}

	filtered := a.analyzer.Filter(dataset.Table, req.Criteria)
	page := a.analyzer.Page(filtered, req.PerPage, req.Page)

	response := FilterResponse{
		Stats:      a.analyzer.Stats(dataset.Table, filtered),
		Columns:    filtered.Schema.Names(),
		Rows:       page.Rows,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}
	if response.Rows == nil {
		response.Rows = []records.Row{}
	}
	if page.TotalRows > 0 {
		response.Caption = page.Caption()
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, response)
}

// handleExport applies criteria to a dataset and returns the rows as a download
func (a *app) handleExport(ctx *fasthttp.RequestCtx, id string) {
	if !ctx.IsPost() {
		methodNotAllowed(ctx)
		return
	}

	dataset, ok := a.lookup(ctx, id)
	if !ok {
		return
	}
	req, ok := parseFilterRequest(ctx)
	if !ok {
		return
	}

	format := string(ctx.QueryArgs().Peek("format"))
	if format == "" {
		format = a.cfg.Export.Format
	}

	filtered := a.analyzer.Filter(dataset.Table, req.Criteria)

	var buf bytes.Buffer
	filename, contentType, err := a.analyzer.Export(&buf, filtered, format)
	if err != nil {
		if errors.Is(err, records.ErrUnknownFormat) {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
		} else {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			a.logger.Error("Export failed", "id", id, "format", format, "error", err)
		}
		writeJSONError(ctx, "Export failed: "+err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(contentType)
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.SetBody(buf.Bytes())
}

// lookup resolves a dataset ID, writing a 404 when it is unknown
func (a *app) lookup(ctx *fasthttp.RequestCtx, id string) (*store.Dataset, bool) {
	dataset, err := a.datasets.Get(id)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, err.Error())
		return nil, false
	}
	return dataset, true
}

// parseFilterRequest decodes an optional JSON filter request body
func parseFilterRequest(ctx *fasthttp.RequestCtx) (FilterRequest, bool) {
	var req FilterRequest
	body := ctx.PostBody()
	if len(bytes.TrimSpace(body)) == 0 {
		return req, true
	}
	if err := json.Unmarshal(body, &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return req, false
	}
	return req, true
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
	writeJSONError(ctx, "Method not allowed")
}

// Helper functions

// writeJSONResponse writes a JSON response to the context
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetBody(response)
}
