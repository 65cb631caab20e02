package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mgorsk1/amundsenmetadatalibrary/internal/proxy"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/uri"
)

var (
	errMissingParam = errors.New("missing required query parameter")
	errBadParam     = errors.New("invalid query parameter")
	errBadBody      = errors.New("failed to decode request body")

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogd_requests_total",
			Help: "Number of metadata API requests by handler and status code.",
		},
		[]string{"handler", "code"},
	)
)

// apiHandler produces the response body for one metadata request or
// an error the wrapper maps to a status code.
type apiHandler func(r *http.Request) (interface{}, error)

// newRouter routes the inbound metadata surface.  Resource identifiers
// travel as query parameters because table URIs contain slashes.
func newRouter(p *proxy.Proxy) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/table", handle("get_table", getTable(p)))
	r.Get("/table/description", handle("get_table_description", getTableDescription(p)))
	r.Put("/table/description", handle("put_table_description", putTableDescription(p)))
	r.Get("/popular_tables", handle("get_popular_tables", getPopularTables(p)))
	r.Get("/latest_updated_ts", handle("get_latest_updated_ts", getLatestUpdatedTs(p)))
	r.Get("/dashboard", handle("get_dashboard", getDashboard(p)))
	return r
}

// handle wraps an apiHandler with error mapping, JSON encoding and
// request counting.
func handle(name string, h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h(r)
		code := statusFor(err)
		requestsTotal.WithLabelValues(name, strconv.Itoa(code)).Inc()
		if err != nil {
			http.Error(w, err.Error(), code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			// The status line is already written; nothing to do but log.
			log.Printf("failed to encode response: %v", err)
		}
	}
}

// statusFor maps an operation error to an HTTP status code: grammar
// and parameter problems are the caller's fault, catalog NotFound
// passes through, and inert operations report 501.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, proxy.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, uri.ErrNoMatch),
		errors.Is(err, uri.ErrClusterFormat),
		errors.Is(err, errMissingParam),
		errors.Is(err, errBadParam),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case status.Code(err) == codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// param returns the named query parameter or errMissingParam.
func param(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%q: %w", name, errMissingParam)
	}
	return v, nil
}

func getTable(p *proxy.Proxy) apiHandler {
	return func(r *http.Request) (interface{}, error) {
		tableURI, err := param(r, "uri")
		if err != nil {
			return nil, err
		}
		return p.GetTable(r.Context(), tableURI)
	}
}

type descriptionResponse struct {
	Description string `json:"description"`
}

func getTableDescription(p *proxy.Proxy) apiHandler {
	return func(r *http.Request) (interface{}, error) {
		tableURI, err := param(r, "uri")
		if err != nil {
			return nil, err
		}
		description, err := p.GetTableDescription(r.Context(), tableURI)
		if err != nil {
			return nil, err
		}
		return descriptionResponse{Description: description}, nil
	}
}

func putTableDescription(p *proxy.Proxy) apiHandler {
	return func(r *http.Request) (interface{}, error) {
		tableURI, err := param(r, "uri")
		if err != nil {
			return nil, err
		}
		var body descriptionResponse
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
		if err := p.PutTableDescription(r.Context(), tableURI, body.Description); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	}
}

func getPopularTables(p *proxy.Proxy) apiHandler {
	return func(r *http.Request) (interface{}, error) {
		// Zero lets the proxy apply its configured page size.
		numEntries := 0
		if v := r.URL.Query().Get("num_entries"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("num_entries %q: %w", v, errBadParam)
			}
			numEntries = n
		}
		return p.GetPopularTables(r.Context(), numEntries)
	}
}

type timestampResponse struct {
	Timestamp int64 `json:"timestamp"`
}

func getLatestUpdatedTs(p *proxy.Proxy) apiHandler {
	return func(r *http.Request) (interface{}, error) {
		ts, err := p.GetLatestUpdatedTs(r.Context())
		if err != nil {
			return nil, err
		}
		return timestampResponse{Timestamp: ts}, nil
	}
}

func getDashboard(p *proxy.Proxy) apiHandler {
	return func(r *http.Request) (interface{}, error) {
		id, err := param(r, "id")
		if err != nil {
			return nil, err
		}
		return p.GetDashboard(r.Context(), id)
	}
}
