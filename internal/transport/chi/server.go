package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/places/internal/domain"
	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	healthuc "github.com/kailas-cloud/places/internal/usecase/health"
	"github.com/kailas-cloud/places/internal/usecase/page"
	placeuc "github.com/kailas-cloud/places/internal/usecase/place"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeNoSearchTerm      = "rest_no_search_term_defined"
	CodeIncludeMissing    = "rest_orderby_include_missing_include"
	CodeInvalidPageNumber = "rest_post_invalid_page_number"
	CodeInvalidParam      = "rest_invalid_param"
	CodeInvalidID         = "rest_post_invalid_id"
	CodeInternalError     = "internal_error"
)

const (
	headerTotal      = "X-WP-Total"
	headerTotalPages = "X-WP-TotalPages"
	collectionPath   = "/places"
)

// PlaceService is the places use case served over HTTP.
type PlaceService interface {
	Registry() domquery.Registry
	List(ctx context.Context, p domquery.Params, req page.Request) (page.Result, error)
	Get(ctx context.Context, id int64, c domplace.Context) (domplace.Document, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options configures the public surface of the server.
type Options struct {
	// Namespace prefixes the collection routes, e.g. /mobileApi/v1.
	Namespace string
	// BaseURL is the public origin used in links. Empty derives it from the request.
	BaseURL string
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the places REST API.
type Server struct {
	places        PlaceService
	health        HealthChecker
	logger        *zap.Logger
	namespace     string
	baseURL       string
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(places PlaceService, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	s := &Server{
		places:    places,
		health:    health,
		logger:    logger,
		namespace: "/" + strings.Trim(opts.Namespace, "/"),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrMissingSearchTerm, http.StatusBadRequest, CodeNoSearchTerm),
		sentinelHandler(domain.ErrMissingIncludeList, http.StatusBadRequest, CodeIncludeMissing),
		sentinelHandler(domain.ErrPageOutOfRange, http.StatusBadRequest, CodeInvalidPageNumber),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeInvalidID),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route(s.namespace, func(r gochi.Router) {
		r.Get(collectionPath, s.ListPlaces)
		r.Options(collectionPath, s.DescribePlaces)
		r.Get(collectionPath+"/{id}", s.GetPlace)
	})
}

// ListPlaces handles GET {namespace}/places.
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params, err := BindParams(query, s.places.Registry())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	base := s.collectionURL(r)
	req := page.Request{
		BaseURL: base,
		Query:   query,
		Context: requestContext(params),
	}
	res, err := s.places.List(placeuc.WithCollectionURL(r.Context(), base), params, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set(headerTotal, strconv.Itoa(res.Total))
	w.Header().Set(headerTotalPages, strconv.Itoa(res.TotalPages))
	if res.Prev != "" {
		w.Header().Add("Link", fmt.Sprintf(`<%s>; rel="prev"`, res.Prev))
	}
	if res.Next != "" {
		w.Header().Add("Link", fmt.Sprintf(`<%s>; rel="next"`, res.Next))
	}
	writeJSON(w, http.StatusOK, res.Items)
}

// GetPlace handles GET {namespace}/places/{id}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(gochi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("place id %q: %w", gochi.URLParam(r, "id"), domain.ErrNotFound))
		return
	}

	reg := s.places.Registry()
	if spec, ok := reg.Spec(domquery.ParamContext); ok {
		reg = domquery.NewRegistry(spec)
	} else {
		reg = domquery.NewRegistry()
	}
	params, err := BindParams(r.URL.Query(), reg)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx := placeuc.WithCollectionURL(r.Context(), s.collectionURL(r))
	doc, err := s.places.Get(ctx, id, requestContext(params))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type routeDescription struct {
	Namespace string            `json:"namespace"`
	Methods   []string          `json:"methods"`
	Endpoints []endpointDetails `json:"endpoints"`
	Schema    domplace.Schema   `json:"schema"`
}

type endpointDetails struct {
	Methods []string                 `json:"methods"`
	Args    map[string]domquery.Spec `json:"args"`
}

// DescribePlaces handles OPTIONS {namespace}/places.
func (s *Server) DescribePlaces(w http.ResponseWriter, _ *http.Request) {
	specs := s.places.Registry().Specs()
	args := make(map[string]domquery.Spec, len(specs))
	for _, spec := range specs {
		args[spec.Name] = spec
	}

	writeJSON(w, http.StatusOK, routeDescription{
		Namespace: strings.TrimPrefix(s.namespace, "/"),
		Methods:   []string{http.MethodGet},
		Endpoints: []endpointDetails{{Methods: []string{http.MethodGet}, Args: args}},
		Schema:    domplace.ItemSchema(),
	})
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: report.Status, Checks: report.Checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// collectionURL returns the absolute URL of the places collection.
func (s *Server) collectionURL(r *http.Request) string {
	origin := s.baseURL
	if origin == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
			scheme = p
		}
		origin = scheme + "://" + r.Host
	}
	return origin + s.namespace + collectionPath
}

func requestContext(p domquery.Params) domplace.Context {
	c := domplace.Context(p.String(domquery.ParamContext))
	if !c.IsValid() {
		return domplace.ContextView
	}
	return c
}

type errorResponse struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Status int               `json:"status"`
	Params map[string]string `json:"params,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
		Data:    errorData{Status: status},
	})
}

// clientMessages maps sentinels to the message shown to clients.
var clientMessages = []struct {
	sentinel error
	message  string
}{
	{domain.ErrMissingSearchTerm, "You need to define a search term to order by relevance."},
	{domain.ErrMissingIncludeList, "You need to define an include parameter to order by include."},
	{domain.ErrPageOutOfRange, "The page number requested is larger than the number of pages available."},
	{domain.ErrNotFound, "Invalid post ID."},
	{domain.ErrValidation, "Invalid parameter(s)."},
}

// safeDomainMessage returns a client message for err without exposing internals.
func safeDomainMessage(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.sentinel) {
			return m.message
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports the offending parameter under data.params.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, CodeInvalidParam, msg)
		return true
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    CodeInvalidParam,
		Message: "Invalid parameter(s): " + ve.Param,
		Data: errorData{
			Status: http.StatusBadRequest,
			Params: map[string]string{ve.Param: ve.Reason},
		},
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
