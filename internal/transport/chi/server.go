// Package chi exposes the search engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/record"
	"github.com/voca9204/findex/internal/domain/search/request"
	"github.com/voca9204/findex/internal/domain/search/result"
	searchuc "github.com/voca9204/findex/internal/usecase/search"
)

// Error codes returned in the response envelope.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeParseFailed      = "query_parse_failed"
	codeDatasetNotFound  = "dataset_not_found"
	codeInternalError    = "internal_error"
)

// Engine is the search surface the server exposes.
type Engine interface {
	Search(ctx context.Context, req *request.Request, dataset []record.Record) (*result.SearchResult, error)
	Suggestions(partial string, dataset []record.Record, opts searchuc.SuggestOptions) []result.Suggestion
}

// DatasetStore resolves and manages named datasets. Optional: a nil store
// means every search must inline its records.
type DatasetStore interface {
	Put(ctx context.Context, name string, records []record.Record) error
	Get(ctx context.Context, name string) ([]record.Record, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Pinger reports backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server handles the findex HTTP API.
type Server struct {
	engine   Engine
	datasets DatasetStore
	pinger   Pinger
	logger   *zap.Logger
}

// NewServer creates an HTTP API server. datasets and pinger may be nil.
func NewServer(engine Engine, datasets DatasetStore, pinger Pinger, logger *zap.Logger) *Server {
	return &Server{engine: engine, datasets: datasets, pinger: pinger, logger: logger}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/suggest", s.handleSuggest)
		r.Put("/datasets/{name}", s.handlePutDataset)
		r.Get("/datasets", s.handleListDatasets)
		r.Delete("/datasets/{name}", s.handleDeleteDataset)
	})
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query          string            `json:"query"`
	Dataset        []record.Record   `json:"dataset,omitempty"`
	DatasetID      string            `json:"datasetId,omitempty"`
	SearchFields   []string          `json:"searchFields,omitempty"`
	SortField      string            `json:"sortField,omitempty"`
	SortDirection  string            `json:"sortDirection,omitempty"`
	CursorField    string            `json:"cursorField,omitempty"`
	EnableFuzzy    bool              `json:"enableFuzzy,omitempty"`
	FuzzyThreshold int               `json:"fuzzyThreshold,omitempty"`
	Filters        map[string]string `json:"filters,omitempty"`
	Pagination     *paginationBody   `json:"pagination,omitempty"`
}

type paginationBody struct {
	Cursor    string `json:"cursor,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// searchItem keeps score fields alongside the untouched record.
type searchItem struct {
	Record     record.Record   `json:"record"`
	Score      float64         `json:"score"`
	FuzzyScore *int            `json:"fuzzyScore,omitempty"`
	Breakdown  []result.Factor `json:"breakdown,omitempty"`
}

type searchResponse struct {
	Data       []searchItem     `json:"data"`
	TotalCount int              `json:"totalCount"`
	Pagination *result.PageInfo `json:"pagination,omitempty"`
	Metadata   result.Metadata  `json:"metadata"`
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	dataset, ok := s.resolveDataset(w, r, &body)
	if !ok {
		return
	}

	var page *request.Page
	if body.Pagination != nil {
		p, err := request.NewPage(body.Pagination.Cursor, body.Pagination.PageSize, body.Pagination.Direction)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		page = &p
	}

	req, err := request.New(
		body.Query, body.SearchFields,
		body.SortField, body.SortDirection, body.CursorField,
		body.EnableFuzzy, body.FuzzyThreshold,
		page, body.Filters,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.engine.Search(r.Context(), &req, dataset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(res))
}

// resolveDataset picks inline records or loads a named dataset. Writes the
// error response itself when resolution fails.
func (s *Server) resolveDataset(w http.ResponseWriter, r *http.Request, body *searchRequest) ([]record.Record, bool) {
	switch {
	case body.Dataset != nil && body.DatasetID != "":
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"Provide either dataset or datasetId, not both")
		return nil, false
	case body.DatasetID != "":
		if s.datasets == nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"Named datasets are not configured on this server")
			return nil, false
		}
		dataset, err := s.datasets.Get(r.Context(), body.DatasetID)
		if err != nil {
			s.handleDomainError(w, err)
			return nil, false
		}
		return dataset, true
	default:
		return body.Dataset, true
	}
}

// handleSuggest handles GET /api/v1/suggest.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query parameter q is required")
		return
	}
	datasetID := r.URL.Query().Get("datasetId")
	if datasetID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query parameter datasetId is required")
		return
	}
	if s.datasets == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"Named datasets are not configured on this server")
		return
	}

	dataset, err := s.datasets.Get(r.Context(), datasetID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = request.DefaultSearchField
	}

	suggestions := s.engine.Suggestions(q, dataset, searchuc.SuggestOptions{
		Field:          field,
		MaxSuggestions: queryInt(r, "limit"),
		MinSimilarity:  queryInt(r, "minSimilarity"),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}

// handlePutDataset handles PUT /api/v1/datasets/{name}.
func (s *Server) handlePutDataset(w http.ResponseWriter, r *http.Request) {
	if s.datasets == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"Named datasets are not configured on this server")
		return
	}
	name := chi.URLParam(r, "name")

	var records []record.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.datasets.Put(r.Context(), name, records); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":    name,
		"records": len(records),
	})
}

// handleListDatasets handles GET /api/v1/datasets.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	if s.datasets == nil {
		writeJSON(w, http.StatusOK, map[string]any{"datasets": []string{}})
		return
	}
	names, err := s.datasets.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": names})
}

// handleDeleteDataset handles DELETE /api/v1/datasets/{name}.
func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if s.datasets == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"Named datasets are not configured on this server")
		return
	}
	if err := s.datasets.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"engine": "ok"}
	status := http.StatusOK

	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			checks["datasets"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			checks["datasets"] = "ok"
		}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func toSearchResponse(res *result.SearchResult) searchResponse {
	items := make([]searchItem, len(res.Data))
	for i := range res.Data {
		sc := &res.Data[i]
		item := searchItem{
			Record:    sc.Record(),
			Score:     sc.Score(),
			Breakdown: sc.Breakdown(),
		}
		if fz := sc.FuzzyScore(); fz >= 0 {
			item.FuzzyScore = &fz
		}
		items[i] = item
	}
	return searchResponse{
		Data:       items,
		TotalCount: res.TotalCount,
		Pagination: res.Pagination,
		Metadata:   res.Metadata,
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		writeError(w, http.StatusNotFound, codeDatasetNotFound, err.Error())
	case domain.IsValidationError(err):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	case domain.IsParseError(err):
		writeError(w, http.StatusBadRequest, codeParseFailed, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func queryInt(r *http.Request, name string) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the error envelope for every non-2xx reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
