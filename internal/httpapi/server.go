package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nlpd/internal/classifier"
	"nlpd/pkg/types"
)

// Service is what the HTTP layer needs from the model manager.
type Service interface {
	ListModels() types.ModelsResponse
	Status() types.StatusResponse
	Ready() bool
	Sentiment(ctx context.Context, texts []string) (types.SentimentResponse, error)
	Summarize(ctx context.Context, texts []string) (types.SummarizeResponse, error)
	Answer(ctx context.Context, req types.AnswerRequest) (types.AnswerResponse, error)
	Keywords(ctx context.Context, texts []string) (types.KeywordsResponse, error)
}

// History exposes the persisted request log and analysis reports. It is
// optional; without it the /v1/requests and /v1/analyses routes are absent.
type History interface {
	RecentRequests(ctx context.Context, kind string, limit int) ([]types.RequestRecord, error)
	GetAnalysis(ctx context.Context, id string) (types.Report, error)
	ListAnalyses(ctx context.Context, query string, limit int) ([]types.Report, error)
}

// NewMux builds the HTTP router. hist may be nil.
func NewMux(svc Service, hist History) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}
	r.Use(MetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})
	r.Handle("/metrics", promhttp.Handler())
	MountSwagger(r)

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.ListModels())
	})
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sentiment", textsHandler(classifier.KindSentiment, svc.Sentiment))
		r.Post("/summarize", textsHandler(classifier.KindSummarization, svc.Summarize))
		r.Post("/keywords", textsHandler(classifier.KindKeywords, svc.Keywords))
		r.Post("/answer", func(w http.ResponseWriter, r *http.Request) {
			var req types.AnswerRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			serveCall(w, r, classifier.KindQuestionAnswering, func(ctx context.Context) (any, error) {
				return svc.Answer(ctx, req)
			})
		})
		if hist != nil {
			mountHistory(r, hist)
		}
	})
	return r
}

func mountHistory(r chi.Router, hist History) {
	r.Get("/requests", func(w http.ResponseWriter, r *http.Request) {
		limit, ok := limitParam(w, r)
		if !ok {
			return
		}
		recs, err := hist.RecentRequests(r.Context(), r.URL.Query().Get("kind"), limit)
		if err != nil {
			writeJSONError(w, StatusFor(err), err.Error())
			return
		}
		writeJSON(w, types.RequestsResponse{Requests: recs})
	})
	r.Get("/analyses", func(w http.ResponseWriter, r *http.Request) {
		limit, ok := limitParam(w, r)
		if !ok {
			return
		}
		reports, err := hist.ListAnalyses(r.Context(), r.URL.Query().Get("query"), limit)
		if err != nil {
			writeJSONError(w, StatusFor(err), err.Error())
			return
		}
		writeJSON(w, types.AnalysesResponse{Analyses: reports})
	})
	r.Get("/analyses/{id}", func(w http.ResponseWriter, r *http.Request) {
		rep, err := hist.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSONError(w, StatusFor(err), err.Error())
			return
		}
		writeJSON(w, rep)
	})
}

func textsHandler[Resp any](kind string, fn func(context.Context, []string) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TextsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serveCall(w, r, kind, func(ctx context.Context) (any, error) {
			return fn(ctx, req.Texts)
		})
	}
}

func serveCall(w http.ResponseWriter, r *http.Request, kind string, fn func(context.Context) (any, error)) {
	start := time.Now()
	ctx, cancel := callContext(r)
	defer cancel()
	resp, err := fn(ctx)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("queue_full")
		}
		logCall(r, kind, status, start, err)
		writeJSONError(w, status, err.Error())
		return
	}
	logCall(r, kind, http.StatusOK, start, nil)
	writeJSON(w, resp)
}

// decodeJSON reads a size-limited JSON body into v. On failure it writes
// the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			writeJSONError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
			return false
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := strings.TrimSpace(r.URL.Query().Get("limit"))
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func corsOptions() cors.Options {
	methods := corsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := corsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Log-Level"}
	}
	return cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		MaxAge:         300,
	}
}
