// Package natsapi serves the model kinds over NATS request/reply. Each kind
// listens on <prefix>.<route> in a queue group, so several daemons share the
// load. Payloads are the JSON types of the HTTP API.
package natsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"nlpd/internal/httpapi"
	"nlpd/pkg/types"
)

// Route suffixes appended to the subject prefix.
const (
	RouteSentiment = "sentiment"
	RouteSummarize = "summarize"
	RouteAnswer    = "answer"
	RouteKeywords  = "keywords"
)

// Routes lists every subject suffix served.
var Routes = []string{RouteSentiment, RouteSummarize, RouteAnswer, RouteKeywords}

const defaultMaxInflight = 64

// Service is the subset of the manager served over NATS.
type Service interface {
	Sentiment(ctx context.Context, texts []string) (types.SentimentResponse, error)
	Summarize(ctx context.Context, texts []string) (types.SummarizeResponse, error)
	Answer(ctx context.Context, req types.AnswerRequest) (types.AnswerResponse, error)
	Keywords(ctx context.Context, texts []string) (types.KeywordsResponse, error)
}

// Options configure a Server.
type Options struct {
	Prefix string
	Queue  string
	// MaxInflight bounds concurrently handled messages; further messages
	// wait in the subscription's pending buffer.
	MaxInflight int64
	// Timeout bounds each model call. Zero means none.
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// Server binds a Service to NATS subjects.
type Server struct {
	nc   *nats.Conn
	svc  Service
	opts Options
	log  zerolog.Logger
	sem  *semaphore.Weighted
	subs []*nats.Subscription
}

// Connect dials url with reconnect handling logged to log.
func Connect(url string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("nlpd"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// New returns a Server; call Start to subscribe.
func New(nc *nats.Conn, svc Service, o Options) *Server {
	if o.Prefix == "" {
		o.Prefix = "nlpd"
	}
	if o.MaxInflight <= 0 {
		o.MaxInflight = defaultMaxInflight
	}
	l := zerolog.Nop()
	if o.Logger != nil {
		l = *o.Logger
	}
	return &Server{
		nc:   nc,
		svc:  svc,
		opts: o,
		log:  l.With().Str("component", "nats").Logger(),
		sem:  semaphore.NewWeighted(o.MaxInflight),
	}
}

// Subject returns the full subject of route.
func (s *Server) Subject(route string) string { return s.opts.Prefix + "." + route }

// Start subscribes every route. ctx bounds the handling of messages: once it
// is done, messages still waiting for a slot get an error reply.
func (s *Server) Start(ctx context.Context) error {
	for _, route := range Routes {
		route := route
		sub, err := s.nc.QueueSubscribe(s.Subject(route), s.opts.Queue, func(msg *nats.Msg) {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				s.respond(msg, errorReply(http.StatusServiceUnavailable, "shutting down"))
				return
			}
			go func() {
				defer s.sem.Release(1)
				s.respond(msg, s.Handle(ctx, route, msg.Data))
			}()
		})
		if err != nil {
			s.unsubscribe()
			return fmt.Errorf("subscribe %s: %w", s.Subject(route), err)
		}
		s.subs = append(s.subs, sub)
	}
	s.log.Info().Str("prefix", s.opts.Prefix).Str("queue", s.opts.Queue).Msg("nats subscriptions ready")
	return nil
}

// Drain stops receiving, lets pending messages finish and closes the
// connection.
func (s *Server) Drain() error {
	if s.nc == nil {
		return nil
	}
	return s.nc.Drain()
}

func (s *Server) unsubscribe() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}

func (s *Server) respond(msg *nats.Msg, data []byte) {
	if msg.Reply == "" {
		return
	}
	if err := msg.Respond(data); err != nil {
		s.log.Warn().Err(err).Str("subject", msg.Subject).Msg("reply failed")
	}
}

// Handle decodes one request for route, runs it and returns the encoded
// reply. Failures are encoded as types.ErrorResponse.
func (s *Server) Handle(ctx context.Context, route string, data []byte) []byte {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	resp, err := s.dispatch(ctx, route, data)
	if err != nil {
		code := httpapi.StatusFor(err)
		s.log.Warn().Err(err).Str("route", route).Int("code", code).Dur("dur", time.Since(start)).Msg("request failed")
		return errorReply(code, err.Error())
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return errorReply(http.StatusInternalServerError, "failed to encode response")
	}
	s.log.Debug().Str("route", route).Dur("dur", time.Since(start)).Msg("request served")
	return b
}

func (s *Server) dispatch(ctx context.Context, route string, data []byte) (any, error) {
	if route == RouteAnswer {
		var req types.AnswerRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, codeError{http.StatusBadRequest, "invalid JSON body"}
		}
		return s.svc.Answer(ctx, req)
	}
	var req types.TextsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, codeError{http.StatusBadRequest, "invalid JSON body"}
	}
	switch route {
	case RouteSentiment:
		return s.svc.Sentiment(ctx, req.Texts)
	case RouteSummarize:
		return s.svc.Summarize(ctx, req.Texts)
	case RouteKeywords:
		return s.svc.Keywords(ctx, req.Texts)
	default:
		return nil, codeError{http.StatusNotFound, "unknown route " + route}
	}
}

// codeError carries its own status code through httpapi.StatusFor.
type codeError struct {
	code int
	msg  string
}

func (e codeError) Error() string   { return e.msg }
func (e codeError) StatusCode() int { return e.code }

func errorReply(code int, msg string) []byte {
	b, _ := json.Marshal(types.ErrorResponse{Error: msg, Code: code})
	return b
}
