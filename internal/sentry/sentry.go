package sentry

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/getsentry/sentry-go"
	"go.uber.org/fx"
)

const flushTimeout = 2 * time.Second

// Service reports store failures and traces transactions. A nil or disabled
// Service turns every call into a no-op.
type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

// RegisterHooks initializes the client on start and flushes it on stop
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return svc.Init() },
		OnStop: func(context.Context) error {
			svc.Flush()
			return nil
		},
	})
}

func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

func (s *Service) enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Sentry.Enabled
}

// Init configures the global client. Health and metrics probes are never traced.
func (s *Service) Init() error {
	if !s.enabled() {
		s.logger.Info("sentry disabled")
		return nil
	}

	rate := s.cfg.Sentry.SampleRate
	err := sentry.Init(sentry.ClientOptions{
		Dsn:           s.cfg.Sentry.DSN,
		Environment:   s.cfg.Sentry.Environment,
		EnableTracing: true,
		TracesSampler: sentry.TracesSampler(func(sc sentry.SamplingContext) float64 {
			switch sc.Span.Name {
			case "GET /health", "GET /metrics":
				return 0
			}
			return rate
		}),
	})
	if err != nil {
		s.logger.Errorw("sentry init failed", "error", err)
		return err
	}

	s.logger.Infow("sentry initialized", "environment", s.cfg.Sentry.Environment, "sample_rate", rate)
	return nil
}

// Flush waits briefly for buffered events
func (s *Service) Flush() {
	if s.enabled() {
		sentry.Flush(flushTimeout)
	}
}

// CaptureExceptionWithTags reports err with searchable tags on the request hub
func (s *Service) CaptureExceptionWithTags(ctx context.Context, err error, tags map[string]string) {
	if !s.enabled() {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// StartDBSpan opens a postgres span, nil when disabled
func (s *Service) StartDBSpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	if !s.enabled() {
		return nil, ctx
	}

	span := sentry.StartSpan(ctx, operation)
	span.Op = "db.postgres"
	span.Description = operation
	for k, v := range params {
		span.SetData(k, v)
	}
	return span, span.Context()
}
