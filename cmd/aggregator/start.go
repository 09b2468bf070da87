package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/flotilla/aggregator"
	"github.com/absmach/flotilla/aggregator/api"
	"github.com/absmach/flotilla/aggregator/middleware"
	"github.com/absmach/flotilla/pkg/artifact"
	mqttpubsub "github.com/absmach/flotilla/pkg/pubsub/mqtt"
	"github.com/absmach/flotilla/pkg/storage"
	"github.com/absmach/supermq/pkg/jaeger"
	"github.com/absmach/supermq/pkg/prometheus"
	"github.com/absmach/supermq/pkg/server"
	httpserver "github.com/absmach/supermq/pkg/server/http"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const svcName = "aggregator"

type Config struct {
	LogLevel    string
	InstanceID  string
	MQTTAddress string
	MQTTQoS     uint8
	MQTTTimeout time.Duration
	ChannelID   string
	ClientID    string
	ClientKey   string
	Storage     storage.Config
	Artifact    artifact.Config
	Server      server.Config
	OTELURL     url.URL
	TraceRatio  float64
}

func StartAggregator(ctx context.Context, cancel context.CancelFunc, cfg Config) error {
	g, ctx := errgroup.WithContext(ctx)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.OTELURL, "", cfg.TraceRatio)
		if err != nil {
			return fmt.Errorf("failed to initialize opentelemetry: %s", err.Error())
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				slog.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	repos, err := storage.NewRepositories(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %s", err.Error())
	}
	if repos.Closer != nil {
		defer repos.Closer.Close()
	}

	store, storeCloser, err := artifact.NewStore(ctx, cfg.Artifact)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %s", err.Error())
	}
	if storeCloser != nil {
		defer storeCloser.Close()
	}

	mqttPubSub, err := mqttpubsub.NewPubSub(cfg.MQTTAddress, cfg.MQTTQoS, svcName, cfg.ClientID, cfg.ClientKey, cfg.ChannelID, cfg.MQTTTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mqtt pubsub: %s", err.Error())
	}

	svc := aggregator.NewService(*repos, store, mqttPubSub, cfg.ChannelID, logger)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	if err := svc.RecoverInterruptedRuns(ctx); err != nil {
		return fmt.Errorf("failed to recover interrupted runs: %s", err.Error())
	}

	if err := svc.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to aggregator channel: %s", err.Error())
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, cfg.Server, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}

	return svc.Shutdown(context.Background())
}
