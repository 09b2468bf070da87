package main

import (
	"context"
	"fmt"
	"log"
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
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName           = "aggregator"
	defHTTPPort       = "7070"
	envPrefixHTTP     = "AGGREGATOR_HTTP_"
	envPrefixArtifact = "AGGREGATOR_ARTIFACT_"
	pathEnv           = ".env"
)

type envConfig struct {
	LogLevel    string        `env:"AGGREGATOR_LOG_LEVEL"    envDefault:"info"`
	InstanceID  string        `env:"AGGREGATOR_INSTANCE_ID"`
	MQTTAddress string        `env:"AGGREGATOR_MQTT_ADDRESS" envDefault:"tcp://localhost:1883"`
	MQTTQoS     uint8         `env:"AGGREGATOR_MQTT_QOS"     envDefault:"2"`
	MQTTTimeout time.Duration `env:"AGGREGATOR_MQTT_TIMEOUT" envDefault:"30s"`
	ClientID    string        `env:"AGGREGATOR_CLIENT_ID"`
	ClientKey   string        `env:"AGGREGATOR_CLIENT_KEY"`
	ChannelID   string        `env:"AGGREGATOR_CHANNEL_ID"`
	Server      server.Config
	OTELURL     url.URL `env:"AGGREGATOR_OTEL_URL"`
	TraceRatio  float64 `env:"AGGREGATOR_TRACE_RATIO" envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
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
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	storageCfg := storage.Config{}
	if err := env.Parse(&storageCfg); err != nil {
		logger.Error("failed to load storage configuration", slog.String("error", err.Error()))

		return
	}
	repos, err := storage.NewRepositories(storageCfg)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))

		return
	}
	if repos.Closer != nil {
		defer repos.Closer.Close()
	}

	artifactCfg := artifact.Config{}
	if err := env.ParseWithOptions(&artifactCfg, env.Options{Prefix: envPrefixArtifact}); err != nil {
		logger.Error("failed to load artifact store configuration", slog.String("error", err.Error()))

		return
	}
	store, storeCloser, err := artifact.NewStore(ctx, artifactCfg)
	if err != nil {
		logger.Error("failed to initialize artifact store", slog.String("error", err.Error()))

		return
	}
	if storeCloser != nil {
		defer storeCloser.Close()
	}

	mqttPubSub, err := mqttpubsub.NewPubSub(cfg.MQTTAddress, cfg.MQTTQoS, svcName, cfg.ClientID, cfg.ClientKey, cfg.ChannelID, cfg.MQTTTimeout, logger)
	if err != nil {
		logger.Error("failed to initialize mqtt pubsub", slog.String("error", err.Error()))

		return
	}

	svc := aggregator.NewService(*repos, store, mqttPubSub, cfg.ChannelID, logger)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	if err := svc.RecoverInterruptedRuns(ctx); err != nil {
		logger.Error("failed to recover interrupted runs", slog.String("error", err.Error()))

		return
	}

	if err := svc.Subscribe(ctx); err != nil {
		logger.Error("failed to subscribe to aggregator channel", slog.String("error", err.Error()))

		return
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}

	if err := svc.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shut down active run", slog.String("error", err.Error()))
	}
}
