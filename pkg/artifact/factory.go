package artifact

import (
	"context"
	"fmt"
	"io"
)

type Config struct {
	Kind string `env:"KIND" envDefault:"file"`

	FileDir      string `env:"FILE_DIR"  envDefault:"./data/artifact"`
	FileCompress bool   `env:"FILE_COMPRESS" envDefault:"false"`

	BadgerPath string `env:"BADGER_PATH" envDefault:"./data/artifact-badger"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"           envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Prefix          string `env:"S3_PREFIX"           envDefault:"flotilla"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE"   envDefault:"false"`
}

// NewStore builds the configured artifact backend. The returned closer
// is nil for backends without a connection to release.
func NewStore(ctx context.Context, cfg Config) (Store, io.Closer, error) {
	switch cfg.Kind {
	case "memory":
		return NewMemoryStore(), nil, nil
	case "file":
		store, err := NewFileStore(cfg.FileDir, cfg.FileCompress)
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	case "badger":
		store, err := NewBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}

		return store, store.(io.Closer), nil
	case "s3":
		store, err := NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Prefix:          cfg.S3Prefix,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported artifact store kind: %s", cfg.Kind)
	}
}
