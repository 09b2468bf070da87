package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/pkg/pubsub"
)

var (
	registerTopicTemplate = "channels/%s/messages/control/client/register"
	aliveTopicTemplate    = "channels/%s/messages/control/client/alive"
	roundTopicTemplate    = "channels/%s/messages/fl/clients/%s/round"
	updatesTopicTemplate  = "channels/%s/messages/fl/updates"
)

// Service is the networked client role: it announces itself to the
// aggregator, keeps a liveliness heartbeat, and answers each round
// broadcast with a locally trained update.
type Service struct {
	channelID          string
	client             *Client
	livelinessInterval time.Duration
	pubsub             pubsub.PubSub
	logger             *slog.Logger
}

func NewService(ctx context.Context, channelID string, c *Client, livelinessInterval time.Duration, ps pubsub.PubSub, logger *slog.Logger) (*Service, error) {
	topic := fmt.Sprintf(registerTopicTemplate, channelID)
	payload := map[string]any{
		"client_id": c.ID(),
		"name":      c.Name(),
	}
	if err := ps.Publish(ctx, topic, payload); err != nil {
		return nil, errors.Join(errors.New("failed to publish registration"), err)
	}

	s := &Service{
		channelID:          channelID,
		client:             c,
		livelinessInterval: livelinessInterval,
		pubsub:             ps,
		logger:             logger,
	}

	go s.startLivelinessUpdates(ctx)

	return s, nil
}

func (s *Service) startLivelinessUpdates(ctx context.Context) {
	ticker := time.NewTicker(s.livelinessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping liveliness updates")

			return
		case <-ticker.C:
			topic := fmt.Sprintf(aliveTopicTemplate, s.channelID)
			payload := map[string]any{
				"status":    "alive",
				"client_id": s.client.ID(),
			}

			if err := s.pubsub.Publish(ctx, topic, payload); err != nil {
				s.logger.Error("failed to publish liveliness message", slog.Any("error", err))
			}

			s.logger.Debug("published liveliness message", slog.String("topic", topic))
		}
	}
}

// Start subscribes to the client's round topic and returns. Each
// broadcast is answered from the handler.
func (s *Service) Start(ctx context.Context) error {
	topic := fmt.Sprintf(roundTopicTemplate, s.channelID, s.client.ID())
	if err := s.pubsub.Subscribe(ctx, topic, s.handleRound(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to round topic: %w", err)
	}

	return nil
}

// Run starts the client and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context, logger *slog.Logger) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	logger.Info("client service is running", slog.String("client_id", s.client.ID()))
	<-ctx.Done()

	return nil
}

func (s *Service) handleRound(ctx context.Context) pubsub.Handler {
	return func(topic string, msg map[string]any) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		var b fl.ParameterBroadcast
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}

		if b.RoundNumber == 0 {
			return errors.New("round number is required")
		}
		if len(b.Parameters) == 0 {
			return fl.ErrNoParameters
		}

		s.logger.Info("received round broadcast",
			slog.String("client_id", s.client.ID()),
			slog.Uint64("round", b.RoundNumber),
		)

		update, err := s.client.Step(b)
		if err != nil {
			return err
		}

		tp := fmt.Sprintf(updatesTopicTemplate, s.channelID)
		if err := s.pubsub.Publish(ctx, tp, update); err != nil {
			return err
		}

		return nil
	}
}
