package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/pkg/pubsub"
	"github.com/absmach/flotilla/run"
)

// Subscribe attaches the control and data plane handlers for the
// channel. Registration, liveliness and update messages all arrive on
// subtopics of the channel's message root.
func (svc *service) Subscribe(ctx context.Context) error {
	baseTopic := "channels/" + svc.channelID + "/messages"
	topic := baseTopic + "/#"

	if err := svc.pubsub.Subscribe(ctx, topic, svc.handle(ctx, baseTopic)); err != nil {
		return err
	}

	return nil
}

func (svc *service) handle(ctx context.Context, baseTopic string) pubsub.Handler {
	return func(topic string, msg map[string]any) error {
		switch topic {
		case baseTopic + "/control/client/register":
			if err := svc.registerClientHandler(ctx, msg); err != nil {
				return err
			}
			svc.logger.InfoContext(ctx, "successfully registered client")
		case baseTopic + "/control/client/alive":
			return svc.updateLivelinessHandler(ctx, msg)
		case baseTopic + "/fl/updates":
			return svc.clientUpdateHandler(ctx, msg)
		}

		return nil
	}
}

func (svc *service) registerClientHandler(ctx context.Context, msg map[string]any) error {
	clientID, ok := msg["client_id"].(string)
	if !ok {
		return errors.New("invalid client_id")
	}
	if clientID == "" {
		return errors.New("client id is empty")
	}
	name, ok := msg["name"].(string)
	if !ok {
		name = ""
	}

	if _, err := svc.Register(ctx, run.Client{ID: clientID, Name: name}); err != nil {
		return err
	}

	return nil
}

func (svc *service) updateLivelinessHandler(ctx context.Context, msg map[string]any) error {
	clientID, ok := msg["client_id"].(string)
	if !ok {
		return errors.New("invalid client_id")
	}
	if clientID == "" {
		return errors.New("client id is empty")
	}

	c, err := svc.clients.Get(ctx, clientID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		// A heartbeat from an unknown client doubles as registration.
		return svc.registerClientHandler(ctx, msg)
	}
	if err != nil {
		return err
	}

	c.Alive = true
	c.AliveHistory = append(c.AliveHistory, time.Now())
	if len(c.AliveHistory) > aliveHistoryLimit {
		c.AliveHistory = c.AliveHistory[1:]
	}

	return svc.clients.Update(ctx, c)
}

func (svc *service) clientUpdateHandler(ctx context.Context, msg map[string]any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	var update fl.ClientUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return err
	}

	if err := svc.SubmitUpdate(ctx, update); err != nil {
		svc.logger.Warn("rejected client update",
			slog.String("client_id", update.ClientID),
			slog.Uint64("round", update.RoundNumber),
			slog.Any("error", err),
		)

		return err
	}

	return nil
}
