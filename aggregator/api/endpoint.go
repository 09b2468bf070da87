package api

import (
	"context"
	"errors"

	"github.com/absmach/flotilla/aggregator"
	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-kit/kit/endpoint"
)

func startRunEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(startRunReq)
		if !ok {
			return runResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return runResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		r, err := svc.StartRun(ctx, req.Config)
		if err != nil {
			return runResponse{}, err
		}

		return runResponse{
			Run:     r,
			created: true,
		}, nil
	}
}

func getRunEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return runResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return runResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		r, err := svc.GetRun(ctx, req.id)
		if err != nil {
			return runResponse{}, err
		}

		return runResponse{
			Run: r,
		}, nil
	}
}

func listRunsEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listRunResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listRunResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		runs, err := svc.ListRuns(ctx, req.offset, req.limit)
		if err != nil {
			return listRunResponse{}, err
		}

		return listRunResponse{
			RunPage: runs,
		}, nil
	}
}

func stopRunEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return messageResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return messageResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		if err := svc.StopRun(ctx, req.id); err != nil {
			return messageResponse{}, err
		}

		return messageResponse{
			"stopped": true,
		}, nil
	}
}

func listRoundsEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listRoundsReq)
		if !ok {
			return roundsResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return roundsResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		rounds, err := svc.ListRounds(ctx, req.id, req.offset, req.limit)
		if err != nil {
			return roundsResponse{}, err
		}

		return roundsResponse{
			RoundPage: rounds,
		}, nil
	}
}

func registerClientEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(registerClientReq)
		if !ok {
			return clientResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return clientResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		c, err := svc.Register(ctx, req.Client)
		if err != nil {
			return clientResponse{}, err
		}

		return clientResponse{
			Client:  c,
			created: true,
		}, nil
	}
}

func getClientEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return clientResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return clientResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		c, err := svc.GetClient(ctx, req.id)
		if err != nil {
			return clientResponse{}, err
		}

		return clientResponse{
			Client: c,
		}, nil
	}
}

func listClientsEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listClientResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listClientResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		clients, err := svc.ListClients(ctx, req.offset, req.limit)
		if err != nil {
			return listClientResponse{}, err
		}

		return listClientResponse{
			ClientPage: clients,
		}, nil
	}
}

func deregisterClientEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return clientResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return clientResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		if err := svc.DeregisterClient(ctx, req.id); err != nil {
			return clientResponse{}, err
		}

		return clientResponse{
			deleted: true,
		}, nil
	}
}

func submitUpdateEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(updateReq)
		if !ok {
			return updateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return updateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		if err := svc.SubmitUpdate(ctx, req.ClientUpdate); err != nil {
			return updateResponse{}, err
		}

		return updateResponse{Status: "accepted"}, nil
	}
}

func submitUpdateCBOREndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.([]byte)
		if !ok {
			return updateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		if err := svc.SubmitUpdateCBOR(ctx, req); err != nil {
			return updateResponse{}, err
		}

		return updateResponse{Status: "accepted"}, nil
	}
}

func getArtifactEndpoint(svc aggregator.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		a, err := svc.GetArtifact(ctx)
		if err != nil {
			return artifactResponse{}, err
		}

		return artifactResponse{
			Artifact: a,
		}, nil
	}
}
