package api

import (
	"net/http"

	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/run"
	"github.com/absmach/supermq"
)

var (
	_ supermq.Response = (*runResponse)(nil)
	_ supermq.Response = (*listRunResponse)(nil)
	_ supermq.Response = (*roundsResponse)(nil)
	_ supermq.Response = (*clientResponse)(nil)
	_ supermq.Response = (*listClientResponse)(nil)
	_ supermq.Response = (*artifactResponse)(nil)
)

type runResponse struct {
	run.Run
	created bool
}

func (r runResponse) Code() int {
	if r.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (r runResponse) Headers() map[string]string {
	if r.created {
		return map[string]string{
			"Location": "/runs/" + r.ID,
		}
	}

	return map[string]string{}
}

func (r runResponse) Empty() bool {
	return false
}

type listRunResponse struct {
	run.RunPage
}

func (l listRunResponse) Code() int {
	return http.StatusOK
}

func (l listRunResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listRunResponse) Empty() bool {
	return false
}

type roundsResponse struct {
	run.RoundPage
}

func (r roundsResponse) Code() int {
	return http.StatusOK
}

func (r roundsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r roundsResponse) Empty() bool {
	return false
}

type clientResponse struct {
	run.Client
	created bool
	deleted bool
}

func (c clientResponse) Code() int {
	if c.created {
		return http.StatusCreated
	}
	if c.deleted {
		return http.StatusNoContent
	}

	return http.StatusOK
}

func (c clientResponse) Headers() map[string]string {
	if c.created {
		return map[string]string{
			"Location": "/clients/" + c.ID,
		}
	}

	return map[string]string{}
}

func (c clientResponse) Empty() bool {
	return c.deleted
}

type listClientResponse struct {
	run.ClientPage
}

func (l listClientResponse) Code() int {
	return http.StatusOK
}

func (l listClientResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listClientResponse) Empty() bool {
	return false
}

type artifactResponse struct {
	artifact.Artifact
}

func (a artifactResponse) Code() int {
	return http.StatusOK
}

func (a artifactResponse) Headers() map[string]string {
	return map[string]string{}
}

func (a artifactResponse) Empty() bool {
	return false
}

type updateResponse struct {
	Status string `json:"status"`
}

type messageResponse map[string]any
