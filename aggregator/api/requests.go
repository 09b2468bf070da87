package api

import (
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
	apiutil "github.com/absmach/supermq/api/http/util"
)

type startRunReq struct {
	run.Config `json:",inline"`
}

func (r *startRunReq) validate() error {
	return nil
}

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	return nil
}

type listRoundsReq struct {
	id            string
	offset, limit uint64
}

func (r *listRoundsReq) validate() error {
	if r.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type registerClientReq struct {
	run.Client `json:",inline"`
}

func (c *registerClientReq) validate() error {
	if c.ID == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type updateReq struct {
	fl.ClientUpdate `json:",inline"`
}

func (u *updateReq) validate() error {
	if u.ClientID == "" {
		return apiutil.ErrMissingID
	}

	return nil
}
