package sdk

import (
	"encoding/json"
	"net/http"
	"time"
)

const clientsEndpoint = "/clients"

type Client struct {
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	UpdateCount  uint64      `json:"update_count,omitempty"`
	Alive        bool        `json:"alive,omitempty"`
	AliveHistory []time.Time `json:"alive_history,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type ClientPage struct {
	Offset  uint64   `json:"offset"`
	Limit   uint64   `json:"limit"`
	Total   uint64   `json:"total"`
	Clients []Client `json:"clients"`
}

func (sdk *flotSDK) RegisterClient(c Client) (Client, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return Client{}, err
	}

	url := sdk.aggregatorURL + clientsEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, CTJSON, http.StatusCreated)
	if err != nil {
		return Client{}, err
	}

	var registered Client
	if err := json.Unmarshal(body, &registered); err != nil {
		return Client{}, err
	}

	return registered, nil
}

func (sdk *flotSDK) GetClient(id string) (Client, error) {
	url := sdk.aggregatorURL + clientsEndpoint + "/" + id

	body, err := sdk.processRequest(http.MethodGet, url, nil, CTJSON, http.StatusOK)
	if err != nil {
		return Client{}, err
	}

	var c Client
	if err := json.Unmarshal(body, &c); err != nil {
		return Client{}, err
	}

	return c, nil
}

func (sdk *flotSDK) ListClients(offset, limit uint64) (ClientPage, error) {
	url := sdk.aggregatorURL + clientsEndpoint + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, CTJSON, http.StatusOK)
	if err != nil {
		return ClientPage{}, err
	}

	var p ClientPage
	if err := json.Unmarshal(body, &p); err != nil {
		return ClientPage{}, err
	}

	return p, nil
}

func (sdk *flotSDK) DeregisterClient(id string) error {
	url := sdk.aggregatorURL + clientsEndpoint + "/" + id

	if _, err := sdk.processRequest(http.MethodDelete, url, nil, CTJSON, http.StatusNoContent); err != nil {
		return err
	}

	return nil
}
