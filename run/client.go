package run

import "time"

// aliveTimeout is three default heartbeat intervals, so a single
// delayed or dropped heartbeat does not flap the flag.
const aliveTimeout = 30 * time.Second

// Client is a data holder registered with the aggregator.
type Client struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	UpdateCount  uint64      `json:"update_count"`
	Alive        bool        `json:"alive"`
	AliveHistory []time.Time `json:"alive_history"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (c *Client) SetAlive() {
	if len(c.AliveHistory) > 0 {
		lastAlive := c.AliveHistory[len(c.AliveHistory)-1]
		if time.Since(lastAlive) <= aliveTimeout {
			c.Alive = true

			return
		}
	}
	c.Alive = false
}

type ClientPage struct {
	Offset  uint64   `json:"offset"`
	Limit   uint64   `json:"limit"`
	Total   uint64   `json:"total"`
	Clients []Client `json:"clients"`
}
