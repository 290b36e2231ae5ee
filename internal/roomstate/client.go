package roomstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/caption"
)

// Client talks to a remote /api/room endpoint. Reads degrade to "no data"
// on any failure; writes are best-effort and report errors only for logging.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zerolog.Logger
}

// NewClient builds a client for the server at baseURL (scheme://host[:port]).
func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// Fetch reads the room snapshot. Returns nil on network, status, or decode
// failure; the caller treats nil as an empty poll result.
func (c *Client) Fetch(ctx context.Context, roomID string) *Snapshot {
	endpoint := fmt.Sprintf("%s/api/room?roomId=%s", c.baseURL, url.QueryEscape(roomID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("room", roomID).Msg("room state fetch failed")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		c.log.Debug().Err(err).Str("room", roomID).Msg("room state decode failed")
		return nil
	}
	if snap.Messages == nil {
		snap.Messages = []caption.Message{}
	}
	return &snap
}

type putRequest struct {
	RoomID string `json:"roomId"`
	Patch
}

type putResponse struct {
	OK        bool  `json:"ok"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Put writes a partial room state. Satisfies Writer; callers treat failures
// as fire-and-forget.
func (c *Client) Put(ctx context.Context, roomID string, p Patch) (int64, error) {
	body, err := json.Marshal(putRequest{RoomID: roomID, Patch: p})
	if err != nil {
		return 0, fmt.Errorf("encode room state: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/room", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("room state write: status %d", resp.StatusCode)
	}

	var ack putResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return 0, err
	}
	return ack.UpdatedAt, nil
}
