// Package remote is a snapshot store backed by a running qbank server. It
// writes through the persist endpoints and reads datasets back over REST.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// DefaultFailureMessage is used when the server gave no error text.
const DefaultFailureMessage = "Failed to save"

// Client talks to a qbank server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/datasets/"+string(dataset), nil)
	if err != nil {
		return aggregates.Snapshot{}, err
	}
	req.Header.Set("Accept", codec.ContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
	}
	if resp.StatusCode != http.StatusOK {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", fmt.Errorf("server returned %s", resp.Status))
	}
	snap, err := codec.Decode(body)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	return snap, nil
}

// Save posts the whole dataset to its persist endpoint. A non-2xx answer
// carries the server's error text, or DefaultFailureMessage without one.
func (c *Client) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	d, err := valueobjects.ParseDataset(string(dataset))
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	data, err := codec.Encode(snap)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+d.SaveRoute(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", codec.ContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	defer resp.Body.Close()

	var result saveResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := result.Error
		if msg == "" {
			msg = DefaultFailureMessage
		}
		return pkgerrors.NewPersistenceError("save", fmt.Errorf("%s (status %d)", msg, resp.StatusCode))
	}
	if decodeErr != nil {
		return pkgerrors.NewPersistenceError("save", fmt.Errorf("decode response: %w", decodeErr))
	}
	return nil
}
