package homework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteSource is the two-operation contract of the institutional homework
// service. The core only ever calls it for synced records.
type RemoteSource interface {
	Homeworks(ctx context.Context, week int) ([]SyncedHomework, error)
	SetCompletion(ctx context.Context, record SyncedHomework, done bool) error
}

// RemoteClient is an HTTP adapter over a JSON homework service implementing
// RemoteSource.
type RemoteClient struct {
	baseURL   string
	token     string
	userAgent string
	client    *http.Client
}

func NewRemoteClient(baseURL, token, userAgent string, client *http.Client) *RemoteClient {
	return &RemoteClient{
		baseURL:   baseURL,
		token:     token,
		userAgent: userAgent,
		client:    client,
	}
}

type remoteHomework struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Content     string       `json:"content"`
	DueDate     time.Time    `json:"due_date"`
	Done        bool         `json:"done"`
	CreatedBy   string       `json:"created_by"`
	Attachments []Attachment `json:"attachments"`
}

func (c *RemoteClient) Homeworks(ctx context.Context, week int) ([]SyncedHomework, error) {
	url := fmt.Sprintf("%s/homeworks?week=%d", c.baseURL, week)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch homeworks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var payload []remoteHomework
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode homeworks: %w", err)
	}

	records := make([]SyncedHomework, 0, len(payload))
	for _, raw := range payload {
		records = append(records, SyncedHomework{
			ID:               raw.ID,
			Subject:          raw.Subject,
			Content:          raw.Content,
			DueDate:          raw.DueDate,
			Done:             raw.Done,
			CreatedByAccount: raw.CreatedBy,
			Attachments:      raw.Attachments,
		})
	}

	return records, nil
}

func (c *RemoteClient) SetCompletion(ctx context.Context, record SyncedHomework, done bool) error {
	body, err := json.Marshal(map[string]bool{"done": done})
	if err != nil {
		return fmt.Errorf("failed to encode completion: %w", err)
	}

	url := fmt.Sprintf("%s/homeworks/%s/completion", c.baseURL, record.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return nil
}

func (c *RemoteClient) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
