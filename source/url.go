package source

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

var defaultClient = &http.Client{Timeout: time.Minute}

type URL struct {
	Address string
	// Client defaults to a client with a one minute timeout.
	Client *http.Client
}

func (u *URL) Load(ctx context.Context) ([]string, error) {
	client := u.Client
	if client == nil {
		client = defaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Address, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch word list: %s returned %s", u.Address, resp.Status)
	}
	return ReadWords(resp.Body)
}

func (u *URL) Describe() string {
	return "url:" + u.Address
}
