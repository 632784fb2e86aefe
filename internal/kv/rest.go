package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const restTimeout = 10 * time.Second

// REST talks to a hosted KV service over its HTTP command API:
// GET {base}/get/{key}, POST {base}/set/{key} with the value as body, and
// POST {base}/del/{key}. Every reply is {"result": ...} or {"error": "..."}.
type REST struct {
	base   string
	token  string
	client *http.Client
}

// NewREST builds a client. A nil client gets a default with a timeout.
func NewREST(baseURL, token string, client *http.Client) *REST {
	if client == nil {
		client = &http.Client{Timeout: restTimeout}
	}
	return &REST{
		base:   strings.TrimRight(baseURL, "/"),
		token:  token,
		client: client,
	}
}

type restReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (r *REST) do(ctx context.Context, method, command, key string, body []byte) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", r.base, command, url.PathEscape(key))

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return nil, err
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kv: %s %s: %w", command, key, err)
	}
	defer resp.Body.Close()

	var reply restReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("kv: %s %s: decode reply (status %d): %w", command, key, resp.StatusCode, err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("kv: %s %s: %s", command, key, reply.Error)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kv: %s %s: status %d", command, key, resp.StatusCode)
	}
	return reply.Result, nil
}

func (r *REST) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.do(ctx, http.MethodGet, "get", key, nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNotFound
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("kv: get %s: result is not a string: %w", key, err)
	}
	return []byte(s), nil
}

func (r *REST) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.do(ctx, http.MethodPost, "set", key, value)
	return err
}

func (r *REST) Delete(ctx context.Context, key string) error {
	_, err := r.do(ctx, http.MethodPost, "del", key, nil)
	return err
}

func (r *REST) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
