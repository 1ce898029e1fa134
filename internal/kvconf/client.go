// Package kvconf talks to a Consul-style key-value config store over
// HTTP. Keys live under a fixed string prefix; values are written as raw
// JSON and come back base64-encoded in the read representation.
package kvconf

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("key not found")

// Client issues KV operations under a fixed key prefix.
type Client struct {
	addr   string
	prefix string
	http   *http.Client
}

// New returns a client for the store at addr, scoped to prefix.
func New(addr, prefix string) *Client {
	return &Client{
		addr:   strings.TrimRight(addr, "/"),
		prefix: strings.Trim(prefix, "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) url(key string) string {
	return fmt.Sprintf("%s/v1/kv/%s/%s", c.addr, c.prefix, strings.TrimLeft(key, "/"))
}

// Put stores v as JSON under key.
func (c *Client) Put(key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, c.url(key), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// kvEntry mirrors the store's read representation.
type kvEntry struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// Get fetches key and decodes its base64 JSON value into out.
func (c *Client) Get(key string, out interface{}) error {
	resp, err := c.http.Get(c.url(key))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("get %s: unexpected status %s", key, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var entries []kvEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("get %s: decode response: %w", key, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	raw, err := base64.StdEncoding.DecodeString(entries[0].Value)
	if err != nil {
		return fmt.Errorf("get %s: decode value: %w", key, err)
	}
	return json.Unmarshal(raw, out)
}

// DeleteTree removes every key under the prefix.
func (c *Client) DeleteTree() error {
	url := fmt.Sprintf("%s/v1/kv/%s?recurse=true", c.addr, c.prefix)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %s", req.Method, req.URL.Path, resp.Status)
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
