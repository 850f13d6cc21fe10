/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

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

// Client is the desktop app's HTTP client for the office server.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, err
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server %s %s: %s: %s", method, u.Path, resp.Status, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// FetchToken exchanges the shared secret deployment's auth endpoint for a
// bearer token and stores it on the client.
func (c *Client) FetchToken(ctx context.Context, subject string, ttl time.Duration) error {
	body, _ := json.Marshal(map[string]any{
		"subject":     subject,
		"ttl_seconds": int64(ttl / time.Second),
	})
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", body, &out); err != nil {
		return err
	}
	c.Token = out.Token
	return nil
}

// GetTemplate fetches the current shared template document bytes.
func (c *Client) GetTemplate(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/template", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

// PutTemplate uploads a template document, archiving it under versionName.
func (c *Client) PutTemplate(ctx context.Context, doc []byte, versionName string) (int64, error) {
	path := "/api/template"
	if versionName != "" {
		path += "?version=" + url.QueryEscape(versionName)
	}
	var out struct {
		VersionID int64 `json:"version_id"`
	}
	if err := c.doJSON(ctx, http.MethodPut, path, doc, &out); err != nil {
		return 0, err
	}
	return out.VersionID, nil
}

// ListTemplateVersions lists archived versions, newest first.
func (c *Client) ListTemplateVersions(ctx context.Context, limit int) ([]TemplateVersion, error) {
	path := "/api/template/versions"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var list []TemplateVersion
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTemplateVersion fetches one archived version including its document.
func (c *Client) GetTemplateVersion(ctx context.Context, id int64) (*TemplateVersion, error) {
	var v TemplateVersion
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/template/versions/%d", id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteTemplateVersion removes an archived version.
func (c *Client) DeleteTemplateVersion(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/template/versions/%d", id), nil, nil)
}

// ListTickets lists recent tickets from the scale house feed.
func (c *Client) ListTickets(ctx context.Context, limit int) ([]TicketRecord, error) {
	path := "/api/tickets"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var list []TicketRecord
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTicket fetches one ticket.
func (c *Client) GetTicket(ctx context.Context, id string) (*TicketRecord, error) {
	var t TicketRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// EmailTicket asks the server to compile and send the ticket email.
func (c *Client) EmailTicket(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/tickets/"+url.PathEscape(id)+"/email", nil, nil)
}

// PrintTicket fetches the ready-to-print HTML for a ticket.
func (c *Client) PrintTicket(ctx context.Context, id string, copies int) (string, error) {
	path := "/api/tickets/" + url.PathEscape(id) + "/print"
	if copies > 0 {
		path += fmt.Sprintf("?copies=%d", copies)
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	return string(b), err
}
