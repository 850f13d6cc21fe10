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
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

type recordingMailer struct {
	to, subject, body string
	calls             int
	fail              bool
}

func (m *recordingMailer) Send(to, subject, htmlBody string) error {
	m.calls++
	m.to, m.subject, m.body = to, subject, htmlBody
	if m.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, Store, *recordingMailer, *Client) {
	t.Helper()
	store := NewMemStore()
	mailer := &recordingMailer{}
	srv := NewServer(store, mailer, "test-secret")
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL, "")
	if err := c.FetchToken(context.Background(), "tester", time.Hour); err != nil {
		t.Fatalf("fetch token: %v", err)
	}
	return ts, store, mailer, c
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := signToken("s", "alice", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := verifyToken("s", tok)
	if err != nil || sub != "alice" {
		t.Fatalf("verify: %q %v", sub, err)
	}
	if _, err := verifyToken("wrong", tok); err == nil {
		t.Fatalf("wrong secret should fail")
	}
	expired, _ := signToken("s", "alice", time.Now().Add(-time.Minute))
	if _, err := verifyToken("s", expired); err == nil {
		t.Fatalf("expired token should fail")
	}
}

func TestAuthRequired(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.ListTickets(context.Background(), 0); err == nil {
		t.Fatalf("unauthenticated request should fail")
	}
	if _, err := NewClient(ts.URL, "garbage").ListTickets(context.Background(), 0); err == nil {
		t.Fatalf("bad token should fail")
	}
}

func TestTemplateDefaultThenPutGet(t *testing.T) {
	_, _, _, c := newTestServer(t)
	ctx := context.Background()

	// Empty store serves built-in defaults.
	raw, err := c.GetTemplate(ctx)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	var doc domain.TemplateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parse default template: %v", err)
	}
	if len(doc.Elements) == 0 {
		t.Fatalf("default template should carry default elements")
	}

	doc.CanvasWidth = 640
	b, _ := json.Marshal(doc)
	id, err := c.PutTemplate(ctx, b, "wider")
	if err != nil {
		t.Fatalf("put template: %v", err)
	}
	if id != 1 {
		t.Fatalf("first version id = %d", id)
	}

	raw, err = c.GetTemplate(ctx)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	var got domain.TemplateDocument
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.CanvasWidth != 640 {
		t.Fatalf("stored width = %v", got.CanvasWidth)
	}
}

func TestPutTemplateRejectsInvalid(t *testing.T) {
	_, _, _, c := newTestServer(t)
	if _, err := c.PutTemplate(context.Background(), []byte(`{"elements":[{"type":"field"}]}`), ""); err == nil {
		t.Fatalf("schema-invalid template should be rejected")
	}
}

func TestVersionLifecycle(t *testing.T) {
	_, _, _, c := newTestServer(t)
	ctx := context.Background()
	b, _ := json.Marshal(domain.DefaultDocument())

	id1, _ := c.PutTemplate(ctx, b, "first")
	id2, _ := c.PutTemplate(ctx, b, "second")

	list, err := c.ListTemplateVersions(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != id2 || list[1].ID != id1 {
		t.Fatalf("list order wrong: %+v", list)
	}
	v, err := c.GetTemplateVersion(ctx, id1)
	if err != nil || len(v.Document) == 0 {
		t.Fatalf("get version: %+v %v", v, err)
	}
	if err := c.DeleteTemplateVersion(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.GetTemplateVersion(ctx, id1); err == nil {
		t.Fatalf("deleted version should 404")
	}
}

func TestTicketsReadOnlyFeed(t *testing.T) {
	_, store, _, c := newTestServer(t)
	ctx := context.Background()
	SeedTicket(store, TicketRecord{
		ID:         "T-100",
		Attributes: map[string]string{"jobNumber": "100", "customer": "Acme"},
		Email:      "office@acme.test",
	})

	list, err := c.ListTickets(ctx, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("list tickets: %v %v", list, err)
	}
	got, err := c.GetTicket(ctx, "T-100")
	if err != nil || got.Attributes["customer"] != "Acme" {
		t.Fatalf("get ticket: %+v %v", got, err)
	}
	if _, err := c.GetTicket(ctx, "nope"); err == nil {
		t.Fatalf("unknown ticket should 404")
	}
}

func TestEmailTicketRequiresRecipient(t *testing.T) {
	_, store, mailer, c := newTestServer(t)
	ctx := context.Background()
	SeedTicket(store, TicketRecord{
		ID:         "T-1",
		Attributes: map[string]string{"jobNumber": "1"},
		Email:      "",
	})
	err := c.EmailTicket(ctx, "T-1")
	if err == nil || !strings.Contains(err.Error(), "no recipient") {
		t.Fatalf("expected recipient pre-check failure, got %v", err)
	}
	if mailer.calls != 0 {
		t.Fatalf("mailer must not be called without a recipient")
	}
}

func TestEmailTicketSends(t *testing.T) {
	_, store, mailer, c := newTestServer(t)
	ctx := context.Background()
	SeedTicket(store, TicketRecord{
		ID:         "T-2",
		Attributes: map[string]string{"jobNumber": "42", "customer": "Acme"},
		Email:      "billing@acme.test",
	})
	if err := c.EmailTicket(ctx, "T-2"); err != nil {
		t.Fatalf("email: %v", err)
	}
	if mailer.to != "billing@acme.test" || mailer.subject != "Ticket 42" {
		t.Fatalf("mailer got %q %q", mailer.to, mailer.subject)
	}
	if !strings.Contains(mailer.body, "Acme") {
		t.Fatalf("body missing ticket data")
	}
}

func TestPrintTicketRendersFullPage(t *testing.T) {
	_, store, _, c := newTestServer(t)
	ctx := context.Background()
	SeedTicket(store, TicketRecord{
		ID:         "T-3",
		Attributes: map[string]string{"jobNumber": "7"},
		Email:      "x@y.test",
	})
	html, err := c.PrintTicket(ctx, "T-3", 2)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(html, "@page") || strings.Count(html, `class="ticket-slot"`) != 2 {
		t.Fatalf("print output wrong: %q", html[:120])
	}
}

func TestMetricsUseRouteTemplateAsPathLabel(t *testing.T) {
	ts, store, _, c := newTestServer(t)
	ctx := context.Background()
	SeedTicket(store, TicketRecord{
		ID:         "T-METRICS-1",
		Attributes: map[string]string{"jobNumber": "9"},
		Email:      "x@y.test",
	})
	if _, err := c.GetTicket(ctx, "T-METRICS-1"); err != nil {
		t.Fatalf("get ticket: %v", err)
	}

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	body := string(b)
	if !strings.Contains(body, `path="/api/tickets/{id}"`) {
		t.Fatalf("ticket request not counted under the route template")
	}
	if strings.Contains(body, "T-METRICS-1") {
		t.Fatalf("raw ticket id leaked into the path label")
	}
}

func TestServerCloseIdempotent(t *testing.T) {
	srv := NewServer(NewMemStore(), &recordingMailer{}, "s")
	_ = srv.Handler()
	srv.Close()
	srv.Close() // second close must not panic
}

func TestHealthAndVersion(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("%s status = %d", path, resp.StatusCode)
		}
	}
}
