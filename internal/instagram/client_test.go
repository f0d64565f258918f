// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package instagram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MateusDN896/RastroO/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&config.InstagramConfig{
		Enabled:           true,
		BaseURL:           srv.URL,
		AccessToken:       "test-token",
		UserID:            "17841400000000000",
		Timeout:           5 * time.Second,
		RequestsPerMinute: 600,
	})
	return client, srv
}

func TestRecentMedia(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "111", "media_type": "REELS", "permalink": "https://instagram.com/p/aaa", "timestamp": "2026-08-30T12:00:00+0000", "like_count": 42, "comments_count": 7},
				{"id": "222", "media_type": "IMAGE", "permalink": "https://instagram.com/p/bbb", "timestamp": "2026-08-29T09:30:00+0000", "like_count": 10, "comments_count": 1}
			],
			"paging": {"cursors": {"before": "b", "after": "a"}}
		}`))
	})

	items, err := client.RecentMedia(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentMedia() error = %v", err)
	}

	if gotPath != "/17841400000000000/media" {
		t.Errorf("request path = %q, want /17841400000000000/media", gotPath)
	}
	if !strings.Contains(gotQuery, "access_token=test-token") {
		t.Errorf("query %q missing access_token", gotQuery)
	}
	if !strings.Contains(gotQuery, "limit=2") {
		t.Errorf("query %q missing limit=2", gotQuery)
	}
	if !strings.Contains(gotQuery, "like_count") {
		t.Errorf("query %q missing engagement fields", gotQuery)
	}

	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != "111" || items[0].LikeCount != 42 || items[0].CommentsCount != 7 {
		t.Errorf("first item = %+v, want id 111 with 42 likes and 7 comments", items[0])
	}
	if items[1].MediaType != "IMAGE" {
		t.Errorf("second item media_type = %q, want IMAGE", items[1].MediaType)
	}
}

func TestRecentMediaDefaultLimit(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	items, err := client.RecentMedia(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentMedia() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
	if !strings.Contains(gotQuery, "limit=25") {
		t.Errorf("query %q missing default limit=25", gotQuery)
	}
}

func TestMediaSingleItem(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/333" {
			t.Errorf("request path = %q, want /333", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id": "333", "media_type": "VIDEO", "permalink": "https://instagram.com/p/ccc", "timestamp": "2026-08-28T15:00:00+0000", "like_count": 99, "comments_count": 12}`))
	})

	item, err := client.Media(context.Background(), "333")
	if err != nil {
		t.Fatalf("Media() error = %v", err)
	}
	if item.ID != "333" || item.LikeCount != 99 {
		t.Errorf("item = %+v, want id 333 with 99 likes", item)
	}
}

func TestRecentMediaGraphError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid OAuth access token", "type": "OAuthException", "code": 190}}`))
	})

	_, err := client.RecentMedia(context.Background(), 5)
	if err == nil {
		t.Fatal("RecentMedia() error = nil, want Graph API error")
	}
	if !strings.Contains(err.Error(), "Invalid OAuth access token") {
		t.Errorf("error %q should carry the Graph API message", err)
	}
	if !strings.Contains(err.Error(), "code 190") {
		t.Errorf("error %q should carry the Graph API error code", err)
	}
}

func TestRecentMediaNonJSONError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := client.RecentMedia(context.Background(), 5)
	if err == nil {
		t.Fatal("RecentMedia() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("error %q should include the status code", err)
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Errorf("error %q should include the raw body", err)
	}
}

func TestRecentMediaContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.RecentMedia(ctx, 5); err == nil {
		t.Fatal("RecentMedia() with cancelled context should fail")
	}
}

type rotatingCredentials struct {
	tokens []string
	calls  int
}

func (r *rotatingCredentials) AccessToken() (string, error) {
	token := r.tokens[r.calls%len(r.tokens)]
	r.calls++
	return token, nil
}

type failingCredentials struct{}

func (failingCredentials) AccessToken() (string, error) {
	return "", errors.New("token store unreachable")
}

func TestCredentialsResolvedPerRequest(t *testing.T) {
	var gotTokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTokens = append(gotTokens, r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClientWithCredentials(&config.InstagramConfig{
		Enabled:           true,
		BaseURL:           srv.URL,
		UserID:            "17841400000000000",
		Timeout:           5 * time.Second,
		RequestsPerMinute: 600,
	}, &rotatingCredentials{tokens: []string{"first", "second"}})

	for i := 0; i < 2; i++ {
		if _, err := client.RecentMedia(context.Background(), 1); err != nil {
			t.Fatalf("RecentMedia() error = %v", err)
		}
	}
	if len(gotTokens) != 2 || gotTokens[0] != "first" || gotTokens[1] != "second" {
		t.Errorf("tokens seen by server = %v, want [first second]", gotTokens)
	}
}

func TestCredentialsResolutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when credentials cannot be resolved")
	}))
	t.Cleanup(srv.Close)

	client := NewClientWithCredentials(&config.InstagramConfig{
		Enabled:           true,
		BaseURL:           srv.URL,
		UserID:            "17841400000000000",
		Timeout:           5 * time.Second,
		RequestsPerMinute: 600,
	}, failingCredentials{})

	_, err := client.RecentMedia(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "token store unreachable") {
		t.Errorf("error = %v, want credentials failure", err)
	}
}

func TestCircuitBreakerClientPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"id": "444", "media_type": "IMAGE", "permalink": "p", "timestamp": "t", "like_count": 1, "comments_count": 0}]}`))
	}))
	defer srv.Close()

	cbc := NewCircuitBreakerClient(&config.InstagramConfig{
		Enabled:           true,
		BaseURL:           srv.URL,
		AccessToken:       "test-token",
		UserID:            "17841400000000000",
		Timeout:           5 * time.Second,
		RequestsPerMinute: 600,
	})

	items, err := cbc.RecentMedia(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentMedia() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "444" {
		t.Errorf("items = %+v, want single item 444", items)
	}
}
