package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSearchPostsQuery(t *testing.T) {
	var gotPath, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}
		gotQuery = payload["query"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"contents": {"tabbedSearchResultsRenderer": {"tabs": []}}}`))
	}))
	defer server.Close()

	client := NewClient(strings.TrimPrefix(server.URL, "http://"), Bounds{}, nil)

	doc, err := client.Search(context.Background(), "  plastic love  ")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected document")
	}
	if gotPath != "/api/v1/search" {
		t.Fatalf("path = %q, want %q", gotPath, "/api/v1/search")
	}
	if gotQuery != "plastic love" {
		t.Fatalf("query = %q, want trimmed query", gotQuery)
	}
}

func TestClientSearchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(strings.TrimPrefix(server.URL, "http://"), Bounds{}, nil)

	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected status error")
	}
}

func TestClientFindSongSelectsFromResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := `{
		  "contents": {"tabbedSearchResultsRenderer": {"tabs": [
		    {"tabRenderer": {"content": {"sectionListRenderer": {"contents": [` + cardSection + `]}}}}
		  ]}}
		}`
		_, _ = w.Write([]byte(response))
	}))
	defer server.Close()

	client := NewClient(strings.TrimPrefix(server.URL, "http://"), Bounds{MinSeconds: 10, MaxSeconds: 600}, nil)

	song, err := client.FindSong(context.Background(), "plastic love")
	if err != nil {
		t.Fatalf("FindSong error: %v", err)
	}
	if song.VideoID != "card123" {
		t.Fatalf("videoId = %q, want %q", song.VideoID, "card123")
	}
}
