package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"

	"github.com/wesm/github-org-mirror/internal/models"
)

// newTestClient returns a REST client pointed at a local fake GitHub API.
func newTestClient(t *testing.T) (*GitHubClient, *http.ServeMux) {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ghc := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	ghc.BaseURL = base

	return &GitHubClient{client: ghc}, mux
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	return body
}

func TestCreateLabel(t *testing.T) {
	client, mux := newTestClient(t)

	var got map[string]any
	mux.HandleFunc("/repos/acme/api/labels", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"name":"bug","color":"d73a4a"}`))
	})

	err := client.CreateLabel(context.Background(), "acme", "api", models.Label{Name: "bug", Color: "d73a4a"})
	if err != nil {
		t.Fatalf("CreateLabel() error = %v", err)
	}
	if got["name"] != "bug" || got["color"] != "d73a4a" {
		t.Errorf("request body = %v, want name=bug color=d73a4a", got)
	}
}

func TestUpdateLabelAddressesCurrentName(t *testing.T) {
	client, mux := newTestClient(t)

	var got map[string]any
	mux.HandleFunc("/repos/acme/api/labels/bug", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		got = decodeBody(t, r)
		w.Write([]byte(`{"name":"defect","color":"ff0000"}`))
	})

	err := client.UpdateLabel(context.Background(), "acme", "api", "bug", models.Label{Name: "defect", Color: "ff0000"})
	if err != nil {
		t.Fatalf("UpdateLabel() error = %v", err)
	}
	if got["name"] != "defect" {
		t.Errorf("request body = %v, want name=defect", got)
	}
}

func TestCreateMilestoneReturnsNumber(t *testing.T) {
	client, mux := newTestClient(t)

	mux.HandleFunc("/repos/acme/api/milestones", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number":4,"title":"v1.0"}`))
	})

	number, err := client.CreateMilestone(context.Background(), "acme", "api", "v1.0", "first stable release")
	if err != nil {
		t.Fatalf("CreateMilestone() error = %v", err)
	}
	if number != 4 {
		t.Errorf("CreateMilestone() = %d, want 4", number)
	}
}

func TestDeleteMilestone(t *testing.T) {
	client, mux := newTestClient(t)

	called := false
	mux.HandleFunc("/repos/acme/api/milestones/4", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteMilestone(context.Background(), "acme", "api", 4); err != nil {
		t.Fatalf("DeleteMilestone() error = %v", err)
	}
	if !called {
		t.Error("DeleteMilestone() never hit the API")
	}
}

func TestIssueLabels(t *testing.T) {
	client, mux := newTestClient(t)

	var added []string
	mux.HandleFunc("/repos/acme/api/issues/7/labels", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&added); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`[{"name":"bug"},{"name":"help wanted"}]`))
	})
	removed := false
	mux.HandleFunc("/repos/acme/api/issues/7/labels/bug", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		removed = true
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.AddIssueLabels(context.Background(), "acme", "api", 7, []string{"bug", "help wanted"})
	if err != nil {
		t.Fatalf("AddIssueLabels() error = %v", err)
	}
	if len(added) != 2 || added[0] != "bug" || added[1] != "help wanted" {
		t.Errorf("request body = %v, want [bug, help wanted]", added)
	}

	if err := client.RemoveIssueLabel(context.Background(), "acme", "api", 7, "bug"); err != nil {
		t.Fatalf("RemoveIssueLabel() error = %v", err)
	}
	if !removed {
		t.Error("RemoveIssueLabel() never hit the API")
	}
}

func TestCloseIssueSendsClosedState(t *testing.T) {
	client, mux := newTestClient(t)

	var got map[string]any
	mux.HandleFunc("/repos/acme/api/issues/7", func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		w.Write([]byte(`{"number":7,"state":"closed"}`))
	})

	if err := client.CloseIssue(context.Background(), "acme", "api", 7); err != nil {
		t.Fatalf("CloseIssue() error = %v", err)
	}
	if got["state"] != "closed" {
		t.Errorf("request body = %v, want state=closed", got)
	}
}

func TestCreateCardUsesLegacyColumnID(t *testing.T) {
	client, mux := newTestClient(t)

	var got map[string]any
	mux.HandleFunc("/projects/columns/9001/cards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":555}`))
	})

	err := client.CreateCard(context.Background(), 9001, 42, "Issue")
	if err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}
	if got["content_id"] != float64(42) || got["content_type"] != "Issue" {
		t.Errorf("request body = %v, want content_id=42 content_type=Issue", got)
	}
}

func TestMoveCardToTopOfColumn(t *testing.T) {
	client, mux := newTestClient(t)

	var got map[string]any
	mux.HandleFunc("/projects/columns/cards/555/moves", func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	if err := client.MoveCard(context.Background(), 555, 9002); err != nil {
		t.Fatalf("MoveCard() error = %v", err)
	}
	if got["position"] != "top" || got["column_id"] != float64(9002) {
		t.Errorf("request body = %v, want position=top column_id=9002", got)
	}
}

func TestIsNotFound(t *testing.T) {
	client, mux := newTestClient(t)
	mux.HandleFunc("/repos/acme/api/labels/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("/repos/acme/api/labels/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	})

	notFound := client.DeleteLabel(context.Background(), "acme", "api", "gone")
	if notFound == nil {
		t.Fatal("DeleteLabel() on missing label returned nil error")
	}
	serverErr := client.DeleteLabel(context.Background(), "acme", "api", "broken")
	if serverErr == nil {
		t.Fatal("DeleteLabel() on server error returned nil error")
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rest 404", notFound, true},
		{"rest 500", serverErr, false},
		{"graphql resolution failure", errors.New("Could not resolve to a node with the given id"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsNotFound(tt.err); got != tt.want {
			t.Errorf("IsNotFound(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
