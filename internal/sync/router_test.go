package sync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wesm/github-org-mirror/internal/models"
)

func routeLabels(items []workItem) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.label)
	}
	return out
}

// boardState mimics the column inventory left behind by a project sync
func boardState() *state {
	return &state{projects: []models.Project{{
		ID: "P_1", Name: "Roadmap", Number: 1,
		Columns: []models.ProjectColumn{
			{ID: "COL_A", Name: "To do", DatabaseID: 9001},
			{ID: "COL_B", Name: "Done", DatabaseID: 9002},
		},
	}}}
}

func TestRouteEventTable(t *testing.T) {
	o := newTestOrchestrator(t, newFakeClient(), newFakeStore(), Options{})
	st := &state{}

	repoPayload := []byte(`{"repository": {"name": "api", "owner": {"login": "acme"}}}`)
	issuePayload := []byte(`{"issue": {"number": 7}, "repository": {"name": "api", "owner": {"login": "acme"}}}`)
	pullPayload := []byte(`{"pull_request": {"number": 12}, "repository": {"name": "api", "owner": {"login": "acme"}}}`)

	tests := []struct {
		eventType string
		payload   []byte
		want      []string
	}{
		{"label", repoPayload, []string{"repository acme/api"}},
		{"milestone", repoPayload, []string{"repository acme/api"}},
		{"repository", repoPayload, []string{"repository acme/api"}},
		{"issues", issuePayload, []string{"issue acme/api#7"}},
		{"issue_comment", issuePayload, []string{"issue acme/api#7", "pull acme/api#7"}},
		{"pull_request", pullPayload, []string{"pull acme/api#12"}},
		{"pull_request_review", pullPayload, []string{"pull acme/api#12"}},
		{"pull_request_review_comment", pullPayload, []string{"pull acme/api#12"}},
		{"project", []byte(`{}`), []string{"projects acme"}},
		{"project_column", []byte(`{}`), []string{"projects acme"}},
		{"status", []byte(`{}`), nil},
		{"watch", []byte(`{}`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			got := routeLabels(o.route(st, tt.eventType, tt.payload))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("route(%s) mismatch (-want +got):\n%s", tt.eventType, diff)
			}
		})
	}
}

func TestRouteProjectCard(t *testing.T) {
	o := newTestOrchestrator(t, newFakeClient(), newFakeStore(), Options{})

	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			"created",
			`{"project_card": {"column_id": 9001}}`,
			[]string{"cards COL_A"},
		},
		{
			"moved across columns",
			`{"project_card": {"column_id": 9002}, "changes": {"column_id": {"from": 9001}}}`,
			[]string{"cards COL_B", "cards COL_A"},
		},
		{
			"moved within a column",
			`{"project_card": {"column_id": 9001}, "changes": {"column_id": {"from": 9001}}}`,
			[]string{"cards COL_A"},
		},
		{
			"unknown current column",
			`{"project_card": {"column_id": 4444}}`,
			nil,
		},
		{
			"unknown origin column",
			`{"project_card": {"column_id": 9001}, "changes": {"column_id": {"from": 4444}}}`,
			[]string{"cards COL_A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routeLabels(o.route(boardState(), "project_card", []byte(tt.payload)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("route mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouteProjectCardBeforeProjectSync(t *testing.T) {
	o := newTestOrchestrator(t, newFakeClient(), newFakeStore(), Options{})
	st := &state{}

	got := o.route(st, "project_card", []byte(`{"project_card": {"column_id": 9001}}`))
	if len(got) != 0 {
		t.Errorf("expected card update to be dropped before any project sync, got %v", routeLabels(got))
	}
}

func TestRouteDropsUndecodablePayloads(t *testing.T) {
	o := newTestOrchestrator(t, newFakeClient(), newFakeStore(), Options{})
	st := boardState()

	tests := []struct {
		name      string
		eventType string
		payload   string
	}{
		{"truncated json", "issues", `{"issue": {"number":`},
		{"missing repository", "issues", `{"issue": {"number": 7}}`},
		{"missing number", "pull_request", `{"repository": {"name": "api", "owner": {"login": "acme"}}}`},
		{"empty owner", "label", `{"repository": {"name": "api", "owner": {"login": ""}}}`},
		{"zero column", "project_card", `{"project_card": {"column_id": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := o.route(st, tt.eventType, []byte(tt.payload)); len(got) != 0 {
				t.Errorf("expected %s payload to be dropped, got %v", tt.eventType, routeLabels(got))
			}
		})
	}
}
