package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wesm/github-org-mirror/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.Initialize(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testIssue(id string, number int) models.Issue {
	return models.Issue{
		ID:           id,
		Number:       number,
		State:        models.StateOpen,
		Title:        "issue " + id,
		URL:          "https://github.com/acme/widgets/issues/1",
		Author:       "alice",
		CreatedAt:    time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2023, 4, 2, 10, 0, 0, 0, time.UTC),
		CommentCount: 2,
		Reactions:    models.Reactions{ThumbsUp: 1},
		Labels:       []models.Label{{ID: "L_1", Name: "bug", Color: "d73a4a"}},
		Milestone:    &models.Milestone{ID: "M_1", Number: 1, Title: "v1", State: models.MilestoneOpen},
		Cards:        []models.CardRef{{CardID: "C_1", ColumnID: "PC_1", ProjectID: "P_1"}},
	}
}

func TestSaveIssueRoundtrip(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	want := testIssue("I_1", 7)
	if err := database.SaveIssue(ctx, "acme/widgets", &want); err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}

	got, err := database.GetIssue(ctx, "acme/widgets", 7)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if got == nil {
		t.Fatal("GetIssue returned nil")
	}
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("issue mismatch (-want +got):\n%s", diff)
	}
}

func TestGetIssueMissing(t *testing.T) {
	database := newTestDB(t)

	got, err := database.GetIssue(context.Background(), "acme/widgets", 404)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing issue, got %+v", got)
	}
}

// Re-saving under the same repository and number must replace the old row
// even when the node ID changed.
func TestSaveIssueRecreated(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	first := testIssue("I_old", 7)
	if err := database.SaveIssue(ctx, "acme/widgets", &first); err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}

	second := testIssue("I_new", 7)
	second.Title = "recreated"
	if err := database.SaveIssue(ctx, "acme/widgets", &second); err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}

	got, err := database.GetIssue(ctx, "acme/widgets", 7)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if got.ID != "I_new" || got.Title != "recreated" {
		t.Errorf("expected replaced issue, got %+v", got)
	}
}

func TestReplaceIssuesScopedToRepository(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	stale := testIssue("I_stale", 1)
	other := testIssue("I_other", 1)
	if err := database.SaveIssue(ctx, "acme/widgets", &stale); err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}
	if err := database.SaveIssue(ctx, "acme/gadgets", &other); err != nil {
		t.Fatalf("SaveIssue: %v", err)
	}

	fresh := []models.Issue{testIssue("I_2", 2), testIssue("I_3", 3)}
	if err := database.ReplaceIssues(ctx, "acme/widgets", fresh); err != nil {
		t.Fatalf("ReplaceIssues: %v", err)
	}

	if got, _ := database.GetIssue(ctx, "acme/widgets", 1); got != nil {
		t.Errorf("stale issue survived replace: %+v", got)
	}
	if got, _ := database.GetIssue(ctx, "acme/widgets", 2); got == nil {
		t.Error("fresh issue missing after replace")
	}
	if got, _ := database.GetIssue(ctx, "acme/gadgets", 1); got == nil {
		t.Error("replace leaked into another repository")
	}
}

func TestListTopIssuesOrdersByScore(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	quiet := testIssue("I_quiet", 1)
	quiet.CommentCount = 0
	quiet.Reactions = models.Reactions{}
	busy := testIssue("I_busy", 2)
	busy.CommentCount = 5
	loved := testIssue("I_loved", 3)
	loved.CommentCount = 0
	loved.Reactions = models.Reactions{Heart: 10}

	if err := database.ReplaceIssues(ctx, "acme/widgets", []models.Issue{quiet, busy, loved}); err != nil {
		t.Fatalf("ReplaceIssues: %v", err)
	}

	got, err := database.ListTopIssues(ctx, "acme/widgets", 10)
	if err != nil {
		t.Fatalf("ListTopIssues: %v", err)
	}

	var order []string
	for _, issue := range got {
		order = append(order, issue.ID)
	}
	want := []string{"I_loved", "I_busy", "I_quiet"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSavePullRequestRoundtrip(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	want := models.PullRequest{
		ID:        "PR_1",
		Number:    12,
		State:     models.StateMerged,
		Title:     "add retry",
		Author:    "bob",
		CreatedAt: time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2023, 5, 3, 9, 0, 0, 0, time.UTC),
	}
	if err := database.SavePullRequest(ctx, "acme/widgets", &want); err != nil {
		t.Fatalf("SavePullRequest: %v", err)
	}

	got, err := database.GetPullRequest(ctx, "acme/widgets", 12)
	if err != nil {
		t.Fatalf("GetPullRequest: %v", err)
	}
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("pull request mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceRepositories(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	stale := models.Repository{ID: "R_stale", Owner: "acme", Name: "legacy"}
	if err := database.SaveRepository(ctx, &stale); err != nil {
		t.Fatalf("SaveRepository: %v", err)
	}

	repos := []models.Repository{
		{
			ID: "R_1", Owner: "acme", Name: "widgets", URL: "https://github.com/acme/widgets",
			Labels:     []models.Label{{ID: "L_1", Name: "bug", Color: "d73a4a"}},
			Milestones: []models.Milestone{{ID: "M_1", Number: 1, Title: "v1", State: models.MilestoneOpen}},
		},
		{ID: "R_2", Owner: "acme", Name: "gadgets"},
	}
	if err := database.ReplaceRepositories(ctx, repos); err != nil {
		t.Fatalf("ReplaceRepositories: %v", err)
	}

	if got, _ := database.GetRepository(ctx, "acme", "legacy"); got != nil {
		t.Errorf("stale repository survived replace: %+v", got)
	}

	got, err := database.GetRepository(ctx, "acme", "widgets")
	if err != nil {
		t.Fatalf("GetRepository: %v", err)
	}
	if diff := cmp.Diff(&repos[0], got); diff != "" {
		t.Errorf("repository mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceColumnCardsKeepsBoardOrder(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	cards := []models.Card{
		{ID: "C_3", Note: "third note"},
		{ID: "C_1", Content: &models.CardContent{Kind: models.CardContentIssue, ID: "I_1", Number: 4, Title: "bug"}},
		{ID: "C_2", Note: "second note"},
	}
	if err := database.ReplaceColumnCards(ctx, "PC_1", cards); err != nil {
		t.Fatalf("ReplaceColumnCards: %v", err)
	}

	got, err := database.ListColumnCards(ctx, "PC_1")
	if err != nil {
		t.Fatalf("ListColumnCards: %v", err)
	}
	if diff := cmp.Diff(cards, got); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}

	// A later replace fully supersedes the previous set
	if err := database.ReplaceColumnCards(ctx, "PC_1", []models.Card{{ID: "C_9", Note: "only"}}); err != nil {
		t.Fatalf("ReplaceColumnCards: %v", err)
	}
	got, err = database.ListColumnCards(ctx, "PC_1")
	if err != nil {
		t.Fatalf("ListColumnCards: %v", err)
	}
	if len(got) != 1 || got[0].ID != "C_9" {
		t.Errorf("expected only C_9 after replace, got %+v", got)
	}
}

func TestReplaceProjectsPrunesStaleColumnCards(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.ReplaceColumnCards(ctx, "PC_live", []models.Card{{ID: "C_1", Note: "keep"}}); err != nil {
		t.Fatalf("ReplaceColumnCards: %v", err)
	}
	if err := database.ReplaceColumnCards(ctx, "PC_gone", []models.Card{{ID: "C_2", Note: "drop"}}); err != nil {
		t.Fatalf("ReplaceColumnCards: %v", err)
	}

	projects := []models.Project{
		{
			ID: "P_1", Name: "Roadmap", Number: 1,
			Columns: []models.ProjectColumn{{ID: "PC_live", Name: "To do", DatabaseID: 1001}},
		},
	}
	if err := database.ReplaceProjects(ctx, projects); err != nil {
		t.Fatalf("ReplaceProjects: %v", err)
	}

	live, err := database.ListColumnCards(ctx, "PC_live")
	if err != nil {
		t.Fatalf("ListColumnCards: %v", err)
	}
	if len(live) != 1 {
		t.Errorf("expected live column cards to survive, got %+v", live)
	}

	gone, err := database.ListColumnCards(ctx, "PC_gone")
	if err != nil {
		t.Fatalf("ListColumnCards: %v", err)
	}
	if len(gone) != 0 {
		t.Errorf("expected stale column cards to be pruned, got %+v", gone)
	}

	stored, err := database.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if diff := cmp.Diff(projects, stored); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveProjectUpserts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	first := models.Project{
		ID: "P_1", Name: "Roadmap", Number: 1,
		Columns: []models.ProjectColumn{{ID: "PC_1", Name: "To do", DatabaseID: 1001}},
	}
	if err := database.SaveProject(ctx, &first); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	second := models.Project{
		ID: "P_1", Name: "Roadmap 2024", Number: 1,
		Columns: []models.ProjectColumn{
			{ID: "PC_1", Name: "To do", DatabaseID: 1001},
			{ID: "PC_2", Name: "Doing", DatabaseID: 1002},
		},
	}
	if err := database.SaveProject(ctx, &second); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	stored, err := database.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if diff := cmp.Diff([]models.Project{second}, stored); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceCrossReferences(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.ReplaceCrossReferences(ctx, "I_1", []string{"PR_9", "I_4", "PR_2"}); err != nil {
		t.Fatalf("ReplaceCrossReferences: %v", err)
	}

	got, err := database.ListCrossReferences(ctx, "I_1")
	if err != nil {
		t.Fatalf("ListCrossReferences: %v", err)
	}
	if diff := cmp.Diff([]string{"PR_9", "I_4", "PR_2"}, got); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	if err := database.ReplaceCrossReferences(ctx, "I_1", []string{"I_7"}); err != nil {
		t.Fatalf("ReplaceCrossReferences: %v", err)
	}
	got, err = database.ListCrossReferences(ctx, "I_1")
	if err != nil {
		t.Fatalf("ListCrossReferences: %v", err)
	}
	if diff := cmp.Diff([]string{"I_7"}, got); diff != "" {
		t.Errorf("edges mismatch after replace (-want +got):\n%s", diff)
	}
}

func TestReplaceActorActivity(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	activity := []models.ActorActivity{
		{Actor: "alice", OccurredAt: time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)},
		{Actor: "bob", OccurredAt: time.Date(2023, 4, 1, 11, 0, 0, 0, time.UTC)},
		{Actor: "alice", OccurredAt: time.Date(2023, 4, 2, 9, 0, 0, 0, time.UTC)},
	}
	if err := database.ReplaceActorActivity(ctx, "I_1", activity); err != nil {
		t.Fatalf("ReplaceActorActivity: %v", err)
	}

	got, err := database.ListActorActivity(ctx, "I_1")
	if err != nil {
		t.Fatalf("ListActorActivity: %v", err)
	}
	if diff := cmp.Diff(activity, got); diff != "" {
		t.Errorf("activity mismatch (-want +got):\n%s", diff)
	}
}
