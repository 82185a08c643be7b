package sync

import (
	"testing"

	"github.com/wesm/github-org-mirror/internal/models"
)

func testItem(label string) workItem {
	return workItem{label: label}
}

func drainLabels(st *state) []string {
	var out []string
	for {
		item, ok := st.dequeue()
		if !ok {
			return out
		}
		out = append(out, item.label)
	}
}

func TestQueueIsFIFO(t *testing.T) {
	st := &state{}
	st.enqueue(testItem("a"), testItem("b"))
	st.enqueue(testItem("c"))

	for _, want := range []string{"a", "b", "c"} {
		item, ok := st.dequeue()
		if !ok {
			t.Fatalf("queue ran out before %q", want)
		}
		if item.label != want {
			t.Errorf("dequeued %q, want %q", item.label, want)
		}
	}
	if _, ok := st.dequeue(); ok {
		t.Error("dequeue from an empty queue reported an item")
	}
}

func TestSweepFailedMovesToFront(t *testing.T) {
	st := &state{}
	st.fail(testItem("first failure"))
	st.fail(testItem("second failure"))
	st.enqueue(testItem("fresh"))

	if n := st.sweepFailed(); n != 2 {
		t.Fatalf("sweepFailed moved %d items, want 2", n)
	}
	if len(st.failed) != 0 {
		t.Errorf("failed queue still holds %d items after sweep", len(st.failed))
	}

	got := drainLabels(st)
	want := []string{"first failure", "second failure", "fresh"}
	if len(got) != len(want) {
		t.Fatalf("drained %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSweepFailedEmpty(t *testing.T) {
	st := &state{}
	st.enqueue(testItem("pending"))
	if n := st.sweepFailed(); n != 0 {
		t.Errorf("sweepFailed moved %d items from an empty failed queue", n)
	}
	if len(st.pending) != 1 {
		t.Errorf("pending queue has %d items, want 1", len(st.pending))
	}
}

func TestResolveColumn(t *testing.T) {
	st := &state{projects: []models.Project{
		{
			ID: "P_1", Name: "Roadmap", Number: 1,
			Columns: []models.ProjectColumn{
				{ID: "COL_A", Name: "To do", DatabaseID: 9001},
				{ID: "COL_B", Name: "In progress", DatabaseID: 9002},
			},
		},
		{
			ID: "P_2", Name: "Bugs", Number: 2,
			Columns: []models.ProjectColumn{
				{ID: "COL_C", Name: "Triage", DatabaseID: 9003},
			},
		},
	}}

	id, ok := st.resolveColumn(9003)
	if !ok || id != "COL_C" {
		t.Errorf("resolveColumn(9003) = %q, %v, want COL_C, true", id, ok)
	}
	if _, ok := st.resolveColumn(1234); ok {
		t.Error("resolveColumn resolved a column that was never synced")
	}
}

func TestResolveColumnNoProjects(t *testing.T) {
	st := &state{}
	if _, ok := st.resolveColumn(9001); ok {
		t.Error("resolveColumn resolved a column before any project sync")
	}
}

func TestSetProjectReplacesByID(t *testing.T) {
	st := &state{projects: []models.Project{{
		ID: "P_1", Name: "Roadmap", Number: 1,
		Columns: []models.ProjectColumn{{ID: "COL_A", Name: "To do", DatabaseID: 9001}},
	}}}

	st.setProject(models.Project{
		ID: "P_1", Name: "Roadmap", Number: 1,
		Columns: []models.ProjectColumn{
			{ID: "COL_A", Name: "To do", DatabaseID: 9001},
			{ID: "COL_B", Name: "Done", DatabaseID: 9002},
		},
	})
	if len(st.projects) != 1 {
		t.Fatalf("inventory holds %d projects after an update, want 1", len(st.projects))
	}
	if id, ok := st.resolveColumn(9002); !ok || id != "COL_B" {
		t.Errorf("resolveColumn(9002) = %q, %v after the update, want COL_B, true", id, ok)
	}

	st.setProject(models.Project{ID: "P_2", Name: "Bugs", Number: 2})
	if len(st.projects) != 2 {
		t.Errorf("inventory holds %d projects after a new board, want 2", len(st.projects))
	}
}
