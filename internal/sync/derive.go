package sync

import "github.com/wesm/github-org-mirror/internal/models"

// extractCrossReferences pulls the cross-reference edges out of a
// timeline, preserving timeline order. Each edge is the node ID of the
// item that referenced this one. References whose source item is gone
// carry no ID and are skipped.
func extractCrossReferences(events []models.TimelineEvent) []string {
	var edges []string
	for _, ev := range events {
		if ev.Kind == models.TimelineCrossReference && ev.SourceID != "" {
			edges = append(edges, ev.SourceID)
		}
	}
	return edges
}

// extractActorActivity pulls the who-commented-when record out of a
// timeline, preserving timeline order. Comments whose author account is
// gone carry no actor and are skipped.
func extractActorActivity(events []models.TimelineEvent) []models.ActorActivity {
	var activity []models.ActorActivity
	for _, ev := range events {
		if ev.Kind == models.TimelineComment && ev.Actor != "" {
			activity = append(activity, models.ActorActivity{
				Actor:      ev.Actor,
				OccurredAt: ev.CreatedAt,
			})
		}
	}
	return activity
}
