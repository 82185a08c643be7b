package sync

import "encoding/json"

// Webhook payloads are large; the selector types decode just the fields
// routing needs.

type repositorySelector struct {
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

func (s repositorySelector) valid() bool {
	return s.Repository.Owner.Login != "" && s.Repository.Name != ""
}

type issueSelector struct {
	repositorySelector
	Issue struct {
		Number int `json:"number"`
	} `json:"issue"`
}

type pullRequestSelector struct {
	repositorySelector
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

type cardSelector struct {
	ProjectCard struct {
		ColumnID int64 `json:"column_id"`
	} `json:"project_card"`
	Changes struct {
		ColumnID struct {
			From int64 `json:"from"`
		} `json:"column_id"`
	} `json:"changes"`
}

// route maps one webhook delivery onto the fetch operations that bring the
// affected slice of the mirror up to date. Payloads that do not decode are
// logged and dropped; event types the mirror does not track are
// acknowledged and ignored.
func (o *Orchestrator) route(st *state, eventType string, payload []byte) []workItem {
	switch eventType {
	case "label", "milestone", "repository":
		var sel repositorySelector
		if err := json.Unmarshal(payload, &sel); err != nil || !sel.valid() {
			o.logger.Printf("dropping %s event: undecodable payload", eventType)
			return nil
		}
		return []workItem{o.fetchRepositoryOp(sel.Repository.Owner.Login, sel.Repository.Name)}

	case "issues":
		var sel issueSelector
		if err := json.Unmarshal(payload, &sel); err != nil || !sel.valid() || sel.Issue.Number <= 0 {
			o.logger.Printf("dropping %s event: undecodable payload", eventType)
			return nil
		}
		return []workItem{o.fetchIssueOp(sel.Repository.Owner.Login, sel.Repository.Name, sel.Issue.Number)}

	case "issue_comment":
		var sel issueSelector
		if err := json.Unmarshal(payload, &sel); err != nil || !sel.valid() || sel.Issue.Number <= 0 {
			o.logger.Printf("dropping %s event: undecodable payload", eventType)
			return nil
		}
		// Issues and pull requests share one numbering space and the
		// payload does not say which kind the comment landed on, so
		// probe both; the mismatch completes as a no-op.
		owner, name := sel.Repository.Owner.Login, sel.Repository.Name
		return []workItem{
			o.fetchIssueOp(owner, name, sel.Issue.Number),
			o.fetchPullRequestOp(owner, name, sel.Issue.Number),
		}

	case "pull_request", "pull_request_review", "pull_request_review_comment":
		var sel pullRequestSelector
		if err := json.Unmarshal(payload, &sel); err != nil || !sel.valid() || sel.PullRequest.Number <= 0 {
			o.logger.Printf("dropping %s event: undecodable payload", eventType)
			return nil
		}
		return []workItem{o.fetchPullRequestOp(sel.Repository.Owner.Login, sel.Repository.Name, sel.PullRequest.Number)}

	case "project", "project_column":
		// Board structure changed; re-list all projects so the column
		// inventory stays current
		return []workItem{o.listProjectsOp()}

	case "project_card":
		var sel cardSelector
		if err := json.Unmarshal(payload, &sel); err != nil || sel.ProjectCard.ColumnID == 0 {
			o.logger.Printf("dropping project_card event: undecodable payload")
			return nil
		}
		var items []workItem
		if id, ok := st.resolveColumn(sel.ProjectCard.ColumnID); ok {
			items = append(items, o.listCardsOp(id))
		} else {
			o.logger.Printf("dropping card update for unknown column %d", sel.ProjectCard.ColumnID)
		}
		if from := sel.Changes.ColumnID.From; from != 0 && from != sel.ProjectCard.ColumnID {
			if id, ok := st.resolveColumn(from); ok {
				items = append(items, o.listCardsOp(id))
			} else {
				o.logger.Printf("dropping card update for unknown column %d", from)
			}
		}
		return items

	case "status":
		// Commit statuses carry no mirrored data
		return nil

	default:
		o.logger.Printf("ignoring %s event", eventType)
		return nil
	}
}
