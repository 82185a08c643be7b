package sync

import (
	"context"
	"fmt"

	"github.com/wesm/github-org-mirror/internal/api"
	"github.com/wesm/github-org-mirror/internal/models"
)

// listRepositoriesOp fetches the full repository list and fans out into
// per-repository issue and pull request syncs
func (o *Orchestrator) listRepositoriesOp() workItem {
	org := o.opts.Organization
	return workItem{
		label: "repositories " + org,
		run: func(ctx context.Context) (applyFunc, error) {
			repos, err := o.client.ListOrgRepositories(ctx, org)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.ReplaceRepositories(ctx, repos); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.logger.Printf("synced %d repositories from %s", len(repos), org)
				o.notify("repositories", org)
				follow := make([]workItem, 0, 2*len(repos))
				for i := range repos {
					follow = append(follow,
						o.listIssuesOp(repos[i].Owner, repos[i].Name),
						o.listPullRequestsOp(repos[i].Owner, repos[i].Name))
				}
				return follow
			}, nil
		},
	}
}

// listProjectsOp fetches the project boards, refreshes the column
// inventory used for webhook column resolution and fans out into
// per-column card syncs
func (o *Orchestrator) listProjectsOp() workItem {
	org := o.opts.Organization
	return workItem{
		label: "projects " + org,
		run: func(ctx context.Context) (applyFunc, error) {
			projects, err := o.client.ListOrgProjects(ctx, org)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				st.projects = projects
				if err := o.store.ReplaceProjects(ctx, projects); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.logger.Printf("synced %d projects from %s", len(projects), org)
				o.notify("projects", org)
				var follow []workItem
				for _, project := range projects {
					for _, column := range project.Columns {
						follow = append(follow, o.listCardsOp(column.ID))
					}
				}
				return follow
			}, nil
		},
	}
}

// listIssuesOp replaces the open issue set of one repository
func (o *Orchestrator) listIssuesOp(owner, name string) workItem {
	repo := owner + "/" + name
	return workItem{
		label: "issues " + repo,
		run: func(ctx context.Context) (applyFunc, error) {
			issues, err := o.client.ListOpenIssues(ctx, owner, name)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.ReplaceIssues(ctx, repo, issues); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.logger.Printf("synced %d open issues from %s", len(issues), repo)
				o.notify("issues", repo)
				var follow []workItem
				for i := range issues {
					follow = append(follow, o.issueFollowOns(owner, name, &issues[i])...)
				}
				return follow
			}, nil
		},
	}
}

// listPullRequestsOp replaces the open pull request set of one repository
func (o *Orchestrator) listPullRequestsOp(owner, name string) workItem {
	repo := owner + "/" + name
	return workItem{
		label: "pulls " + repo,
		run: func(ctx context.Context) (applyFunc, error) {
			prs, err := o.client.ListOpenPullRequests(ctx, owner, name)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.ReplacePullRequests(ctx, repo, prs); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.logger.Printf("synced %d open pull requests from %s", len(prs), repo)
				o.notify("pulls", repo)
				var follow []workItem
				for i := range prs {
					follow = append(follow, o.pullRequestFollowOns(owner, name, &prs[i])...)
				}
				return follow
			}, nil
		},
	}
}

// listCardsOp replaces the card list of one project column
func (o *Orchestrator) listCardsOp(columnID string) workItem {
	return workItem{
		label: "cards " + columnID,
		run: func(ctx context.Context) (applyFunc, error) {
			cards, err := o.client.ListColumnCards(ctx, columnID)
			if api.IsNotFound(err) {
				o.logger.Printf("column %s is gone, skipping", columnID)
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.ReplaceColumnCards(ctx, columnID, cards); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.notify("cards", columnID)
				return nil
			}, nil
		},
	}
}

// fetchRepositoryOp re-fetches one repository's metadata, labels and
// milestones
func (o *Orchestrator) fetchRepositoryOp(owner, name string) workItem {
	repo := owner + "/" + name
	return workItem{
		label: "repository " + repo,
		run: func(ctx context.Context) (applyFunc, error) {
			fetched, err := o.client.GetRepository(ctx, owner, name)
			if api.IsNotFound(err) {
				o.logger.Printf("repository %s is gone, skipping", repo)
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.SaveRepository(ctx, fetched); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.notify("repository", repo)
				return nil
			}, nil
		},
	}
}

// fetchProjectOp re-fetches one project board and fans out into
// per-column card syncs. The fetched columns also refresh the resolver
// inventory.
func (o *Orchestrator) fetchProjectOp(number int) workItem {
	org := o.opts.Organization
	return workItem{
		label: fmt.Sprintf("project %s/%d", org, number),
		run: func(ctx context.Context) (applyFunc, error) {
			project, err := o.client.GetOrgProject(ctx, org, number)
			if api.IsNotFound(err) {
				o.logger.Printf("project %s/%d is gone, skipping", org, number)
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				st.setProject(*project)
				if err := o.store.SaveProject(ctx, project); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.notify("project", fmt.Sprintf("%s/%d", org, number))
				follow := make([]workItem, 0, len(project.Columns))
				for _, column := range project.Columns {
					follow = append(follow, o.listCardsOp(column.ID))
				}
				return follow
			}, nil
		},
	}
}

// fetchIssueOp re-fetches one issue. A number that does not resolve to an
// issue completes as a no-op, so the op doubles as a probe when the kind
// behind a number is unknown.
func (o *Orchestrator) fetchIssueOp(owner, name string, number int) workItem {
	repo := owner + "/" + name
	return workItem{
		label: fmt.Sprintf("issue %s#%d", repo, number),
		run: func(ctx context.Context) (applyFunc, error) {
			issue, err := o.client.GetIssue(ctx, owner, name, number)
			if api.IsNotFound(err) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.SaveIssue(ctx, repo, issue); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.notify("issue", fmt.Sprintf("%s#%d", repo, number))
				return o.issueFollowOns(owner, name, issue)
			}, nil
		},
	}
}

// fetchPullRequestOp re-fetches one pull request, with the same probe
// semantics as fetchIssueOp
func (o *Orchestrator) fetchPullRequestOp(owner, name string, number int) workItem {
	repo := owner + "/" + name
	return workItem{
		label: fmt.Sprintf("pull %s#%d", repo, number),
		run: func(ctx context.Context) (applyFunc, error) {
			pr, err := o.client.GetPullRequest(ctx, owner, name, number)
			if api.IsNotFound(err) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, st *state) []workItem {
				if err := o.store.SavePullRequest(ctx, repo, pr); err != nil {
					o.logger.Printf("store: %v", err)
				}
				o.notify("pull", fmt.Sprintf("%s#%d", repo, number))
				return o.pullRequestFollowOns(owner, name, pr)
			}, nil
		},
	}
}

// issueFollowOns returns the timeline op for a freshly fetched issue.
// Closed issues and disabled timelines produce nothing.
func (o *Orchestrator) issueFollowOns(owner, name string, issue *models.Issue) []workItem {
	if o.opts.DisableTimelines || issue.State != models.StateOpen {
		return nil
	}
	return []workItem{o.issueTimelineOp(owner, name, issue.Number, issue.ID)}
}

// pullRequestFollowOns returns the timeline op for a freshly fetched pull
// request
func (o *Orchestrator) pullRequestFollowOns(owner, name string, pr *models.PullRequest) []workItem {
	if o.opts.DisableTimelines || pr.State != models.StateOpen {
		return nil
	}
	return []workItem{o.pullRequestTimelineOp(owner, name, pr.Number, pr.ID)}
}

// issueTimelineOp fetches an issue timeline and replaces the derived data
// keyed by the item's node ID
func (o *Orchestrator) issueTimelineOp(owner, name string, number int, itemID string) workItem {
	repo := owner + "/" + name
	return workItem{
		label: fmt.Sprintf("timeline %s#%d", repo, number),
		run: func(ctx context.Context) (applyFunc, error) {
			events, err := o.client.ListIssueTimeline(ctx, owner, name, number)
			if api.IsNotFound(err) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return o.applyTimeline(itemID, events), nil
		},
	}
}

// pullRequestTimelineOp fetches a pull request timeline and replaces the
// derived data keyed by the item's node ID
func (o *Orchestrator) pullRequestTimelineOp(owner, name string, number int, itemID string) workItem {
	repo := owner + "/" + name
	return workItem{
		label: fmt.Sprintf("timeline %s#%d", repo, number),
		run: func(ctx context.Context) (applyFunc, error) {
			events, err := o.client.ListPullRequestTimeline(ctx, owner, name, number)
			if api.IsNotFound(err) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return o.applyTimeline(itemID, events), nil
		},
	}
}

func (o *Orchestrator) applyTimeline(itemID string, events []models.TimelineEvent) applyFunc {
	return func(ctx context.Context, st *state) []workItem {
		if err := o.store.ReplaceCrossReferences(ctx, itemID, extractCrossReferences(events)); err != nil {
			o.logger.Printf("store: %v", err)
		}
		if err := o.store.ReplaceActorActivity(ctx, itemID, extractActorActivity(events)); err != nil {
			o.logger.Printf("store: %v", err)
		}
		o.notify("timeline", itemID)
		return nil
	}
}
