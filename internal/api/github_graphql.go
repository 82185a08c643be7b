package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/wesm/github-org-mirror/internal/models"
	"golang.org/x/oauth2"
)

// pageSize is the connection page size requested from GitHub, which caps
// most connections at 100 nodes
const pageSize = 100

// GraphQLClient represents a client for the GitHub GraphQL API. All mirror
// reads go through it; node IDs in the results are the opaque GraphQL ones.
type GraphQLClient struct {
	client *githubv4.Client
}

// NewGraphQLClient creates a new GraphQL client
func NewGraphQLClient(token string) *GraphQLClient {
	var httpClient *http.Client
	if token != "" {
		src := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	return &GraphQLClient{client: githubv4.NewClient(httpClient)}
}

// cursorVar renders a pagination cursor as a query variable, null for the
// first page
func cursorVar(cursor string) *githubv4.String {
	if cursor == "" {
		return (*githubv4.String)(nil)
	}
	return githubv4.NewString(githubv4.String(cursor))
}

type pageInfoFragment struct {
	EndCursor   githubv4.String
	HasNextPage githubv4.Boolean
}

func (p pageInfoFragment) pageInfo() PageInfo {
	return PageInfo{EndCursor: string(p.EndCursor), HasNextPage: bool(p.HasNextPage)}
}

type rateLimitFragment struct {
	Limit     githubv4.Int
	Remaining githubv4.Int
	ResetAt   githubv4.DateTime
}

func logRateLimit(rl rateLimitFragment) {
	if rl.Limit > 0 && rl.Remaining < 1000 {
		log.Printf("GitHub API rate limit: %d/%d remaining, resets at %s",
			rl.Remaining, rl.Limit, rl.ResetAt.Format(time.RFC3339))
	}
}

type actorFragment struct {
	Login githubv4.String
}

type labelFragment struct {
	ID    githubv4.ID
	Name  githubv4.String
	Color githubv4.String
}

type milestoneFragment struct {
	ID          githubv4.ID
	Number      githubv4.Int
	Title       githubv4.String
	State       githubv4.MilestoneState
	Description githubv4.String
}

type reactionGroupFragment struct {
	Content githubv4.ReactionContent
	Users   struct {
		TotalCount githubv4.Int
	}
}

type repositoryFields struct {
	ID    githubv4.ID
	Name  githubv4.String
	Owner struct {
		Login githubv4.String
	}
	URL    githubv4.URI
	Labels struct {
		Nodes []labelFragment
	} `graphql:"labels(first: 100)"`
	Milestones struct {
		Nodes []milestoneFragment
	} `graphql:"milestones(first: 100)"`
}

type issueFields struct {
	ID        githubv4.ID
	Number    githubv4.Int
	State     githubv4.IssueState
	Title     githubv4.String
	URL       githubv4.URI
	Author    actorFragment
	CreatedAt githubv4.DateTime
	UpdatedAt githubv4.DateTime
	Comments  struct {
		TotalCount githubv4.Int
	}
	ReactionGroups []reactionGroupFragment
	Labels         struct {
		Nodes []labelFragment
	} `graphql:"labels(first: 100)"`
	Milestone    *milestoneFragment
	ProjectCards struct {
		Nodes []cardRefFields
	} `graphql:"projectCards(first: 25)"`
}

type pullRequestFields struct {
	ID        githubv4.ID
	Number    githubv4.Int
	State     githubv4.PullRequestState
	Title     githubv4.String
	URL       githubv4.URI
	Author    actorFragment
	CreatedAt githubv4.DateTime
	UpdatedAt githubv4.DateTime
	Comments  struct {
		TotalCount githubv4.Int
	}
	ReactionGroups []reactionGroupFragment
	Labels         struct {
		Nodes []labelFragment
	} `graphql:"labels(first: 100)"`
	Milestone    *milestoneFragment
	ProjectCards struct {
		Nodes []cardRefFields
	} `graphql:"projectCards(first: 25)"`
}

type cardRefFields struct {
	ID     githubv4.ID
	Column *struct {
		ID githubv4.ID
	}
	Project struct {
		ID githubv4.ID
	}
}

type projectFields struct {
	ID      githubv4.ID
	Name    githubv4.String
	Number  githubv4.Int
	Columns struct {
		Nodes []struct {
			ID         githubv4.ID
			Name       githubv4.String
			DatabaseID githubv4.Int
		}
	} `graphql:"columns(first: 50)"`
}

type cardFields struct {
	ID      githubv4.ID
	Note    *githubv4.String
	Content struct {
		TypeName githubv4.String `graphql:"__typename"`
		Issue    struct {
			ID     githubv4.ID
			Number githubv4.Int
			Title  githubv4.String
			URL    githubv4.URI
		} `graphql:"... on Issue"`
		PullRequest struct {
			ID     githubv4.ID
			Number githubv4.Int
			Title  githubv4.String
			URL    githubv4.URI
		} `graphql:"... on PullRequest"`
	}
}

type timelineItemFields struct {
	TypeName     githubv4.String `graphql:"__typename"`
	IssueComment struct {
		Author    actorFragment
		CreatedAt githubv4.DateTime
	} `graphql:"... on IssueComment"`
	CrossReferenced struct {
		Source struct {
			Issue struct {
				ID githubv4.ID
			} `graphql:"... on Issue"`
			PullRequest struct {
				ID githubv4.ID
			} `graphql:"... on PullRequest"`
		}
	} `graphql:"... on CrossReferencedEvent"`
}

// nodeID extracts the string form of a GraphQL node ID
func nodeID(id githubv4.ID) string {
	s, _ := id.(string)
	return s
}

// uriString renders a GraphQL URI, empty when absent
func uriString(u githubv4.URI) string {
	if u.URL == nil {
		return ""
	}
	return u.URL.String()
}

func convertLabel(l labelFragment) models.Label {
	return models.Label{
		ID:    nodeID(l.ID),
		Name:  string(l.Name),
		Color: string(l.Color),
	}
}

func convertMilestone(m milestoneFragment) models.Milestone {
	state := models.MilestoneOpen
	if m.State == githubv4.MilestoneStateClosed {
		state = models.MilestoneClosed
	}
	return models.Milestone{
		ID:          nodeID(m.ID),
		Number:      int(m.Number),
		Title:       string(m.Title),
		State:       state,
		Description: string(m.Description),
	}
}

// convertReactions folds reaction groups into per-kind counts. Kinds the
// scoring model does not track (rocket, eyes) are skipped.
func convertReactions(groups []reactionGroupFragment) models.Reactions {
	var r models.Reactions
	for _, g := range groups {
		n := int(g.Users.TotalCount)
		switch g.Content {
		case githubv4.ReactionContentThumbsUp:
			r.ThumbsUp = n
		case githubv4.ReactionContentThumbsDown:
			r.ThumbsDown = n
		case githubv4.ReactionContentLaugh:
			r.Laugh = n
		case githubv4.ReactionContentConfused:
			r.Confused = n
		case githubv4.ReactionContentHeart:
			r.Heart = n
		case githubv4.ReactionContentHooray:
			r.Hooray = n
		}
	}
	return r
}

func convertCardRefs(refs []cardRefFields) []models.CardRef {
	out := make([]models.CardRef, 0, len(refs))
	for _, c := range refs {
		ref := models.CardRef{
			CardID:    nodeID(c.ID),
			ProjectID: nodeID(c.Project.ID),
		}
		if c.Column != nil {
			ref.ColumnID = nodeID(c.Column.ID)
		}
		out = append(out, ref)
	}
	return out
}

func convertRepository(f repositoryFields) models.Repository {
	repo := models.Repository{
		ID:    nodeID(f.ID),
		Owner: string(f.Owner.Login),
		Name:  string(f.Name),
		URL:   uriString(f.URL),
	}
	for _, l := range f.Labels.Nodes {
		repo.Labels = append(repo.Labels, convertLabel(l))
	}
	for _, m := range f.Milestones.Nodes {
		repo.Milestones = append(repo.Milestones, convertMilestone(m))
	}
	return repo
}

func convertIssueState(s githubv4.IssueState) models.ItemState {
	if s == githubv4.IssueStateClosed {
		return models.StateClosed
	}
	return models.StateOpen
}

func convertPullRequestState(s githubv4.PullRequestState) models.ItemState {
	switch s {
	case githubv4.PullRequestStateClosed:
		return models.StateClosed
	case githubv4.PullRequestStateMerged:
		return models.StateMerged
	default:
		return models.StateOpen
	}
}

func convertIssue(f issueFields) models.Issue {
	issue := models.Issue{
		ID:           nodeID(f.ID),
		Number:       int(f.Number),
		State:        convertIssueState(f.State),
		Title:        string(f.Title),
		URL:          uriString(f.URL),
		Author:       string(f.Author.Login),
		CreatedAt:    f.CreatedAt.Time,
		UpdatedAt:    f.UpdatedAt.Time,
		CommentCount: int(f.Comments.TotalCount),
		Reactions:    convertReactions(f.ReactionGroups),
		Cards:        convertCardRefs(f.ProjectCards.Nodes),
	}
	for _, l := range f.Labels.Nodes {
		issue.Labels = append(issue.Labels, convertLabel(l))
	}
	if f.Milestone != nil {
		m := convertMilestone(*f.Milestone)
		issue.Milestone = &m
	}
	return issue
}

func convertPullRequest(f pullRequestFields) models.PullRequest {
	pr := models.PullRequest{
		ID:           nodeID(f.ID),
		Number:       int(f.Number),
		State:        convertPullRequestState(f.State),
		Title:        string(f.Title),
		URL:          uriString(f.URL),
		Author:       string(f.Author.Login),
		CreatedAt:    f.CreatedAt.Time,
		UpdatedAt:    f.UpdatedAt.Time,
		CommentCount: int(f.Comments.TotalCount),
		Reactions:    convertReactions(f.ReactionGroups),
		Cards:        convertCardRefs(f.ProjectCards.Nodes),
	}
	for _, l := range f.Labels.Nodes {
		pr.Labels = append(pr.Labels, convertLabel(l))
	}
	if f.Milestone != nil {
		m := convertMilestone(*f.Milestone)
		pr.Milestone = &m
	}
	return pr
}

func convertProject(f projectFields) models.Project {
	project := models.Project{
		ID:     nodeID(f.ID),
		Name:   string(f.Name),
		Number: int(f.Number),
	}
	for _, c := range f.Columns.Nodes {
		project.Columns = append(project.Columns, models.ProjectColumn{
			ID:         nodeID(c.ID),
			Name:       string(c.Name),
			DatabaseID: int64(c.DatabaseID),
		})
	}
	return project
}

func convertCard(f cardFields) models.Card {
	card := models.Card{ID: nodeID(f.ID)}
	if f.Note != nil {
		card.Note = string(*f.Note)
	}
	switch f.Content.TypeName {
	case "Issue":
		card.Content = &models.CardContent{
			Kind:   models.CardContentIssue,
			ID:     nodeID(f.Content.Issue.ID),
			Number: int(f.Content.Issue.Number),
			Title:  string(f.Content.Issue.Title),
			URL:    uriString(f.Content.Issue.URL),
		}
	case "PullRequest":
		card.Content = &models.CardContent{
			Kind:   models.CardContentPullRequest,
			ID:     nodeID(f.Content.PullRequest.ID),
			Number: int(f.Content.PullRequest.Number),
			Title:  string(f.Content.PullRequest.Title),
			URL:    uriString(f.Content.PullRequest.URL),
		}
	}
	return card
}

func convertTimeline(nodes []timelineItemFields) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, len(nodes))
	for _, n := range nodes {
		switch n.TypeName {
		case "IssueComment":
			events = append(events, models.TimelineEvent{
				Kind:      models.TimelineComment,
				Actor:     string(n.IssueComment.Author.Login),
				CreatedAt: n.IssueComment.CreatedAt.Time,
			})
		case "CrossReferencedEvent":
			id := nodeID(n.CrossReferenced.Source.Issue.ID)
			if id == "" {
				id = nodeID(n.CrossReferenced.Source.PullRequest.ID)
			}
			events = append(events, models.TimelineEvent{
				Kind:     models.TimelineCrossReference,
				SourceID: id,
			})
		}
	}
	return events
}

// ListOrgRepositories fetches every repository in the organization along
// with its labels and milestones
func (c *GraphQLClient) ListOrgRepositories(ctx context.Context, org string) ([]models.Repository, error) {
	repos, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.Repository, PageInfo, error) {
		var query struct {
			RateLimit    rateLimitFragment
			Organization struct {
				Repositories struct {
					Nodes    []repositoryFields
					PageInfo pageInfoFragment
				} `graphql:"repositories(first: $pageSize, after: $cursor)"`
			} `graphql:"organization(login: $org)"`
		}
		variables := map[string]interface{}{
			"org":      githubv4.String(org),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		logRateLimit(query.RateLimit)
		out := make([]models.Repository, 0, len(query.Organization.Repositories.Nodes))
		for _, node := range query.Organization.Repositories.Nodes {
			out = append(out, convertRepository(node))
		}
		return out, query.Organization.Repositories.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}
	return repos, nil
}

// ListOrgProjects fetches every project board in the organization along
// with its columns
func (c *GraphQLClient) ListOrgProjects(ctx context.Context, org string) ([]models.Project, error) {
	projects, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.Project, PageInfo, error) {
		var query struct {
			Organization struct {
				Projects struct {
					Nodes    []projectFields
					PageInfo pageInfoFragment
				} `graphql:"projects(first: $pageSize, after: $cursor)"`
			} `graphql:"organization(login: $org)"`
		}
		variables := map[string]interface{}{
			"org":      githubv4.String(org),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		out := make([]models.Project, 0, len(query.Organization.Projects.Nodes))
		for _, node := range query.Organization.Projects.Nodes {
			out = append(out, convertProject(node))
		}
		return out, query.Organization.Projects.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for %s: %w", org, err)
	}
	return projects, nil
}

// ListOpenIssues fetches all open issues in a repository
func (c *GraphQLClient) ListOpenIssues(ctx context.Context, owner, name string) ([]models.Issue, error) {
	issues, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.Issue, PageInfo, error) {
		var query struct {
			RateLimit  rateLimitFragment
			Repository struct {
				Issues struct {
					Nodes    []issueFields
					PageInfo pageInfoFragment
				} `graphql:"issues(first: $pageSize, after: $cursor, states: [OPEN])"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		variables := map[string]interface{}{
			"owner":    githubv4.String(owner),
			"name":     githubv4.String(name),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		logRateLimit(query.RateLimit)
		out := make([]models.Issue, 0, len(query.Repository.Issues.Nodes))
		for _, node := range query.Repository.Issues.Nodes {
			out = append(out, convertIssue(node))
		}
		return out, query.Repository.Issues.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues for %s/%s: %w", owner, name, err)
	}
	return issues, nil
}

// ListOpenPullRequests fetches all open pull requests in a repository
func (c *GraphQLClient) ListOpenPullRequests(ctx context.Context, owner, name string) ([]models.PullRequest, error) {
	prs, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.PullRequest, PageInfo, error) {
		var query struct {
			RateLimit  rateLimitFragment
			Repository struct {
				PullRequests struct {
					Nodes    []pullRequestFields
					PageInfo pageInfoFragment
				} `graphql:"pullRequests(first: $pageSize, after: $cursor, states: [OPEN])"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		variables := map[string]interface{}{
			"owner":    githubv4.String(owner),
			"name":     githubv4.String(name),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		logRateLimit(query.RateLimit)
		out := make([]models.PullRequest, 0, len(query.Repository.PullRequests.Nodes))
		for _, node := range query.Repository.PullRequests.Nodes {
			out = append(out, convertPullRequest(node))
		}
		return out, query.Repository.PullRequests.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests for %s/%s: %w", owner, name, err)
	}
	return prs, nil
}

// ListColumnCards fetches all cards in a project column, in board order.
// The column is addressed by its opaque node ID.
func (c *GraphQLClient) ListColumnCards(ctx context.Context, columnID string) ([]models.Card, error) {
	cards, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.Card, PageInfo, error) {
		var query struct {
			Node struct {
				Column struct {
					Cards struct {
						Nodes    []cardFields
						PageInfo pageInfoFragment
					} `graphql:"cards(first: $pageSize, after: $cursor)"`
				} `graphql:"... on ProjectColumn"`
			} `graphql:"node(id: $id)"`
		}
		variables := map[string]interface{}{
			"id":       githubv4.ID(columnID),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		out := make([]models.Card, 0, len(query.Node.Column.Cards.Nodes))
		for _, node := range query.Node.Column.Cards.Nodes {
			out = append(out, convertCard(node))
		}
		return out, query.Node.Column.Cards.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for column %s: %w", columnID, err)
	}
	return cards, nil
}

// GetRepository fetches a single repository with its labels and milestones
func (c *GraphQLClient) GetRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	var query struct {
		Repository repositoryFields `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, err)
	}
	repo := convertRepository(query.Repository)
	return &repo, nil
}

// GetIssue fetches a single issue by number. Numbers that belong to pull
// requests do not resolve here.
func (c *GraphQLClient) GetIssue(ctx context.Context, owner, name string, number int) (*models.Issue, error) {
	var query struct {
		Repository struct {
			Issue issueFields `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch issue %s/%s#%d: %w", owner, name, number, err)
	}
	issue := convertIssue(query.Repository.Issue)
	return &issue, nil
}

// GetPullRequest fetches a single pull request by number
func (c *GraphQLClient) GetPullRequest(ctx context.Context, owner, name string, number int) (*models.PullRequest, error) {
	var query struct {
		Repository struct {
			PullRequest pullRequestFields `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s/%s#%d: %w", owner, name, number, err)
	}
	pr := convertPullRequest(query.Repository.PullRequest)
	return &pr, nil
}

// GetOrgProject fetches a single project board by number
func (c *GraphQLClient) GetOrgProject(ctx context.Context, org string, number int) (*models.Project, error) {
	var query struct {
		Organization struct {
			Project projectFields `graphql:"project(number: $number)"`
		} `graphql:"organization(login: $org)"`
	}
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"number": githubv4.Int(number),
	}
	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch project %d for %s: %w", number, org, err)
	}
	project := convertProject(query.Organization.Project)
	return &project, nil
}

// ListIssueTimeline fetches the comment and cross-reference events of an
// issue timeline, oldest first
func (c *GraphQLClient) ListIssueTimeline(ctx context.Context, owner, name string, number int) ([]models.TimelineEvent, error) {
	events, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.TimelineEvent, PageInfo, error) {
		var query struct {
			Repository struct {
				Issue struct {
					TimelineItems struct {
						Nodes    []timelineItemFields
						PageInfo pageInfoFragment
					} `graphql:"timelineItems(first: $pageSize, after: $cursor, itemTypes: [ISSUE_COMMENT, CROSS_REFERENCED_EVENT])"`
				} `graphql:"issue(number: $number)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		variables := map[string]interface{}{
			"owner":    githubv4.String(owner),
			"name":     githubv4.String(name),
			"number":   githubv4.Int(number),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		return convertTimeline(query.Repository.Issue.TimelineItems.Nodes),
			query.Repository.Issue.TimelineItems.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline for issue %s/%s#%d: %w", owner, name, number, err)
	}
	return events, nil
}

// ListPullRequestTimeline fetches the comment and cross-reference events of
// a pull request timeline, oldest first
func (c *GraphQLClient) ListPullRequestTimeline(ctx context.Context, owner, name string, number int) ([]models.TimelineEvent, error) {
	events, err := CollectPages(ctx, func(ctx context.Context, cursor string) ([]models.TimelineEvent, PageInfo, error) {
		var query struct {
			Repository struct {
				PullRequest struct {
					TimelineItems struct {
						Nodes    []timelineItemFields
						PageInfo pageInfoFragment
					} `graphql:"timelineItems(first: $pageSize, after: $cursor, itemTypes: [ISSUE_COMMENT, CROSS_REFERENCED_EVENT])"`
				} `graphql:"pullRequest(number: $number)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		variables := map[string]interface{}{
			"owner":    githubv4.String(owner),
			"name":     githubv4.String(name),
			"number":   githubv4.Int(number),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   cursorVar(cursor),
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, PageInfo{}, err
		}
		return convertTimeline(query.Repository.PullRequest.TimelineItems.Nodes),
			query.Repository.PullRequest.TimelineItems.PageInfo.pageInfo(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline for pull request %s/%s#%d: %w", owner, name, number, err)
	}
	return events, nil
}
