package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/wesm/github-org-mirror/internal/models"
	"golang.org/x/oauth2"
)

// GitHubClient represents a client for the GitHub REST API. Reads go through
// the GraphQL client; this one carries the write operations, which still
// address projects and cards by their legacy numeric IDs.
type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a new GitHub API client
func NewGitHubClient(token string) *GitHubClient {
	var tc *http.Client

	if token != "" {
		// Create an authenticated client if a token is provided
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(tc)
	return &GitHubClient{client: client}
}

// IsNotFound reports whether err means the requested object does not exist.
// REST calls surface a 404 response; GraphQL reports a resolution failure
// with a "Could not resolve" message.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
	}
	return strings.Contains(err.Error(), "Could not resolve to")
}

// CreateLabel creates a repository label
func (c *GitHubClient) CreateLabel(ctx context.Context, owner, repo string, label models.Label) error {
	_, _, err := c.client.Issues.CreateLabel(ctx, owner, repo, &github.Label{
		Name:  github.String(label.Name),
		Color: github.String(label.Color),
	})
	if err != nil {
		return fmt.Errorf("failed to create label %s on %s/%s: %w", label.Name, owner, repo, err)
	}
	return nil
}

// UpdateLabel renames a label or changes its color. name is the current
// label name; label carries the new values.
func (c *GitHubClient) UpdateLabel(ctx context.Context, owner, repo, name string, label models.Label) error {
	_, _, err := c.client.Issues.EditLabel(ctx, owner, repo, name, &github.Label{
		Name:  github.String(label.Name),
		Color: github.String(label.Color),
	})
	if err != nil {
		return fmt.Errorf("failed to update label %s on %s/%s: %w", name, owner, repo, err)
	}
	return nil
}

// DeleteLabel deletes a repository label
func (c *GitHubClient) DeleteLabel(ctx context.Context, owner, repo, name string) error {
	_, err := c.client.Issues.DeleteLabel(ctx, owner, repo, name)
	if err != nil {
		return fmt.Errorf("failed to delete label %s on %s/%s: %w", name, owner, repo, err)
	}
	return nil
}

// CreateMilestone creates a milestone and returns its number
func (c *GitHubClient) CreateMilestone(ctx context.Context, owner, repo, title, description string) (int, error) {
	milestone, _, err := c.client.Issues.CreateMilestone(ctx, owner, repo, &github.Milestone{
		Title:       github.String(title),
		Description: github.String(description),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create milestone %s on %s/%s: %w", title, owner, repo, err)
	}
	return milestone.GetNumber(), nil
}

// CloseMilestone closes a milestone by number
func (c *GitHubClient) CloseMilestone(ctx context.Context, owner, repo string, number int) error {
	_, _, err := c.client.Issues.EditMilestone(ctx, owner, repo, number, &github.Milestone{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close milestone %d on %s/%s: %w", number, owner, repo, err)
	}
	return nil
}

// DeleteMilestone deletes a milestone by number
func (c *GitHubClient) DeleteMilestone(ctx context.Context, owner, repo string, number int) error {
	_, err := c.client.Issues.DeleteMilestone(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("failed to delete milestone %d on %s/%s: %w", number, owner, repo, err)
	}
	return nil
}

// CloseIssue closes an issue by number
func (c *GitHubClient) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	_, _, err := c.client.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close issue %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

// AddIssueLabels adds labels to an issue by name, creating any that do
// not exist yet with a default color
func (c *GitHubClient) AddIssueLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

// RemoveIssueLabel removes one label from an issue
func (c *GitHubClient) RemoveIssueLabel(ctx context.Context, owner, repo string, number int, label string) error {
	_, err := c.client.Issues.RemoveLabelForIssue(ctx, owner, repo, number, label)
	if err != nil {
		return fmt.Errorf("failed to remove label %s from %s/%s#%d: %w", label, owner, repo, number, err)
	}
	return nil
}

// CreateCard adds a content card to a project column. contentType is
// "Issue" or "PullRequest" as the REST API spells them; both IDs are the
// legacy numeric ones.
func (c *GitHubClient) CreateCard(ctx context.Context, columnID, contentID int64, contentType string) error {
	_, _, err := c.client.Projects.CreateProjectCard(ctx, columnID, &github.ProjectCardOptions{
		ContentID:   contentID,
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to create card in column %d: %w", columnID, err)
	}
	return nil
}

// MoveCard moves a card to the top of a column
func (c *GitHubClient) MoveCard(ctx context.Context, cardID, columnID int64) error {
	_, err := c.client.Projects.MoveProjectCard(ctx, cardID, &github.ProjectCardMoveOptions{
		Position: "top",
		ColumnID: columnID,
	})
	if err != nil {
		return fmt.Errorf("failed to move card %d to column %d: %w", cardID, columnID, err)
	}
	return nil
}
