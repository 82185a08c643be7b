package models

import (
	"strings"
	"time"
)

// Repository represents a GitHub repository in the mirrored organization
type Repository struct {
	ID         string      `json:"id"` // GraphQL node ID
	Owner      string      `json:"owner"`
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	Labels     []Label     `json:"labels"`
	Milestones []Milestone `json:"milestones"`
}

// FullName returns the owner/name form used as the repository key
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Label represents a repository label
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // hex without the leading #
}

// Same reports whether two labels describe the same label. Node IDs change
// when a label is deleted and recreated, so identity rests on the name
// (exact) and the color (case-insensitive hex).
func (l Label) Same(other Label) bool {
	return l.Name == other.Name && strings.EqualFold(l.Color, other.Color)
}

// MilestoneState is the lifecycle state of a milestone
type MilestoneState string

const (
	MilestoneOpen   MilestoneState = "open"
	MilestoneClosed MilestoneState = "closed"
)

// Milestone represents a repository milestone
type Milestone struct {
	ID          string         `json:"id"`
	Number      int            `json:"number"`
	Title       string         `json:"title"`
	State       MilestoneState `json:"state"`
	Description string         `json:"description,omitempty"`
}

// ItemState is the lifecycle state of an issue or pull request. Issues are
// only ever open or closed; merged applies to pull requests.
type ItemState string

const (
	StateOpen   ItemState = "open"
	StateClosed ItemState = "closed"
	StateMerged ItemState = "merged"
)

// Reactions holds per-kind reaction counts for an issue or pull request
type Reactions struct {
	ThumbsUp   int `json:"thumbs_up,omitempty"`
	ThumbsDown int `json:"thumbs_down,omitempty"`
	Laugh      int `json:"laugh,omitempty"`
	Confused   int `json:"confused,omitempty"`
	Heart      int `json:"heart,omitempty"`
	Hooray     int `json:"hooray,omitempty"`
}

// CardRef links an issue or pull request back to a project card that
// contains it
type CardRef struct {
	CardID    string `json:"card_id"`
	ColumnID  string `json:"column_id,omitempty"`
	ProjectID string `json:"project_id"`
}

// Issue represents a GitHub issue
type Issue struct {
	ID           string     `json:"id"`
	Number       int        `json:"number"`
	State        ItemState  `json:"state"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Author       string     `json:"author"` // login, empty when the account is gone
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CommentCount int        `json:"comment_count"`
	Reactions    Reactions  `json:"reactions"`
	Labels       []Label    `json:"labels"`
	Milestone    *Milestone `json:"milestone,omitempty"`
	Cards        []CardRef  `json:"cards,omitempty"`
}

// PullRequest represents a GitHub pull request
type PullRequest struct {
	ID           string     `json:"id"`
	Number       int        `json:"number"`
	State        ItemState  `json:"state"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Author       string     `json:"author"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CommentCount int        `json:"comment_count"`
	Reactions    Reactions  `json:"reactions"`
	Labels       []Label    `json:"labels"`
	Milestone    *Milestone `json:"milestone,omitempty"`
	Cards        []CardRef  `json:"cards,omitempty"`
}

// Project represents a classic organization project board
type Project struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Number  int             `json:"number"`
	Columns []ProjectColumn `json:"columns"`
}

// ProjectColumn represents one column of a project board. Columns carry two
// identities: the opaque node ID used by the GraphQL API and the legacy
// numeric ID that webhook payloads and the REST API still speak.
type ProjectColumn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DatabaseID int64  `json:"database_id"`
}

// CardContentKind tags the kind of item a content card points at
type CardContentKind string

const (
	CardContentIssue       CardContentKind = "issue"
	CardContentPullRequest CardContentKind = "pull_request"
)

// CardContent identifies the issue or pull request behind a content card
type CardContent struct {
	Kind   CardContentKind `json:"kind"`
	ID     string          `json:"id"`
	Number int             `json:"number"`
	Title  string          `json:"title"`
	URL    string          `json:"url"`
}

// Card represents a project card. Note cards carry text in Note and a nil
// Content; content cards reference an issue or pull request.
type Card struct {
	ID      string       `json:"id"`
	Note    string       `json:"note,omitempty"`
	Content *CardContent `json:"content,omitempty"`
}

// TimelineEventKind tags the variant of a timeline event
type TimelineEventKind string

const (
	TimelineComment        TimelineEventKind = "comment"
	TimelineCrossReference TimelineEventKind = "cross_reference"
)

// TimelineEvent is one entry from an issue or pull request timeline. Kind
// selects which fields are meaningful: comments carry Actor and CreatedAt,
// cross-references carry SourceID.
type TimelineEvent struct {
	Kind      TimelineEventKind `json:"kind"`
	Actor     string            `json:"actor,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
	SourceID  string            `json:"source_id,omitempty"`
}

// ActorActivity is one row of the per-item activity record derived from
// timeline comments
type ActorActivity struct {
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
