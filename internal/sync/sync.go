package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/wesm/github-org-mirror/internal/models"
)

// RemoteClient is the read surface of the GitHub API the orchestrator
// fetches through
type RemoteClient interface {
	ListOrgRepositories(ctx context.Context, org string) ([]models.Repository, error)
	ListOrgProjects(ctx context.Context, org string) ([]models.Project, error)
	ListOpenIssues(ctx context.Context, owner, name string) ([]models.Issue, error)
	ListOpenPullRequests(ctx context.Context, owner, name string) ([]models.PullRequest, error)
	ListColumnCards(ctx context.Context, columnID string) ([]models.Card, error)
	ListIssueTimeline(ctx context.Context, owner, name string, number int) ([]models.TimelineEvent, error)
	ListPullRequestTimeline(ctx context.Context, owner, name string, number int) ([]models.TimelineEvent, error)
	GetRepository(ctx context.Context, owner, name string) (*models.Repository, error)
	GetIssue(ctx context.Context, owner, name string, number int) (*models.Issue, error)
	GetPullRequest(ctx context.Context, owner, name string, number int) (*models.PullRequest, error)
	GetOrgProject(ctx context.Context, org string, number int) (*models.Project, error)
}

// Store is the persistence surface the orchestrator writes mirrored data
// through. Writes are fire-and-forget: a failed write is logged, not
// retried, and heals on the next refresh of the same slice.
type Store interface {
	ReplaceRepositories(ctx context.Context, repos []models.Repository) error
	SaveRepository(ctx context.Context, repo *models.Repository) error
	ReplaceProjects(ctx context.Context, projects []models.Project) error
	SaveProject(ctx context.Context, project *models.Project) error
	ReplaceIssues(ctx context.Context, repo string, issues []models.Issue) error
	SaveIssue(ctx context.Context, repo string, issue *models.Issue) error
	ReplacePullRequests(ctx context.Context, repo string, prs []models.PullRequest) error
	SavePullRequest(ctx context.Context, repo string, pr *models.PullRequest) error
	ReplaceColumnCards(ctx context.Context, columnID string, cards []models.Card) error
	ReplaceCrossReferences(ctx context.Context, itemID string, sourceIDs []string) error
	ReplaceActorActivity(ctx context.Context, itemID string, activity []models.ActorActivity) error
}

// Options configures the orchestrator
type Options struct {
	// Organization is the GitHub organization to mirror. Required.
	Organization string

	// DrainInterval is the delay between queue dispatches. At most one
	// fetch starts per interval. Defaults to 100ms.
	DrainInterval time.Duration

	// RetryInterval is the delay between sweeps of the failed queue back
	// into the pending queue. Defaults to 1m.
	RetryInterval time.Duration

	// RefreshInterval is the delay between full re-syncs. Defaults to 1h.
	RefreshInterval time.Duration

	// DisableTimelines skips timeline fetches and the data derived from
	// them
	DisableTimelines bool

	// DisableFullRefresh skips the periodic full re-sync. The startup
	// sync still runs.
	DisableFullRefresh bool

	// Notify, when set, is called on the loop goroutine after each
	// applied fetch with the kind of entity refreshed and its key. It
	// must not block.
	Notify func(entity, key string)

	// Logger defaults to the standard logger
	Logger *log.Logger
}

const (
	defaultDrainInterval   = 100 * time.Millisecond
	defaultRetryInterval   = time.Minute
	defaultRefreshInterval = time.Hour

	// eventBuffer bounds how many deliveries can pile up before
	// HandleWebhook blocks
	eventBuffer = 256
)

// Orchestrator keeps the local mirror of one organization current. A
// single loop goroutine owns all queue and project state; fetches overlap
// off the loop and come back as completion events. The drain tick paces
// how fast new fetches start, not how many are outstanding.
type Orchestrator struct {
	client RemoteClient
	store  Store
	opts   Options
	logger *log.Logger

	events chan event
	done   chan struct{}
}

type event interface{ isEvent() }

type webhookEvent struct {
	eventType string
	payload   json.RawMessage
}

type refreshEvent struct {
	item workItem
}

type fetchDone struct {
	item  workItem
	apply applyFunc
	err   error
}

func (webhookEvent) isEvent() {}
func (refreshEvent) isEvent() {}
func (fetchDone) isEvent()    {}

// New creates an orchestrator for one organization
func New(client RemoteClient, store Store, opts Options) (*Orchestrator, error) {
	if opts.Organization == "" {
		return nil, fmt.Errorf("organization is required")
	}
	if opts.DrainInterval <= 0 {
		opts.DrainInterval = defaultDrainInterval
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefreshInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Orchestrator{
		client: client,
		store:  store,
		opts:   opts,
		logger: opts.Logger,
		events: make(chan event, eventBuffer),
		done:   make(chan struct{}),
	}, nil
}

func (o *Orchestrator) notify(entity, key string) {
	if o.opts.Notify != nil {
		o.opts.Notify(entity, key)
	}
}

// HandleWebhook hands one webhook delivery to the loop. It never fails:
// payloads that cannot be routed are dropped there.
func (o *Orchestrator) HandleWebhook(eventType string, payload []byte) {
	select {
	case o.events <- webhookEvent{eventType: eventType, payload: payload}:
	case <-o.done:
	}
}

// Refresh queues a targeted re-fetch. kind is one of "repo", "issue",
// "pr", "project" or "columnCards"; key is owner/name, owner/name#number,
// a project number or a column node ID respectively. Key validation
// happens here, the fetch happens on the loop.
func (o *Orchestrator) Refresh(kind, key string) error {
	item, err := o.refreshItem(kind, key)
	if err != nil {
		return err
	}
	select {
	case o.events <- refreshEvent{item: item}:
	case <-o.done:
	}
	return nil
}

func (o *Orchestrator) refreshItem(kind, key string) (workItem, error) {
	switch kind {
	case "repo":
		owner, name, err := ParseRepositoryString(key)
		if err != nil {
			return workItem{}, err
		}
		return o.fetchRepositoryOp(owner, name), nil
	case "issue":
		owner, name, number, err := ParseItemString(key)
		if err != nil {
			return workItem{}, err
		}
		return o.fetchIssueOp(owner, name, number), nil
	case "pr":
		owner, name, number, err := ParseItemString(key)
		if err != nil {
			return workItem{}, err
		}
		return o.fetchPullRequestOp(owner, name, number), nil
	case "project":
		number, err := strconv.Atoi(key)
		if err != nil || number <= 0 {
			return workItem{}, fmt.Errorf("invalid project number %q", key)
		}
		return o.fetchProjectOp(number), nil
	case "columnCards":
		if key == "" {
			return workItem{}, fmt.Errorf("column id is required")
		}
		return o.listCardsOp(key), nil
	default:
		return workItem{}, fmt.Errorf("unknown refresh kind %q", kind)
	}
}

// Run drives the sync loop until ctx is cancelled. It starts with a full
// sync; there is no sync state to recover, a restart simply mirrors again.
// Run must be called at most once.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.done)

	st := &state{}
	o.logger.Printf("starting full sync of %s", o.opts.Organization)
	st.enqueue(o.listRepositoriesOp(), o.listProjectsOp())

	drain := time.NewTicker(o.opts.DrainInterval)
	defer drain.Stop()
	retry := time.NewTicker(o.opts.RetryInterval)
	defer retry.Stop()

	var refresh <-chan time.Time
	if !o.opts.DisableFullRefresh {
		ticker := time.NewTicker(o.opts.RefreshInterval)
		defer ticker.Stop()
		refresh = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			if st.outstanding > 0 {
				o.logger.Printf("abandoning %d in-flight fetches", st.outstanding)
			}
			return ctx.Err()
		case ev := <-o.events:
			o.handleEvent(ctx, st, ev)
		case <-drain.C:
			o.dispatchNext(ctx, st)
		case <-retry.C:
			if n := st.sweepFailed(); n > 0 {
				o.logger.Printf("retrying %d failed operations", n)
			}
		case <-refresh:
			o.logger.Printf("starting full sync of %s", o.opts.Organization)
			st.enqueue(o.listRepositoriesOp(), o.listProjectsOp())
		}
	}
}

// dispatchNext starts the oldest pending item. It does not wait for
// earlier fetches; a slow call accumulates as outstanding work while the
// queue keeps moving, and its completion comes back as a fetchDone event.
func (o *Orchestrator) dispatchNext(ctx context.Context, st *state) {
	item, ok := st.dequeue()
	if !ok {
		return
	}
	st.outstanding++
	go func() {
		apply, err := item.run(ctx)
		select {
		case o.events <- fetchDone{item: item, apply: apply, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (o *Orchestrator) handleEvent(ctx context.Context, st *state, ev event) {
	switch ev := ev.(type) {
	case webhookEvent:
		st.enqueue(o.route(st, ev.eventType, ev.payload)...)
	case refreshEvent:
		st.enqueue(ev.item)
	case fetchDone:
		st.outstanding--
		if ev.err != nil {
			o.logger.Printf("%s failed: %v", ev.item.label, ev.err)
			st.fail(ev.item)
			return
		}
		if ev.apply != nil {
			st.enqueue(ev.apply(ctx, st)...)
		}
	}
}

// RunOnce performs one full sync synchronously: repositories, projects and
// every follow-on fetch, one at a time, then returns. Failed operations
// are not retried. Meant for cron-style use; Run and RunOnce cannot be
// combined on one Orchestrator.
func (o *Orchestrator) RunOnce(ctx context.Context) error {
	st := &state{}
	st.enqueue(o.listRepositoriesOp(), o.listProjectsOp())

	failed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, ok := st.dequeue()
		if !ok {
			break
		}
		apply, err := item.run(ctx)
		if err != nil {
			failed++
			o.logger.Printf("%s failed: %v", item.label, err)
			continue
		}
		if apply != nil {
			st.enqueue(apply(ctx, st)...)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d operations failed", failed)
	}
	return nil
}

// ParseRepositoryString parses an owner/name string into its parts
func ParseRepositoryString(repoStr string) (string, string, error) {
	parts := strings.Split(repoStr, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format %q, expected owner/name", repoStr)
	}
	return parts[0], parts[1], nil
}

// ParseItemString parses an owner/name#number string into its parts
func ParseItemString(itemStr string) (string, string, int, error) {
	repoPart, numberPart, ok := strings.Cut(itemStr, "#")
	if !ok {
		return "", "", 0, fmt.Errorf("invalid item format %q, expected owner/name#number", itemStr)
	}
	owner, name, err := ParseRepositoryString(repoPart)
	if err != nil {
		return "", "", 0, err
	}
	number, err := strconv.Atoi(numberPart)
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid item number in %q", itemStr)
	}
	return owner, name, number, nil
}
