package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wesm/github-org-mirror/internal/models"
)

// DB represents the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The sync loop is the only writer; a single connection also keeps
	// in-memory databases whole across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Initialize creates the database schema if it doesn't exist
func (db *DB) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS repositories (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		labels TEXT NOT NULL DEFAULT '[]',
		milestones TEXT NOT NULL DEFAULT '[]',
		UNIQUE(owner, name)
	);

	CREATE TABLE IF NOT EXISTS issues (
		id TEXT PRIMARY KEY,
		repository TEXT NOT NULL,
		number INTEGER NOT NULL,
		state TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		comment_count INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		reactions TEXT NOT NULL DEFAULT '{}',
		labels TEXT NOT NULL DEFAULT '[]',
		milestone TEXT,
		cards TEXT NOT NULL DEFAULT '[]',
		UNIQUE(repository, number)
	);

	CREATE TABLE IF NOT EXISTS pull_requests (
		id TEXT PRIMARY KEY,
		repository TEXT NOT NULL,
		number INTEGER NOT NULL,
		state TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		comment_count INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		reactions TEXT NOT NULL DEFAULT '{}',
		labels TEXT NOT NULL DEFAULT '[]',
		milestone TEXT,
		cards TEXT NOT NULL DEFAULT '[]',
		UNIQUE(repository, number)
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		number INTEGER NOT NULL,
		columns TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS column_cards (
		column_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		card_id TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		content TEXT,
		PRIMARY KEY (column_id, position)
	);

	CREATE TABLE IF NOT EXISTS cross_references (
		item_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		source_id TEXT NOT NULL,
		PRIMARY KEY (item_id, position)
	);

	CREATE TABLE IF NOT EXISTS actor_activity (
		item_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		actor TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		PRIMARY KEY (item_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_issues_repository ON issues(repository);
	CREATE INDEX IF NOT EXISTS idx_issues_score ON issues(score);
	CREATE INDEX IF NOT EXISTS idx_pull_requests_repository ON pull_requests(repository);
	CREATE INDEX IF NOT EXISTS idx_pull_requests_score ON pull_requests(score);
	CREATE INDEX IF NOT EXISTS idx_actor_activity_actor ON actor_activity(actor);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// execer lets the insert helpers run against either the pool or a
// transaction
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SaveRepository inserts or updates a single repository
func (db *DB) SaveRepository(ctx context.Context, repo *models.Repository) error {
	if err := insertRepository(ctx, db.DB, repo); err != nil {
		return fmt.Errorf("failed to save repository %s: %w", repo.FullName(), err)
	}
	return nil
}

// ReplaceRepositories replaces the whole repository table with the given
// list in one transaction
func (db *DB) ReplaceRepositories(ctx context.Context, repos []models.Repository) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM repositories"); err != nil {
		return fmt.Errorf("failed to clear repositories: %w", err)
	}
	for i := range repos {
		if err := insertRepository(ctx, tx, &repos[i]); err != nil {
			return fmt.Errorf("failed to insert repository %s: %w", repos[i].FullName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit repositories: %w", err)
	}
	return nil
}

func insertRepository(ctx context.Context, ex execer, repo *models.Repository) error {
	labels, err := json.Marshal(repo.Labels)
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}
	milestones, err := json.Marshal(repo.Milestones)
	if err != nil {
		return fmt.Errorf("failed to marshal milestones: %w", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO repositories (id, owner, name, url, labels, milestones)
		VALUES (?, ?, ?, ?, ?, ?)`,
		repo.ID, repo.Owner, repo.Name, repo.URL, string(labels), string(milestones))
	return err
}

// GetRepository looks up a repository by owner and name. Returns nil when
// the repository is not mirrored.
func (db *DB) GetRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	var repo models.Repository
	var labels, milestones string

	err := db.QueryRowContext(ctx, `
		SELECT id, owner, name, url, labels, milestones
		FROM repositories WHERE owner = ? AND name = ?`,
		owner, name).Scan(&repo.ID, &repo.Owner, &repo.Name, &repo.URL, &labels, &milestones)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}

	if err := json.Unmarshal([]byte(labels), &repo.Labels); err != nil {
		return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
	}
	if err := json.Unmarshal([]byte(milestones), &repo.Milestones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal milestones: %w", err)
	}
	return &repo, nil
}

// itemRow is the flattened column form shared by issues and pull requests
type itemRow struct {
	id           string
	repository   string
	number       int
	state        string
	title        string
	url          string
	author       string
	createdAt    time.Time
	updatedAt    time.Time
	commentCount int
	score        int
	reactions    string
	labels       string
	milestone    sql.NullString
	cards        string
}

func issueRow(repo string, issue *models.Issue) (itemRow, error) {
	row := itemRow{
		id:           issue.ID,
		repository:   repo,
		number:       issue.Number,
		state:        string(issue.State),
		title:        issue.Title,
		url:          issue.URL,
		author:       issue.Author,
		createdAt:    issue.CreatedAt,
		updatedAt:    issue.UpdatedAt,
		commentCount: issue.CommentCount,
		score:        issue.Score(),
	}
	err := marshalItemJSON(&row, issue.Reactions, issue.Labels, issue.Milestone, issue.Cards)
	return row, err
}

func pullRequestRow(repo string, pr *models.PullRequest) (itemRow, error) {
	row := itemRow{
		id:           pr.ID,
		repository:   repo,
		number:       pr.Number,
		state:        string(pr.State),
		title:        pr.Title,
		url:          pr.URL,
		author:       pr.Author,
		createdAt:    pr.CreatedAt,
		updatedAt:    pr.UpdatedAt,
		commentCount: pr.CommentCount,
		score:        pr.Score(),
	}
	err := marshalItemJSON(&row, pr.Reactions, pr.Labels, pr.Milestone, pr.Cards)
	return row, err
}

func marshalItemJSON(row *itemRow, reactions models.Reactions, labels []models.Label, milestone *models.Milestone, cards []models.CardRef) error {
	b, err := json.Marshal(reactions)
	if err != nil {
		return fmt.Errorf("failed to marshal reactions: %w", err)
	}
	row.reactions = string(b)

	if b, err = json.Marshal(labels); err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}
	row.labels = string(b)

	if milestone != nil {
		if b, err = json.Marshal(milestone); err != nil {
			return fmt.Errorf("failed to marshal milestone: %w", err)
		}
		row.milestone = sql.NullString{String: string(b), Valid: true}
	}

	if b, err = json.Marshal(cards); err != nil {
		return fmt.Errorf("failed to marshal cards: %w", err)
	}
	row.cards = string(b)
	return nil
}

func insertItem(ctx context.Context, ex execer, table string, row itemRow) error {
	_, err := ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO `+table+` (
			id, repository, number, state, title, url, author,
			created_at, updated_at, comment_count, score,
			reactions, labels, milestone, cards
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.repository, row.number, row.state, row.title, row.url, row.author,
		row.createdAt, row.updatedAt, row.commentCount, row.score,
		row.reactions, row.labels, row.milestone, row.cards)
	return err
}

// SaveIssue inserts or updates a single issue. repo is the owner/name key.
func (db *DB) SaveIssue(ctx context.Context, repo string, issue *models.Issue) error {
	row, err := issueRow(repo, issue)
	if err != nil {
		return fmt.Errorf("failed to encode issue %s#%d: %w", repo, issue.Number, err)
	}
	if err := insertItem(ctx, db.DB, "issues", row); err != nil {
		return fmt.Errorf("failed to save issue %s#%d: %w", repo, issue.Number, err)
	}
	return nil
}

// SavePullRequest inserts or updates a single pull request
func (db *DB) SavePullRequest(ctx context.Context, repo string, pr *models.PullRequest) error {
	row, err := pullRequestRow(repo, pr)
	if err != nil {
		return fmt.Errorf("failed to encode pull request %s#%d: %w", repo, pr.Number, err)
	}
	if err := insertItem(ctx, db.DB, "pull_requests", row); err != nil {
		return fmt.Errorf("failed to save pull request %s#%d: %w", repo, pr.Number, err)
	}
	return nil
}

// ReplaceIssues swaps out every stored issue of one repository for the
// given list, in one transaction
func (db *DB) ReplaceIssues(ctx context.Context, repo string, issues []models.Issue) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM issues WHERE repository = ?", repo); err != nil {
		return fmt.Errorf("failed to clear issues for %s: %w", repo, err)
	}
	for i := range issues {
		row, err := issueRow(repo, &issues[i])
		if err != nil {
			return fmt.Errorf("failed to encode issue %s#%d: %w", repo, issues[i].Number, err)
		}
		if err := insertItem(ctx, tx, "issues", row); err != nil {
			return fmt.Errorf("failed to insert issue %s#%d: %w", repo, issues[i].Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit issues for %s: %w", repo, err)
	}
	return nil
}

// ReplacePullRequests swaps out every stored pull request of one repository
// for the given list, in one transaction
func (db *DB) ReplacePullRequests(ctx context.Context, repo string, prs []models.PullRequest) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pull_requests WHERE repository = ?", repo); err != nil {
		return fmt.Errorf("failed to clear pull requests for %s: %w", repo, err)
	}
	for i := range prs {
		row, err := pullRequestRow(repo, &prs[i])
		if err != nil {
			return fmt.Errorf("failed to encode pull request %s#%d: %w", repo, prs[i].Number, err)
		}
		if err := insertItem(ctx, tx, "pull_requests", row); err != nil {
			return fmt.Errorf("failed to insert pull request %s#%d: %w", repo, prs[i].Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pull requests for %s: %w", repo, err)
	}
	return nil
}

func scanItem(rows *sql.Rows) (itemRow, error) {
	var row itemRow
	err := rows.Scan(&row.id, &row.repository, &row.number, &row.state, &row.title,
		&row.url, &row.author, &row.createdAt, &row.updatedAt, &row.commentCount,
		&row.score, &row.reactions, &row.labels, &row.milestone, &row.cards)
	return row, err
}

func rowToIssue(row itemRow) (*models.Issue, error) {
	issue := &models.Issue{
		ID:           row.id,
		Number:       row.number,
		State:        models.ItemState(row.state),
		Title:        row.title,
		URL:          row.url,
		Author:       row.author,
		CreatedAt:    row.createdAt,
		UpdatedAt:    row.updatedAt,
		CommentCount: row.commentCount,
	}
	if err := unmarshalItemJSON(row, &issue.Reactions, &issue.Labels, &issue.Milestone, &issue.Cards); err != nil {
		return nil, err
	}
	return issue, nil
}

func rowToPullRequest(row itemRow) (*models.PullRequest, error) {
	pr := &models.PullRequest{
		ID:           row.id,
		Number:       row.number,
		State:        models.ItemState(row.state),
		Title:        row.title,
		URL:          row.url,
		Author:       row.author,
		CreatedAt:    row.createdAt,
		UpdatedAt:    row.updatedAt,
		CommentCount: row.commentCount,
	}
	if err := unmarshalItemJSON(row, &pr.Reactions, &pr.Labels, &pr.Milestone, &pr.Cards); err != nil {
		return nil, err
	}
	return pr, nil
}

func unmarshalItemJSON(row itemRow, reactions *models.Reactions, labels *[]models.Label, milestone **models.Milestone, cards *[]models.CardRef) error {
	if err := json.Unmarshal([]byte(row.reactions), reactions); err != nil {
		return fmt.Errorf("failed to unmarshal reactions: %w", err)
	}
	if err := json.Unmarshal([]byte(row.labels), labels); err != nil {
		return fmt.Errorf("failed to unmarshal labels: %w", err)
	}
	if row.milestone.Valid {
		if err := json.Unmarshal([]byte(row.milestone.String), milestone); err != nil {
			return fmt.Errorf("failed to unmarshal milestone: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(row.cards), cards); err != nil {
		return fmt.Errorf("failed to unmarshal cards: %w", err)
	}
	return nil
}

// GetIssue looks up one issue by repository key and number. Returns nil
// when it is not mirrored.
func (db *DB) GetIssue(ctx context.Context, repo string, number int) (*models.Issue, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, repository, number, state, title, url, author,
			created_at, updated_at, comment_count, score,
			reactions, labels, milestone, cards
		FROM issues WHERE repository = ? AND number = ?`, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s#%d: %w", repo, number, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := scanItem(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan issue %s#%d: %w", repo, number, err)
	}
	return rowToIssue(row)
}

// GetPullRequest looks up one pull request by repository key and number.
// Returns nil when it is not mirrored.
func (db *DB) GetPullRequest(ctx context.Context, repo string, number int) (*models.PullRequest, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, repository, number, state, title, url, author,
			created_at, updated_at, comment_count, score,
			reactions, labels, milestone, cards
		FROM pull_requests WHERE repository = ? AND number = ?`, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request %s#%d: %w", repo, number, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := scanItem(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pull request %s#%d: %w", repo, number, err)
	}
	return rowToPullRequest(row)
}

// ListTopIssues returns the highest scored issues of one repository,
// highest first
func (db *DB) ListTopIssues(ctx context.Context, repo string, limit int) ([]models.Issue, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, repository, number, state, title, url, author,
			created_at, updated_at, comment_count, score,
			reactions, labels, milestone, cards
		FROM issues WHERE repository = ?
		ORDER BY score DESC, number ASC LIMIT ?`, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top issues for %s: %w", repo, err)
	}
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		row, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issue, err := rowToIssue(row)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

// SaveProject inserts or updates a single project board. Cards of columns
// the board dropped stay until the next full project replace.
func (db *DB) SaveProject(ctx context.Context, project *models.Project) error {
	columns, err := json.Marshal(project.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns for project %s: %w", project.Name, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT OR REPLACE INTO projects (id, name, number, columns) VALUES (?, ?, ?, ?)`,
		project.ID, project.Name, project.Number, string(columns))
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.Name, err)
	}
	return nil
}

// ReplaceProjects replaces the whole project table in one transaction and
// drops cards of columns that no longer exist
func (db *DB) ReplaceProjects(ctx context.Context, projects []models.Project) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	var columnIDs []interface{}
	for i := range projects {
		columns, err := json.Marshal(projects[i].Columns)
		if err != nil {
			return fmt.Errorf("failed to marshal columns for project %s: %w", projects[i].Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects (id, name, number, columns) VALUES (?, ?, ?, ?)`,
			projects[i].ID, projects[i].Name, projects[i].Number, string(columns))
		if err != nil {
			return fmt.Errorf("failed to insert project %s: %w", projects[i].Name, err)
		}
		for _, col := range projects[i].Columns {
			columnIDs = append(columnIDs, col.ID)
		}
	}

	prune := "DELETE FROM column_cards"
	if len(columnIDs) > 0 {
		prune += " WHERE column_id NOT IN (?" + strings.Repeat(",?", len(columnIDs)-1) + ")"
	}
	if _, err := tx.ExecContext(ctx, prune, columnIDs...); err != nil {
		return fmt.Errorf("failed to prune stale column cards: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit projects: %w", err)
	}
	return nil
}

// ListProjects returns all mirrored project boards
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, name, number, columns FROM projects ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		var columns string
		if err := rows.Scan(&project.ID, &project.Name, &project.Number, &columns); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if err := json.Unmarshal([]byte(columns), &project.Columns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// ReplaceColumnCards swaps out the stored cards of one column for the given
// list, preserving board order
func (db *DB) ReplaceColumnCards(ctx context.Context, columnID string, cards []models.Card) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM column_cards WHERE column_id = ?", columnID); err != nil {
		return fmt.Errorf("failed to clear cards for column %s: %w", columnID, err)
	}
	for i, card := range cards {
		var content sql.NullString
		if card.Content != nil {
			b, err := json.Marshal(card.Content)
			if err != nil {
				return fmt.Errorf("failed to marshal card content: %w", err)
			}
			content = sql.NullString{String: string(b), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO column_cards (column_id, position, card_id, note, content)
			VALUES (?, ?, ?, ?, ?)`,
			columnID, i, card.ID, card.Note, content)
		if err != nil {
			return fmt.Errorf("failed to insert card %s: %w", card.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cards for column %s: %w", columnID, err)
	}
	return nil
}

// ListColumnCards returns the stored cards of one column in board order
func (db *DB) ListColumnCards(ctx context.Context, columnID string) ([]models.Card, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT card_id, note, content FROM column_cards
		WHERE column_id = ? ORDER BY position`, columnID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for column %s: %w", columnID, err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var card models.Card
		var content sql.NullString
		if err := rows.Scan(&card.ID, &card.Note, &content); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if content.Valid {
			if err := json.Unmarshal([]byte(content.String), &card.Content); err != nil {
				return nil, fmt.Errorf("failed to unmarshal card content: %w", err)
			}
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// ReplaceCrossReferences swaps out the cross-reference edges of one item
// for the given ordered source IDs
func (db *DB) ReplaceCrossReferences(ctx context.Context, itemID string, sourceIDs []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cross_references WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to clear cross references for %s: %w", itemID, err)
	}
	for i, sourceID := range sourceIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cross_references (item_id, position, source_id)
			VALUES (?, ?, ?)`, itemID, i, sourceID)
		if err != nil {
			return fmt.Errorf("failed to insert cross reference: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cross references for %s: %w", itemID, err)
	}
	return nil
}

// ListCrossReferences returns the stored cross-reference edges of one item
// in timeline order
func (db *DB) ListCrossReferences(ctx context.Context, itemID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT source_id FROM cross_references
		WHERE item_id = ? ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cross references for %s: %w", itemID, err)
	}
	defer rows.Close()

	var sourceIDs []string
	for rows.Next() {
		var sourceID string
		if err := rows.Scan(&sourceID); err != nil {
			return nil, fmt.Errorf("failed to scan cross reference: %w", err)
		}
		sourceIDs = append(sourceIDs, sourceID)
	}
	return sourceIDs, rows.Err()
}

// ReplaceActorActivity swaps out the activity record of one item for the
// given ordered entries
func (db *DB) ReplaceActorActivity(ctx context.Context, itemID string, activity []models.ActorActivity) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM actor_activity WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to clear activity for %s: %w", itemID, err)
	}
	for i, entry := range activity {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO actor_activity (item_id, position, actor, occurred_at)
			VALUES (?, ?, ?, ?)`, itemID, i, entry.Actor, entry.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to insert activity entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity for %s: %w", itemID, err)
	}
	return nil
}

// ListActorActivity returns the stored activity record of one item in
// timeline order
func (db *DB) ListActorActivity(ctx context.Context, itemID string) ([]models.ActorActivity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT actor, occurred_at FROM actor_activity
		WHERE item_id = ? ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for %s: %w", itemID, err)
	}
	defer rows.Close()

	var activity []models.ActorActivity
	for rows.Next() {
		var entry models.ActorActivity
		if err := rows.Scan(&entry.Actor, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		activity = append(activity, entry)
	}
	return activity, rows.Err()
}
