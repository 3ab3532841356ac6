package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/scanner"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

const bugColumns = `id, title, description, priority, status, assignee, reporter,
	created_at, updated_at, due_date, tags, steps_to_reproduce,
	expected_behavior, actual_behavior, env_platform, env_version, env_device, env_browser`

// PostgresRepository implémente la façade sur PostgreSQL. Les échecs de la
// base sont transitoires (ErrTransient) ; l'absence d'un id reste nil/false
// comme pour le backend mémoire.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func transient(err error) error {
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

func (p *PostgresRepository) List(ctx context.Context, filters *model.BugFilters) ([]model.Bug, error) {
	query := "SELECT " + bugColumns + " FROM bugs WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if len(filters.Statuses) > 0 {
			query += " AND status = ANY($" + strconv.Itoa(argCount) + ")"
			args = append(args, filters.Statuses)
			argCount++
		}
		if len(filters.Priorities) > 0 {
			query += " AND priority = ANY($" + strconv.Itoa(argCount) + ")"
			args = append(args, filters.Priorities)
			argCount++
		}
		if len(filters.Assignees) > 0 {
			query += " AND assignee = ANY($" + strconv.Itoa(argCount) + ")"
			args = append(args, filters.Assignees)
			argCount++
		}
		if len(filters.Reporters) > 0 {
			query += " AND reporter = ANY($" + strconv.Itoa(argCount) + ")"
			args = append(args, filters.Reporters)
			argCount++
		}
		if len(filters.Tags) > 0 {
			// Recouvrement de tableaux : au moins un tag en commun
			query += " AND tags && $" + strconv.Itoa(argCount)
			args = append(args, filters.Tags)
			argCount++
		}
		if filters.DateRange != nil {
			query += " AND created_at >= $" + strconv.Itoa(argCount) +
				" AND created_at <= $" + strconv.Itoa(argCount+1)
			args = append(args, filters.DateRange.From, filters.DateRange.To)
			argCount += 2
		}
		if filters.Query != "" {
			pattern := "%" + filters.Query + "%"
			n := strconv.Itoa(argCount)
			query += ` AND (title ILIKE $` + n + ` OR description ILIKE $` + n +
				` OR id ILIKE $` + n +
				` OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $` + n + `))`
			args = append(args, pattern)
			argCount++
		}
	}

	query += " ORDER BY updated_at DESC"

	return p.queryBugs(ctx, query, args...)
}

func (p *PostgresRepository) GetByID(ctx context.Context, id string) (*model.Bug, error) {
	row := p.pool.QueryRow(ctx, "SELECT "+bugColumns+" FROM bugs WHERE id = $1", id)

	bug, err := scanner.ScanBug(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, transient(err)
	}

	if err := p.attachChildren(ctx, bug); err != nil {
		return nil, err
	}

	return bug, nil
}

func (p *PostgresRepository) Create(ctx context.Context, form model.BugFormData, reporterID string) (*model.Bug, error) {
	// Compteur monotone partagé : la séquence garantit l'unicité sans réemploi
	var num int
	if err := p.pool.QueryRow(ctx, "SELECT nextval('bug_number_seq')").Scan(&num); err != nil {
		return nil, transient(err)
	}
	id := fmt.Sprintf("BUG-%03d", num)

	status := form.Status
	if status == "" {
		status = model.StatusOpen
	}

	var envPlatform, envVersion, envDevice, envBrowser *string
	if form.Environment != nil {
		envPlatform = &form.Environment.Platform
		envVersion = &form.Environment.Version
		envDevice = &form.Environment.Device
		envBrowser = &form.Environment.Browser
	}

	tags := form.Tags
	if tags == nil {
		tags = []string{}
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO bugs(
			id, title, description, priority, status, assignee, reporter,
			created_at, updated_at, due_date, tags, steps_to_reproduce,
			expected_behavior, actual_behavior, env_platform, env_version, env_device, env_browser
		) VALUES($1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+bugColumns,
		id, form.Title, form.Description, form.Priority, status,
		utils.StringToNullString(form.Assignee), reporterID,
		utils.PointerToNullTime(form.DueDate), tags, form.StepsToReproduce,
		utils.StringToNullString(form.ExpectedBehavior),
		utils.StringToNullString(form.ActualBehavior),
		envPlatform, envVersion, envDevice, envBrowser,
	)

	bug, err := scanner.ScanBug(row)
	if err != nil {
		return nil, transient(err)
	}

	return bug, nil
}

func (p *PostgresRepository) Update(ctx context.Context, id string, patch model.BugPatch) (*model.Bug, error) {
	// Construction dynamique de la requête UPDATE ; updated_at avance toujours
	query := "UPDATE bugs SET updated_at = NOW()"
	args := []interface{}{}
	argCount := 1

	set := func(column string, value interface{}) {
		query += ", " + column + " = $" + strconv.Itoa(argCount)
		args = append(args, value)
		argCount++
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Assignee != nil {
		// chaîne vide = désassigner
		set("assignee", utils.StringToNullString(*patch.Assignee))
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.Tags != nil {
		set("tags", *patch.Tags)
	}
	if patch.StepsToReproduce != nil {
		set("steps_to_reproduce", *patch.StepsToReproduce)
	}
	if patch.ExpectedBehavior != nil {
		set("expected_behavior", *patch.ExpectedBehavior)
	}
	if patch.ActualBehavior != nil {
		set("actual_behavior", *patch.ActualBehavior)
	}
	if patch.Environment != nil {
		set("env_platform", patch.Environment.Platform)
		set("env_version", patch.Environment.Version)
		set("env_device", patch.Environment.Device)
		set("env_browser", patch.Environment.Browser)
	}

	query += " WHERE id = $" + strconv.Itoa(argCount) + " RETURNING " + bugColumns
	args = append(args, id)

	row := p.pool.QueryRow(ctx, query, args...)
	bug, err := scanner.ScanBug(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, transient(err)
	}

	if err := p.attachChildren(ctx, bug); err != nil {
		return nil, err
	}

	return bug, nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := p.pool.Exec(ctx, "DELETE FROM bugs WHERE id = $1", id)
	if err != nil {
		return false, transient(err)
	}
	return res.RowsAffected() > 0, nil
}

func (p *PostgresRepository) Search(ctx context.Context, query string) ([]model.Bug, error) {
	// Ordre de collection = ordre de création, pas de tri par updated_at ici
	if query == "" {
		return p.queryBugs(ctx, "SELECT "+bugColumns+" FROM bugs ORDER BY created_at ASC")
	}

	pattern := "%" + query + "%"
	return p.queryBugs(ctx, `
		SELECT `+bugColumns+` FROM bugs
		WHERE title ILIKE $1 OR description ILIKE $1 OR id ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $1)
		ORDER BY created_at ASC
	`, pattern)
}

func (p *PostgresRepository) AddComment(ctx context.Context, bugID, content, authorID string) (bool, error) {
	res, err := p.pool.Exec(ctx, `
		INSERT INTO bug_comments(id, bug_id, author, content, created_at)
		SELECT $1, $2, $3, $4, NOW() WHERE EXISTS (SELECT 1 FROM bugs WHERE id = $2)
	`, uuid.NewString(), bugID, authorID, content)
	if err != nil {
		return false, transient(err)
	}
	if res.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := p.pool.Exec(ctx, "UPDATE bugs SET updated_at = NOW() WHERE id = $1", bugID); err != nil {
		return false, transient(err)
	}

	return true, nil
}

// Stats calcule les compteurs du dashboard en une seule requête
func (p *PostgresRepository) Stats(ctx context.Context) (model.BugStats, error) {
	var stats model.BugStats

	err := p.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'open') AS open,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'resolved') AS resolved,
			COUNT(*) FILTER (WHERE status = 'closed') AS closed,
			COUNT(*) FILTER (WHERE priority = 'critical') AS critical,
			COUNT(*) FILTER (WHERE priority = 'high') AS high
		FROM bugs
	`).Scan(&stats.Total, &stats.Open, &stats.InProgress, &stats.Resolved,
		&stats.Closed, &stats.Critical, &stats.High)

	if err != nil {
		return model.BugStats{}, transient(err)
	}

	return stats, nil
}

func (p *PostgresRepository) queryBugs(ctx context.Context, query string, args ...interface{}) ([]model.Bug, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, transient(err)
	}
	defer rows.Close()

	bugs := []model.Bug{}
	for rows.Next() {
		bug, err := scanner.ScanBug(rows)
		if err != nil {
			return nil, transient(err)
		}
		bugs = append(bugs, *bug)
	}
	if err := rows.Err(); err != nil {
		return nil, transient(err)
	}

	for i := range bugs {
		if err := p.attachChildren(ctx, &bugs[i]); err != nil {
			return nil, err
		}
	}

	return bugs, nil
}

// attachChildren charge les commentaires et pièces jointes d'un bug
func (p *PostgresRepository) attachChildren(ctx context.Context, bug *model.Bug) error {
	rows, err := p.pool.Query(ctx, `
		SELECT id, author, content, created_at FROM bug_comments
		WHERE bug_id = $1 ORDER BY created_at ASC
	`, bug.ID)
	if err != nil {
		return transient(err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanner.ScanComment(rows)
		if err != nil {
			return transient(err)
		}
		bug.Comments = append(bug.Comments, *c)
	}
	if err := rows.Err(); err != nil {
		return transient(err)
	}

	arows, err := p.pool.Query(ctx, `
		SELECT id, filename, size, mime_type, url FROM bug_attachments
		WHERE bug_id = $1 ORDER BY id ASC
	`, bug.ID)
	if err != nil {
		return transient(err)
	}
	defer arows.Close()

	for arows.Next() {
		a, err := scanner.ScanAttachment(arows)
		if err != nil {
			return transient(err)
		}
		bug.Attachments = append(bug.Attachments, *a)
	}
	return arows.Err()
}
