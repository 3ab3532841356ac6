package scanner

import (
	"database/sql"

	"github.com/lib/pq"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

// RowScanner est satisfait par pgx.Row et pgx.Rows
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanBug scanne une ligne SQL vers un Bug (sans commentaires ni pièces
// jointes, chargés séparément). Utilise les types sql.Null* et les convertit.
func ScanBug(row RowScanner) (*model.Bug, error) {
	var bug model.Bug
	var assignee, expected, actual sql.NullString
	var envPlatform, envVersion, envDevice, envBrowser sql.NullString
	var dueDate sql.NullTime
	var tags, steps pq.StringArray

	err := row.Scan(
		&bug.ID, &bug.Title, &bug.Description, &bug.Priority, &bug.Status,
		&assignee, &bug.Reporter, &bug.CreatedAt, &bug.UpdatedAt, &dueDate,
		&tags, &steps, &expected, &actual,
		&envPlatform, &envVersion, &envDevice, &envBrowser,
	)
	if err != nil {
		return nil, err
	}

	// Conversions
	bug.Assignee = utils.NullStringToPointer(assignee)
	bug.DueDate = utils.NullTimeToPointer(dueDate)
	bug.ExpectedBehavior = utils.NullStringToPointer(expected)
	bug.ActualBehavior = utils.NullStringToPointer(actual)
	bug.Tags = []string(tags)
	if bug.Tags == nil {
		bug.Tags = []string{}
	}
	bug.StepsToReproduce = []string(steps)
	bug.Attachments = []model.Attachment{}
	bug.Comments = []model.Comment{}

	if envPlatform.Valid || envVersion.Valid || envDevice.Valid || envBrowser.Valid {
		bug.Environment = &model.Environment{
			Platform: utils.NullStringToString(envPlatform),
			Version:  utils.NullStringToString(envVersion),
			Device:   utils.NullStringToString(envDevice),
			Browser:  utils.NullStringToString(envBrowser),
		}
	}

	return &bug, nil
}

// ScanComment scanne une ligne SQL vers un Comment
func ScanComment(row RowScanner) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ScanAttachment scanne une ligne SQL vers un Attachment
func ScanAttachment(row RowScanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := row.Scan(&a.ID, &a.Filename, &a.Size, &a.MimeType, &a.URL); err != nil {
		return nil, err
	}
	return &a, nil
}
