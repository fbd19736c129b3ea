package sqlite

import (
	"context"

	"github.com/corethink/backend/internal/domain"
)

type projectsRepo struct {
	db dbtx
}

const projectColumns = `id, user_id, name, domain_name, category, url, messages, created_at, updated_at`

func scanProject(row scanner) (domain.Project, error) {
	var (
		p   domain.Project
		raw string
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.DomainName,
		&p.Category,
		&p.URL,
		&raw,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	p.Messages = unmarshalMessages(raw)
	return p, nil
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	raw, err := marshalMessages(p.Messages)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, domain_name, category, url, messages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Name, p.DomainName, p.Category, p.URL, raw, p.CreatedAt, p.UpdatedAt)
	return mapConstraint(err)
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = ?
	`, id)
	return scanProject(row)
}

func (r *projectsRepo) GetProjectByDomain(ctx context.Context, domainName string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE domain_name = ?
	`, domainName)
	return scanProject(row)
}

func (r *projectsRepo) ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, domain_name = ?, category = ?, url = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.DomainName, p.Category, p.URL, p.UpdatedAt, p.ID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *projectsRepo) UpdateProjectMessages(ctx context.Context, projectID string, messages []domain.Message) error {
	raw, err := marshalMessages(messages)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET messages = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, raw, projectID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *projectsRepo) UpdateProjectURL(ctx context.Context, projectID string, url string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, url, projectID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, projectID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
