package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corethink/backend/internal/domain"
	"github.com/corethink/backend/internal/llm"
	"github.com/corethink/backend/internal/store"
	"github.com/corethink/backend/pkg/idx"
	"github.com/corethink/backend/pkg/slogx"
)

var (
	ErrProjectNotFound = errors.New("project_not_found")
	ErrDomainTaken     = errors.New("domain_name_taken")
	ErrAccessDenied    = errors.New("access_denied")
	ErrOwnerNotFound   = errors.New("owner_not_found")
)

// ProjectService owns project CRUD plus the project-scoped chat turn.
type ProjectService struct {
	Store store.Store
	LLM   llm.Client
}

// CreateProjectInput carries the client-supplied project fields.
type CreateProjectInput struct {
	Name       string
	DomainName string
	Category   string
	URL        string
	Messages   []domain.Message
}

func (s *ProjectService) CreateProject(ctx context.Context, userID string, in CreateProjectInput) (domain.Project, error) {
	now := time.Now()
	p := domain.Project{
		ID:         idx.New().String(),
		UserID:     userID,
		Name:       in.Name,
		DomainName: in.DomainName,
		Category:   in.Category,
		URL:        in.URL,
		Messages:   in.Messages,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.Projects().CreateProject(ctx, p); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Project{}, ErrDomainTaken
		case errors.Is(err, store.ErrNotFound):
			return domain.Project{}, ErrOwnerNotFound
		}
		return domain.Project{}, err
	}

	slogx.FromContext(ctx).Info("project created",
		slog.String("project_id", p.ID),
		slog.String("domain", p.DomainName),
	)
	return p, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	p, err := s.Store.Projects().GetProjectByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Project{}, ErrProjectNotFound
	}
	return p, err
}

func (s *ProjectService) GetProjectByDomain(ctx context.Context, domainName string) (domain.Project, error) {
	p, err := s.Store.Projects().GetProjectByDomain(ctx, domainName)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Project{}, ErrProjectNotFound
	}
	return p, err
}

func (s *ProjectService) ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.Store.Projects().ListProjectsByUser(ctx, userID)
}

// UpdateProjectInput holds optional field updates; nil means keep.
type UpdateProjectInput struct {
	Name       *string
	DomainName *string
	Category   *string
	URL        *string
}

// UpdateProject applies the provided fields after an ownership check.
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID string, in UpdateProjectInput) (domain.Project, error) {
	p, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return domain.Project{}, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.DomainName != nil {
		p.DomainName = *in.DomainName
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.URL != nil {
		p.URL = *in.URL
	}
	p.UpdatedAt = time.Now()

	if err := s.Store.Projects().UpdateProject(ctx, p); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Project{}, ErrDomainTaken
		case errors.Is(err, store.ErrNotFound):
			return domain.Project{}, ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	return p, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	err := s.Store.Projects().DeleteProject(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// AddMessage appends a single user message to the project history without
// involving the model.
func (s *ProjectService) AddMessage(ctx context.Context, userID, projectID, content string) (domain.Project, error) {
	var updated domain.Project

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := s.ownedProjectTx(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}

		p.Messages = append(p.Messages, newMessage(content, domain.SenderUser))
		if err := tx.Projects().UpdateProjectMessages(ctx, p.ID, p.Messages); err != nil {
			return err
		}

		updated = p
		return nil
	})
	return updated, err
}

// ChatTurn is the result of one project chat round trip.
type ChatTurn struct {
	Project     domain.Project
	UserMessage domain.Message
	AIMessage   domain.Message
}

// SendMessage runs a full chat turn: the user message and the model reply
// are appended to the history in one transactional update, so a crashed
// turn never leaves a dangling user message.
func (s *ProjectService) SendMessage(ctx context.Context, userID, projectID, content string) (ChatTurn, error) {
	p, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return ChatTurn{}, err
	}

	turns := historyToTurns(p.Messages)
	turns = append(turns, llm.Turn{Role: llm.RoleUser, Content: content})

	reply, err := s.LLM.Complete(ctx, llm.ChatPrompt(p.Name), turns)
	if err != nil {
		return ChatTurn{}, fmt.Errorf("chat completion: %w", err)
	}

	userMsg := newMessage(content, domain.SenderUser)
	aiMsg := newMessage(reply, domain.SenderAI)

	var updated domain.Project
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-read inside the transaction so a concurrent turn's messages
		// are not clobbered.
		fresh, err := s.ownedProjectTx(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}

		fresh.Messages = append(fresh.Messages, userMsg, aiMsg)
		if err := tx.Projects().UpdateProjectMessages(ctx, fresh.ID, fresh.Messages); err != nil {
			return err
		}

		updated = fresh
		return nil
	})
	if err != nil {
		return ChatTurn{}, err
	}

	return ChatTurn{
		Project:     updated,
		UserMessage: userMsg,
		AIMessage:   aiMsg,
	}, nil
}

func (s *ProjectService) ownedProject(ctx context.Context, userID, projectID string) (domain.Project, error) {
	p, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	if p.UserID != userID {
		return domain.Project{}, ErrAccessDenied
	}
	return p, nil
}

func (s *ProjectService) ownedProjectTx(ctx context.Context, tx store.Tx, userID, projectID string) (domain.Project, error) {
	p, err := tx.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	if p.UserID != userID {
		return domain.Project{}, ErrAccessDenied
	}
	return p, nil
}

func newMessage(content, sender string) domain.Message {
	return domain.Message{
		ID:        "msg_" + idx.New().String(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}

func historyToTurns(messages []domain.Message) []llm.Turn {
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleAssistant
		if m.Sender == domain.SenderUser {
			role = llm.RoleUser
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Content})
	}
	return turns
}
