package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks a request the service refuses to store.
var ErrInvalidInput = errors.New("invalid note")

// Repository is the storage the service runs on. *Repo satisfies it.
type Repository interface {
	Insert(ctx context.Context, n *Note) error
	FindByID(ctx context.Context, id int64) (*Note, error)
	Replace(ctx context.Context, n *Note) error
	List(ctx context.Context, q ListQuery) ([]*Note, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
	}
}

// Create stores a new note and returns it with its assigned id
func (s *Service) Create(ctx context.Context, d Draft) (*Note, error) {
	d.Categories = NormalizeCategories(d.Categories)
	if err := s.check(d); err != nil {
		return nil, err
	}

	note := &Note{
		Title:      d.Title,
		Content:    d.Content,
		Tag:        d.Tag,
		Author:     d.Author,
		Categories: d.Categories,
		Archived:   d.Archived,
	}
	if err := s.repo.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Update merges the set fields of in into the stored note
func (s *Service) Update(ctx context.Context, id int64, in UpdateNoteInput) (*Note, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := in.Apply(*current)
	merged.ID = id
	merged.Categories = NormalizeCategories(merged.Categories)
	if err := s.check(merged.Draft()); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// GetByID retrieves a note by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Note, error) {
	return s.repo.FindByID(ctx, id)
}

// List retrieves notes with optional filters
func (s *Service) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	return s.repo.List(ctx, q)
}

// ListCategories returns all categories with counts
func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

// Delete removes a note by ID. Deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNoteNotFound) {
		return nil
	}
	return err
}

func (s *Service) check(d Draft) error {
	if err := s.validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s fails %q", ErrInvalidInput, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// NormalizeCategories trims labels, drops empty ones and removes duplicates,
// keeping the first occurrence.
func NormalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
