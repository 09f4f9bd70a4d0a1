// Package catalog serves the landing page summary and the counts behind the
// catalog gauges.
package catalog

import (
	"context"
	"time"

	"github.com/lyflibrary/catalog/pkg/authors"
	"github.com/lyflibrary/catalog/pkg/bookinstances"
	"github.com/lyflibrary/catalog/pkg/books"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// Summary holds the landing page counts.
type Summary struct {
	NumBooks              int
	NumInstances          int
	NumInstancesAvailable int
	NumAuthors            int
}

type Service struct {
	bookService     *books.Service
	authorService   *authors.Service
	instanceService *bookinstances.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		bookService:     books.NewService(db),
		authorService:   authors.NewService(db),
		instanceService: bookinstances.NewService(db),
	}
}

func (svc *Service) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	var err error

	if s.NumBooks, err = svc.bookService.CountBooks(ctx); err != nil {
		return nil, err
	}
	if s.NumInstances, err = svc.instanceService.CountInstances(ctx, bookinstances.CountInstancesOptions{}); err != nil {
		return nil, err
	}
	available := models.LoanStatusAvailable
	if s.NumInstancesAvailable, err = svc.instanceService.CountInstances(ctx, bookinstances.CountInstancesOptions{Status: &available}); err != nil {
		return nil, err
	}
	if s.NumAuthors, err = svc.authorService.CountAuthors(ctx); err != nil {
		return nil, err
	}

	return &s, nil
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	return svc.bookService.CountBooks(ctx)
}

func (svc *Service) CountByStatus(ctx context.Context) (map[models.LoanStatus]int, error) {
	return svc.instanceService.CountByStatus(ctx)
}

// CountOverdue counts copies on loan whose due date is before today.
func (svc *Service) CountOverdue(ctx context.Context, today time.Time) (int, error) {
	onLoan := models.LoanStatusOnLoan
	return svc.instanceService.CountInstances(ctx, bookinstances.CountInstancesOptions{
		Status:    &onLoan,
		DueBefore: &today,
	})
}
