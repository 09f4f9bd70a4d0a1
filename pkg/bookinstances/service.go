package bookinstances

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveInstanceOptions struct {
	ID *string
}

type ListInstancesOptions struct {
	Limit      *int
	Offset     *int
	Status     *models.LoanStatus
	BorrowerID *int

	includeTotal bool
}

type CountInstancesOptions struct {
	Status     *models.LoanStatus
	BorrowerID *int
	// DueBefore counts instances whose due date is strictly before this date.
	DueBefore *time.Time
}

type UpdateInstanceOptions struct {
	Columns []string
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CreateInstance assigns a new UUID and stores the copy. The status defaults
// to maintenance.
func (svc *Service) CreateInstance(ctx context.Context, instance *models.BookInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.NewString()
	}
	if instance.Status == "" {
		instance.Status = models.LoanStatusMaintenance
	}
	if instance.DueBack != nil {
		due := models.DateOf(*instance.DueBack)
		instance.DueBack = &due
	}
	if err := validate(instance); err != nil {
		return err
	}

	exists, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("id = ?", instance.BookID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ValidationError(`"book" must be an existing book`)
	}

	now := svc.now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt

	_, err = svc.db.
		NewInsert().
		Model(instance).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func validate(instance *models.BookInstance) error {
	switch err := instance.Validate(); {
	case errors.Is(err, models.ErrInvalidLoanStatus):
		return errcodes.ValidationError(`"status" must be one of the following: "m", "o", "a", "r"`)
	case errors.Is(err, models.ErrDueBackRequired):
		return errcodes.ValidationError(`"due_back" is required for books on loan`)
	default:
		return err
	}
}

// RetrieveInstance loads an instance with its book and borrower.
func (svc *Service) RetrieveInstance(ctx context.Context, opts RetrieveInstanceOptions) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Relation("Borrower")

	if opts.ID != nil {
		q = q.Where("bi.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

// UpdateInstance writes the given columns. Concurrent writers to the same
// instance are not coordinated; the last update wins.
func (svc *Service) UpdateInstance(ctx context.Context, instance *models.BookInstance, opts UpdateInstanceOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	if err := validate(instance); err != nil {
		return err
	}

	instance.UpdatedAt = svc.now()
	columns := make([]string, 0, len(opts.Columns)+1)
	columns = append(columns, opts.Columns...)
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(instance).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}

func (svc *Service) ListInstances(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, error) {
	i, _, err := svc.listInstancesWithTotal(ctx, opts)
	return i, errors.WithStack(err)
}

func (svc *Service) ListInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	opts.includeTotal = true
	return svc.listInstancesWithTotal(ctx, opts)
}

// listInstancesWithTotal orders by due date, earliest first, so the copies
// that are due soonest come first.
func (svc *Service) listInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	var instances []*models.BookInstance
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Relation("Borrower").
		Order("bi.due_back ASC", "bi.id ASC")

	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}
	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return instances, total, nil
}

func (svc *Service) CountInstances(ctx context.Context, opts CountInstancesOptions) (int, error) {
	q := svc.db.NewSelect().Model((*models.BookInstance)(nil))

	if opts.Status != nil {
		q = q.Where("status = ?", *opts.Status)
	}
	if opts.BorrowerID != nil {
		q = q.Where("borrower_id = ?", *opts.BorrowerID)
	}
	if opts.DueBefore != nil {
		q = q.Where("due_back IS NOT NULL AND due_back < ?", models.DateOf(*opts.DueBefore))
	}

	count, err := q.Count(ctx)
	return count, errors.WithStack(err)
}

// CountByStatus returns the number of instances for every status, including
// statuses with no instances.
func (svc *Service) CountByStatus(ctx context.Context) (map[models.LoanStatus]int, error) {
	var rows []struct {
		Status models.LoanStatus `bun:"status"`
		Count  int               `bun:"count"`
	}
	err := svc.db.NewSelect().
		Model((*models.BookInstance)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[models.LoanStatus]int, len(models.LoanStatuses))
	for _, s := range models.LoanStatuses {
		counts[s] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Lend moves an available copy to on loan for the borrower until dueBack.
func (svc *Service) Lend(ctx context.Context, instanceID string, borrowerID int, dueBack time.Time) (*models.BookInstance, error) {
	due := models.DateOf(dueBack)

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("id = ? AND is_active = ?", borrowerID, true).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"borrower" must be an active user`)
		}

		res, err := tx.NewUpdate().
			Model((*models.BookInstance)(nil)).
			Set("status = ?", models.LoanStatusOnLoan).
			Set("borrower_id = ?", borrowerID).
			Set("due_back = ?", due).
			Set("updated_at = ?", svc.now()).
			Where("id = ?", instanceID).
			Where("status = ?", models.LoanStatusAvailable).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return transitionError(ctx, tx, instanceID, "Only available copies can be lent.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &instanceID})
}

// Return marks an on-loan copy available and clears the borrower and due
// date.
func (svc *Service) Return(ctx context.Context, instanceID string) (*models.BookInstance, error) {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.BookInstance)(nil)).
			Set("status = ?", models.LoanStatusAvailable).
			Set("borrower_id = NULL").
			Set("due_back = NULL").
			Set("updated_at = ?", svc.now()).
			Where("id = ?", instanceID).
			Where("status = ?", models.LoanStatusOnLoan).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return transitionError(ctx, tx, instanceID, "Only copies on loan can be returned.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &instanceID})
}

// transitionError tells a missing instance apart from one in the wrong state.
func transitionError(ctx context.Context, tx bun.Tx, instanceID, msg string) error {
	exists, err := tx.NewSelect().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", instanceID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Book instance")
	}
	return errcodes.ValidationError(msg)
}
