package roles

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// toPermissions checks each capability against the grantable set and splits
// it into resource and operation. Duplicates are dropped.
func toPermissions(roleID int, capabilities []string) ([]*models.Permission, error) {
	grantable := make(map[string]bool, len(models.GrantableCapabilities))
	for _, c := range models.GrantableCapabilities {
		grantable[c] = true
	}

	seen := map[string]bool{}
	perms := make([]*models.Permission, 0, len(capabilities))
	for _, c := range capabilities {
		if !grantable[c] {
			return nil, errcodes.ValidationError("Unknown capability " + c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		resource, operation, _ := strings.Cut(c, ":")
		perms = append(perms, &models.Permission{RoleID: roleID, Resource: resource, Operation: operation})
	}
	return perms, nil
}

func nameTaken(ctx context.Context, db bun.IDB, name string, exceptID int) error {
	exists, err := db.NewSelect().
		Model((*models.Role)(nil)).
		Where("name = ? COLLATE NOCASE", name).
		Where("id != ?", exceptID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.ValidationError("Role name already exists")
	}
	return nil
}

func replacePermissions(ctx context.Context, tx bun.Tx, roleID int, capabilities []string) error {
	perms, err := toPermissions(roleID, capabilities)
	if err != nil {
		return err
	}

	_, err = tx.NewDelete().
		Model((*models.Permission)(nil)).
		Where("role_id = ?", roleID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(perms) == 0 {
		return nil
	}
	_, err = tx.NewInsert().Model(&perms).Exec(ctx)
	return errors.WithStack(err)
}

// Create adds a custom role holding the given capabilities.
func (s *Service) Create(ctx context.Context, name string, capabilities []string) (*models.Role, error) {
	role := &models.Role{Name: name}

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := nameTaken(ctx, tx, name, 0); err != nil {
			return err
		}

		now := time.Now()
		role.CreatedAt = now
		role.UpdatedAt = now
		if _, err := tx.NewInsert().Model(role).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		return replacePermissions(ctx, tx, role.ID, capabilities)
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(ctx, role.ID)
}

func (s *Service) Retrieve(ctx context.Context, id int) (*models.Role, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errcodes.NotFound("Role")
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return role, nil
}

type ListOptions struct {
	Limit  int
	Offset int
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Role, int, error) {
	roles := []*models.Role{}

	q := s.db.NewSelect().
		Model(&roles).
		Relation("Permissions").
		Order("r.id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return roles, total, nil
}

// Update renames the role and/or replaces its capabilities. The seeded roles
// can't be renamed, but their capabilities can change.
func (s *Service) Update(ctx context.Context, id int, name *string, capabilities *[]string) (*models.Role, error) {
	role, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem && name != nil && *name != role.Name {
		return nil, errcodes.Forbidden("Renaming built-in roles")
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		role.UpdatedAt = time.Now()
		columns := []string{"updated_at"}

		if name != nil && *name != role.Name {
			if err := nameTaken(ctx, tx, *name, id); err != nil {
				return err
			}
			role.Name = *name
			columns = append(columns, "name")
		}

		if _, err := tx.NewUpdate().Model(role).Column(columns...).WherePK().Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		if capabilities != nil {
			return replacePermissions(ctx, tx, id, *capabilities)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(ctx, id)
}

// Delete removes a custom role that no user holds.
func (s *Service) Delete(ctx context.Context, id int) error {
	role, err := s.Retrieve(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return errcodes.Forbidden("Deleting built-in roles")
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("role_id = ?", id).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count > 0 {
			return errcodes.InUse("Role", "users")
		}

		_, err = tx.NewDelete().
			Model((*models.Permission)(nil)).
			Where("role_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().
			Model((*models.Role)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}
