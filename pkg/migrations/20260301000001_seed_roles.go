package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type seedPermission struct {
	resource  string
	operation string
}

// seedRoles mirrors the resource and operation constants in pkg/models. The
// literals are repeated here so this migration keeps its meaning if those
// constants are ever renamed.
var seedRoles = map[string][]seedPermission{
	"librarian": {
		{"catalog", "read"},
		{"catalog", "write"},
		{"bookinstances", "read"},
		{"bookinstances", "mark_returned"},
		{"users", "read"},
		{"users", "write"},
	},
	"patron": {
		{"catalog", "read"},
	},
}

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		for _, name := range []string{"librarian", "patron"} {
			_, err := db.Exec(`INSERT INTO roles (name, is_system) VALUES (?, TRUE)`, name)
			if err != nil {
				return errors.WithStack(err)
			}

			var roleID int
			err = db.QueryRow(`SELECT id FROM roles WHERE name = ?`, name).Scan(&roleID)
			if err != nil {
				return errors.WithStack(err)
			}

			for _, p := range seedRoles[name] {
				_, err = db.Exec(`INSERT INTO permissions (role_id, resource, operation) VALUES (?, ?, ?)`,
					roleID, p.resource, p.operation)
				if err != nil {
					return errors.WithStack(err)
				}
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DELETE FROM permissions WHERE role_id IN (SELECT id FROM roles WHERE name IN ('librarian', 'patron'))`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DELETE FROM roles WHERE name IN ('librarian', 'patron')`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
