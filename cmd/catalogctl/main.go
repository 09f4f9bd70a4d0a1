package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lyflibrary/catalog/pkg/config"
	"github.com/lyflibrary/catalog/pkg/database"
	"github.com/lyflibrary/catalog/pkg/migrations"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// app opens the database lazily so --help works without a config.
type app struct {
	db *bun.DB
}

func (a *app) open(ctx context.Context) (*bun.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

type createUserCommand struct {
	app *app

	Username string `short:"u" long:"username" required:"true" description:"Login name"`
	Password string `short:"p" long:"password" required:"true" description:"Plaintext password"`
	Email    string `short:"e" long:"email" description:"Email address"`
	Role     string `short:"r" long:"role" default:"patron" choice:"librarian" choice:"patron" description:"Role to grant"`
}

func (cmd *createUserCommand) Execute(_ []string) error {
	ctx := context.Background()
	db, err := cmd.app.open(ctx)
	if err != nil {
		return err
	}

	opts := users.CreateUserOptions{
		Username: cmd.Username,
		Password: cmd.Password,
		RoleName: cmd.Role,
	}
	if cmd.Email != "" {
		opts.Email = &cmd.Email
	}
	user, err := users.NewService(db).Create(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role.Name)
	return nil
}

type seedCommand struct {
	app *app

	Borrower string `short:"b" long:"borrower" description:"Username to lend the on-loan copies to"`
}

func (cmd *seedCommand) Execute(_ []string) error {
	ctx := context.Background()
	db, err := cmd.app.open(ctx)
	if err != nil {
		return err
	}

	var borrower *models.User
	if cmd.Borrower != "" {
		list, _, err := users.NewService(db).List(ctx, users.ListOptions{})
		if err != nil {
			return err
		}
		for _, u := range list {
			if u.Username == cmd.Borrower {
				borrower = u
			}
		}
		if borrower == nil {
			return errors.Errorf("no user named %q", cmd.Borrower)
		}
	}

	result, err := seed(ctx, db, borrower)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d authors, %d genres, %d books, %d copies\n", result.authors, result.genres, result.books, result.instances)
	return nil
}

func main() {
	log := logger.New()
	a := &app{}

	parser := flags.NewParser(nil, flags.Default)
	parser.Name = "catalogctl"

	_, err := parser.AddCommand("create-user", "Create a user", "Creates an active user with the given role.", &createUserCommand{app: a})
	if err != nil {
		log.Err(err).Fatal("flags setup error")
	}
	_, err = parser.AddCommand("seed", "Load demo data", "Creates a handful of authors, genres, books, and copies.", &seedCommand{app: a})
	if err != nil {
		log.Err(err).Fatal("flags setup error")
	}

	_, err = parser.Parse()
	if a.db != nil {
		a.db.Close()
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Err(err).Fatal("command failed")
	}
}
