package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/talesforge/talesforge/pkg/config"
	"github.com/talesforge/talesforge/pkg/database"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/talesforge/talesforge/pkg/migrations"
	"github.com/talesforge/talesforge/pkg/server"
	"github.com/talesforge/talesforge/pkg/users"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	app := &cli.App{
		Name:  "manage",
		Usage: "administrative tasks for a talesforge deployment",
		Before: func(c *cli.Context) error {
			_, err := migrations.BringUpToDate(c.Context, db)
			return err
		},
		Commands: []*cli.Command{
			{
				Name:  "create-admin",
				Usage: "create an admin user, or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "enables email and password login"},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: func(c *cli.Context) error {
					opts := users.CreateUserOptions{
						Email:    c.String("email"),
						IsAdmin:  true,
						Password: c.String("password"),
					}
					if v := c.String("first-name"); v != "" {
						opts.FirstName = &v
					}
					if v := c.String("last-name"); v != "" {
						opts.LastName = &v
					}

					user, err := users.NewService(db).Upsert(c.Context, opts)
					if err != nil {
						return err
					}
					fmt.Printf("Admin user %s (%s) is ready\n", user.Email, user.ID)
					return nil
				},
			},
			{
				Name:  "export-fallback",
				Usage: "write the public content snapshots used when the database is unavailable",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: cfg.FallbackDir},
				},
				Action: func(c *cli.Context) error {
					dir := c.String("dir")
					store := fallback.NewStore(dir)
					if err := fallback.ExportAll(c.Context, store, server.Exporters(db)...); err != nil {
						return errors.Wrap(err, "export incomplete")
					}
					fmt.Printf("Snapshots written to %s\n", dir)
					return nil
				},
			},
		},
	}
	runErr := app.Run(os.Args)
	if err := db.Close(); err != nil {
		log.Err(err).Error("database close error")
	}
	if runErr != nil {
		log.Err(runErr).Fatal("app run error")
	}
}
