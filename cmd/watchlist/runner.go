package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/urfave/cli/v3"

	"github.com/Tristal25/watchlist/cmd/config"
	"github.com/Tristal25/watchlist/pkg/auth"
	"github.com/Tristal25/watchlist/pkg/database"
	"github.com/Tristal25/watchlist/pkg/handlers"
	"github.com/Tristal25/watchlist/pkg/models"
	"github.com/Tristal25/watchlist/pkg/store"
)

// seedMovies is the sample data installed by the forge command.
var seedMovies = []models.Movie{
	{Title: "My Neighbor Totoro", Year: "1988"},
	{Title: "Dead Poets Society", Year: "1989"},
	{Title: "A Perfect World", Year: "1993"},
	{Title: "Leon", Year: "1994"},
	{Title: "Mahjong", Year: "1996"},
	{Title: "Swallowtail Butterfly", Year: "1996"},
	{Title: "King of Comedy", Year: "1999"},
	{Title: "Devils on the Doorstep", Year: "1999"},
	{Title: "WALL-E", Year: "2008"},
	{Title: "The Pork of Music", Year: "2012"},
}

// Runner holds the dependencies for CLI commands and provides a method per
// command action.
type Runner struct {
	logger *log.Logger
}

// NewRunner creates a Runner logging through logger.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{logger: logger}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Run the watchlist web server",
			Flags:  []cli.Flag{configFlag()},
			Action: r.Serve,
		},
		{
			Name:  "initdb",
			Usage: "Initialize the database",
			Flags: []cli.Flag{
				configFlag(),
				&cli.BoolFlag{
					Name:  "drop",
					Usage: "Create after drop",
				},
			},
			Action: r.InitDB,
		},
		{
			Name:  "admin",
			Usage: "Create or update the first account",
			Flags: []cli.Flag{
				configFlag(),
				&cli.StringFlag{
					Name:     "username",
					Usage:    "The username used to login",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "password",
					Usage:    "The password used to login",
					Required: true,
				},
			},
			Action: r.Admin,
		},
		{
			Name:  "forge",
			Usage: "Generate fake data",
			Flags: []cli.Flag{
				configFlag(),
				&cli.StringFlag{
					Name:     "username",
					Usage:    "The username used to login",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "name",
					Usage:    "Your name",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "password",
					Usage:    "The password used to login",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "movies",
					Usage: "Seed the sample movie list as well",
					Value: true,
				},
			},
			Action: r.Forge,
		},
	}
}

// open loads configuration and connects to the database for a command.
func (r *Runner) open(cmd *cli.Command) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// Serve runs the HTTP server until it fails or is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	users := store.NewUserStore(db)
	movies := store.NewMovieStore(db)
	sessions := auth.NewManager(cfg.Session, users)
	handler := handlers.New(users, movies, sessions, r.logger)

	engine := gin.Default()
	handler.Mount(engine)

	r.logger.Info("starting server", "addr", cfg.Server.Addr, "database", cfg.Database.Path)
	return engine.Run(cfg.Server.Addr)
}

// InitDB creates the schema; with --drop it discards all data first.
func (r *Runner) InitDB(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("drop") {
		r.logger.Info("dropping tables", "database", cfg.Database.Path)
		if err := database.Reset(db); err != nil {
			return err
		}
	}
	r.logger.Info("initialized database", "database", cfg.Database.Path)
	return nil
}

// Admin creates the first account, or resets its name and password when
// one already exists.
func (r *Runner) Admin(ctx context.Context, cmd *cli.Command) error {
	_, db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	username := cmd.String("username")
	password := cmd.String("password")
	users := store.NewUserStore(db)

	user, err := users.First()
	switch {
	case err == nil:
		r.logger.Info("updating user", "username", username)
		user.Name = username
		if err := user.SetPassword(password); err != nil {
			return err
		}
		if err := users.Save(user); err != nil {
			return err
		}
	case errors.Is(err, store.ErrNotFound):
		r.logger.Info("creating user", "username", username)
		user = &models.User{Name: "Admin", Username: username}
		if err := user.SetPassword(password); err != nil {
			return err
		}
		if err := users.Create(user); err != nil {
			return err
		}
	default:
		return err
	}

	r.logger.Info("done")
	return nil
}

// Forge seeds an account and, unless --movies=false, the sample movie
// list owned by it.
func (r *Runner) Forge(ctx context.Context, cmd *cli.Command) error {
	_, db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	username := cmd.String("username")
	users := store.NewUserStore(db)
	movies := store.NewMovieStore(db)

	r.logger.Info("creating user", "username", username)
	user := models.User{Name: cmd.String("name"), Username: username}
	if err := user.SetPassword(cmd.String("password")); err != nil {
		return err
	}
	if err := users.Create(&user); err != nil {
		return err
	}

	if cmd.Bool("movies") {
		r.logger.Info("forging movies", "count", len(seedMovies))
		for _, m := range seedMovies {
			if _, err := movies.Create(m.Title, m.Year, username); err != nil {
				return err
			}
		}
	}

	r.logger.Info("done")
	return nil
}
