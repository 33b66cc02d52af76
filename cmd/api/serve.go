package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/streaks/internal/api"
	"github.com/limbo/streaks/internal/repository"
	"github.com/limbo/streaks/internal/service"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/cleanup"
	"github.com/limbo/streaks/pkg/config"
	jwtservice "github.com/limbo/streaks/pkg/jwt_service"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, config.New())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	defer func() {
		if cerr := cleanup.CleanUp(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	secret := cfg.GetString("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	loc, err := cfg.Location()
	if err != nil {
		return errors.New("invalid CALENDAR_TIMEZONE: " + err.Error())
	}

	pool, err := repository.NewPool(ctx, dbConfig(cfg))
	if err != nil {
		return err
	}
	usersRepo := repository.NewUsersRepo(pool)
	habitsRepo := repository.NewHabitsRepo(pool)
	checksRepo := repository.NewHabitChecksRepo(pool)

	clock := calendar.SystemClock{Location: loc}
	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo),
		HabitsService:      service.NewHabitsService(habitsRepo, checksRepo, clock),
		HabitChecksService: service.NewHabitChecksService(habitsRepo, checksRepo, clock),
		JwtService:         jwtservice.New(secret, cfg.GetDurationOr("JWT_TTL", time.Hour)),
	})
	slog.Info("calendar configured", slog.String("timezone", loc.String()))
	if err = serv.Run(ctx, cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
