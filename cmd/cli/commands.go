package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/internal/auth"
	"github.com/qashsolutions/myhealthguide/internal/server"
	"github.com/qashsolutions/myhealthguide/pkg/clients/gmailclient"
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/services"
)

// newNotifier builds the Gmail notifier when configured, otherwise a no-op
func newNotifier() (services.Notifier, error) {
	gmail := app.cfg.Gmail
	if gmail.TokenFile == "" || gmail.CredentialsFile == "" {
		app.logger.Warn("Gmail not configured, notifications disabled")
		return services.NopNotifier{}, nil
	}

	client, err := gmailclient.NewClient(app.ctx, gmail.CredentialsFile, gmail.TokenFile, gmail.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return client, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier, err := newNotifier()
			if err != nil {
				return err
			}

			rdb := redis.NewClient(&redis.Options{
				Addr:     app.cfg.Redis.Addr,
				Password: app.cfg.Redis.Password,
				DB:       app.cfg.Redis.DB,
			})
			defer rdb.Close()

			jwtManager := auth.NewJWTManager(app.cfg.Auth.JWTSecret, app.cfg.Auth.TokenLifetime)

			srv := server.NewServer(app.database, notifier, jwtManager, rdb, app.logger, server.Options{
				OfferTTL:           app.cfg.Scheduling.OfferTTL,
				RepeatHorizonDays:  app.cfg.Scheduling.RepeatHorizonDays,
				DailyCoverageQuota: app.cfg.Scheduling.DailyCoverageQuota,
			})

			ctx, stop := signal.NotifyContext(app.ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, app.cfg.Server.Addr)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}

func expireOffersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expireOffers",
		Short: "Expire overdue cascade offers and advance their chains",
		Long:  `Marks active offers past their deadline as expired and activates the next offer in each chain. Intended to run periodically from cron.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier, err := newNotifier()
			if err != nil {
				return err
			}

			result, err := services.ExpireOffers(app.ctx, app.database, notifier, app.logger,
				time.Now().UTC(), app.cfg.Scheduling.OfferTTL)
			if err != nil {
				return err
			}

			fmt.Printf("\nOffer expiry sweep complete\n\n")
			fmt.Printf("Expired:  %d\n", result.Expired)
			fmt.Printf("Advanced: %d\n", result.Advanced)
			fmt.Printf("Unfilled: %d\n", result.Unfilled)
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seedAdmin <agency_id> <email> <first_name> <last_name> <password>",
		Short: "Create an initial admin caregiver account",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			agencyID, email, firstName, lastName, password := args[0], args[1], args[2], args[3], args[4]

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			caregiver := model.Caregiver{
				ID:           uuid.New().String(),
				FirstName:    firstName,
				LastName:     lastName,
				Email:        email,
				AgencyID:     agencyID,
				Role:         model.RoleAdmin,
				Active:       true,
				PasswordHash: hash,
			}

			if err := app.database.InsertCaregiver(app.ctx, caregiver); err != nil {
				return err
			}

			app.logger.Info("Admin account created",
				zap.String("caregiver_id", caregiver.ID),
				zap.String("agency_id", agencyID))
			fmt.Printf("\nAdmin account created: %s (%s)\n", caregiver.FullName(), caregiver.ID)
			return nil
		},
	}
}
