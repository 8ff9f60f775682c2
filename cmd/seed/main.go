package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/digital-legacy/config"
	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/bootstrap"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open store")
	}
	defer closeStore()

	users := application.NewUserService(store, nil, nil, logger)
	accounts := application.NewAccountService(store, logger)
	contacts := application.NewContactService(store, nil, logger)

	email := "demo@example.com"
	password := "password123"
	user, err := users.Register(ctx, application.RegisterInput{Name: "Demo User", Email: email, Password: password})
	if errors.Is(err, application.ErrEmailTaken) {
		logger.WithField("email", email).Info("demo user already seeded")
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", user.ID, email, password)

	seedAccounts := []application.AccountInput{
		{ServiceName: "Gmail", Category: "Email", Identifier: email, Action: "delete"},
		{ServiceName: "Facebook", Category: "Social Media", Identifier: "demo.user", Action: "memorialize", Notes: "Keep the photos visible to family"},
		{ServiceName: "Dropbox", Category: "Cloud Storage", Identifier: email, Action: "archive"},
		{ServiceName: "Chase", Category: "Banking", Identifier: "****1234", Action: "none"},
	}
	for _, in := range seedAccounts {
		a, err := accounts.Create(ctx, user.ID, in)
		if err != nil {
			logger.WithError(err).Fatalf("failed to seed account %s", in.ServiceName)
		}
		fmt.Printf("seeded account: id=%d service=%s action=%s\n", a.ID, a.ServiceName, a.Action)
	}

	c, err := contacts.Create(ctx, user.ID, application.ContactInput{
		Name: "Casey Contact", Relationship: "Sibling", Email: "executor@example.com", IsPrimary: true,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to seed contact")
	}
	fmt.Printf("seeded contact: id=%d email=%s\n", c.ID, c.Email)
}
