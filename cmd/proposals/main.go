package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mizow1/satelite-column11/db"
	"github.com/mizow1/satelite-column11/internal/proposal"
	"github.com/mizow1/satelite-column11/internal/repository"
	"github.com/mizow1/satelite-column11/pkg/mail"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	claimed, err := db.ClaimProposalRun(time.Now())
	if err != nil {
		log.Fatalf("error claiming proposal run: %v", err)
	}
	if !claimed {
		slog.Info("proposal batch already ran today, exiting")
		return
	}

	userRepo := repository.NewUserRepository(db.DB)
	siteRepo := repository.NewSiteRepository(db.DB)
	outlineRepo := repository.NewOutlineRepository(db.DB)
	usageRepo := repository.NewUsageRepository(db.DB)

	service := proposal.NewService(userRepo, siteRepo, outlineRepo, usageRepo, mail.NewSMTPSender())

	if err := service.RunBatch(); err != nil {
		log.Fatalf("error running proposal batch: %v", err)
	}

	slog.Info("proposal batch complete")
}
