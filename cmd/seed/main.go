package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/osgiliath-dev/tradepost/internal/inventory"
	"github.com/osgiliath-dev/tradepost/internal/offers"
	"github.com/osgiliath-dev/tradepost/internal/users"
	"github.com/osgiliath-dev/tradepost/pkg/config"
	"github.com/osgiliath-dev/tradepost/pkg/db"
	dbtypes "github.com/osgiliath-dev/tradepost/pkg/db/types"
	"github.com/osgiliath-dev/tradepost/pkg/logger"
	"github.com/osgiliath-dev/tradepost/pkg/migrate"
)

type seedUser struct {
	username string
	race     string
	holdings map[string]int
}

var seedUsers = []seedUser{
	{username: "Gandalf", race: "wizard", holdings: map[string]int{"staff": 5, "axe": 5, "bow": 5}},
	{username: "Legolas", race: "elf", holdings: map[string]int{"bow": 5, "axe": 5, "sword": 5}},
	{username: "Galadriel", race: "elf", holdings: map[string]int{"staff": 10}},
	{username: "Thorin", race: "dwarf"},
	{username: "Bofur", race: "dwarf"},
	{username: "Bifur", race: "dwarf"},
	{username: "Saruman", race: "wizard"},
	{username: "Elrond", race: "elf"},
	{username: "Frodo", race: "hobbit"},
}

// Seeds the development database with a small fellowship of traders, their
// starting armories, and one pending offer between the first two.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	if cfg.App.IsProd() {
		logg.Warn(ctx, "refusing to seed a prod environment")
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.SQLDB()
	if err != nil {
		logg.Error(ctx, "failed to get sql handle", err)
		os.Exit(1)
	}
	if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, migrate.DefaultDir, "up"); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	offersRepo := offers.NewRepository(dbClient.DB())

	offersService, err := offers.NewService(offers.ServiceParams{
		Client:        dbClient,
		UserRepo:      usersRepo,
		InventoryRepo: inventoryRepo,
		OfferRepo:     offersRepo,
	})
	if err != nil {
		logg.Error(ctx, "failed to create offers service", err)
		os.Exit(1)
	}

	ids := make(map[string]uuid.UUID, len(seedUsers))
	for _, seed := range seedUsers {
		existing, findErr := usersRepo.FindByUsername(ctx, seed.username)
		if findErr == nil {
			ids[seed.username] = existing.ID
			logg.Info(logg.WithUserID(ctx, existing.ID.String()), "user already seeded")
			continue
		}

		created, createErr := usersRepo.Create(ctx, users.CreateUserDTO{
			Username: seed.username,
			Race:     seed.race,
		})
		if createErr != nil {
			logg.Error(ctx, "failed to seed user "+seed.username, createErr)
			os.Exit(1)
		}
		ids[seed.username] = created.ID

		for item, qty := range seed.holdings {
			if grantErr := inventoryRepo.Grant(ctx, created.ID, item, qty); grantErr != nil {
				logg.Error(ctx, "failed to seed inventory for "+seed.username, grantErr)
				os.Exit(1)
			}
		}
		logg.Info(logg.WithUserID(ctx, created.ID.String()), "seeded user "+seed.username)
	}

	offer, err := offersService.Propose(ctx, offers.ProposeParams{
		SenderID:      ids["Gandalf"],
		ReceiverID:    ids["Legolas"],
		SenderItems:   dbtypes.ItemMap{"staff": 2},
		ReceiverItems: dbtypes.ItemMap{"sword": 2},
	})
	if err != nil {
		logg.Warn(logg.WithField(ctx, "reason", err.Error()), "skipped seeding the opening offer")
	} else {
		logg.Info(logg.WithOfferID(ctx, offer.ID.String()), "seeded pending offer")
	}

	logg.Info(ctx, "seed complete")
}
