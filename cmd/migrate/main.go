package main

import (
	"context"
	"flag"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	database "cloud.google.com/go/spanner/admin/database/apiv1"
	databasepb "cloud.google.com/go/spanner/admin/database/apiv1/databasepb"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/repo"
	"github.com/murkotick/ecommerce-catalog/internal/config"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/committer"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/logging"
	"github.com/murkotick/ecommerce-catalog/migrations"
)

// A tiny migration helper that applies the embedded DDL to a Cloud Spanner
// database (typically the emulator for local dev) and seeds the reference
// categories.
//
// Usage (emulator):
//
//	export SPANNER_EMULATOR_HOST=localhost:9010
//	export SPANNER_DATABASE=projects/test-project/instances/emulator-instance/databases/test-db
//	go run ./cmd/migrate
func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	seed := flag.Bool("seed", true, "insert the reference categories when the table is empty")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logging.Fallback().Fatalf("config: %v", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logging.Fallback().Fatalf("logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stmts, err := migrations.Statements()
	if err != nil {
		log.Fatalf("read DDL: %v", err)
	}

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		log.Fatalf("database admin client: %v", err)
	}
	defer admin.Close()

	op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   cfg.SpannerDatabase,
		Statements: stmts,
	})
	if err != nil {
		log.Fatalf("UpdateDatabaseDdl: %v", err)
	}
	if err := op.Wait(ctx); err != nil {
		log.Fatalf("UpdateDatabaseDdl wait: %v", err)
	}
	log.WithField("database", cfg.SpannerDatabase).Infof("applied %d DDL statements", len(stmts))

	if !*seed {
		return
	}

	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		log.Fatalf("spanner.NewClient: %v", err)
	}
	defer client.Close()

	cats := repo.NewCategoryRepo(client, committer.NewAdapter(client), clock.RealClock{})
	n, err := cats.SeedCategories(ctx, domain.DefaultCategories)
	if err != nil {
		log.Errorf("seed categories: %v", err)
		os.Exit(1)
	}
	log.Infof("seeded %d categories", n)
}
