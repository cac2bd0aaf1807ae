package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/images"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/get_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/list_products"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/repo"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/repo/memstore"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/attach_image"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/create_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/delete_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/update_product"
	"github.com/murkotick/ecommerce-catalog/internal/config"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/cache"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/committer"
	"github.com/murkotick/ecommerce-catalog/internal/transport/http/middleware"
	httpproduct "github.com/murkotick/ecommerce-catalog/internal/transport/http/product"
)

// app holds the wired process. Close releases the storage connections.
type app struct {
	router  *gin.Engine
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type stores struct {
	products   contracts.ProductRepo
	categories contracts.CategoryRepo
	seeder     contracts.CategorySeeder
}

func build(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	a := &app{}
	clk := clock.RealClock{}

	// 1. Storage
	var s stores
	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := memstore.New(clk)
		s = stores{products: mem, categories: mem.Categories(), seeder: mem.Categories()}
	default:
		client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("spanner.NewClient: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		cm := committer.NewAdapter(client)
		cats := repo.NewCategoryRepo(client, cm, clk)
		s = stores{
			products:   repo.NewProductRepo(client, cm, clk, log.WithField("component", "product_repo")),
			categories: cats,
			seeder:     cats,
		}
	}
	log.WithField("driver", cfg.StoreDriver).Info("catalog store ready")

	if cfg.SeedCategories {
		n, err := s.seeder.SeedCategories(ctx, domain.DefaultCategories)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("seed categories: %w", err)
		}
		if n > 0 {
			log.Infof("seeded %d categories", n)
		}
	}
	if cfg.StoreDriver == config.DriverMemory {
		if err := seedDemoProducts(ctx, s.products, s.categories, clk); err != nil {
			a.Close()
			return nil, err
		}
	}

	// 2. Category cache
	if cfg.CacheEnabled() {
		c, err := cache.Dial(ctx, cfg.RedisAddr, "catalog:category:", cfg.CategoryCacheTTL)
		if err != nil {
			log.WithError(err).Warn("category cache disabled")
		} else {
			a.closers = append(a.closers, func() { _ = c.Close() })
			s.categories = repo.NewCachedCategoryRepo(s.categories, c, log.WithField("component", "category_cache"))
		}
	}

	// 3. Images
	disk, err := images.NewDiskStore(cfg.ImageDir, cfg.ImageURLPrefix)
	if err != nil {
		a.Close()
		return nil, err
	}
	attacher := images.NewAttacher(disk, cfg.ImageMaxBytes, log.WithField("component", "images"))

	// CQRS wiring
	cmds := httpproduct.Commands{
		Create: create_product.NewInteractor(s.products, s.categories, attacher, clk, log),
		Update: update_product.NewInteractor(s.products, s.categories, attacher, log),
		Delete: delete_product.NewInteractor(s.products, attacher, log),
		Attach: attach_image.NewInteractor(s.products, attacher, log),
	}
	qrys := httpproduct.Queries{
		Get:        get_product.NewHandler(s.products, s.categories),
		List:       list_products.NewHandler(s.products, s.categories),
		Categories: queries.NewCategoryReader(s.categories),
	}
	h := httpproduct.NewHandler(cmds, qrys, cfg.ImageMaxBytes, log.WithField("component", "http"))

	// 4. Router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))
	router.Static(cfg.ImageURLPrefix, cfg.ImageDir)
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	var guard gin.HandlerFunc
	if cfg.AuthEnabled() {
		v := middleware.NewTokenVerifier(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
		guard = middleware.JWTAuth(v, log)
	} else {
		log.Warn("JWT_SIGNING_KEY not set, mutating routes are unauthenticated")
	}
	h.RegisterRoutes(router, guard)

	a.router = router
	return a, nil
}

// seedDemoProducts fills an empty in-memory catalog with two Electronics products.
func seedDemoProducts(ctx context.Context, products contracts.ProductRepo, categories contracts.CategoryRepo, clk clock.Clock) error {
	n, err := products.Count(ctx, domain.ProductFilter{})
	if err != nil || n > 0 {
		return err
	}
	cats, err := categories.List(ctx)
	if err != nil {
		return err
	}
	var electronics int64
	for _, c := range cats {
		if c.Name == "Electronics" {
			electronics = c.ID
		}
	}
	if electronics == 0 {
		return nil
	}

	demo := []domain.ProductDetails{
		{Name: "Mechanical Keyboard", Description: "RGB Backlit keyboard with blue switches", Price: domain.NewMoney(8999, 100), CategoryID: electronics},
		{Name: "Wireless Mouse", Description: "Ergonomic 2.4GHz mouse", Price: domain.NewMoney(2550, 100), CategoryID: electronics},
	}
	for _, d := range demo {
		p, err := domain.NewProduct(d, clk.Now())
		if err != nil {
			return err
		}
		if _, err := products.Insert(ctx, p); err != nil {
			return fmt.Errorf("seed %s: %w", d.Name, err)
		}
	}
	return nil
}
