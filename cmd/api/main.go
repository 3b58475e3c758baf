package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/davitran/storefront/internal/cart"
	"github.com/davitran/storefront/internal/catalog"
	"github.com/davitran/storefront/internal/config"
	"github.com/davitran/storefront/internal/httpx"
	"github.com/davitran/storefront/internal/invoices"
	kafkax "github.com/davitran/storefront/internal/kafka"
	"github.com/davitran/storefront/internal/postgres"
	"github.com/davitran/storefront/internal/redisx"
	"github.com/davitran/storefront/internal/stats"
	"github.com/davitran/storefront/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, invoices.TopicInvoiceCreated, 1024)
	createdProd.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, invoices.TopicInvoiceStatus, 1024)
	statusProd.Start(ctx)

	// Stores
	catalogRepo := &catalog.Repo{DB: db}
	userRepo := &users.Repo{DB: db}
	invoiceRepo := &invoices.Repo{DB: db}
	cartStore := &cart.Store{RDB: rdb}
	profileStore := &users.ProfileStore{RDB: rdb}
	statusCache := &redisx.InvoiceStatusCache{RDB: rdb}
	statsCache := &stats.Cache{RDB: rdb}

	// Handlers
	auth := httpx.Auth{Secret: []byte(cfg.JWTSecret)}
	ph := &httpx.ProductsHandler{Store: catalogRepo}
	ah := &httpx.AuthHandler{Store: userRepo, Secret: []byte(cfg.JWTSecret)}
	ch := &httpx.CartHandler{Carts: cartStore, Catalog: catalogRepo}
	ih := &httpx.InvoicesHandler{
		Store:         invoiceRepo,
		Carts:         cartStore,
		Created:       createdProd,
		StatusChanged: statusProd,
		Cache:         statusCache,
		Service:       cfg.ServiceName,
	}
	dh := &httpx.DashboardHandler{Cache: statsCache, Invoices: invoiceRepo, Products: catalogRepo}
	prh := &httpx.ProfileHandler{Store: profileStore}

	router := httpx.NewRouter()
	ph.Register(router)
	ah.Register(router)
	router.Group(func(r chi.Router) {
		r.Use(auth.Optional)
		ch.Register(r)
		ih.Register(r)
	})
	router.Group(func(r chi.Router) {
		r.Use(auth.Require)
		prh.Register(r)
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		ph.RegisterAdmin(r)
		ih.RegisterAdmin(r)
		dh.RegisterAdmin(r)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	createdProd.Close()
	statusProd.Close()
	cancel()
	createdProd.WaitClosed()
	statusProd.WaitClosed()
}
