package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/davitran/storefront/internal/config"
	"github.com/davitran/storefront/internal/invoices"
	kafkax "github.com/davitran/storefront/internal/kafka"
	"github.com/davitran/storefront/internal/redisx"
	"github.com/davitran/storefront/internal/stats"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stats.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-stats",
	}

	group := getenv("STATS_GROUP", "stats-worker")
	workers := mustAtoi(os.Getenv("STATS_WORKERS"), "4")

	// one consumer per invoice topic, same handler
	topics := []string{invoices.TopicInvoiceCreated, invoices.TopicInvoiceStatus}
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		log.Printf("stats consumer started: group=%s topic=%s workers=%d", group, topic, workers)
		g.Go(func() error {
			return cons.Start(gctx, svc.HandleInvoiceEvent)
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumers...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
