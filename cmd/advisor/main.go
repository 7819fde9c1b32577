package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/merchant-advisory/advisor/advisor"
	"github.com/merchant-advisory/advisor/export"
	"github.com/merchant-advisory/advisor/observability"
	"github.com/merchant-advisory/advisor/session"
)

// queryList collects repeated -query flags in order.
type queryList []string

func (q *queryList) String() string {
	return strings.Join(*q, "; ")
}

func (q *queryList) Set(value string) error {
	*q = append(*q, value)
	return nil
}

func main() {
	var queries queryList
	var (
		configFile   = flag.String("config", "", "Path to advisor config JSON file")
		advisorID    = flag.String("advisor", "", "Advisor identifier (required)")
		merchantID   = flag.String("merchant", "", "Merchant identifier, raw or mch_-prefixed (required)")
		merchantName = flag.String("name", "", "Merchant display name")
		segment      = flag.String("segment", string(session.SegmentMidMarket), "Merchant segment: small_business, mid_market, enterprise")
		detailed     = flag.Bool("detailed", false, "Include recommendation and note bodies in the state view")
		exportFormat = flag.String("export", "", "Export the session summary in this format: json, yaml, md")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Var(&queries, "query", "Query to run in the session (repeatable)")
	flag.Parse()

	if *advisorID == "" || *merchantID == "" {
		fmt.Fprintln(os.Stderr, "Usage: advisor -advisor <id> -merchant <id> [-query <text>]...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cfg := advisor.DefaultConfig()
	if *configFile != "" {
		loaded, err := advisor.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := observability.Setup(observability.Config{
		Observer: cfg.Observer,
		Logger:   logger,
	}); err != nil {
		log.Fatalf("Failed to set up observability: %v", err)
	}

	runtime, err := advisor.New(&cfg)
	if err != nil {
		log.Fatalf("Failed to create advisor runtime: %v", err)
	}
	defer runtime.Checkpoints().Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv, err := runtime.StartSession(ctx, *advisorID, *merchantID, *merchantName, session.Segment(*segment))
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	fmt.Printf("Session started: %s (%s)\n", conv.ThreadID, conv.State.MerchantID)

	for i, query := range queries {
		reply, err := runtime.RunQuery(ctx, conv, query)
		if err != nil {
			log.Fatalf("Query %d failed: %v", i+1, err)
		}
		fmt.Printf("\n[%d] %s\n  -> %s\n", i+1, query, reply)
	}

	conv.State.Render(os.Stdout, *detailed)

	if *exportFormat != "" {
		exporter, err := export.NewExporter(*exportFormat)
		if err != nil {
			log.Fatalf("Failed to create exporter: %v", err)
		}
		if err := exporter.Export(conv.State, os.Stdout); err != nil {
			log.Fatalf("Failed to export session summary: %v", err)
		}
	}
}
