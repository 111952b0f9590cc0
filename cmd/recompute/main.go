// Command recompute rewrites stored raised totals from the donation rows,
// for one campaign or all of them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"alumni/internal/adapter"
	"alumni/internal/fundraising"
	"alumni/internal/infra"
	"alumni/internal/money"
)

func main() {
	var (
		campaignFlag string
		jsonFlag     bool
		timeoutFlag  time.Duration
	)
	flag.StringVar(&campaignFlag, "campaign", "", "campaign ID to recompute (default: all campaigns)")
	flag.BoolVar(&jsonFlag, "json", false, "print results as JSON lines")
	flag.DurationVar(&timeoutFlag, "timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		exitWithError(fmt.Errorf("load .env: %w", err))
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	store, closeStore, err := adapter.OpenStore(ctx, cfg, logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open ledger: %w", err))
	}
	defer closeStore()
	svc := fundraising.NewService(store, logger)

	var results []fundraising.RecomputeResult
	if id := strings.TrimSpace(campaignFlag); id != "" {
		res, err := svc.RecomputeCampaign(ctx, id)
		if err != nil {
			exitWithError(fmt.Errorf("failed to recompute campaign %s: %w", id, err))
		}
		results = append(results, res)
	} else {
		results, err = svc.RecomputeAll(ctx)
		if err != nil {
			exitWithError(fmt.Errorf("failed to recompute campaigns: %w", err))
		}
	}

	if failed := report(os.Stdout, results, jsonFlag); failed > 0 {
		exitWithError(fmt.Errorf("%d of %d campaigns failed", failed, len(results)))
	}
}

type resultLine struct {
	CampaignID string `json:"campaign_id"`
	Before     string `json:"before"`
	After      string `json:"after,omitempty"`
	Changed    bool   `json:"changed"`
	Error      string `json:"error,omitempty"`
}

func report(w io.Writer, results []fundraising.RecomputeResult, asJSON bool) int {
	failed := 0
	enc := json.NewEncoder(w)
	for _, res := range results {
		line := resultLine{CampaignID: res.CampaignID, Before: money.Fixed(res.Before)}
		if res.Err != nil {
			failed++
			line.Error = res.Err.Error()
		} else {
			line.After = money.Fixed(res.After)
			line.Changed = !res.Before.Equal(res.After)
		}

		if asJSON {
			_ = enc.Encode(line)
			continue
		}
		switch {
		case line.Error != "":
			fmt.Fprintf(w, "%s\tFAILED\t%s\n", line.CampaignID, line.Error)
		case line.Changed:
			fmt.Fprintf(w, "%s\t%s -> %s\n", line.CampaignID, money.Format(res.Before), money.Format(res.After))
		default:
			fmt.Fprintf(w, "%s\t%s unchanged\n", line.CampaignID, money.Format(res.After))
		}
	}
	return failed
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
