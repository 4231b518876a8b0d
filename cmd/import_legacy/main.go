package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/peptide-insights-backend/internal/app"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
)

const batchSize = 500

func main() {
	var dryRun bool
	var sinceRaw string
	flag.BoolVar(&dryRun, "dry-run", false, "count legacy documents without writing to Postgres")
	flag.StringVar(&sinceRaw, "since", "", "only import experiences created at or after this RFC3339 time")
	flag.Parse()

	var since time.Time
	if sinceRaw != "" {
		t, err := time.Parse(time.RFC3339, sinceRaw)
		if err != nil {
			fmt.Printf("invalid -since: %v\n", err)
			os.Exit(2)
		}
		since = t
	}

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Shutdown(ctx)

	reader := application.Clients.Legacy
	if reader == nil {
		fmt.Println("MONGO_URI must point at the legacy database")
		os.Exit(1)
	}
	dbc := dbctx.Context{Ctx: ctx}

	peptides, err := reader.FindPeptides(dbc, nil)
	if err != nil {
		fmt.Printf("load legacy peptides: %v\n", err)
		os.Exit(1)
	}
	if !dryRun {
		if err := application.Repos.Peptide.Upsert(dbc, peptides); err != nil {
			fmt.Printf("upsert peptides: %v\n", err)
			os.Exit(1)
		}
	}

	imported := 0
	batch := make([]*types.Experience, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if !dryRun {
			if err := application.Repos.Experience.Upsert(dbc, batch); err != nil {
				return err
			}
		}
		imported += len(batch)
		batch = batch[:0]
		return nil
	}
	err = reader.EachExperience(ctx, since, func(exp *types.Experience) error {
		batch = append(batch, exp)
		if len(batch) >= batchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		fmt.Printf("import experiences: %v\n", err)
		os.Exit(1)
	}

	mode := "imported"
	if dryRun {
		mode = "would import"
	}
	fmt.Printf("%s %d peptides and %d experiences\n", mode, len(peptides), imported)
}
