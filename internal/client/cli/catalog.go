package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
)

// List syncs the catalog (serving from cache while it is fresh) and prints
// the result as a table.
func (a *App) List(ctx context.Context) error {
	a.catalog.Sync(ctx, false)
	return a.renderCatalog()
}

// Sync runs a sync honoring the freshness policy and reports the outcome.
func (a *App) Sync(ctx context.Context) error {
	a.catalog.Sync(ctx, false)
	return a.reportOutcome()
}

// Refresh forces a round-trip to the origin regardless of cache freshness.
func (a *App) Refresh(ctx context.Context) error {
	a.catalog.Sync(ctx, true)
	return a.reportOutcome()
}

// Reset drops the local cache and the freshness marker, then resyncs from
// scratch. The recovery path for a cache gone bad.
func (a *App) Reset(ctx context.Context) error {
	a.catalog.ResetAndResync(ctx)
	return a.reportOutcome()
}

// Show prints a single country in detail. The id comes from the command
// argument or, failing that, from an interactive prompt.
func (a *App) Show(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		raw, err = getSimpleText(a.reader, "Enter country id", os.Stdout)
		if err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Usage: show <id> (ids are listed by 'list')")
		return err
	}

	country, err := a.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// ids are reassigned when the catalog is replaced, so a stale
			// one simply misses
			printlnFn(fmt.Sprintf("No country with id %d; run 'list' for current ids.", id))
			return nil
		}
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("#%d %s", country.ID, country.Name))
	printlnFn("  Region:   " + country.Region)
	printlnFn("  Capital:  " + country.Capital)
	printlnFn("  Currency: " + country.Currency)
	printlnFn("  Language: " + country.Language)
	if country.Flag != "" {
		printlnFn("  Flag:     " + country.Flag)
	}
	return nil
}

// Status prints connectivity, session and cache freshness in one glance.
func (a *App) Status(ctx context.Context) error {
	mode := string(a.Mode)
	if mode == "" {
		mode = "unknown"
	}
	printlnFn(fmt.Sprintf("Origin: %s (%s)", a.config.ServerEndpointAddr, mode))

	if a.isLoggedIn() {
		printlnFn("Logged in as: " + a.userName)
	} else {
		printlnFn("Not logged in.")
	}

	last := a.repos.SyncMark.LastSyncTime(ctx)
	if last.IsZero() {
		printlnFn("Last successful sync: never")
	} else {
		printlnFn(fmt.Sprintf("Last successful sync: %s (%s ago)",
			last.Format(time.RFC3339), time.Since(last).Round(time.Second)))
	}

	st := a.feed.Snapshot()
	printlnFn(fmt.Sprintf("Cached countries: %d", len(st.Data)))
	return nil
}

// renderCatalog prints the current state as a table. When the last refresh
// failed the previous known-good data is shown with a warning, matching the
// catalog service contract of preserving data on failure.
func (a *App) renderCatalog() error {
	st := a.feed.Snapshot()

	if st.Err {
		printlnFn("Sync failed; showing last known data.")
	}
	if len(st.Data) == 0 {
		printlnFn("Catalog is empty.")
		return nil
	}

	printlnFn(fmt.Sprintf("%4s  %-32s %-16s %s", "ID", "NAME", "REGION", "CAPITAL"))
	for _, c := range st.Data {
		printlnFn(fmt.Sprintf("%4d  %-32s %-16s %s", c.ID, c.Name, c.Region, c.Capital))
	}
	return nil
}

// reportOutcome prints a one-line summary of the state left by the last
// sync/refresh/reset.
func (a *App) reportOutcome() error {
	st := a.feed.Snapshot()
	if st.Err {
		printlnFn(fmt.Sprintf("Sync failed; keeping %d cached countries.", len(st.Data)))
		return nil
	}
	printlnFn(fmt.Sprintf("In sync: %d countries.", len(st.Data)))
	return nil
}
