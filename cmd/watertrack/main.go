// Command watertrack is a terminal front-end for the intake tracker.
//
// Every invocation is an activation: the day-rollover check runs before
// the subcommand.
//
//	watertrack [-db path] [-tz zone] <command> [args]
//
//	status            show today
//	add <ml>          log an amount
//	quick <index>     log a configured quick amount
//	delete <i>...     delete records by index
//	target <ml>       set today's and the default target
//	reset [-yes]      clear today (archives it when confirmed)
//	history           list archived days
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/warp/intake-engine/config"
	"github.com/warp/intake-engine/generic"
	"github.com/warp/intake-engine/hydration"
	"github.com/warp/intake-engine/store/sqlite"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("watertrack: ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	fs := flag.NewFlagSet("watertrack", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	zone := fs.String("tz", cfg.TimeZone, "IANA time zone that defines day boundaries")
	verbose := fs.Bool("v", false, "log tracker activity")
	fs.Parse(os.Args[1:])
	cfg.DBPath, cfg.TimeZone = *dbPath, *zone

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	calendar, err := cfg.Calendar()
	if err != nil {
		fatal(err)
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	defaults := cfg.Defaults()
	tracker, err := hydration.NewDayTracker(store, hydration.Options{
		Clock:    generic.SystemClock{},
		Calendar: calendar,
		Defaults: &defaults,
	})
	if err != nil {
		fatal(err)
	}

	if err := run(context.Background(), tracker, fs.Args(), os.Stdout); err != nil {
		store.Close()
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
	os.Exit(1)
}

var errUsage = errors.New("usage: watertrack [status|add ml|quick i|delete i...|target ml|reset [-yes]|history]")

func run(ctx context.Context, tracker *hydration.DayTracker, args []string, out io.Writer) error {
	outcome, err := tracker.ResetIfNeeded(ctx)
	if err != nil {
		return err
	}
	if outcome == hydration.OutcomeStale {
		fmt.Fprintln(out, mutedStyle.Render("Showing "+tracker.Snapshot().LastSavedDay.String()+"; auto-reset is off. Run `watertrack reset` to start today."))
	}

	cmd := "status"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "status":
	case "add":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if _, err := tracker.Add(ctx, n); err != nil {
			return err
		}
	case "quick":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if _, err := tracker.AddQuick(ctx, n); err != nil {
			return err
		}
	case "delete":
		indices := make([]int, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("index %q: %w", a, err)
			}
			indices = append(indices, n)
		}
		if _, err := tracker.DeleteRecords(ctx, indices...); err != nil {
			return err
		}
	case "target":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if err := tracker.UpdateTarget(ctx, n); err != nil {
			return err
		}
	case "reset":
		rfs := flag.NewFlagSet("reset", flag.ContinueOnError)
		rfs.SetOutput(out)
		yes := rfs.Bool("yes", false, "confirm discarding today's records")
		if err := rfs.Parse(args); err != nil {
			return err
		}
		archived, err := tracker.ManualReset(ctx, *yes)
		if errors.Is(err, hydration.ErrConfirmationRequired) {
			return fmt.Errorf("%w (rerun with -yes)", err)
		}
		if err != nil {
			return err
		}
		if archived != nil {
			fmt.Fprintln(out, mutedStyle.Render("Archived "+archived.Day.String()))
		}
	case "history":
		entries, err := tracker.History().All(ctx)
		if err != nil {
			return err
		}
		stats, err := tracker.History().Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderHistory(entries, stats))
		return nil
	default:
		return errUsage
	}

	settings, err := tracker.Settings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderToday(tracker.Snapshot(), settings))
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", args[0], err)
	}
	return n, nil
}
