package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/kvit-s/patchkit/internal/config"
	"github.com/kvit-s/patchkit/internal/patch"
	"github.com/kvit-s/patchkit/internal/render"
	"github.com/kvit-s/patchkit/internal/review"
	"github.com/kvit-s/patchkit/internal/runner"
	"github.com/kvit-s/patchkit/internal/tui"
	"github.com/kvit-s/patchkit/internal/workspace"
)

// Version info set by ldflags at build time
var (
	version    = "dev"
	commitHash = "dev"
	commitDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: built-in defaults)")
	logFile := flag.String("log", "", "log file path (empty to disable)")
	yes := flag.Bool("yes", false, "apply every hunk without asking")
	reject := flag.Bool("reject", false, "dry run: plan and report hunks, change nothing")
	interactive := flag.Bool("interactive", false, "review hunks one keypress at a time")
	useTUI := flag.Bool("tui", false, "review hunks in a full-screen interface")
	follow := flag.Bool("follow", false, "treat stdin as a live stream and preview hunks as they settle")
	quiet := flag.Bool("quiet", false, "suppress non-error output")
	showVersion := flag.Bool("version", false, "show version information and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("%s-%s-%s\n", version, commitDate, commitHash)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: patchkit [flags] <target-file> < blocks.txt")
		flag.PrintDefaults()
		os.Exit(2)
	}
	target := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlagOverrides(cfg, *yes, *interactive, *useTUI)

	logPath := *logFile
	if logPath == "" {
		logPath = cfg.Log.Path
	}
	logger, err := runner.NewLogger(logPath, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logger.Close()

	if cfg.Workspace.Lock && cfg.Workspace.Root != "" {
		lock, err := workspace.AcquireLock(cfg.Workspace.Root)
		if err != nil {
			log.Fatal(err)
		}
		defer lock.Release()
	}

	r := runner.New(cfg, logger)
	w := render.NewWriter()
	w.SetQuiet(*quiet)

	var runErr error
	if *follow {
		runErr = runFollow(r, w, target, cfg.Apply.Mode, *reject)
	} else {
		markup, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
		runErr = runOnce(r, w, target, string(markup), cfg.Apply.Mode, *reject)
	}
	if runErr != nil {
		w.Error(runErr)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyFlagOverrides lets mode flags win over the config file.
func applyFlagOverrides(cfg *config.Config, yes, interactive, useTUI bool) {
	switch {
	case yes:
		cfg.Apply.Mode = "all"
	case interactive:
		cfg.Apply.Mode = "interactive"
	case useTUI:
		cfg.Apply.Mode = "tui"
	}
}

// runOnce plans a complete markup input and resolves it per the apply mode.
func runOnce(r *runner.Runner, w *render.Writer, target, markup, mode string, dryRun bool) error {
	plan, err := r.Plan(target, markup, true)
	if err != nil {
		return err
	}
	return resolvePlan(r, w, plan, target, mode, dryRun)
}

// resolvePlan renders the plan's hunks and resolves them per the apply mode.
func resolvePlan(r *runner.Runner, w *render.Writer, plan *runner.Plan, target, mode string, dryRun bool) error {
	for i, h := range plan.Hunks {
		w.Hunk(i, h)
	}

	if dryRun {
		w.Summary(target, 0, 0)
		return nil
	}

	switch mode {
	case "interactive":
		return resolveInteractive(r, w, plan, target)
	case "tui":
		return resolveTUI(r, w, plan, target)
	default:
		if _, err := r.ApplyAll(plan); err != nil {
			return err
		}
		w.Summary(target, len(plan.Hunks), 0)
		return nil
	}
}

func resolveInteractive(r *runner.Runner, w *render.Writer, plan *runner.Plan, target string) error {
	session, err := r.NewSession(plan)
	if err != nil {
		return err
	}
	if err := review.New(w, nil).Run(session); err != nil {
		if errors.Is(err, review.ErrAborted) {
			r.Sessions().Remove(session.ID())
			w.Summary(target, 0, 0)
			return nil
		}
		return err
	}
	return finishSession(r, w, session, target)
}

func resolveTUI(r *runner.Runner, w *render.Writer, plan *runner.Plan, target string) error {
	session, err := r.NewSession(plan)
	if err != nil {
		return err
	}
	aborted, err := tui.Run(session, target)
	if err != nil {
		return err
	}
	if aborted {
		r.Sessions().Remove(session.ID())
		return nil
	}
	return finishSession(r, w, session, target)
}

// finishSession writes a fully resolved session to disk and reports the
// commit/reject tally.
func finishSession(r *runner.Runner, w *render.Writer, session *patch.ApplySession, target string) error {
	committed, rejected := 0, 0
	for i := range session.Hunks() {
		switch session.HunkState(i) {
		case patch.HunkCommitted:
			committed++
		case patch.HunkRejected:
			rejected++
		}
	}
	if err := r.ResolveSession(session, target); err != nil {
		return err
	}
	w.Summary(target, committed, rejected)
	return nil
}

// runFollow consumes stdin as a growing stream, re-planning on each line
// and previewing hunks as they stabilize. Once stdin closes the final plan
// is resolved like a normal run.
func runFollow(r *runner.Runner, w *render.Writer, target, mode string, dryRun bool) error {
	streamer := runner.NewStreamer(r, target)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var markup string
	for scanner.Scan() {
		markup += scanner.Text() + "\n"
		event, err := streamer.Update(markup, time.Now())
		if err != nil {
			return err
		}
		if event.Deferred {
			continue
		}
		for i, h := range event.Plan.Hunks {
			w.StreamingHunk(i, h, event.Classes[i])
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	plan, err := streamer.Finish(markup)
	if err != nil {
		return err
	}
	return resolvePlan(r, w, plan, target, mode, dryRun)
}
