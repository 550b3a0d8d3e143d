// Package cmd implements the CLI command structure for tood.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tood/internal/config"
	"github.com/nibzard/tood/internal/editor"
	"github.com/nibzard/tood/internal/logging"
	"github.com/nibzard/tood/internal/store"
	"github.com/nibzard/tood/internal/task"
	"github.com/nibzard/tood/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tood CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tood", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Determine the subcommand; a bare invocation lists tasks.
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "list", "ls":
		return listCommand(cfg, logger, remainingArgs)
	case "toggle":
		return toggleCommand(cfg, logger, remainingArgs)
	case "edit":
		return editCommand(cfg, logger, remainingArgs)
	case "rm", "remove":
		return rmCommand(cfg, logger, remainingArgs)
	case "export":
		return exportCommand(cfg, logger, remainingArgs)
	case "import":
		return importCommand(cfg, logger, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, logger, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the configured database, bootstrapping it on first use.
func openStore(cfg *config.Config, logger *log.Logger) (*store.Store, error) {
	logger.Debug("opening store", "db", cfg.DBPath)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

// addCommand inserts one task per argument, or opens the editor when no
// arguments are given.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tood add", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	bodies := fs.Args()
	if len(bodies) == 0 {
		body, err := editor.Open(editor.Resolve(cfg.Editor), "")
		if err != nil {
			return fmt.Errorf("running editor: %w", err)
		}
		if body == "" {
			fmt.Println("Nothing added!")
			return nil
		}
		bodies = []string{body}
	}

	added, err := st.AddAll(bodies)
	for _, t := range added {
		fmt.Printf("Added: %s\n", t.Body)
	}
	if err != nil {
		if errors.Is(err, task.ErrEmptyBody) {
			fmt.Println("Empty todo is not acceptable!")
			return nil
		}
		return err
	}
	logger.Debug("added todos", "count", len(added))
	return nil
}

// listCommand prints tasks in creation order.
func listCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tood list", flag.ContinueOnError)
	incomplete := fs.Bool("incomplete", cfg.IncompleteOnly, "Show only incomplete items")
	fs.BoolVar(incomplete, "i", cfg.IncompleteOnly, "Show only incomplete items")
	asJSON := fs.Bool("json", false, "Emit tasks as a JSON snapshot")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	filter := task.All
	if *incomplete {
		filter = task.Incomplete
	}
	tasks, err := st.List(filter)
	if err != nil {
		return err
	}

	if *asJSON {
		data, err := task.NewDocument(tasks).Encode()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	ui.WriteList(os.Stdout, tasks, !ui.IsTTY(os.Stdout))
	return nil
}

// toggleCommand flips the done flag of the targeted tasks. With no ids it
// falls back to an interactive multi-select.
func toggleCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) > 0 {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			t, err := st.Toggle(id)
			if errors.Is(err, store.ErrNotFound) {
				logger.Warn("no such task", "id", id)
				continue
			}
			if err != nil {
				return err
			}
			fmt.Printf("Toggled: %s\n", t.Body)
		}
		return nil
	}

	picked, err := pickManyTasks(st, "Which ones to toggle?")
	if err != nil || len(picked) == 0 {
		return err
	}
	toggled, err := st.ToggleAll(taskIDs(picked))
	for _, t := range toggled {
		fmt.Printf("Toggled: %s\n", t.Body)
	}
	return err
}

// editCommand rewrites one task's body in the user's editor. With no id it
// falls back to an interactive fuzzy select.
func editCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var target task.Task
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		target, err = st.Get(id)
		if err != nil {
			return err
		}
	} else {
		if err := requireTTY(); err != nil {
			return err
		}
		tasks, err := st.List(task.All)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("Nothing to edit!")
			return nil
		}
		picked, ok, err := ui.Pick(tasks, "Which one to edit?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing selected.")
			return nil
		}
		target = picked
	}

	body, err := editor.Open(editor.Resolve(cfg.Editor), target.Body)
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	if task.ValidateBody(body) != nil {
		fmt.Println("Empty todo is not acceptable!")
		return nil
	}

	updated, err := st.Edit(target.ID, body)
	if err != nil {
		return err
	}
	fmt.Printf("Updated to: %s\n", updated.Body)
	return nil
}

// rmCommand deletes the targeted tasks. With no ids it falls back to an
// interactive multi-select.
func rmCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) > 0 {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			t, err := st.Remove(id)
			if errors.Is(err, store.ErrNotFound) {
				logger.Warn("no such task", "id", id)
				continue
			}
			if err != nil {
				return err
			}
			fmt.Printf("Removed todo: %s\n", t.Body)
		}
		return nil
	}

	picked, err := pickManyTasks(st, "Which ones to remove?")
	if err != nil || len(picked) == 0 {
		return err
	}
	removed, err := st.RemoveAll(taskIDs(picked))
	for _, t := range removed {
		fmt.Printf("Removed todo: %s\n", t.Body)
	}
	return err
}

// exportCommand writes a JSON snapshot of the whole table.
func exportCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("tood export", flag.ContinueOnError)
	out := fs.String("o", "", "Write the snapshot to a file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	tasks, err := st.List(task.All)
	if err != nil {
		return err
	}
	data, err := task.NewDocument(tasks).Encode()
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Printf("Exported %d todos to %s\n", len(tasks), *out)
	return nil
}

// importCommand validates a JSON snapshot and inserts its tasks with fresh ids.
func importCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tood import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	doc, err := task.DecodeDocument(data)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	inserted, err := st.Import(doc.Tasks)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d todos\n", len(inserted))
	return nil
}

// tuiCommand launches the interactive task browser.
func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if err := requireTTY(); err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return ui.RunTUI(ctx, st)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("tood version %s\n", Version)
	return nil
}

// pickManyTasks runs the multi-select prompt over all tasks. A nil slice
// with a nil error means there was nothing to do or nothing was selected.
func pickManyTasks(st *store.Store, prompt string) ([]task.Task, error) {
	if err := requireTTY(); err != nil {
		return nil, err
	}
	tasks, err := st.List(task.All)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		fmt.Println("Nothing to do!")
		return nil, nil
	}
	picked, err := ui.PickMany(tasks, prompt)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		fmt.Println("Nothing selected.")
		return nil, nil
	}
	return picked, nil
}

func requireTTY() error {
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("interactive selection requires a terminal; pass explicit ids")
	}
	return nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func taskIDs(tasks []task.Task) []int64 {
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tood - A simple todo list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tood [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [text...]     Add todos; opens your editor when no text is given")
	fmt.Fprintln(w, "  list              List todos (default command)")
	fmt.Fprintln(w, "  toggle [id...]    Toggle todos done/undone; interactive when no ids")
	fmt.Fprintln(w, "  edit [id]         Rewrite a todo in your editor; interactive when no id")
	fmt.Fprintln(w, "  rm [id...]        Remove todos; interactive when no ids")
	fmt.Fprintln(w, "  export [-o file]  Write all todos as a JSON snapshot")
	fmt.Fprintln(w, "  import <file>     Insert todos from a JSON snapshot")
	fmt.Fprintln(w, "  tui               Launch the interactive task browser")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list' command):")
	fmt.Fprintln(w, "  -i, -incomplete")
	fmt.Fprintln(w, "        Show only incomplete items")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Emit tasks as a JSON snapshot")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Write the snapshot to a file instead of stdout")
}
