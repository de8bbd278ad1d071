package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Buchenkov/PlanBoard/internal/adapters/storage/sqlite"
	"github.com/Buchenkov/PlanBoard/internal/app"
	"github.com/Buchenkov/PlanBoard/internal/config"
	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/Buchenkov/PlanBoard/internal/listing"
	"github.com/Buchenkov/PlanBoard/internal/planner"
	"github.com/Buchenkov/PlanBoard/internal/platform"
	"github.com/Buchenkov/PlanBoard/internal/prefs"
	"github.com/Buchenkov/PlanBoard/internal/schedule"
	"github.com/Buchenkov/PlanBoard/internal/tui"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// version is stamped at release build time.
var version = "dev"

// program is the part of *tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// programFactory builds the interactive program; tests swap it out.
var programFactory = func(ctx context.Context, m tea.Model) program {
	return tea.NewProgram(m, tea.WithContext(ctx))
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// run builds the command tree and executes args against it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(""))
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// newRootCommand wires the planboard command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{appName: "planboard", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("PLANBOARD_DEV_MODE"); ok {
		flags.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("PLANBOARD_APP_NAME")); envApp != "" {
		flags.appName = envApp
	}

	runTUI := func(cmd *cobra.Command, _ []string) error {
		return runTUICommand(cmd.Context(), flags, stderr)
	}
	root := &cobra.Command{
		Use:           "planboard",
		Short:         "A single-user task planner for the terminal",
		Long:          "PlanBoard keeps a local task table with due dates, priorities and status filters.\nRun without a command to open the interactive board.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to config TOML")
	pf.StringVar(&flags.dbPath, "db", "", "path to sqlite database")
	pf.StringVar(&flags.appName, "app", flags.appName, "application name for config/data path resolution")
	pf.BoolVar(&flags.devMode, "dev", flags.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the interactive board",
			Args:  cobra.NoArgs,
			RunE:  runTUI,
		},
		newPathsCommand(flags, stdout),
		newListCommand(flags, stdout, stderr),
		newAddCommand(flags, stdout, stderr),
		newExportCommand(flags, stdout, stderr),
		newImportCommand(flags, stdout, stderr),
		newCalendarCommand(flags, stdout, stderr),
	)
	return root
}

// newPathsCommand prints the resolved per-user locations.
func newPathsCommand(flags *globalFlags, stdout io.Writer) *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show config, preference and database locations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := resolvePaths(flags)
			if err != nil {
				return err
			}
			configPath := resolveConfigPath(flags, paths)
			dbPath, _ := resolveDBPath(flags, paths)
			if create {
				if err := paths.EnsureDirs(); err != nil {
					return fmt.Errorf("create planner dirs: %w", err)
				}
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", flags.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", flags.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(stdout, "prefs: %s\n", prefsPathFor(configPath))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "db: %s\n", dbPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the config and data directories")
	return cmd
}

// listRow is the JSON shape of one listed task.
type listRow struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	CreatedAt   string `json:"created_at"`
	Completed   bool   `json:"completed"`
	Priority    int    `json:"priority"`
}

// newListCommand prints the filtered task table without starting the board.
func newListCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		filter  string
		search  string
		sortArg string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks matching a status filter and title search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(flags, "list", stderr, func(rt *runtimeDeps) error {
				mode := rt.cfg.DefaultFilterMode()
				if strings.TrimSpace(filter) != "" {
					parsed, err := domain.ParseStatusMode(filter)
					if err != nil {
						return fmt.Errorf("parse --filter %q: %w", filter, err)
					}
					mode = parsed
				}
				col, desc, sorted, err := parseSortFlag(sortArg)
				if err != nil {
					return err
				}

				model := listing.NewModel(rt.svc, rt.svc.Now)
				if err := model.Reload(cmd.Context()); err != nil {
					return fmt.Errorf("load tasks: %w", err)
				}
				view := listing.NewView(model)
				view.SetMode(mode)
				view.SetSearchText(search)
				if sorted {
					view.SetSort(col, desc)
				}
				tasks := view.Tasks()
				rt.logger.Debug("tasks listed", "mode", mode, "search", search, "rows", len(tasks))

				if asJSON {
					return writeTasksJSON(stdout, tasks)
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintf(stdout, "no tasks match filter %s\n", mode.Label())
					return nil
				}
				_, _ = fmt.Fprintln(stdout, renderTaskTable(tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "status filter: all, open, overdue, due-today, completed")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title substring")
	cmd.Flags().StringVar(&sortArg, "sort", "", "sort column key, optionally suffixed with :desc (e.g. priority:desc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON")
	return cmd
}

// parseSortFlag parses "<column>[:asc|:desc]". An empty value keeps the default order.
func parseSortFlag(raw string) (listing.Column, bool, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, false, nil
	}
	name, dir, _ := strings.Cut(raw, ":")
	col, err := listing.ParseColumn(name)
	if err != nil {
		return 0, false, false, fmt.Errorf("parse --sort %q: %w", raw, err)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return col, false, true, nil
	case "desc":
		return col, true, true, nil
	default:
		return 0, false, false, fmt.Errorf("parse --sort %q: direction must be asc or desc", raw)
	}
}

// writeTasksJSON encodes tasks as an indented JSON array.
func writeTasksJSON(w io.Writer, tasks []domain.Task) error {
	rows := make([]listRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, listRow{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			Completed:   t.Completed,
			Priority:    t.Priority,
		})
	}
	encoded, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks json: %w", err)
	}
	encoded = append(encoded, '\n')
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("write tasks json: %w", err)
	}
	return nil
}

// renderTaskTable renders the compact headless table.
func renderTaskTable(tasks []domain.Task) string {
	cols := []listing.Column{listing.ColumnTitle, listing.ColumnDueDate, listing.ColumnCompleted, listing.ColumnPriority}
	headers := []string{"ID"}
	for _, col := range cols {
		headers = append(headers, col.Label())
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
	for _, task := range tasks {
		cells := []string{strconv.FormatInt(task.ID, 10)}
		for _, col := range cols {
			cells = append(cells, listing.CellValue(task, col))
		}
		t = t.Row(cells...)
	}
	return t.Render()
}

// newAddCommand adds one task through the same validation the form uses.
func newAddCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		title       string
		description string
		due         string
		priority    string
		completed   bool
		yes         bool
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				title = strings.Join(args, " ")
			} else if len(args) > 0 {
				return fmt.Errorf("unexpected add arguments: %v", args)
			}
			return withRuntime(flags, "add", stderr, func(rt *runtimeDeps) error {
				in := app.NewTaskFormInput(rt.svc.Now())
				in.Title = title
				in.Description = description
				in.Completed = completed
				if cmd.Flags().Changed("due") {
					in.DueDate = due
				}
				if cmd.Flags().Changed("priority") {
					in.Priority = priority
				}

				ctl := planner.New(rt.svc, nil, planner.Options{
					ConfirmPastDue: rt.cfg.UI.ConfirmPastDue,
					DefaultFilter:  domain.StatusAll,
				})
				out, err := ctl.OnSubmitForm(cmd.Context(), 0, in, yes)
				if err != nil {
					return fmt.Errorf("add task: %w", err)
				}
				if out.NeedsConfirm {
					return fmt.Errorf("add task: due date %s is in the past, rerun with --yes to keep it", strings.TrimSpace(in.DueDate))
				}
				rt.logger.Info("task added", "id", out.TaskID)
				_, _ = fmt.Fprintf(stdout, "added task #%d\n", out.TaskID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title (defaults to the positional arguments)")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&priority, "priority", "0", "priority 0-10")
	cmd.Flags().BoolVar(&completed, "completed", false, "mark the new task done")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept a due date in the past")
	return cmd
}

// newExportCommand writes a snapshot of every task.
func newExportCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		outPath string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every task as a JSON or YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapFormat, err := snapshotFormat(format, outPath, cmd.Flags().Changed("format"))
			if err != nil {
				return err
			}
			return withRuntime(flags, "export", stderr, func(rt *runtimeDeps) error {
				snap, err := rt.svc.ExportSnapshot(cmd.Context())
				if err != nil {
					return fmt.Errorf("export snapshot: %w", err)
				}
				encoded, err := app.EncodeSnapshot(snap, snapFormat)
				if err != nil {
					return fmt.Errorf("encode snapshot: %w", err)
				}
				if err := writeOutput(stdout, outPath, encoded); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				rt.logger.Info("snapshot exported", "tasks", len(snap.Tasks), "format", snapFormat, "out", outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the --out extension)")
	return cmd
}

// newImportCommand replaces the task table with a snapshot.
func newImportCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		inPath string
		format string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from a JSON or YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}
			snapFormat, err := snapshotFormat(format, inPath, cmd.Flags().Changed("format"))
			if err != nil {
				return err
			}
			content, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			snap, err := app.DecodeSnapshot(content, snapFormat)
			if err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			return withRuntime(flags, "import", stderr, func(rt *runtimeDeps) error {
				if err := rt.svc.ImportSnapshot(cmd.Context(), snap); err != nil {
					return fmt.Errorf("import snapshot: %w", err)
				}
				rt.logger.Info("snapshot imported", "tasks", len(snap.Tasks), "in", inPath)
				_, _ = fmt.Fprintf(stdout, "imported %d tasks\n", len(snap.Tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot file")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the --in extension)")
	return cmd
}

// newCalendarCommand exports tasks as an iCalendar document.
func newCalendarCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		outPath string
		filter  string
	)
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export tasks as all-day calendar events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := domain.ParseStatusMode(filter)
			if err != nil {
				return fmt.Errorf("parse --filter %q: %w", filter, err)
			}
			return withRuntime(flags, "ics", stderr, func(rt *runtimeDeps) error {
				doc, events, err := rt.svc.ExportCalendar(cmd.Context(), mode)
				if err != nil {
					return fmt.Errorf("export calendar: %w", err)
				}
				if err := writeOutput(stdout, outPath, []byte(doc)); err != nil {
					return fmt.Errorf("write calendar: %w", err)
				}
				rt.logger.Info("calendar exported", "events", events, "mode", mode, "out", outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	cmd.Flags().StringVar(&filter, "filter", "all", "status filter for exported tasks")
	return cmd
}

// snapshotFormat picks the explicit --format or falls back to the file extension.
func snapshotFormat(raw, path string, explicit bool) (app.SnapshotFormat, error) {
	if explicit || strings.TrimSpace(path) == "" || path == "-" {
		return app.ParseSnapshotFormat(raw)
	}
	return app.SnapshotFormatForPath(path), nil
}

// writeOutput writes content to stdout for "-" and to a file otherwise.
func writeOutput(stdout io.Writer, path string, content []byte) error {
	if strings.TrimSpace(path) == "" || path == "-" {
		_, err := stdout.Write(content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}

// runTUICommand opens the board and keeps the day-rollover job running while it is up.
func runTUICommand(ctx context.Context, flags *globalFlags, stderr io.Writer) error {
	return withRuntime(flags, "tui", stderr, func(rt *runtimeDeps) error {
		store, err := prefs.OpenFile(rt.prefsPath)
		if err != nil {
			rt.logger.Error("preferences load failed", "path", rt.prefsPath, "err", err)
			return fmt.Errorf("open preferences %q: %w", rt.prefsPath, err)
		}
		ctl := planner.New(rt.svc, store, planner.Options{
			ConfirmPastDue: rt.cfg.UI.ConfirmPastDue,
			DefaultFilter:  rt.cfg.DefaultFilterMode(),
		})
		m := tui.NewModel(
			ctl,
			tui.WithContext(ctx),
			tui.WithConfirmDelete(rt.cfg.UI.ConfirmDelete),
			tui.WithMaxRowLines(rt.cfg.UI.MaxRowLines),
			tui.WithDefaultTheme(rt.cfg.UI.Theme),
		)
		p := programFactory(ctx, m)

		sched := schedule.New(nil)
		if _, err := sched.ScheduleDaily(rt.cfg.Schedule.DayRollover, func() {
			rt.logger.Debug("day rollover fired")
			p.Send(tui.DayChangedMsg{})
		}); err != nil {
			return fmt.Errorf("schedule day rollover: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		rt.logger.Info("starting tui program loop", "prefs_path", rt.prefsPath)
		if _, err := p.Run(); err != nil {
			rt.logger.Error("tui program terminated with error", "err", err)
			return fmt.Errorf("run tui program: %w", err)
		}
		return nil
	})
}

// runtimeDeps bundles the resolved configuration and opened storage for one command.
type runtimeDeps struct {
	prefsPath string
	cfg       config.Config
	logger    *runtimeLogger
	svc       *app.Service
}

// withRuntime resolves config, opens logging and storage, runs fn and tears everything down.
func withRuntime(flags *globalFlags, command string, stderr io.Writer, fn func(*runtimeDeps) error) error {
	paths, err := resolvePaths(flags)
	if err != nil {
		return err
	}
	configPath := resolveConfigPath(flags, paths)
	dbPath, dbOverridden := resolveDBPath(flags, paths)

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, flags.appName, flags.devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs stay in the dev-file sink while the board owns the terminal.
		logger.SetConsoleEnabled(false)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.shouldLogToSink(logger.consoleSink) {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", flags.appName, "dev_mode", flags.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()

	rt := &runtimeDeps{
		prefsPath: prefsPathFor(configPath),
		cfg:       cfg,
		logger:    logger,
		svc:       app.NewService(repo, time.Now),
	}
	logger.Info("command flow start", "command", command)
	if err := fn(rt); err != nil {
		logger.Error("command flow failed", "command", command, "err", err)
		return err
	}
	logger.Info("command flow complete", "command", command)
	return nil
}

// resolvePaths resolves the per-user paths for the selected app name and mode.
func resolvePaths(flags *globalFlags) (platform.Paths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: flags.appName,
		DevMode: flags.devMode,
	})
	if err != nil {
		return platform.Paths{}, fmt.Errorf("resolve paths: %w", err)
	}
	return paths, nil
}

// resolveConfigPath applies --config, then PLANBOARD_CONFIG, then the platform default.
func resolveConfigPath(flags *globalFlags, paths platform.Paths) string {
	if p := strings.TrimSpace(flags.configPath); p != "" {
		return p
	}
	if envPath := strings.TrimSpace(os.Getenv("PLANBOARD_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// resolveDBPath applies --db, then PLANBOARD_DB_PATH; the bool reports an explicit override.
func resolveDBPath(flags *globalFlags, paths platform.Paths) (string, bool) {
	if p := strings.TrimSpace(flags.dbPath); p != "" {
		return p, true
	}
	if envPath := strings.TrimSpace(os.Getenv("PLANBOARD_DB_PATH")); envPath != "" {
		return envPath, true
	}
	return paths.DBPath, false
}

// prefsPathFor keeps preferences next to the config file in use.
func prefsPathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "prefs.toml")
}

// parseBoolEnv parses a boolean environment variable; the second result reports whether it was set.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
