package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sadopc/godupes/internal/config"
	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/logging"
	"github.com/sadopc/godupes/internal/ops"
	"github.com/sadopc/godupes/internal/remote"
	"github.com/sadopc/godupes/internal/ui"
)

var version = "dev"

const defaultExportPath = "godupes-report.json"

// cliFlags holds the raw command-line values before they are merged with
// the config file.
type cliFlags struct {
	configPath string
	hash       string
	exclude    []string
	noHidden   bool
	strict     bool
	verbose    int
	quiet      bool
	jsonPath   string
	importPath string
	tui        bool
	remote     string
	sshPort    int
	sshBatch   bool
	sshTimeout time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f cliFlags

	cmd := &cobra.Command{
		Use:   "godupes [flags] PATH...",
		Short: "Find duplicate files",
		Long: `godupes reports groups of files with identical content below the given paths.
Hard links to one file are reported as a single entry, symbolic links as aliases
of the file they point to.`,
		Example: `  godupes ~/Pictures ~/Backup       List duplicates in two trees
  godupes --json dupes.json .        Save the result as JSON
  godupes --ui --import dupes.json   Browse a saved result
  godupes --remote alice@nas /srv    Search over SFTP`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.importPath != "" {
				if len(args) > 0 {
					return fmt.Errorf("--import cannot be used with paths")
				}
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("godupes {{.Version}}\n")

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "read settings from a YAML `file`")
	fl.StringVar(&f.hash, "hash", string(dedupe.DefaultHash), "content hash `algorithm` (sha256, sha512, sha3-256, blake2b-256)")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "skip entries with this name or glob `pattern` (repeatable, comma separated)")
	fl.BoolVar(&f.noHidden, "no-hidden", false, "skip files and directories whose name starts with a dot")
	fl.BoolVar(&f.strict, "strict", false, "abort when a file cannot be read instead of skipping it")
	fl.CountVarP(&f.verbose, "verbose", "v", "log more (-vv for trace)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "log warnings and errors only")
	fl.StringVar(&f.jsonPath, "json", "", "write the result as JSON to `file` ('-' for stdout)")
	fl.StringVar(&f.importPath, "import", "", "load a result saved with --json instead of searching")
	fl.BoolVar(&f.tui, "ui", false, "browse the result in an interactive terminal UI")
	fl.StringVar(&f.remote, "remote", "", "search paths on `user@host` over SFTP")
	fl.IntVar(&f.sshPort, "ssh-port", 22, "SSH port for --remote")
	fl.BoolVar(&f.sshBatch, "ssh-batch", false, "never prompt for passwords or host keys")
	fl.DurationVar(&f.sshTimeout, "ssh-timeout", 10*time.Second, "SSH connection timeout")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.MarkFlagsMutuallyExclusive("import", "remote")

	return cmd
}

// resolveConfig loads the config file and applies every flag the user set.
func resolveConfig(cmd *cobra.Command, f cliFlags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("hash") {
		cfg.Hash = f.hash
	}
	if changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if changed("no-hidden") {
		cfg.ShowHidden = !f.noHidden
	}
	if changed("strict") {
		cfg.StrictReads = f.strict
	}
	if changed("verbose") {
		cfg.Verbosity = f.verbose
	}
	if changed("quiet") && f.quiet {
		cfg.Verbosity = -1
	}
	if changed("ssh-port") {
		cfg.SSH.Port = f.sshPort
	}
	if changed("ssh-batch") {
		cfg.SSH.Batch = f.sshBatch
	}
	if changed("ssh-timeout") {
		cfg.SSH.Timeout = f.sshTimeout
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, f cliFlags, args []string, stdout, stderr io.Writer) error {
	log := logging.New(stderr, cfg.Verbosity)

	if f.importPath != "" {
		return runImport(f, stdout)
	}

	var p fsys.Provider = fsys.NewLocal()
	if f.remote != "" {
		sp, err := remote.Dial(ctx, remote.Config{
			Target:    f.remote,
			Port:      cfg.SSH.Port,
			BatchMode: cfg.SSH.Batch,
			Timeout:   cfg.SSH.Timeout,
		})
		if err != nil {
			return err
		}
		defer sp.Close()
		p = sp
	}

	opts := dedupe.Options{
		Hash:            cfg.HashAlgo(),
		StrictReads:     cfg.StrictReads,
		ShowHidden:      cfg.ShowHidden,
		ExcludePatterns: cfg.Exclude,
		Log:             log,
	}

	if f.tui {
		// Log lines would tear the alternate screen.
		opts.Log = logging.Discard()
		app := ui.NewApp(p, args, opts)
		app.ExportPath = tuiExportPath(f.jsonPath)
		app.Version = version
		return runTUI(app)
	}

	if cfg.Verbosity >= 0 && isTerminal(stderr) {
		pr := newProgressReporter(stderr)
		defer pr.Close()
		log.AddHook(pr)
		opts.Progress = pr.Update
	}

	report, err := dedupe.Find(ctx, p, args, opts)
	if err != nil {
		return err
	}
	return writeReport(report, f.jsonPath, stdout, log)
}

func runImport(f cliFlags, stdout io.Writer) error {
	if f.tui {
		app := ui.NewAppFromImport(f.importPath)
		app.ExportPath = tuiExportPath(f.jsonPath)
		app.Version = version
		return runTUI(app)
	}
	report, err := ops.ImportJSON(f.importPath)
	if err != nil {
		return fmt.Errorf("cannot import %s: %w", f.importPath, err)
	}
	return writeReport(report, f.jsonPath, stdout, logging.Discard())
}

func runTUI(app *ui.App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.FatalError()
}

// writeReport prints the text listing, or the JSON document when jsonPath
// is set.
func writeReport(report *dedupe.Report, jsonPath string, stdout io.Writer, log logrus.FieldLogger) error {
	if jsonPath == "-" {
		return ops.WriteJSON(stdout, report, version)
	}
	if jsonPath != "" {
		if err := ops.ExportJSON(report, jsonPath, version); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		log.Infof("Exported to %s", jsonPath)
		return ops.WriteSummary(stdout, report)
	}

	if err := ops.WriteText(stdout, report.Groups); err != nil {
		return err
	}
	if len(report.Groups) > 0 {
		fmt.Fprintln(stdout)
	}
	return ops.WriteSummary(stdout, report)
}

// tuiExportPath picks where the UI's export key writes. Stdout belongs to
// the UI, so "-" falls back to the default file.
func tuiExportPath(jsonPath string) string {
	if jsonPath == "" || jsonPath == "-" {
		return defaultExportPath
	}
	return jsonPath
}
