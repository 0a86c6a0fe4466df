package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/classifier"
	"github.com/fenilsonani/declutter/internal/config"
	"github.com/fenilsonani/declutter/internal/mover"
	"github.com/fenilsonani/declutter/internal/progress"
	"github.com/fenilsonani/declutter/internal/reporter"
	"github.com/fenilsonani/declutter/internal/safety"
	"github.com/fenilsonani/declutter/internal/services/llm"
	"github.com/fenilsonani/declutter/internal/session"
	"github.com/fenilsonani/declutter/pkg/utils"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// undoLogName is kept inside the scanned root so a later invocation can
// reverse the most recent organize pass.
const undoLogName = ".declutter-undo.json"

var (
	configPath string
	verbose    bool
	dryRun     bool
	yes        bool
	outputFmt  string
	destDir    string
	keepNewest bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, session.ErrCancelled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "declutter",
	Short: "Reorganize a messy folder into category subfolders",
	Long: `Declutter scans a folder, finds same-size duplicate candidates,
categorizes every file (your rules first, then an AI classifier with a
local fallback), and moves the selected files into category subfolders.
Every organize pass is reversible with "declutter undo".`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan a folder and report categories and duplicates",
	Long:  `Scans the folder and reports what would be organized without making any changes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		sess := newSession(cfg)
		if err := sess.Scan(cmd.Context(), args[0]); err != nil {
			return err
		}

		rptr := reporter.New(os.Stdout, reporter.OutputFormat(outputFmt))
		return rptr.Report(&reporter.Snapshot{
			Root:   sess.Root(),
			Files:  sess.Records(),
			Groups: sess.Groups(),
		})
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize [folder]",
	Short: "Move classified files into category subfolders",
	Long: `Scans the folder, resolves duplicates, and moves every classified file
into a subfolder named after its category. Unknown and Junk files are
never moved. The pass is recorded and can be reversed with "undo".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun = dryRun
		}
		root, err := resolveRoot(args[0])
		if err != nil {
			return err
		}

		sess := newSession(cfg)
		ctx := cmd.Context()

		fmt.Println("Scanning folder...")
		if err := sess.Scan(ctx, root); err != nil {
			return err
		}

		if sess.Step() == session.StepDuplicates {
			if err := resolveDuplicates(ctx, sess); err != nil {
				return err
			}
		}

		selected := sess.Selected()
		if len(selected) == 0 {
			fmt.Println("Nothing to organize: no classified files were found.")
			return nil
		}

		fmt.Printf("\n%d files selected for organizing.\n", len(selected))
		if cfg.DryRun {
			fmt.Println("[DRY RUN MODE] No files will be moved.")
		} else if !yes {
			if err := sess.BeginVerify(); err != nil {
				return err
			}
			if !confirm("Proceed with organizing?") {
				sess.CancelVerify()
				fmt.Println("Organize cancelled")
				return nil
			}
		}

		bar, done := startMoveBar(sess.ProgressReporter(), len(selected))
		result, err := sess.Organize(ctx)
		close(done)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return err
		}

		if !cfg.DryRun && len(sess.UndoLog()) > 0 {
			logPath := filepath.Join(root, undoLogName)
			if err := catalog.WriteUndoLog(afero.NewOsFs(), logPath, sess.UndoLog()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save the undo log: %v\n", err)
			}
		}

		printResult("Organize", result)
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo [folder]",
	Short: "Reverse the most recent organize pass",
	Long: `Restores every file from its category subfolder back to its original
location, then discards the undo log. Only the most recent organize pass
can be reversed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args[0])
		if err != nil {
			return err
		}
		fs := afero.NewOsFs()
		logPath := filepath.Join(root, undoLogName)

		log, err := catalog.ReadUndoLog(fs, logPath)
		if err != nil {
			return err
		}
		if len(log) == 0 {
			fmt.Println("Nothing to undo.")
			return nil
		}

		executor := mover.New(fs, root, mover.ModeOrganize, mover.WithLogger(newLogger()))
		result, err := executor.Undo(cmd.Context(), log)
		if err != nil {
			return err
		}

		// Single-shot: the log is discarded even after a partial pass.
		if err := fs.Remove(logPath); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: could not remove the undo log: %v\n", err)
		}

		printResult("Undo", result)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [folder]",
	Short: "Move classified files into an external folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExternalMove(cmd, args[0], false)
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup [folder]",
	Short: "Copy classified files into an external folder without deleting anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExternalMove(cmd, args[0], true)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Rules: %d\n", len(cfg.CustomRules))
		fmt.Printf("Excluded folders: %v\n", cfg.ExcludedFolders)
		fmt.Printf("AI classifier enabled: %v\n", cfg.Classifier.Enabled)
		return nil
	},
}

func runExternalMove(cmd *cobra.Command, root string, backup bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if destDir == "" {
		return fmt.Errorf("a destination folder is required (--dest)")
	}
	root, err = resolveRoot(root)
	if err != nil {
		return err
	}

	sess := newSession(cfg)
	ctx := cmd.Context()

	fmt.Println("Scanning folder...")
	if err := sess.Scan(ctx, root); err != nil {
		return err
	}
	if sess.Step() == session.StepDuplicates {
		if err := resolveDuplicates(ctx, sess); err != nil {
			return err
		}
	}

	selected := sess.Selected()
	if len(selected) == 0 {
		fmt.Println("No classified files were found.")
		return nil
	}

	bar, done := startMoveBar(sess.ProgressReporter(), len(selected))
	var result *mover.Result
	if backup {
		result, err = sess.Backup(ctx, destDir)
	} else {
		result, err = sess.Export(ctx, destDir)
	}
	close(done)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	verb := "Export"
	if backup {
		verb = "Backup"
	}
	printResult(verb, result)
	return nil
}

// resolveDuplicates applies the CLI's duplicate policy: with --keep-newest
// every group keeps its most recently modified member and the rest are
// deleted; otherwise duplicates are reported and left alone.
func resolveDuplicates(ctx context.Context, sess *session.Session) error {
	groups := sess.Groups()
	fmt.Printf("\nFound %d duplicate group(s) (files with identical sizes).\n", len(groups))

	if keepNewest {
		for _, group := range groups {
			newest := group.Files[0]
			for _, file := range group.Files[1:] {
				if file.LastModified.After(newest.LastModified) {
					newest = file
				}
			}
			if err := sess.MarkKeep(group.ID, newest.Path); err != nil {
				return err
			}
		}
	} else {
		fmt.Println("Keeping all of them; rerun with --keep-newest to auto-resolve.")
	}

	result, err := sess.DeleteMarked(ctx)
	if err != nil {
		return err
	}
	if len(result.Moved) > 0 {
		fmt.Printf("Deleted %d duplicate files (%s)\n",
			len(result.Moved), utils.FormatBytes(result.MovedSize))
	}
	return nil
}

// resolveRoot makes the folder argument absolute and refuses system
// folders before any mutating pass starts.
func resolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve folder %s: %w", path, err)
	}
	if err := safety.NewRootValidator().ValidateRoot(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func confirm(prompt string) bool {
	fmt.Printf("\n%s (y/N): ", prompt)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// startMoveBar drives a progress bar from the session's move updates.
func startMoveBar(pr *progress.Reporter, total int) (*pb.ProgressBar, chan struct{}) {
	bar := pb.StartNew(total)
	updates := pr.Subscribe()
	done := make(chan struct{})

	go func() {
		defer pr.Unsubscribe(updates)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if moveUpdate, isMove := update.(*progress.MoveProgress); isMove {
					bar.SetCurrent(int64(moveUpdate.Done))
				}
			case <-done:
				return
			}
		}
	}()

	return bar, done
}

func printResult(verb string, result *mover.Result) {
	if result.DryRun {
		fmt.Printf("\n[DRY RUN] %s would affect %d files (%s)\n",
			verb, len(result.Moved), utils.FormatBytes(result.MovedSize))
		return
	}

	fmt.Printf("\n%s complete: %d files (%s)\n",
		verb, len(result.Moved), utils.FormatBytes(result.MovedSize))
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped: %d files\n", len(result.Skipped))
	}
	if len(result.Errors) > 0 {
		fmt.Printf("\n%s", mover.FormatErrorSummary(result.Errors))
	}
}

func newSession(cfg *config.Config) *session.Session {
	var remote classifier.NameClassifier
	if cfg.Classifier.Enabled {
		remote = llm.NewClient(llm.Config{
			APIKey:         cfg.Classifier.APIKey,
			BaseURL:        cfg.Classifier.BaseURL,
			Model:          cfg.Classifier.Model,
			TimeoutSeconds: cfg.Classifier.TimeoutSeconds,
		})
	}

	return session.New(afero.NewOsFs(), cfg.CustomRules, cfg.ExcludedFolders, remote,
		session.WithLogger(newLogger()),
		session.WithDryRun(cfg.DryRun))
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(cfgPath)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	scanCmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")

	organizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be moved without moving anything")
	organizeCmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	organizeCmd.Flags().BoolVar(&keepNewest, "keep-newest", false, "auto-resolve duplicate groups by keeping the newest file")

	exportCmd.Flags().StringVar(&destDir, "dest", "", "destination folder")
	exportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be moved without moving anything")
	exportCmd.Flags().BoolVar(&keepNewest, "keep-newest", false, "auto-resolve duplicate groups by keeping the newest file")
	backupCmd.Flags().StringVar(&destDir, "dest", "", "destination folder")
	backupCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be copied without copying anything")
	backupCmd.Flags().BoolVar(&keepNewest, "keep-newest", false, "auto-resolve duplicate groups by keeping the newest file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
}
