package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krstm/Siler/internal/config"
	"github.com/krstm/Siler/internal/database"
	"github.com/krstm/Siler/internal/exitcodes"
	"github.com/krstm/Siler/internal/logging"
	"github.com/krstm/Siler/internal/metrics"
	"github.com/krstm/Siler/internal/safety"
	"github.com/krstm/Siler/internal/wipe"
)

const Version = "1.0.0"

var (
	configPath string
	dryRun     bool
	yes        bool
)

var rootCmd = &cobra.Command{
	Use:   "siler [path]",
	Short: "Securely and irreversibly delete files and directories",
	Long: `Siler overwrites file contents with random data across multiple rounds,
truncates a random-length footer, renames each object to an unpredictable
name, and only then removes it. Directory trees are destroyed bottom-up so
no name or byte of the original survives.`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runWipe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code out of the cobra command so
// deferred cleanup (closing the history database) runs before the
// process ends. The message, when present, has already been printed at
// the failure site.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return exitcodes.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcodes.RuntimeError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be deleted without touching anything")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		logging.New().Printf("ERROR: Failed to load config: %v", err)
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return &exitError{code: exitcodes.InvalidConfig}
	}
	logger := logging.NewWithConfig(cfg)

	target := ""
	if len(args) == 1 {
		target = args[0]
	} else {
		target, err = promptForPath(os.Stdin)
		if err != nil {
			return err
		}
	}

	validator := safety.NewValidator(cfg.ProtectedPaths)
	if err := validator.ValidateTarget(target); err != nil {
		logger.Printf("ERROR: Refusing target %q: %v", target, err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", target, err)
		return &exitError{code: exitcodes.SafetyViolation}
	}

	if !dryRun && !yes {
		ok, err := confirm(os.Stdin, target)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	metrics.Init()
	if cfg.Prometheus.Port > 0 {
		addr := cfg.PrometheusAddress()
		logger.Printf("Starting Prometheus metrics on %s", addr)
		metrics.StartServer(addr, logger)
	}

	var db *database.WipeDB
	if cfg.DatabasePath != "" {
		logger.Printf("Opening wipe history database: %s", cfg.DatabasePath)
		db, err = database.NewWipeDB(cfg.DatabasePath)
		if err != nil {
			logger.Printf("ERROR: Failed to open database: %v", err)
			return &exitError{code: exitcodes.RuntimeError}
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Printf("ERROR: Failed to close database: %v", err)
			}
		}()
	}

	if dryRun {
		logger.Println("DRY RUN MODE: No files will be deleted")
	}
	logger.Printf("Secure deletion starting: %s (rounds=%d passes=%d)", target, cfg.Wipe.Rounds, cfg.Wipe.Passes)

	w := wipe.NewWiper(cfg, wipe.NewReporter(os.Stdout, logger), dryRun, db)
	runErr := w.Run(target)
	metrics.RecordRun()

	if runErr != nil {
		if errors.Is(runErr, wipe.ErrPathNotFound) {
			// The reporter already printed the missing-path line
			return &exitError{code: exitcodes.PathNotFound}
		}
		logger.Printf("ERROR: Wipe failed: %v", runErr)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", target, runErr)
		return &exitError{code: exitcodes.RuntimeError}
	}

	logger.Printf("Secure deletion finished: %s", target)
	return nil
}

// promptForPath asks for the target when none was given on the command line
func promptForPath(in *os.File) (string, error) {
	fmt.Print("Enter the path to securely delete: ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read target path: %w", err)
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", errors.New("no target path given")
	}
	return path, nil
}

// confirm requires an explicit "yes" before an irreversible wipe
func confirm(in *os.File, target string) (bool, error) {
	fmt.Printf("This will IRREVERSIBLY destroy %q. Type 'yes' to continue: ", target)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "yes", nil
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}
