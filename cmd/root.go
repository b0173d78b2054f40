package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/build"
	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/orchestrator"
)

var version = "v0.1.0"

// rootFlags are the persistent flags shared by every command.
var rootFlags struct {
	dir        string
	configPath string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:   "codearmor",
	Short: "codearmor wires quality and security tooling into Gradle JVM projects",
	Long: "codearmor detects a Gradle project's language and shape, configures Checkstyle, SpotBugs,\n" +
		"Spotless, JaCoCo, OWASP dependency-check, SonarQube and Veracode with opinionated defaults,\n" +
		"and runs them through the quickBuild, formatCode, codeQuality and fullAnalysis tasks.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&rootFlags.dir, "dir", "C", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default: <dir>/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "override logLevel (ESSENTIAL|VERBOSE)")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exclusionsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(configureCmd)
}

// contextOptions are the inputs to newContext, taken from the persistent
// flags. logLevel is applied only when non-empty.
type contextOptions struct {
	dir        string
	configPath string
	logLevel   string
}

// commandContext builds the orchestrator Context for cmd from the persistent
// flags.
func commandContext(cmd *cobra.Command) (*orchestrator.Context, error) {
	opts := contextOptions{dir: rootFlags.dir, configPath: rootFlags.configPath}
	if cmd.Flags().Changed("log-level") {
		opts.logLevel = rootFlags.logLevel
	}
	return newContext(opts, cmd.OutOrStdout())
}

// newContext resolves the project root and the effective configuration:
//  1. .env in the project root is loaded without overriding set variables.
//  2. codearmor.yaml is decoded over the defaults (missing file = defaults).
//  3. CODEARMOR_* environment variables override file values.
//  4. The --log-level flag overrides both.
//  5. The result is validated; every violation is reported at once.
func newContext(opts contextOptions, out io.Writer) (*orchestrator.Context, error) {
	dir, err := projectDir(opts.dir)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, config.FileName)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	config.ApplyEnv(cfg, config.NewEnv())
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n%w", errs)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &orchestrator.Context{
		ProjectRoot: dir,
		Config:      cfg,
		Log:         log.New(level, out),
		Lookup:      os.LookupEnv,
		BuildSystem: build.NewGradleBuildSystem(dir, out),
	}, nil
}

// projectDir returns dir as an absolute path, defaulting to the working
// directory.
func projectDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	return abs, nil
}
