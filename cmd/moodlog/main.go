package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	moodlog "github.com/unowned-ai/moodlog/pkg"
	pkgdb "github.com/unowned-ai/moodlog/pkg/db"
	"github.com/unowned-ai/moodlog/pkg/kvstore"
	"github.com/unowned-ai/moodlog/pkg/logging"
	"github.com/unowned-ai/moodlog/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:     "moodlog",
	Short:   "Log how you feel and see the patterns behind it.",
	Long:    `Moodlog records mood observations (a 1-10 value, a sentiment and context tags) and derives weekly consistency, top emotions, per-tag triggers, time-of-day averages and a downward-spiral warning from them.`,
	Version: fmt.Sprintf("v%s", moodlog.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyEnvDefaults(cmd)
		return logging.Init(cmd.ErrOrStderr(), logLevel)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for moodlog.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(moodlog completion bash)

  Zsh:
    $ moodlog completion zsh > "${fpath[1]}/_moodlog"

  Fish:
    $ moodlog completion fish > ~/.config/fish/completions/moodlog.fish

  PowerShell:
    PS> moodlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of moodlog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), moodlog.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the moodlog SQLite database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or migrate the moodlog database schema",
	Long: `Opens the SQLite database at --db (or the default location) and applies any
pending schema migrations. A missing database file is created and initialized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading moodlog database at: %s (WAL: %t, Sync: %s)\n", path, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(path, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", "", "Path to the SQLite database file (default: per-OS data directory, or $"+envDBPath+")")
	flags.BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	flags.StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	flags.StringVar(&storeName, "store", string(kvstore.BackendSQLite), "Where mood logs are kept: sqlite, redis or memory")
	flags.StringVar(&redisAddr, "redis-addr", defaultRedisAddr, "Redis address for --store redis (or $"+envRedisAddr+")")
	flags.StringVar(&redisPrefix, "redis-prefix", "moodlog", "Key prefix for --store redis")
	flags.StringVar(&tzName, "tz", "", "IANA time zone for days and hours (default: local, or $"+envTZ+")")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	dbCmd.AddCommand(dbUpgradeCmd)

	initMoodsCmds()
	initInsightsCmds()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, logCmd, listCmd, insightsCmd, summaryCmd, mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
