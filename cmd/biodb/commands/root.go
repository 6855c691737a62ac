// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines verbose/quiet/format persistent flags shared by all commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
)

const banner = `
██████╗ ██╗ ██████╗ ██████╗ ██████╗
██╔══██╗██║██╔═══██╗██╔══██╗██╔══██╗
██████╔╝██║██║   ██║██║  ██║██████╔╝
██╔══██╗██║██║   ██║██║  ██║██╔══██╗
██████╔╝██║╚██████╔╝██████╔╝██████╔╝
╚═════╝ ╚═╝ ╚═════╝ ╚═════╝ ╚═════╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "biodb",
		Short: "Personal health-data repository",
		Long: banner + `

biodb stores your bloodwork, DNA, supplement labels, and supplement
protocols in a local SQLite database, plus a versioned knowledge
ledger of health insights linked to the underlying records.

All data stays on your machine. Knowledge entries are never deleted:
superseding an entry deprecates it and records why, so the full
history of what you believed and when remains queryable.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (overrides BIODB_DB_PATH)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewBloodworkCmd())
	cmd.AddCommand(NewDnaCmd())
	cmd.AddCommand(NewSupplementCmd())
	cmd.AddCommand(NewProtocolCmd())
	cmd.AddCommand(NewKnowledgeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
