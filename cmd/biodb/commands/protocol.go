// ABOUTME: Protocol commands: import prescribed regimens and show the current one
// ABOUTME: The current protocol is the one with the newest protocol date
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bioarchitect/biodb/internal/ingest"
	"github.com/bioarchitect/biodb/internal/models"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// NewProtocolCmd creates the protocol command group
func NewProtocolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Manage supplement protocols",
		Long: `Import and query prescribed supplement regimens.

A protocol records what a practitioner prescribed on a visit date:
scheduled supplements with dose timing, own supplements continued
alongside, and lifestyle notes.

Examples:
  biodb protocol import visit_2025_03.json
  biodb protocol current`,
	}

	cmd.AddCommand(newProtocolImportCmd())
	cmd.AddCommand(newProtocolListCmd())
	cmd.AddCommand(newProtocolShowCmd())
	cmd.AddCommand(newProtocolCurrentCmd())

	return cmd
}

func newProtocolImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a protocol from JSON (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			data, sourceFile, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			parsed, err := ingest.ParseProtocol(data, sourceFile)
			if err != nil {
				return fmt.Errorf("invalid protocol data: %w", err)
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := sqlite.NewProtocolStore(db).SaveProtocol(parsed.Protocol, parsed.Supplements); err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd, parsed.Protocol)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported protocol %s (%d supplements)\n",
					parsed.Protocol.ID, len(parsed.Supplements))
			}
			return nil
		},
	}
}

func newProtocolListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all protocols, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			protocols, err := sqlite.NewProtocolStore(db).ListProtocols()
			if err != nil {
				return fmt.Errorf("listing protocols: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, protocols)
			}
			if len(protocols) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No protocols found")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tDATE\tPRESCRIBER\tNEXT VISIT\n")
			for _, protocol := range protocols {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					protocol.ID, formatDate(protocol.ProtocolDate),
					orDash(protocol.Prescriber), orDash(protocol.NextVisit))
			}
			return w.Flush()
		},
	}
}

func newProtocolShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one protocol with its supplements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := sqlite.NewProtocolStore(db)
			protocol, err := store.GetProtocol(args[0])
			if err != nil {
				return fmt.Errorf("loading protocol: %w", err)
			}
			if protocol == nil {
				return fmt.Errorf("protocol not found: %s", args[0])
			}
			return renderProtocol(cmd, store, protocol)
		},
	}
}

func newProtocolCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the protocol with the newest date",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := sqlite.NewProtocolStore(db)
			protocol, err := store.GetCurrentProtocol()
			if err != nil {
				return fmt.Errorf("loading current protocol: %w", err)
			}
			if protocol == nil {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No protocols found")
				}
				return nil
			}
			return renderProtocol(cmd, store, protocol)
		},
	}
}

func renderProtocol(cmd *cobra.Command, store *sqlite.ProtocolStore, protocol *models.SupplementProtocol) error {
	supplements, err := store.GetSupplementsForProtocol(protocol.ID)
	if err != nil {
		return fmt.Errorf("loading protocol supplements: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{
			"protocol":    protocol,
			"supplements": supplements,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Protocol: %s\n", protocol.ID)
	fmt.Fprintf(out, "Date: %s\n", formatDate(protocol.ProtocolDate))
	fmt.Fprintf(out, "Prescriber: %s\n", orDash(protocol.Prescriber))
	fmt.Fprintf(out, "Next visit: %s\n", orDash(protocol.NextVisit))
	if protocol.ProteinGoal != "" {
		fmt.Fprintf(out, "Protein goal: %s\n", protocol.ProteinGoal)
	}
	for _, note := range protocol.LifestyleNotes {
		fmt.Fprintf(out, "Note: %s\n", note)
	}
	if len(supplements) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tTYPE\tFREQUENCY\tDAILY DOSES\tDOSAGE\n")
	for _, supplement := range supplements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			truncate(supplement.Name, 40), supplement.Type, supplement.Frequency,
			supplement.Schedule.Total(), orDash(supplement.Dosage))
	}
	return w.Flush()
}
