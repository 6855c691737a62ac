// ABOUTME: Knowledge commands: create, query, and supersede ledger entries
// ABOUTME: Supersession deprecates the old entry and links the replacement to it
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bioarchitect/biodb/internal/ingest"
	"github.com/bioarchitect/biodb/internal/models"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// NewKnowledgeCmd creates the knowledge command group
func NewKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage the knowledge ledger",
		Long: `Create and query versioned knowledge entries.

Entries capture insights, recommendations, contraindications, and
memories, tagged and linked to the data they are grounded on. The
ledger is append-only: superseding an entry deprecates it and adds
a replacement pointing back at it, so history is never lost.

Examples:
  biodb knowledge create entry.json
  biodb knowledge supersede <id> revised.json --reason "new labs"
  biodb knowledge tag methylation
  biodb knowledge linked snp <snp-id>`,
	}

	cmd.AddCommand(newKnowledgeCreateCmd())
	cmd.AddCommand(newKnowledgeShowCmd())
	cmd.AddCommand(newKnowledgeListCmd())
	cmd.AddCommand(newKnowledgeSupersedeCmd())
	cmd.AddCommand(newKnowledgeTagCmd())
	cmd.AddCommand(newKnowledgeLinkedCmd())

	return cmd
}

func newKnowledgeCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [file]",
		Short: "Create a knowledge entry from JSON (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			data, _, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			entry, err := ingest.ParseKnowledge(data)
			if err != nil {
				return fmt.Errorf("invalid knowledge data: %w", err)
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := sqlite.NewKnowledgeStore(db).Save(entry.Knowledge, entry.Tags, entry.Links); err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd, entry.Knowledge)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Created knowledge entry %s\n", entry.Knowledge.ID)
			}
			return nil
		},
	}
}

func newKnowledgeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one knowledge entry with tags and links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := sqlite.NewKnowledgeStore(db)
			entry, err := store.GetByID(args[0])
			if err != nil {
				return fmt.Errorf("loading knowledge entry: %w", err)
			}
			if entry == nil {
				return fmt.Errorf("knowledge entry not found: %s", args[0])
			}

			tags, err := store.GetTags(entry.ID)
			if err != nil {
				return fmt.Errorf("loading tags: %w", err)
			}
			links, err := store.GetLinks(entry.ID)
			if err != nil {
				return fmt.Errorf("loading links: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, map[string]interface{}{
					"entry": entry,
					"tags":  tags,
					"links": links,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %s\n", entry.ID)
			fmt.Fprintf(out, "Type: %s\n", entry.Type)
			fmt.Fprintf(out, "Status: %s\n", entry.Status)
			fmt.Fprintf(out, "Confidence: %.2f\n", entry.Confidence)
			fmt.Fprintf(out, "Created: %s\n", entry.CreatedAt.Format("2006-01-02 15:04"))
			if entry.SupersedesID != "" {
				fmt.Fprintf(out, "Supersedes: %s\n", entry.SupersedesID)
			}
			if entry.SupersessionReason != "" {
				fmt.Fprintf(out, "Reason: %s\n", entry.SupersessionReason)
			}
			fmt.Fprintf(out, "Summary: %s\n", entry.Summary)
			fmt.Fprintf(out, "\n%s\n", entry.Content)
			if len(tags) > 0 {
				fmt.Fprint(out, "\nTags:")
				for _, tag := range tags {
					fmt.Fprintf(out, " %s", tag.Tag)
				}
				fmt.Fprintln(out)
			}
			for _, link := range links {
				fmt.Fprintf(out, "Link: %s %s\n", link.LinkType, link.TargetID)
			}
			return nil
		},
	}
}

func newKnowledgeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active knowledge entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			entries, err := sqlite.NewKnowledgeStore(db).ListActive()
			if err != nil {
				return fmt.Errorf("listing knowledge entries: %w", err)
			}
			return renderKnowledgeList(cmd, entries, "No active knowledge entries")
		},
	}
}

func newKnowledgeSupersedeCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "supersede <id> [file]",
		Short: "Replace an entry with a new version (old entry is kept, deprecated)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			data, _, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			entry, err := ingest.ParseKnowledge(data)
			if err != nil {
				return fmt.Errorf("invalid knowledge data: %w", err)
			}
			if reason != "" {
				entry.Knowledge.SupersessionReason = reason
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := sqlite.NewKnowledgeStore(db).Supersede(args[0], entry.Knowledge, entry.Tags, entry.Links); err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd, entry.Knowledge)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Superseded %s with %s\n", args[0], entry.Knowledge.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the old entry is being replaced")

	return cmd
}

func newKnowledgeTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <tag>",
		Short: "Find all entries carrying a tag (any status)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			entries, err := sqlite.NewKnowledgeStore(db).FindByTag(args[0])
			if err != nil {
				return fmt.Errorf("finding entries by tag: %w", err)
			}
			return renderKnowledgeList(cmd, entries, "No entries found for tag "+args[0])
		},
	}
}

func newKnowledgeLinkedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "linked <link_type> <target_id>",
		Short: "Find all entries linked to a target (any status)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			linkType := models.LinkType(args[0])
			if !linkType.Valid() {
				return fmt.Errorf("unknown link type: %s", args[0])
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			entries, err := sqlite.NewKnowledgeStore(db).FindByLink(linkType, args[1])
			if err != nil {
				return fmt.Errorf("finding linked entries: %w", err)
			}
			return renderKnowledgeList(cmd, entries, "No entries linked to that target")
		},
	}
}

func renderKnowledgeList(cmd *cobra.Command, entries []models.Knowledge, emptyMsg string) error {
	if jsonOutput() {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), emptyMsg)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTYPE\tSTATUS\tCONF\tSUMMARY\n")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			entry.ID, entry.Type, entry.Status, entry.Confidence, truncate(entry.Summary, 60))
	}
	return w.Flush()
}
