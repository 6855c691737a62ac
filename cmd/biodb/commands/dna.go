// ABOUTME: DNA commands: import genotype exports and look up SNPs
// ABOUTME: Lookups resolve by rsid, gene, or magnitude threshold
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bioarchitect/biodb/internal/ingest"
	"github.com/bioarchitect/biodb/internal/models"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// NewDnaCmd creates the dna command group
func NewDnaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dna",
		Short: "Manage DNA tests and SNP genotypes",
		Long: `Import and query genotype data.

A DNA test holds SNP genotype calls. SNPs are identified by rsid
(rs1801133) and annotated with gene, magnitude, and repute where
an interpretation is available.

Examples:
  biodb dna import genome_export.json
  biodb dna snp rs1801133
  biodb dna gene MTHFR
  biodb dna high-impact`,
	}

	cmd.AddCommand(newDnaImportCmd())
	cmd.AddCommand(newDnaListCmd())
	cmd.AddCommand(newDnaSnpCmd())
	cmd.AddCommand(newDnaGeneCmd())
	cmd.AddCommand(newDnaHighImpactCmd())

	return cmd
}

func newDnaImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a DNA test from JSON (file or stdin)",
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

			parsed, err := ingest.ParseDna(data, sourceFile)
			if err != nil {
				return fmt.Errorf("invalid dna data: %w", err)
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := sqlite.NewDnaStore(db).SaveTest(parsed.Test, parsed.Snps); err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd, parsed.Test)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported DNA test %s (%d SNPs)\n",
					parsed.Test.ID, len(parsed.Snps))
			}
			return nil
		},
	}
}

func newDnaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all DNA tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			tests, err := sqlite.NewDnaStore(db).ListTests()
			if err != nil {
				return fmt.Errorf("listing dna tests: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, tests)
			}
			if len(tests) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No DNA tests found")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tSOURCE\tCOLLECTED\tFILE\n")
			for _, test := range tests {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					test.ID, test.Source, formatDate(test.CollectedDate), orDash(test.SourceFile))
			}
			return w.Flush()
		},
	}
}

func newDnaSnpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snp <rsid>",
		Short: "Look up one SNP by rsid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			snp, err := sqlite.NewDnaStore(db).GetSnpByRsid(args[0])
			if err != nil {
				return fmt.Errorf("looking up snp: %w", err)
			}
			if snp == nil {
				return fmt.Errorf("snp not found: %s", args[0])
			}

			if jsonOutput() {
				return printJSON(cmd, snp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rsid: %s\n", snp.Rsid)
			fmt.Fprintf(out, "Gene: %s\n", orDash(snp.Gene))
			fmt.Fprintf(out, "Genotype: %s\n", snp.Genotype)
			fmt.Fprintf(out, "Magnitude: %.1f\n", snp.Magnitude)
			fmt.Fprintf(out, "Repute: %s\n", orDash(string(snp.Repute)))
			return nil
		},
	}
}

func newDnaGeneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gene <gene>",
		Short: "List all SNPs for a gene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			snps, err := sqlite.NewDnaStore(db).GetSnpsForGene(args[0])
			if err != nil {
				return fmt.Errorf("loading gene snps: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, snps)
			}
			if len(snps) == 0 {
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "No SNPs found for gene %s\n", args[0])
				}
				return nil
			}
			return writeSnpTable(cmd, snps)
		},
	}
}

func newDnaHighImpactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "high-impact",
		Short: "List SNPs at or above the high-impact magnitude threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			snps, err := sqlite.NewDnaStore(db).GetHighImpact(cfg.HighImpactMagnitude)
			if err != nil {
				return fmt.Errorf("loading high-impact snps: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, snps)
			}
			if len(snps) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No high-impact SNPs found")
				}
				return nil
			}
			return writeSnpTable(cmd, snps)
		},
	}
}

func writeSnpTable(cmd *cobra.Command, snps []models.Snp) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RSID\tGENE\tGENOTYPE\tMAGNITUDE\tREPUTE\n")
	for _, snp := range snps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
			snp.Rsid, orDash(snp.Gene), snp.Genotype, snp.Magnitude,
			orDash(string(snp.Repute)))
	}
	return w.Flush()
}
