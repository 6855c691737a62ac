// ABOUTME: Bloodwork commands: import lab reports and query biomarker history
// ABOUTME: History, flagged, and recent views join biomarkers to their reports
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bioarchitect/biodb/internal/ingest"
	"github.com/bioarchitect/biodb/internal/models"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// NewBloodworkCmd creates the bloodwork command group
func NewBloodworkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bloodwork",
		Short: "Manage lab reports and biomarker results",
		Long: `Import and query bloodwork data.

A lab report holds panels (CBC, Lipid Panel, ...) of individual
biomarker results. Biomarker codes are standardized (GLUCOSE, LDL,
VITAMIN_D) so one marker can be tracked across reports over time.

Examples:
  biodb bloodwork import labs_2025_01.json
  biodb bloodwork history GLUCOSE --limit 6
  biodb bloodwork flagged`,
	}

	cmd.AddCommand(newBloodworkImportCmd())
	cmd.AddCommand(newBloodworkListCmd())
	cmd.AddCommand(newBloodworkReportCmd())
	cmd.AddCommand(newBloodworkHistoryCmd())
	cmd.AddCommand(newBloodworkFlaggedCmd())
	cmd.AddCommand(newBloodworkRecentCmd())

	return cmd
}

func newBloodworkImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a lab report from JSON (file or stdin)",
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

			parsed, err := ingest.ParseBloodwork(data, sourceFile)
			if err != nil {
				return fmt.Errorf("invalid bloodwork data: %w", err)
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := sqlite.NewBloodworkStore(db)
			panels := make([]sqlite.PanelInput, len(parsed.Panels))
			markerCount := 0
			for i, panel := range parsed.Panels {
				panels[i] = sqlite.PanelInput{Panel: panel.Panel, Biomarkers: panel.Biomarkers}
				markerCount += len(panel.Biomarkers)
			}
			if err := store.SaveReport(parsed.Report, panels); err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd, parsed.Report)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported lab report %s (%d panels, %d biomarkers)\n",
					parsed.Report.ID, len(parsed.Panels), markerCount)
			}
			return nil
		},
	}
}

func newBloodworkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all lab reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			reports, err := sqlite.NewBloodworkStore(db).ListReports()
			if err != nil {
				return fmt.Errorf("listing reports: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, reports)
			}
			if len(reports) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No lab reports found")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tPROVIDER\tCOLLECTED\tFILE\n")
			for _, report := range reports {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					report.ID, report.LabProvider,
					formatDate(report.CollectedDate), orDash(report.SourceFile))
			}
			return w.Flush()
		},
	}
}

func newBloodworkReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <id>",
		Short: "Show one lab report with all panels and biomarkers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := sqlite.NewBloodworkStore(db)
			report, err := store.GetReport(args[0])
			if err != nil {
				return fmt.Errorf("loading report: %w", err)
			}
			if report == nil {
				return fmt.Errorf("report not found: %s", args[0])
			}

			panels, err := store.GetPanelsForReport(report.ID)
			if err != nil {
				return fmt.Errorf("loading panels: %w", err)
			}

			type panelView struct {
				models.Panel
				Biomarkers []models.Biomarker `json:"biomarkers"`
			}
			views := make([]panelView, len(panels))
			for i, panel := range panels {
				markers, err := store.GetBiomarkersForPanel(panel.ID)
				if err != nil {
					return fmt.Errorf("loading biomarkers: %w", err)
				}
				views[i] = panelView{Panel: panel, Biomarkers: markers}
			}

			if jsonOutput() {
				return printJSON(cmd, map[string]interface{}{
					"report": report,
					"panels": views,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report: %s\n", report.ID)
			fmt.Fprintf(out, "Provider: %s\n", report.LabProvider)
			fmt.Fprintf(out, "Collected: %s\n", formatDate(report.CollectedDate))
			fmt.Fprintf(out, "Source: %s\n", orDash(report.SourceFile))
			for _, view := range views {
				fmt.Fprintf(out, "\nPanel: %s\n", view.Name)
				if view.Comment != "" {
					fmt.Fprintf(out, "Comment: %s\n", view.Comment)
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "NAME\tVALUE\tUNIT\tFLAG\tRANGE\n")
				for _, m := range view.Biomarkers {
					fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n",
						m.Name, m.Value, m.Unit, m.Flag, formatRange(m.ReferenceLow, m.ReferenceHigh))
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newBloodworkHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <code>",
		Short: "Show one biomarker across reports, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if limit == 0 {
				limit = cfg.HistoryLimit
			}
			history, err := sqlite.NewBloodworkStore(db).GetBiomarkerHistory(args[0], limit)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, history)
			}
			if len(history) == 0 {
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "No results for %s\n", args[0])
				}
				return nil
			}
			return writeBiomarkerTable(cmd, history)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (default from config, -1 for all)")

	return cmd
}

func newBloodworkFlaggedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flagged",
		Short: "List all out-of-range biomarker results",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			flagged, err := sqlite.NewBloodworkStore(db).GetFlagged()
			if err != nil {
				return fmt.Errorf("loading flagged biomarkers: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, flagged)
			}
			if len(flagged) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No flagged results")
				}
				return nil
			}
			return writeBiomarkerTable(cmd, flagged)
		},
	}
}

func newBloodworkRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent result for every biomarker code",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			recent, err := sqlite.NewBloodworkStore(db).GetRecent()
			if err != nil {
				return fmt.Errorf("loading recent biomarkers: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, recent)
			}
			if len(recent) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No biomarker results found")
				}
				return nil
			}
			return writeBiomarkerTable(cmd, recent)
		},
	}
}

func writeBiomarkerTable(cmd *cobra.Command, markers []models.Biomarker) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CODE\tNAME\tVALUE\tUNIT\tFLAG\tRANGE\tDATE\n")
	for _, m := range markers {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\t%s\n",
			m.Code, truncate(m.Name, 30), m.Value, m.Unit, m.Flag,
			formatRange(m.ReferenceLow, m.ReferenceHigh),
			formatDate(m.CollectedDate))
	}
	return w.Flush()
}
