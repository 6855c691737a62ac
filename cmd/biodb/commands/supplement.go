// ABOUTME: Supplement commands: import product labels and query ingredients
// ABOUTME: Ingredient lookup by code works across all labels, blends included
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bioarchitect/biodb/internal/ingest"
	"github.com/bioarchitect/biodb/internal/models"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// NewSupplementCmd creates the supplement command group
func NewSupplementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplement",
		Short: "Manage supplement labels and ingredients",
		Long: `Import and query supplement product labels.

A label holds active and other ingredients, plus any proprietary
blends. Ingredient codes are standardized (VITAMIN_D3, MAGNESIUM)
so the same nutrient can be found across products.

Examples:
  biodb supplement import thorne_basic_b.json
  biodb supplement ingredient MAGNESIUM
  biodb supplement search thorne`,
	}

	cmd.AddCommand(newSupplementImportCmd())
	cmd.AddCommand(newSupplementListCmd())
	cmd.AddCommand(newSupplementShowCmd())
	cmd.AddCommand(newSupplementIngredientCmd())
	cmd.AddCommand(newSupplementSearchCmd())

	return cmd
}

func newSupplementImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a supplement label from JSON (file or stdin)",
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

			parsed, err := ingest.ParseSupplement(data, sourceFile)
			if err != nil {
				return fmt.Errorf("invalid supplement data: %w", err)
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			blends := make([]sqlite.BlendInput, len(parsed.Blends))
			for i, blend := range parsed.Blends {
				blends[i] = sqlite.BlendInput{Blend: blend.Blend, Ingredients: blend.Ingredients}
			}
			if err := sqlite.NewSupplementStore(db).SaveLabel(parsed.Label, parsed.Ingredients, blends); err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd, parsed.Label)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s (%d ingredients, %d blends)\n",
					parsed.Label.Brand, parsed.Label.ProductName, len(parsed.Ingredients), len(parsed.Blends))
			}
			return nil
		},
	}
}

func newSupplementListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all supplement labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			labels, err := sqlite.NewSupplementStore(db).ListLabels()
			if err != nil {
				return fmt.Errorf("listing labels: %w", err)
			}
			return renderLabels(cmd, labels, "No supplement labels found")
		},
	}
}

func newSupplementShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one label with ingredients and blends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := sqlite.NewSupplementStore(db)
			label, err := store.GetLabel(args[0])
			if err != nil {
				return fmt.Errorf("loading label: %w", err)
			}
			if label == nil {
				return fmt.Errorf("label not found: %s", args[0])
			}

			ingredients, err := store.GetIngredientsForLabel(label.ID)
			if err != nil {
				return fmt.Errorf("loading ingredients: %w", err)
			}
			blends, err := store.GetBlendsForLabel(label.ID)
			if err != nil {
				return fmt.Errorf("loading blends: %w", err)
			}

			type blendView struct {
				models.ProprietaryBlend
				Ingredients []models.Ingredient `json:"ingredients"`
			}
			blendViews := make([]blendView, len(blends))
			for i, blend := range blends {
				blendIngredients, err := store.GetIngredientsForBlend(blend.ID)
				if err != nil {
					return fmt.Errorf("loading blend ingredients: %w", err)
				}
				blendViews[i] = blendView{ProprietaryBlend: blend, Ingredients: blendIngredients}
			}

			if jsonOutput() {
				return printJSON(cmd, map[string]interface{}{
					"label":       label,
					"ingredients": ingredients,
					"blends":      blendViews,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Label: %s %s\n", label.Brand, label.ProductName)
			fmt.Fprintf(out, "Form: %s\n", label.Form)
			fmt.Fprintf(out, "Serving: %s\n", label.ServingSize)
			if label.SuggestedUse != "" {
				fmt.Fprintf(out, "Suggested use: %s\n", label.SuggestedUse)
			}
			for _, warning := range label.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			if len(ingredients) > 0 {
				fmt.Fprintln(out, "\nIngredients:")
				if err := writeIngredientTable(cmd, ingredients); err != nil {
					return err
				}
			}
			for _, view := range blendViews {
				fmt.Fprintf(out, "\nBlend: %s", view.Name)
				if view.TotalAmount != nil {
					fmt.Fprintf(out, " (%.1f %s)", *view.TotalAmount, view.TotalUnit)
				}
				fmt.Fprintln(out)
				if err := writeIngredientTable(cmd, view.Ingredients); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSupplementIngredientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingredient <code>",
		Short: "Find an ingredient by code across all labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ingredients, err := sqlite.NewSupplementStore(db).GetIngredientsByCode(args[0])
			if err != nil {
				return fmt.Errorf("looking up ingredient: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd, ingredients)
			}
			if len(ingredients) == 0 {
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "No ingredients found for code %s\n", args[0])
				}
				return nil
			}
			return writeIngredientTable(cmd, ingredients)
		},
	}
}

func newSupplementSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search labels by brand or product name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			labels, err := sqlite.NewSupplementStore(db).SearchLabels(args[0])
			if err != nil {
				return fmt.Errorf("searching labels: %w", err)
			}
			return renderLabels(cmd, labels, "No matching labels found")
		},
	}
}

func renderLabels(cmd *cobra.Command, labels []models.SupplementLabel, emptyMsg string) error {
	if jsonOutput() {
		return printJSON(cmd, labels)
	}
	if len(labels) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), emptyMsg)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tBRAND\tPRODUCT\tFORM\tSERVING\n")
	for _, label := range labels {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			label.ID, label.Brand, truncate(label.ProductName, 40), label.Form, label.ServingSize)
	}
	return w.Flush()
}

func writeIngredientTable(cmd *cobra.Command, ingredients []models.Ingredient) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCODE\tTYPE\tAMOUNT\tFORM\n")
	for _, ingredient := range ingredients {
		amount := "-"
		if ingredient.Amount != nil {
			amount = fmt.Sprintf("%.1f %s", *ingredient.Amount, ingredient.Unit)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(ingredient.Name, 40), ingredient.Code, ingredient.Type,
			amount, orDash(ingredient.Form))
	}
	return w.Flush()
}
