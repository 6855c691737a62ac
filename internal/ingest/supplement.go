// ABOUTME: Supplement label JSON parsing: product labels into validated models
// ABOUTME: Active and other ingredients attach to the label, blend ingredients to their blend
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/bioarchitect/biodb/internal/models"
)

// Supplement is a fully parsed supplement label ready to persist.
type Supplement struct {
	Label       *models.SupplementLabel
	Ingredients []models.Ingredient
	Blends      []SupplementBlend
}

// SupplementBlend pairs a proprietary blend with its ingredients.
type SupplementBlend struct {
	Blend       models.ProprietaryBlend
	Ingredients []models.Ingredient
}

type ingredientData struct {
	Name      string   `json:"name"`
	Code      string   `json:"code"`
	Amount    *float64 `json:"amount"`
	Unit      string   `json:"unit"`
	PercentDV *float64 `json:"percent_dv"`
	Form      string   `json:"form"`
}

type supplementFile struct {
	Brand                string           `json:"brand"`
	ProductName          string           `json:"product_name"`
	Form                 string           `json:"form"`
	ServingSize          string           `json:"serving_size"`
	ServingsPerContainer *int             `json:"servings_per_container"`
	SuggestedUse         string           `json:"suggested_use"`
	Warnings             []string         `json:"warnings"`
	AllergenInfo         string           `json:"allergen_info"`
	ActiveIngredients    []ingredientData `json:"active_ingredients"`
	OtherIngredients     []ingredientData `json:"other_ingredients"`
	ProprietaryBlends    []struct {
		Name        string           `json:"name"`
		TotalAmount *float64         `json:"total_amount"`
		TotalUnit   string           `json:"total_unit"`
		Ingredients []ingredientData `json:"ingredients"`
	} `json:"proprietary_blends"`
}

// ParseSupplement parses a supplement label JSON document into validated
// models.
func ParseSupplement(data []byte, sourceFile string) (*Supplement, error) {
	var file supplementFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing supplement JSON: %w", err)
	}

	label, err := models.NewSupplementLabel(file.Brand, file.ProductName,
		models.SupplementForm(file.Form), file.ServingSize, sourceFile)
	if err != nil {
		return nil, err
	}
	label.ServingsPerContainer = file.ServingsPerContainer
	label.SuggestedUse = file.SuggestedUse
	label.Warnings = file.Warnings
	label.AllergenInfo = file.AllergenInfo

	result := &Supplement{Label: label}

	for _, data := range file.ActiveIngredients {
		ingredient, err := newLabelIngredient(label.ID, models.IngredientActive, data)
		if err != nil {
			return nil, err
		}
		result.Ingredients = append(result.Ingredients, *ingredient)
	}
	for _, data := range file.OtherIngredients {
		ingredient, err := newLabelIngredient(label.ID, models.IngredientOther, data)
		if err != nil {
			return nil, err
		}
		result.Ingredients = append(result.Ingredients, *ingredient)
	}

	for _, blendData := range file.ProprietaryBlends {
		blend, err := models.NewProprietaryBlend(label.ID, blendData.Name,
			blendData.TotalAmount, blendData.TotalUnit)
		if err != nil {
			return nil, err
		}

		entry := SupplementBlend{Blend: *blend}
		for _, data := range blendData.Ingredients {
			ingredient, err := models.NewIngredient("", blend.ID,
				models.IngredientBlend, data.Name, data.Code, data.Amount,
				data.Unit, data.PercentDV, data.Form)
			if err != nil {
				return nil, err
			}
			entry.Ingredients = append(entry.Ingredients, *ingredient)
		}
		result.Blends = append(result.Blends, entry)
	}

	return result, nil
}

func newLabelIngredient(labelID string, ingredientType models.IngredientType, data ingredientData) (*models.Ingredient, error) {
	return models.NewIngredient(labelID, "", ingredientType, data.Name,
		data.Code, data.Amount, data.Unit, data.PercentDV, data.Form)
}
