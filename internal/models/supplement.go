// ABOUTME: Supplement label models: products, proprietary blends, and ingredients
// ABOUTME: Ingredient codes are standardized for cross-product tracking
package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplementForm is the physical form of a supplement product.
type SupplementForm string

const (
	FormCapsule SupplementForm = "capsule"
	FormTablet  SupplementForm = "tablet"
	FormPowder  SupplementForm = "powder"
	FormLiquid  SupplementForm = "liquid"
	FormSoftgel SupplementForm = "softgel"
	FormGummy   SupplementForm = "gummy"
	FormLozenge SupplementForm = "lozenge"
)

// Valid reports whether f is a known supplement form.
func (f SupplementForm) Valid() bool {
	switch f {
	case FormCapsule, FormTablet, FormPowder, FormLiquid, FormSoftgel, FormGummy, FormLozenge:
		return true
	}
	return false
}

// IngredientType distinguishes how an ingredient appears on the label.
type IngredientType string

const (
	IngredientActive IngredientType = "active"
	IngredientBlend  IngredientType = "blend"
	IngredientOther  IngredientType = "other"
)

// Valid reports whether t is a known ingredient type.
func (t IngredientType) Valid() bool {
	return t == IngredientActive || t == IngredientBlend || t == IngredientOther
}

// SupplementLabel is the complete label of one supplement product.
type SupplementLabel struct {
	ID                   string         `json:"id"`
	SourceFile           string         `json:"source_file,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	Brand                string         `json:"brand"`
	ProductName          string         `json:"product_name"`
	Form                 SupplementForm `json:"form"`
	ServingSize          string         `json:"serving_size"`
	ServingsPerContainer *int           `json:"servings_per_container,omitempty"`
	SuggestedUse         string         `json:"suggested_use,omitempty"`
	Warnings             []string       `json:"warnings,omitempty"`
	AllergenInfo         string         `json:"allergen_info,omitempty"`
}

// NewSupplementLabel constructs a supplement label, validating required fields.
func NewSupplementLabel(brand, productName string, form SupplementForm, servingSize, sourceFile string) (*SupplementLabel, error) {
	if brand == "" {
		return nil, validationErr("brand", "must not be empty")
	}
	if productName == "" {
		return nil, validationErr("product_name", "must not be empty")
	}
	if !form.Valid() {
		return nil, validationErr("form", "must be one of capsule, tablet, powder, liquid, softgel, gummy, lozenge")
	}
	if servingSize == "" {
		return nil, validationErr("serving_size", "must not be empty")
	}
	return &SupplementLabel{
		ID:          uuid.New().String(),
		SourceFile:  sourceFile,
		CreatedAt:   time.Now(),
		Brand:       brand,
		ProductName: productName,
		Form:        form,
		ServingSize: servingSize,
	}, nil
}

// ProprietaryBlend is a named mixture on a label whose per-ingredient amounts
// are not disclosed.
type ProprietaryBlend struct {
	ID                string   `json:"id"`
	SupplementLabelID string   `json:"supplement_label_id"`
	Name              string   `json:"name"`
	TotalAmount       *float64 `json:"total_amount,omitempty"`
	TotalUnit         string   `json:"total_unit,omitempty"`
}

// NewProprietaryBlend constructs a blend bound to a label.
func NewProprietaryBlend(supplementLabelID, name string, totalAmount *float64, totalUnit string) (*ProprietaryBlend, error) {
	if supplementLabelID == "" {
		return nil, validationErr("supplement_label_id", "must not be empty")
	}
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	return &ProprietaryBlend{
		ID:                uuid.New().String(),
		SupplementLabelID: supplementLabelID,
		Name:              name,
		TotalAmount:       totalAmount,
		TotalUnit:         totalUnit,
	}, nil
}

// Ingredient is one label ingredient. Active and other ingredients belong to
// the label directly; blend ingredients belong to a proprietary blend.
type Ingredient struct {
	ID                string         `json:"id"`
	SupplementLabelID string         `json:"supplement_label_id,omitempty"`
	BlendID           string         `json:"blend_id,omitempty"`
	Type              IngredientType `json:"type"`
	Name              string         `json:"name"`
	Code              string         `json:"code"`
	Amount            *float64       `json:"amount,omitempty"`
	Unit              string         `json:"unit,omitempty"`
	PercentDV         *float64       `json:"percent_dv,omitempty"`
	Form              string         `json:"form,omitempty"`
}

// NewIngredient constructs an ingredient owned by either a label or a blend.
func NewIngredient(labelID, blendID string, ingredientType IngredientType, name, code string, amount *float64, unit string, percentDV *float64, form string) (*Ingredient, error) {
	if !ingredientType.Valid() {
		return nil, validationErr("type", "must be one of active, blend, other")
	}
	if ingredientType == IngredientBlend {
		if blendID == "" {
			return nil, validationErr("blend_id", "required for blend ingredients")
		}
	} else if labelID == "" {
		return nil, validationErr("supplement_label_id", "required for active and other ingredients")
	}
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if err := ValidateCode("code", code); err != nil {
		return nil, err
	}
	return &Ingredient{
		ID:                uuid.New().String(),
		SupplementLabelID: labelID,
		BlendID:           blendID,
		Type:              ingredientType,
		Name:              name,
		Code:              code,
		Amount:            amount,
		Unit:              unit,
		PercentDV:         percentDV,
		Form:              form,
	}, nil
}
