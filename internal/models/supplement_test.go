// ABOUTME: Tests for supplement label model constructors
// ABOUTME: Verifies form/type enums and ingredient ownership rules
package models

import "testing"

func TestNewSupplementLabel(t *testing.T) {
	label, err := NewSupplementLabel("Thorne", "Basic Nutrients", FormCapsule, "2 capsules", "label.json")
	if err != nil {
		t.Fatalf("NewSupplementLabel() error = %v", err)
	}
	if label.ID == "" {
		t.Error("ID should be assigned")
	}
	if label.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if _, err := NewSupplementLabel("", "P", FormCapsule, "1", ""); err == nil {
		t.Error("empty brand should fail")
	}
	if _, err := NewSupplementLabel("B", "P", SupplementForm("pill"), "1", ""); err == nil {
		t.Error("unknown form should fail")
	}
	if _, err := NewSupplementLabel("B", "P", FormPowder, "", ""); err == nil {
		t.Error("empty serving size should fail")
	}
}

func TestNewIngredient(t *testing.T) {
	amount := 500.0

	// Active ingredient needs a label owner.
	ing, err := NewIngredient("label1", "", IngredientActive, "Vitamin C", "VITAMIN_C", &amount, "mg", nil, "ascorbic acid")
	if err != nil {
		t.Fatalf("NewIngredient() error = %v", err)
	}
	if ing.SupplementLabelID != "label1" {
		t.Errorf("SupplementLabelID = %q, want label1", ing.SupplementLabelID)
	}

	// Blend ingredient needs a blend owner.
	if _, err := NewIngredient("", "", IngredientBlend, "Ginger", "GINGER", nil, "", nil, ""); err == nil {
		t.Error("blend ingredient without blend ID should fail")
	}
	if _, err := NewIngredient("", "blend1", IngredientBlend, "Ginger", "GINGER", nil, "", nil, ""); err != nil {
		t.Errorf("blend ingredient with blend ID error = %v", err)
	}

	// Active ingredient without label owner.
	if _, err := NewIngredient("", "", IngredientActive, "Zinc", "ZINC", nil, "", nil, ""); err == nil {
		t.Error("active ingredient without label ID should fail")
	}

	// Code validation applies.
	if _, err := NewIngredient("label1", "", IngredientOther, "Rice Flour", "rice flour", nil, "", nil, ""); err == nil {
		t.Error("invalid code should fail")
	}
}

func TestNewProprietaryBlend(t *testing.T) {
	total := 850.0
	blend, err := NewProprietaryBlend("label1", "Energy Blend", &total, "mg")
	if err != nil {
		t.Fatalf("NewProprietaryBlend() error = %v", err)
	}
	if blend.TotalAmount == nil || *blend.TotalAmount != 850.0 {
		t.Error("TotalAmount should round-trip")
	}

	if _, err := NewProprietaryBlend("", "Blend", nil, ""); err == nil {
		t.Error("empty label ID should fail")
	}
}
