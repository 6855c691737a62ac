// ABOUTME: Supplement label storage: products, proprietary blends, ingredients
// ABOUTME: Ingredient code lookups track one compound across products
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

// SupplementStore handles supplement label persistence
type SupplementStore struct {
	db *DB
}

// NewSupplementStore creates a new SupplementStore
func NewSupplementStore(db *DB) *SupplementStore {
	return &SupplementStore{db: db}
}

// BlendInput bundles a proprietary blend with its ingredients for a label save.
type BlendInput struct {
	Blend       models.ProprietaryBlend
	Ingredients []models.Ingredient
}

// jsonList encodes a string slice as a JSON TEXT column value. Empty slices
// store as NULL.
func jsonList(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{Valid: false}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func parseJSONList(value sql.NullString) []string {
	if !value.Valid || value.String == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value.String), &values); err != nil {
		return nil
	}
	return values
}

// SaveLabel persists a supplement label with its direct ingredients and
// proprietary blends in one transaction. A label whose source file was
// already imported is rejected with AlreadyImportedError.
func (s *SupplementStore) SaveLabel(label *models.SupplementLabel, ingredients []models.Ingredient, blends []BlendInput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if label.SourceFile != "" {
		var one int
		err := tx.QueryRow("SELECT 1 FROM supplement_labels WHERE source_file = ?", label.SourceFile).Scan(&one)
		if err == nil {
			return &AlreadyImportedError{SourceFile: label.SourceFile}
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking for prior import: %w", err)
		}
	}

	warnings, err := jsonList(label.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	createdAt := label.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO supplement_labels (id, source_file, created_at, brand,
			product_name, form, serving_size, servings_per_container,
			suggested_use, warnings, allergen_info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, label.ID, nullString(label.SourceFile), createdAt, label.Brand,
		label.ProductName, string(label.Form), label.ServingSize,
		label.ServingsPerContainer, nullString(label.SuggestedUse),
		warnings, nullString(label.AllergenInfo))
	if err != nil {
		return fmt.Errorf("inserting supplement label: %w", err)
	}

	for _, ingredient := range ingredients {
		if err := insertIngredient(tx, ingredient); err != nil {
			return err
		}
	}

	for _, input := range blends {
		blend := input.Blend
		if _, err := tx.Exec(`
			INSERT INTO proprietary_blends (id, supplement_label_id, name, total_amount, total_unit)
			VALUES (?, ?, ?, ?, ?)
		`, blend.ID, blend.SupplementLabelID, blend.Name, blend.TotalAmount,
			nullString(blend.TotalUnit)); err != nil {
			return fmt.Errorf("inserting proprietary blend: %w", err)
		}
		for _, ingredient := range input.Ingredients {
			if err := insertIngredient(tx, ingredient); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertIngredient(tx *sql.Tx, ingredient models.Ingredient) error {
	_, err := tx.Exec(`
		INSERT INTO ingredients (id, supplement_label_id, blend_id, type, name,
			code, amount, unit, percent_dv, form)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ingredient.ID, nullString(ingredient.SupplementLabelID),
		nullString(ingredient.BlendID), string(ingredient.Type),
		ingredient.Name, ingredient.Code, ingredient.Amount,
		nullString(ingredient.Unit), ingredient.PercentDV,
		nullString(ingredient.Form))
	if err != nil {
		return fmt.Errorf("inserting ingredient: %w", err)
	}
	return nil
}

// ListLabels returns all supplement labels ordered by brand then product name.
func (s *SupplementStore) ListLabels() ([]models.SupplementLabel, error) {
	rows, err := s.db.Query(labelQuery + " ORDER BY brand, product_name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanLabels(rows)
}

// GetLabel retrieves a supplement label by ID. Returns nil when the id is
// absent.
func (s *SupplementStore) GetLabel(id string) (*models.SupplementLabel, error) {
	row := s.db.QueryRow(labelQuery+" WHERE id = ?", id)

	label, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return label, nil
}

// SearchLabels returns labels whose brand or product name contains the query,
// case-insensitively, ordered by brand then product name.
func (s *SupplementStore) SearchLabels(query string) ([]models.SupplementLabel, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(labelQuery+`
		WHERE brand LIKE ? OR product_name LIKE ?
		ORDER BY brand, product_name
	`, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanLabels(rows)
}

// GetIngredientsForLabel returns a label's direct (non-blend) ingredients,
// active ingredients first, then by name.
func (s *SupplementStore) GetIngredientsForLabel(labelID string) ([]models.Ingredient, error) {
	rows, err := s.db.Query(ingredientQuery+`
		WHERE supplement_label_id = ?
		ORDER BY type, name
	`, labelID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanIngredients(rows)
}

// GetBlendsForLabel returns a label's proprietary blends, ordered by name.
func (s *SupplementStore) GetBlendsForLabel(labelID string) ([]models.ProprietaryBlend, error) {
	rows, err := s.db.Query(`
		SELECT id, supplement_label_id, name, total_amount, total_unit
		FROM proprietary_blends
		WHERE supplement_label_id = ?
		ORDER BY name
	`, labelID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var blends []models.ProprietaryBlend
	for rows.Next() {
		var blend models.ProprietaryBlend
		var totalUnit sql.NullString
		if err := rows.Scan(&blend.ID, &blend.SupplementLabelID, &blend.Name,
			&blend.TotalAmount, &totalUnit); err != nil {
			return nil, err
		}
		if totalUnit.Valid {
			blend.TotalUnit = totalUnit.String
		}
		blends = append(blends, blend)
	}
	return blends, rows.Err()
}

// GetIngredientsForBlend returns a blend's ingredients, ordered by name.
func (s *SupplementStore) GetIngredientsForBlend(blendID string) ([]models.Ingredient, error) {
	rows, err := s.db.Query(ingredientQuery+`
		WHERE blend_id = ?
		ORDER BY name
	`, blendID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanIngredients(rows)
}

// GetIngredientsByCode returns every ingredient row carrying a code,
// across all products.
func (s *SupplementStore) GetIngredientsByCode(code string) ([]models.Ingredient, error) {
	rows, err := s.db.Query(ingredientQuery+`
		WHERE code = ?
		ORDER BY name
	`, code)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanIngredients(rows)
}

const labelQuery = `
	SELECT id, source_file, created_at, brand, product_name, form,
		serving_size, servings_per_container, suggested_use, warnings,
		allergen_info
	FROM supplement_labels
`

const ingredientQuery = `
	SELECT id, supplement_label_id, blend_id, type, name, code, amount,
		unit, percent_dv, form
	FROM ingredients
`

func scanLabel(sc rowScanner) (*models.SupplementLabel, error) {
	var (
		label        models.SupplementLabel
		sourceFile   sql.NullString
		form         string
		suggestedUse sql.NullString
		warnings     sql.NullString
		allergenInfo sql.NullString
	)

	err := sc.Scan(&label.ID, &sourceFile, &label.CreatedAt, &label.Brand,
		&label.ProductName, &form, &label.ServingSize,
		&label.ServingsPerContainer, &suggestedUse, &warnings, &allergenInfo)
	if err != nil {
		return nil, err
	}

	label.Form = models.SupplementForm(form)
	if sourceFile.Valid {
		label.SourceFile = sourceFile.String
	}
	if suggestedUse.Valid {
		label.SuggestedUse = suggestedUse.String
	}
	label.Warnings = parseJSONList(warnings)
	if allergenInfo.Valid {
		label.AllergenInfo = allergenInfo.String
	}
	return &label, nil
}

func scanLabels(rows *sql.Rows) ([]models.SupplementLabel, error) {
	var labels []models.SupplementLabel
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *label)
	}
	return labels, rows.Err()
}

func scanIngredients(rows *sql.Rows) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	for rows.Next() {
		var (
			ingredient     models.Ingredient
			labelID        sql.NullString
			blendID        sql.NullString
			ingredientType string
			unit           sql.NullString
			form           sql.NullString
		)
		if err := rows.Scan(&ingredient.ID, &labelID, &blendID, &ingredientType,
			&ingredient.Name, &ingredient.Code, &ingredient.Amount, &unit,
			&ingredient.PercentDV, &form); err != nil {
			return nil, err
		}
		ingredient.Type = models.IngredientType(ingredientType)
		if labelID.Valid {
			ingredient.SupplementLabelID = labelID.String
		}
		if blendID.Valid {
			ingredient.BlendID = blendID.String
		}
		if unit.Valid {
			ingredient.Unit = unit.String
		}
		if form.Valid {
			ingredient.Form = form.String
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}
