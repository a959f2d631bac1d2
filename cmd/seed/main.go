package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avoronova/recipehub-backend/config"
	"github.com/avoronova/recipehub-backend/internal/app/model"
	"github.com/avoronova/recipehub-backend/internal/app/repository"
	"github.com/avoronova/recipehub-backend/internal/db"
)

// Imports the ingredient catalog from an XLSX file with two columns:
// name, measurement unit. The first row is treated as a header.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ingredientRepo := repository.NewIngredientRepository(db.GetDB())

	existing, err := ingredientRepo.Count()
	if err != nil {
		log.Fatal("Failed to count existing ingredients:", err)
	}
	if existing > 0 {
		fmt.Printf("Warning: the catalog already holds %d ingredients; duplicates will be rejected by the unique name index.\n", existing)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	ingredients, skipped, err := readIngredientsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total ingredients to import: %d (skipped %d rows)\n", len(ingredients), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := ingredientRepo.BulkCreate(ingredients, batchSize); err != nil {
		log.Fatal("Failed to bulk create ingredients:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total ingredients imported: %d\n", len(ingredients))
}

func readIngredientsFromXLSX(filePath string) ([]model.Ingredient, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var ingredients []model.Ingredient
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			skipped++
			continue
		}

		// The catalog is keyed by name; keep the first unit seen.
		key := strings.ToLower(name)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		ingredients = append(ingredients, model.Ingredient{
			Name:            name,
			MeasurementUnit: unit,
		})

		if len(ingredients)%1000 == 0 {
			fmt.Printf("Processed %d ingredients...\n", len(ingredients))
		}
	}

	return ingredients, skipped, nil
}
