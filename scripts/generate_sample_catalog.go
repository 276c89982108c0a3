package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates a sample catalog seed file for local development. The ingredient
// quantities are sized so a few test orders run the mozzarella below its
// threshold, which makes the low-stock dashboard counter easy to exercise.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	seed := map[string]any{
		"ingredients": []map[string]any{
			{"name": "Classic Dough", "category": "BASE", "quantity": 50, "unit": "pc", "price": 2.50, "threshold": 10},
			{"name": "Wholewheat Dough", "category": "BASE", "quantity": 30, "unit": "pc", "price": 3.00, "threshold": 10},
			{"name": "Tomato Sauce", "category": "SAUCE", "quantity": 5000, "unit": "ml", "price": 0.01, "threshold": 1000},
			{"name": "BBQ Sauce", "category": "SAUCE", "quantity": 3000, "unit": "ml", "price": 0.012, "threshold": 800},
			{"name": "Mozzarella", "category": "CHEESE", "quantity": 600, "unit": "g", "price": 0.02, "threshold": 500},
			{"name": "Cheddar", "category": "CHEESE", "quantity": 4000, "unit": "g", "price": 0.018, "threshold": 800},
			{"name": "Mushrooms", "category": "VEGGIE", "quantity": 2000, "unit": "g", "price": 0.015, "threshold": 400},
			{"name": "Onions", "category": "VEGGIE", "quantity": 2500, "unit": "g", "price": 0.008, "threshold": 400},
			{"name": "Capsicum", "category": "VEGGIE", "quantity": 1800, "unit": "g", "price": 0.012, "threshold": 400},
			{"name": "Pepperoni", "category": "MEAT", "quantity": 1500, "unit": "g", "price": 0.03, "threshold": 300},
			{"name": "Chicken Tikka", "category": "MEAT", "quantity": 1200, "unit": "g", "price": 0.028, "threshold": 300},
		},
		"packs": []map[string]any{
			{
				"id":          "margherita",
				"name":        "Margherita",
				"description": "Tomato sauce and mozzarella on a classic base",
				"price":       9.99,
				"ingredients": []string{"Classic Dough", "Tomato Sauce", "Mozzarella"},
			},
			{
				"id":          "pepperoni-feast",
				"name":        "Pepperoni Feast",
				"description": "Loaded pepperoni with extra cheddar",
				"price":       13.49,
				"ingredients": []string{"Classic Dough", "Tomato Sauce", "Cheddar", "Pepperoni"},
			},
			{
				"id":          "veggie-garden",
				"name":        "Veggie Garden",
				"description": "Mushrooms, onions and capsicum on a wholewheat base",
				"price":       11.99,
				"ingredients": []string{"Wholewheat Dough", "Tomato Sauce", "Mozzarella", "Mushrooms", "Onions", "Capsicum"},
			},
			{
				"id":          "bbq-chicken",
				"name":        "BBQ Chicken",
				"description": "Chicken tikka with BBQ sauce and onions",
				"price":       12.99,
				"ingredients": []string{"Classic Dough", "BBQ Sauce", "Mozzarella", "Chicken Tikka", "Onions"},
			},
		},
	}

	filePath := filepath.Join(dataDir, "seed.json")
	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(seed); err != nil {
		log.Fatalf("Failed to write seed: %v", err)
	}

	fmt.Printf("Created %s\n", filePath)
}
