package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTaxonomyOrdered(t *testing.T) {
	tax := Default()
	if len(tax.Categories) == 0 {
		t.Fatal("expected default taxonomy to have categories")
	}
	if tax.Categories[0].Name != "neurologia" {
		t.Fatalf("expected neurologia first, got %s", tax.Categories[0].Name)
	}
	for _, category := range tax.Categories {
		if len(category.Terms) == 0 {
			t.Fatalf("category %s has no terms", category.Name)
		}
	}
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte("categories: [broken"), 0o600); err != nil {
		t.Fatalf("failed to write taxonomy file: %v", err)
	}

	tax, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if len(tax.Categories) != len(Default().Categories) {
		t.Fatalf("expected built-in corpus on parse error, got %d categories", len(tax.Categories))
	}
}

func TestLoadEmptyCategoriesFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte("categories: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write taxonomy file: %v", err)
	}

	tax, err := Load(path)
	if err == nil {
		t.Fatal("expected empty-taxonomy error")
	}
	if len(tax.Categories) == 0 {
		t.Fatal("expected built-in corpus when file declares no categories")
	}
}

func TestLoadWithoutPathReturnsDefault(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tax.Categories) != len(Default().Categories) {
		t.Fatal("expected built-in taxonomy")
	}
}
