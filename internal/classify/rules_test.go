package classify

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	if err := rules.Validate(); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}
	if len(rules.FreeFood) < 40 {
		t.Errorf("expected at least 40 free-food keywords, got %d", len(rules.FreeFood))
	}

	expected := []string{"RA Floor Program", "Res College Cup", "Residential College or Community Event"}
	if !reflect.DeepEqual(rules.HousingCategories, expected) {
		t.Errorf("HousingCategories = %v, expected %v", rules.HousingCategories, expected)
	}

	// Callers get their own copy.
	rules.FreeFood[0] = "changed"
	if DefaultRules().FreeFood[0] == "changed" {
		t.Error("DefaultRules should return a fresh copy")
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantErr     bool
		wantFood    []string
		keepHousing bool
	}{
		{
			name:        "override free food only",
			data:        "free_food:\n  - tamales\n  - empanadas\n",
			wantFood:    []string{"tamales", "empanadas"},
			keepHousing: true,
		},
		{
			name:    "empty free food list rejected",
			data:    "free_food: []\n",
			wantErr: true,
		},
		{
			name:    "blank entry rejected",
			data:    "housing_phrases:\n  - \"\"\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			data:    "free_food: [unclosed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ParseRules([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRules() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(rules.FreeFood, tt.wantFood) {
				t.Errorf("FreeFood = %v, expected %v", rules.FreeFood, tt.wantFood)
			}
			if tt.keepHousing && !reflect.DeepEqual(rules.HousingCategories, DefaultRules().HousingCategories) {
				t.Errorf("expected default housing categories, got %v", rules.HousingCategories)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("housing_categories:\n  - Floor Meeting\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if !New(rules).IsHousingOnly("", "Weekly Floor Meeting") {
		t.Error("expected loaded category to be used")
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
