package icons

import "testing"

func TestResolveKnownType(t *testing.T) {
	s := Resolve("key-vault")

	if s.Category != CategorySecurity {
		t.Errorf("category = %q, want %q", s.Category, CategorySecurity)
	}
	if s.Class != "keyvault" {
		t.Errorf("class = %q, want %q", s.Class, "keyvault")
	}
	if s.AssetPath != "icons/key-vault.svg" {
		t.Errorf("asset = %q", s.AssetPath)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	if Resolve("VM") != Resolve("vm") {
		t.Error("resolution should be case-insensitive")
	}
	if !Known("AKS") {
		t.Error("Known should be case-insensitive")
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	s := Resolve("quantum-annealer")

	if s.Category != CategoryCompute {
		t.Errorf("fallback category = %q, want compute", s.Category)
	}
	if s.DefaultColor != "#7fba00" {
		t.Errorf("fallback color = %q, want compute green", s.DefaultColor)
	}
	if s.Class != "generic" {
		t.Errorf("fallback class = %q, want generic", s.Class)
	}
	if Known("quantum-annealer") {
		t.Error("unknown type should not be Known")
	}
}

func TestResolveTotal(t *testing.T) {
	// Every mapped type resolves to a complete style.
	for _, typ := range Types() {
		s := Resolve(typ)
		if s.Category == "" || s.DefaultColor == "" || s.AssetPath == "" || s.Symbol == "" || s.Class == "" {
			t.Errorf("incomplete style for %q: %+v", typ, s)
		}
	}
}

func TestCategoryColor(t *testing.T) {
	if got := CategoryColor(CategoryData); got != "#e8a33d" {
		t.Errorf("CategoryColor(data) = %q", got)
	}
	if got := CategoryColor(Category("nope")); got != "#7fba00" {
		t.Errorf("unknown category color = %q, want compute green", got)
	}
}
