package catalog

import (
	"strings"
	"testing"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

func TestLoad_ValidCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() == 0 {
		t.Fatalf("expected a non-empty catalog")
	}
	if !c.Contains(DefaultVariantID) {
		t.Fatalf("expected default variant %q in catalog", DefaultVariantID)
	}
}

func TestLoad_PreservesWebsiteOrder(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := c.All()
	if all[0].ID != "ummon_40g" {
		t.Fatalf("expected ummon_40g first, got %s", all[0].ID)
	}
	if all[len(all)-1].ID != "wakaki_40g" {
		t.Fatalf("expected wakaki_40g last, got %s", all[len(all)-1].ID)
	}
}

func TestCatalog_GetUnknownVariant(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get("no_such_variant"); ok {
		t.Fatalf("expected lookup miss for unknown variant")
	}
}

func TestCatalog_DefaultVariantIDs(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := c.DefaultVariantIDs()
	if len(ids) != 1 || ids[0] != DefaultVariantID {
		t.Fatalf("unexpected default set: %v", ids)
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	vs := []domain.ProductVariant{
		{ID: DefaultVariantID, ProductName: "Ikuyo", SizeLabel: "100g", URL: "https://example.com/a"},
		{ID: DefaultVariantID, ProductName: "Ikuyo", SizeLabel: "100g", URL: "https://example.com/a"},
	}

	res := Validate(vs)
	if res.IsValid() {
		t.Fatalf("expected validation failure")
	}
	if res.Issues[0].Code != "duplicate_id" {
		t.Fatalf("expected duplicate_id, got %s", res.Issues[0].Code)
	}
}

func TestValidate_BlankFields(t *testing.T) {
	vs := []domain.ProductVariant{
		{ID: DefaultVariantID, ProductName: "", SizeLabel: " ", URL: ""},
	}

	res := Validate(vs)
	if res.IsValid() {
		t.Fatalf("expected validation failure")
	}

	codes := make(map[string]bool)
	for _, is := range res.Issues {
		codes[is.Code] = true
	}
	for _, want := range []string{"blank_name", "blank_size", "blank_url"} {
		if !codes[want] {
			t.Fatalf("expected issue %s, got %#v", want, res.Issues)
		}
	}
}

func TestValidate_MissingDefault(t *testing.T) {
	vs := []domain.ProductVariant{
		{ID: "kan_30g", ProductName: "Kan", SizeLabel: "30g", URL: "https://example.com/kan"},
	}

	res := Validate(vs)
	if res.IsValid() {
		t.Fatalf("expected validation failure")
	}

	err := res.Err()
	if err == nil || !strings.Contains(err.Error(), "missing_default") {
		t.Fatalf("expected missing_default in error, got %v", err)
	}
}
