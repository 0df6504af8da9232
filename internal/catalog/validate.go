package catalog

import (
	"fmt"
	"strings"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

type ValidationIssue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Issues []ValidationIssue `json:"issues"`
}

func (r ValidationResult) IsValid() bool {
	return len(r.Issues) == 0
}

func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	parts := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Path, is.Code))
	}
	return fmt.Errorf("invalid catalog: %s", strings.Join(parts, "; "))
}

// Validate checks catalog integrity: unique non-blank ids, display fields,
// and a product URL per variant. The default variant must be present.
func Validate(vs []domain.ProductVariant) ValidationResult {
	var res ValidationResult

	seen := make(map[string]struct{}, len(vs))
	hasDefault := false

	for i, v := range vs {
		path := fmt.Sprintf("variants[%d]", i)

		if strings.TrimSpace(v.ID) == "" {
			addIssue(&res, path+".id", "blank_id", "variant id must not be blank")
			continue
		}
		if _, dup := seen[v.ID]; dup {
			addIssue(&res, path+".id", "duplicate_id", fmt.Sprintf("variant id %q appears more than once", v.ID))
		}
		seen[v.ID] = struct{}{}

		if v.ID == DefaultVariantID {
			hasDefault = true
		}

		if strings.TrimSpace(v.ProductName) == "" {
			addIssue(&res, path+".product_name", "blank_name", "product name must not be blank")
		}
		if strings.TrimSpace(v.SizeLabel) == "" {
			addIssue(&res, path+".size_label", "blank_size", "size label must not be blank")
		}
		if strings.TrimSpace(v.URL) == "" {
			addIssue(&res, path+".url", "blank_url", "product url must not be blank")
		}
	}

	if !hasDefault {
		addIssue(&res, "variants", "missing_default", fmt.Sprintf("default variant %q is not in the catalog", DefaultVariantID))
	}

	return res
}

func addIssue(res *ValidationResult, path, code, message string) {
	res.Issues = append(res.Issues, ValidationIssue{
		Path:    path,
		Code:    code,
		Message: message,
	})
}
