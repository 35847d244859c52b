package gazetteer

import (
	"fmt"

	"github.com/zh-address-parser/app/models"
)

// Validation kết quả validation gazetteer
type Validation struct {
	Passed             bool     `json:"passed"`
	Warnings           []string `json:"warnings"`
	EstimatedBuildTime string   `json:"estimated_build_time"`
}

// Validate kiểm tra code trùng, thiếu trường, level sai và đơn vị cha không tồn tại
func Validate(units []models.AdminUnit) *Validation {
	if len(units) == 0 {
		return &Validation{
			Passed:             false,
			Warnings:           []string{"Không có dữ liệu để validate"},
			EstimatedBuildTime: "0s",
		}
	}

	warnings := make([]string, 0)
	seen := make(map[int]map[string]bool)
	for _, u := range units {
		if seen[u.Level] == nil {
			seen[u.Level] = make(map[string]bool)
		}
		seen[u.Level][u.Code] = true
	}

	dup := make(map[string]bool)
	for i, u := range units {
		key := fmt.Sprintf("%d/%s", u.Level, u.Code)
		if dup[key] {
			warnings = append(warnings, fmt.Sprintf("Duplicate code %s at level %d", u.Code, u.Level))
		}
		dup[key] = true

		if u.Code == "" {
			warnings = append(warnings, fmt.Sprintf("Missing code at index %d", i))
		}
		if u.Name == "" {
			warnings = append(warnings, fmt.Sprintf("Missing name at index %d", i))
		}
		if !u.IsValidLevel() {
			warnings = append(warnings, fmt.Sprintf("Invalid level %d at index %d", u.Level, i))
			continue
		}
		if u.Level == 1 {
			if u.ParentCode != "" {
				warnings = append(warnings, fmt.Sprintf("Province %s has parent code %s", u.Code, u.ParentCode))
			}
			continue
		}
		if u.ParentCode == "" {
			warnings = append(warnings, fmt.Sprintf("Missing parent code for %s at level %d", u.Code, u.Level))
		} else if !seen[u.Level-1][u.ParentCode] {
			warnings = append(warnings, fmt.Sprintf("Parent %s of %s not found at level %d", u.ParentCode, u.Code, u.Level-1))
		}
	}

	// Giả sử 5000 units/second
	estimatedSeconds := len(units) / 5000
	if estimatedSeconds < 1 {
		estimatedSeconds = 1
	}

	return &Validation{
		Passed:             len(warnings) == 0,
		Warnings:           warnings,
		EstimatedBuildTime: fmt.Sprintf("%ds", estimatedSeconds),
	}
}
