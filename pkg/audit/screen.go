package audit

import (
	"sort"

	libinjection "github.com/corazawaf/libinjection-go"
)

// Kinds of hostile input detected by ScreenFields.
const (
	KindSQLi = "sqli"
	KindXSS  = "xss"
)

// ScreenResult describes one field that failed input screening.
type ScreenResult struct {
	Field       string `json:"field"`
	Kind        string `json:"kind"`
	Fingerprint string `json:"fingerprint,omitempty"` // libinjection fingerprint, SQLi only
}

// ScreenValue runs libinjection's SQLi and XSS detectors over one value.
// Returns nil when the value is clean.
func ScreenValue(field, value string) *ScreenResult {
	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		return &ScreenResult{Field: field, Kind: KindSQLi, Fingerprint: string(fingerprint)}
	}
	if libinjection.IsXSS(value) {
		return &ScreenResult{Field: field, Kind: KindXSS}
	}
	return nil
}

// ScreenFields screens every value and returns the failures ordered by field name.
func ScreenFields(fields map[string]string) []ScreenResult {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []ScreenResult
	for _, name := range names {
		if result := ScreenValue(name, fields[name]); result != nil {
			results = append(results, *result)
		}
	}
	return results
}
