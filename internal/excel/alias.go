package excel

import (
	"strings"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
)

// Alias lists for canonical field extraction. Matching is case-insensitive;
// alias-list order is the tie-break, then sheet column order. A row with both
// "Name" and "name" columns therefore resolves to the earlier column.
var (
	nameAliases  = []string{"student_name", "name", "student name"}
	classAliases = []string{"class", "grade", "std"}
	rollAliases  = []string{"roll_number", "roll no", "roll", "rollno"}
)

// ExtractStudent maps a normalized row onto the canonical student shape.
// Missing columns yield empty strings; partial data is preserved, never
// rejected. The full row rides along as the raw response blob.
func ExtractStudent(record model.ResponseMap) model.Student {
	return model.Student{
		Name:       findValue(record, nameAliases),
		Class:      findValue(record, classAliases),
		RollNumber: findValue(record, rollAliases),
		Responses:  record,
	}
}

func findValue(record model.ResponseMap, aliases []string) string {
	for _, alias := range aliases {
		for _, f := range record {
			if strings.EqualFold(f.Key, alias) {
				return f.Value
			}
		}
	}
	return ""
}
