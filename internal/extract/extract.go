// Package extract parses the estimator's semi-structured report text
// into numeric facts. The report is natural language, not a schema:
// every function here is total and degrades to a zero value on no
// match, because a parsing failure must never block saving or viewing
// a meal.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	totalLineRe = regexp.MustCompile(`(?i)calor[ií]as\s+totales`)
	numberRe    = regexp.MustCompile(`[0-9][0-9.,]*`)

	proteinRe = regexp.MustCompile(`(?i)prote[ií]nas?\s*:?\s*~?\s*([0-9]+(?:[.,][0-9]+)?)\s*g\b`)
	fatRe     = regexp.MustCompile(`(?i)grasas?\s*:?\s*~?\s*([0-9]+(?:[.,][0-9]+)?)\s*g\b`)
	carbsRe   = regexp.MustCompile(`(?i)carbohidratos?\s*:?\s*~?\s*([0-9]+(?:[.,][0-9]+)?)\s*g\b`)

	nameLineRe = regexp.MustCompile(`(?i)^\s*(?:name|nombre)\s*:\s*(.+)$`)
)

// MacroSet holds independently extracted macronutrient grams. The Found
// flags mark which fields actually appeared in the report; a missing
// field is zero, matching how the report treats absent data.
type MacroSet struct {
	ProteinG     float64
	FatG         float64
	CarbsG       float64
	ProteinFound bool
	FatFound     bool
	CarbsFound   bool
}

// TotalCalories returns the kcal figure from the report's totals line
// (a line mentioning "calorías totales"), or 0 when no such line
// exists. Only the totals line counts; per-ingredient kcal mentions
// are ignored so they are never double-counted.
func TotalCalories(report string) int {
	for _, line := range strings.Split(report, "\n") {
		if !totalLineRe.MatchString(line) {
			continue
		}
		token := numberRe.FindString(line)
		if token == "" {
			continue
		}
		cleaned := strings.NewReplacer(".", "", ",", "").Replace(token)
		n, err := strconv.Atoi(cleaned)
		if err != nil {
			continue
		}
		return n
	}
	return 0
}

// Macros pattern-matches protein, fat and carbohydrate lines
// independently. Partial extraction is valid.
func Macros(report string) MacroSet {
	var m MacroSet
	m.ProteinG, m.ProteinFound = matchGrams(proteinRe, report)
	m.FatG, m.FatFound = matchGrams(fatRe, report)
	m.CarbsG, m.CarbsFound = matchGrams(carbsRe, report)
	return m
}

func matchGrams(re *regexp.Regexp, report string) (float64, bool) {
	groups := re.FindStringSubmatch(report)
	if groups == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(groups[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MealName returns the label from the report's "Name:" (or "Nombre:")
// line, or a synthesized "Meal N" name so every meal displays
// something even when the estimator omits the line.
func MealName(report string, fallbackIndex int) string {
	for _, line := range strings.Split(report, "\n") {
		groups := nameLineRe.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		if name := strings.TrimSpace(groups[1]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Meal %d", fallbackIndex+1)
}
