// Package energy computes basal metabolic rate and activity estimates
// without touching the network. The authoritative TDEE computation
// delegates to the external estimator; these functions are the offline
// approximation with the same shape (integer kcal/day).
package energy

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rankflow/Nutrax/internal/model"
)

// Age returns whole completed years between dob and asOf, subtracting
// one when the anniversary has not yet occurred in asOf's year.
func Age(dob, asOf time.Time) int {
	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() ||
		(asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// NormalizeGender maps English or Spanish gender tokens onto the
// stored vocabulary. Unrecognized input maps to "otro".
func NormalizeGender(gender string) string {
	switch strings.TrimSpace(strings.ToLower(gender)) {
	case "masculino", "male", "m":
		return model.GenderMale
	case "femenino", "female", "f":
		return model.GenderFemale
	default:
		return model.GenderOther
	}
}

// BasalMetabolicRate computes kcal/day at rest via Harris-Benedict.
// "otro" takes the mean of the male and female formulas on the same
// inputs. Rounded to the nearest integer.
func BasalMetabolicRate(gender string, ageYears int, heightCm, weightKg float64) int {
	male := 88.36 + 13.4*weightKg + 4.8*heightCm - 5.7*float64(ageYears)
	female := 447.6 + 9.2*weightKg + 3.1*heightCm - 4.3*float64(ageYears)
	switch NormalizeGender(gender) {
	case model.GenderMale:
		return int(math.Round(male))
	case model.GenderFemale:
		return int(math.Round(female))
	default:
		return int(math.Round((male + female) / 2))
	}
}

var (
	strengthRe = regexp.MustCompile(`(?i)pesas|gym|entrenamiento`)
	stepsKRe   = regexp.MustCompile(`(?i)(\d+)k`)
	stepsRe    = regexp.MustCompile(`(?i)pasos|andar|caminar`)
	runRe      = regexp.MustCompile(`(?i)correr|run`)
	bikeRe     = regexp.MustCompile(`(?i)bici|bicicleta`)
	swimRe     = regexp.MustCompile(`(?i)nadar|swim`)
)

// ActivityEstimate assigns kcal/day to a free-text activity
// description by keyword, starting from a 200 kcal baseline. Walking
// credits 40 kcal per 1k steps when a step count like "10k" appears,
// else a flat 180.
func ActivityEstimate(description string) int {
	kcal := 200
	if strengthRe.MatchString(description) {
		kcal += 200
	}
	if stepsRe.MatchString(description) {
		if groups := stepsKRe.FindStringSubmatch(description); groups != nil {
			if n, err := strconv.Atoi(groups[1]); err == nil {
				kcal += n * 40
			}
		} else {
			kcal += 180
		}
	}
	if runRe.MatchString(description) {
		kcal += 250
	}
	if bikeRe.MatchString(description) {
		kcal += 150
	}
	if swimRe.MatchString(description) {
		kcal += 220
	}
	return kcal
}

// OfflineEstimate mirrors the external estimator's response shape
// using only local formulas.
func OfflineEstimate(gender string, ageYears int, heightCm, weightKg float64, activity string) (basal, activityKcal, tdee int) {
	basal = BasalMetabolicRate(gender, ageYears, heightCm, weightKg)
	activityKcal = ActivityEstimate(activity)
	return basal, activityKcal, basal + activityKcal
}

// ParseDateOfBirth validates a YYYY-MM-DD date of birth.
func ParseDateOfBirth(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date of birth %q, expected YYYY-MM-DD", value)
	}
	if t.After(time.Now()) {
		return time.Time{}, fmt.Errorf("date of birth %q is in the future", value)
	}
	return t, nil
}
