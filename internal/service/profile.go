package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rankflow/Nutrax/internal/energy"
	"github.com/rankflow/Nutrax/internal/model"
)

type CreateProfileInput struct {
	Name        string
	Gender      string
	DateOfBirth string
	HeightCm    float64
	WeightKg    float64
}

// CreateProfile stores the one-per-installation biometric profile.
// Name, gender and date of birth are fixed afterwards; only height and
// weight change through UpdateBiometrics.
func CreateProfile(db *sql.DB, in CreateProfileInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := validatePositiveFloat("height", in.HeightCm); err != nil {
		return err
	}
	if err := validatePositiveFloat("weight", in.WeightKg); err != nil {
		return err
	}
	dob, err := energy.ParseDateOfBirth(in.DateOfBirth)
	if err != nil {
		return err
	}

	existing, err := GetProfile(db)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("a profile already exists; identity fields cannot change after onboarding")
	}

	_, err = db.Exec(`
INSERT INTO user_profile(id, name, gender, date_of_birth, height_cm, weight_kg)
VALUES(1, ?, ?, ?, ?, ?)
`, in.Name, energy.NormalizeGender(in.Gender), dob.Format("2006-01-02"), in.HeightCm, in.WeightKg)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	emit(EventProfileChanged)
	return nil
}

// GetProfile returns the stored profile, or nil before onboarding.
func GetProfile(db *sql.DB) (*model.Profile, error) {
	var p model.Profile
	var createdAtRaw, updatedAtRaw string
	err := db.QueryRow(`
SELECT name, gender, date_of_birth, height_cm, weight_kg, created_at, updated_at
FROM user_profile WHERE id = 1
`).Scan(&p.Name, &p.Gender, &p.DateOfBirth, &p.HeightCm, &p.WeightKg, &createdAtRaw, &updatedAtRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAtRaw)
	p.UpdatedAt, _ = time.Parse("2006-01-02 15:04:05", updatedAtRaw)
	return &p, nil
}

// UpdateBiometrics changes the mutable profile fields.
func UpdateBiometrics(db *sql.DB, heightCm, weightKg float64) error {
	if err := validatePositiveFloat("height", heightCm); err != nil {
		return err
	}
	if err := validatePositiveFloat("weight", weightKg); err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE user_profile SET height_cm = ?, weight_kg = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1
`, heightCm, weightKg)
	if err != nil {
		return fmt.Errorf("update profile biometrics: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for profile update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no profile exists yet; run onboarding first")
	}
	emit(EventProfileChanged)
	return nil
}
