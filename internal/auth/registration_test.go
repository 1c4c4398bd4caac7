package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		FirstName:  "  Zeynep ",
		LastName:   "Kurt",
		NationalID: "22222222222",
		BloodGroup: "AB Rh(-)",
		Height:     "165",
		Weight:     "58",
		Password:   "1234",
	}
}

func TestRegistrationForm_Valid(t *testing.T) {
	req, err := validForm().Validate()
	require.NoError(t, err)
	assert.Equal(t, "Zeynep", req.FirstName)
	assert.Equal(t, "AB Rh(-)", req.BloodGroup)
	assert.Equal(t, 165, req.HeightCm)
	assert.Equal(t, 58, req.WeightKg)
	assert.Equal(t, "1234", req.Password)
}

func TestRegistrationForm_NumbersFallBackToZero(t *testing.T) {
	f := validForm()
	f.Height = "yüz altmış"
	f.Weight = "58kg"
	req, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, 0, req.HeightCm)
	assert.Equal(t, 58, req.WeightKg)
}

func TestRegistrationForm_DefaultBloodGroup(t *testing.T) {
	f := validForm()
	f.BloodGroup = ""
	req, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBloodGroup, req.BloodGroup)
}

func TestRegistrationForm_Invalid(t *testing.T) {
	tests := map[string]func(*RegistrationForm){
		"blank first name":   func(f *RegistrationForm) { f.FirstName = "   " },
		"blank last name":    func(f *RegistrationForm) { f.LastName = "" },
		"blank password":     func(f *RegistrationForm) { f.Password = "  " },
		"short national id":  func(f *RegistrationForm) { f.NationalID = "1234" },
		"letters in id":      func(f *RegistrationForm) { f.NationalID = "2222222222a" },
		"unknown blood type": func(f *RegistrationForm) { f.BloodGroup = "C Rh(+)" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			mutate(&f)
			_, err := f.Validate()
			assert.ErrorIs(t, err, ErrInvalidForm)
		})
	}
}
