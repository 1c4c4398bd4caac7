package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// ErrInvalidForm wraps every registration validation failure.
var ErrInvalidForm = errors.New("auth: invalid registration form")

const nationalIDLength = 11

// RegistrationForm holds the raw values typed into the register screen.
type RegistrationForm struct {
	FirstName  string
	LastName   string
	NationalID string
	BloodGroup string
	Height     string
	Weight     string
	Password   string
}

// Validate trims the fields, checks required values and converts height and
// weight. Unparseable numbers become 0.
func (f RegistrationForm) Validate() (domain.RegisterRequest, error) {
	first := strings.TrimSpace(f.FirstName)
	last := strings.TrimSpace(f.LastName)
	nid := strings.TrimSpace(f.NationalID)
	if first == "" || last == "" || nid == "" || strings.TrimSpace(f.Password) == "" {
		return domain.RegisterRequest{}, fmt.Errorf("%w: first name, last name, national id and password are required", ErrInvalidForm)
	}
	if !isNationalID(nid) {
		return domain.RegisterRequest{}, fmt.Errorf("%w: national id must be %d digits", ErrInvalidForm, nationalIDLength)
	}
	group := strings.TrimSpace(f.BloodGroup)
	if group == "" {
		group = domain.DefaultBloodGroup
	}
	if !domain.IsBloodGroup(group) {
		return domain.RegisterRequest{}, fmt.Errorf("%w: unknown blood group %q", ErrInvalidForm, group)
	}
	return domain.RegisterRequest{
		PatientInfo: domain.PatientInfo{
			FirstName:  first,
			LastName:   last,
			NationalID: nid,
			BloodGroup: group,
			HeightCm:   leadingInt(f.Height),
			WeightKg:   leadingInt(f.Weight),
		},
		Password: f.Password,
	}, nil
}

func isNationalID(s string) bool {
	if len(s) != nationalIDLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// leadingInt parses the leading decimal digits of s, so "165 cm" is 165.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
