package booking

import (
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/textsearch"
)

// FilterOptions narrows a select list to the options whose label contains
// query, using Turkish case folding.
func FilterOptions[T any](options []T, query string, label func(T) string) []T {
	return textsearch.Filter(options, query, label)
}

func CityLabel(c string) string { return c }

func HospitalLabel(h domain.HospitalDTO) string {
	return textsearch.Join(h.Name, h.District)
}

func DepartmentLabel(d domain.DepartmentDTO) string { return d.BranchName }

func DoctorLabel(d DoctorSlots) string { return d.Doctor.FullName() }
