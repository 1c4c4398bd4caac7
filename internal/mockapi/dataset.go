package mockapi

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// wireLayout is the zone-less timestamp format used on the wire.
const wireLayout = "2006-01-02T15:04:05"

// Admin-facing ids are a prefix plus the numeric id ("h1", "doc3").
const (
	prefixHospital     = "h"
	prefixDepartment   = "d"
	prefixDoctor       = "doc"
	prefixPatient      = "p"
	prefixPrescription = "rx"
	prefixWaiting      = "w"
	prefixAdmin        = "a"
)

func formatID(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func parseID(prefix, s string) (int64, bool) {
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(s, prefix), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type hospitalRec struct {
	ID       int64
	Name     string
	City     string
	District string
	Street   string
	Phone    string
}

type departmentRec struct {
	ID         int64
	Name       string
	HospitalID int64
}

type doctorRec struct {
	ID           int64
	NationalID   int64
	FirstName    string
	LastName     string
	HospitalID   int64
	DepartmentID int64
	Password     string
}

func (d doctorRec) title() string {
	if d.FirstName == "" && d.LastName == "" {
		return ""
	}
	return "Dr. " + d.FirstName + " " + d.LastName
}

type patientRec struct {
	ID int64
	domain.PatientInfo
	Password string
}

type adminRec struct {
	domain.AdminUser
	Password string
}

// appointmentRec is one slot. A slot is free while Status is empty or
// cancelled; booking it assigns PatientNID.
type appointmentRec struct {
	ID           int64
	DoctorNID    int64
	At           time.Time
	PatientNID   string
	Status       domain.AppointmentStatus
	Prescription *string
}

func (a appointmentRec) taken() bool {
	return a.Status == domain.StatusBooked || a.Status == domain.StatusCompleted
}

type prescriptionRec struct {
	ID         int64
	Date       string
	PatientNID string
	DoctorNID  int64
	Medicines  []string
}

type waitingRec struct {
	ID           int64
	Level        string
	DoctorNID    int64
	DepartmentID int64
	PatientNID   string
	RequestedAt  time.Time
}

// dataset is the whole in-memory backend state.
type dataset struct {
	hospitals     []hospitalRec
	departments   []departmentRec
	doctors       []doctorRec
	patients      []patientRec
	admins        []adminRec
	appointments  []appointmentRec
	prescriptions []prescriptionRec
	waiting       []waitingRec

	seq map[string]int64
}

func (d *dataset) next(prefix string) int64 {
	d.seq[prefix]++
	return d.seq[prefix]
}

func (d *dataset) hospital(id int64) (*hospitalRec, bool) {
	for i := range d.hospitals {
		if d.hospitals[i].ID == id {
			return &d.hospitals[i], true
		}
	}
	return nil, false
}

func (d *dataset) department(id int64) (*departmentRec, bool) {
	for i := range d.departments {
		if d.departments[i].ID == id {
			return &d.departments[i], true
		}
	}
	return nil, false
}

func (d *dataset) doctorByNID(nid int64) (*doctorRec, bool) {
	for i := range d.doctors {
		if d.doctors[i].NationalID == nid {
			return &d.doctors[i], true
		}
	}
	return nil, false
}

func (d *dataset) patientByNID(nid string) (*patientRec, bool) {
	for i := range d.patients {
		if d.patients[i].NationalID == nid {
			return &d.patients[i], true
		}
	}
	return nil, false
}

func (d *dataset) appointment(id int64) (*appointmentRec, bool) {
	for i := range d.appointments {
		if d.appointments[i].ID == id {
			return &d.appointments[i], true
		}
	}
	return nil, false
}

func (d *dataset) hospitalName(id int64) string {
	if h, ok := d.hospital(id); ok {
		return h.Name
	}
	return ""
}

func (d *dataset) departmentName(id int64) string {
	if dep, ok := d.department(id); ok {
		return dep.Name
	}
	return ""
}

func (d *dataset) patientName(nid string) string {
	if p, ok := d.patientByNID(nid); ok {
		return p.FullName()
	}
	return ""
}

// removeWhere drops every element matching and reports whether any did.
func removeWhere[T any](items *[]T, match func(T) bool) bool {
	before := len(*items)
	*items = slices.DeleteFunc(*items, match)
	return len(*items) != before
}

// removeDepartment also drops department-level waiting entries for it.
func (d *dataset) removeDepartment(id int64) bool {
	if !removeWhere(&d.departments, func(dep departmentRec) bool { return dep.ID == id }) {
		return false
	}
	removeWhere(&d.waiting, func(w waitingRec) bool {
		return w.Level == domain.WaitingLevelDepartment && w.DepartmentID == id
	})
	return true
}

// removeHospital cascades to the hospital's departments.
func (d *dataset) removeHospital(id int64) bool {
	if !removeWhere(&d.hospitals, func(h hospitalRec) bool { return h.ID == id }) {
		return false
	}
	for _, dep := range slices.Clone(d.departments) {
		if dep.HospitalID == id {
			d.removeDepartment(dep.ID)
		}
	}
	return true
}

var fixtureTimes = []string{"09:30", "10:00", "10:30", "11:00"}

const fixtureDays = 14

// newDataset builds the fixtures. Slots are generated for the fixtureDays
// days after today, so appointment 1 is always Dr. Ahmet Yılmaz at 09:30
// tomorrow.
func newDataset(today time.Time) *dataset {
	day0 := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	d := &dataset{seq: map[string]int64{}}

	d.hospitals = []hospitalRec{
		{ID: 1, Name: "Ankara Şehir Hastanesi", City: "Ankara", District: "Çankaya", Street: "Üniversiteler Mah. 1604. Cad. No:9", Phone: "0312 552 60 00"},
		{ID: 2, Name: "Ankara Eğitim ve Araştırma", City: "Ankara", District: "Altındağ", Street: "Ulucanlar Cad. No:89", Phone: "0312 595 30 00"},
		{ID: 3, Name: "İstanbul Şehir Hastanesi", City: "İstanbul", District: "Başakşehir", Street: "Başakşehir Olimpiyat Bulvarı", Phone: "0212 909 60 00"},
	}
	d.departments = []departmentRec{
		{ID: 1, Name: "Kardiyoloji", HospitalID: 1},
		{ID: 2, Name: "Dahiliye", HospitalID: 1},
		{ID: 3, Name: "Ortopedi", HospitalID: 2},
		{ID: 4, Name: "Kardiyoloji", HospitalID: 3},
	}
	d.doctors = []doctorRec{
		{ID: 1, NationalID: 10000000000, FirstName: "Ahmet", LastName: "Yılmaz", HospitalID: 1, DepartmentID: 1, Password: "1234"},
		{ID: 2, NationalID: 20000000000, FirstName: "Elif", LastName: "Demir", HospitalID: 1, DepartmentID: 2, Password: "1234"},
		{ID: 3, NationalID: 30000000000, FirstName: "Mehmet", LastName: "Kara", HospitalID: 3, DepartmentID: 4, Password: "1234"},
	}
	d.patients = []patientRec{
		{ID: 1, PatientInfo: domain.PatientInfo{FirstName: "Zeynep", LastName: "Kurt", NationalID: "22222222222", BloodGroup: "A Rh(+)", HeightCm: 165, WeightKg: 58}, Password: "1234"},
		{ID: 2, PatientInfo: domain.PatientInfo{FirstName: "Mehmet", LastName: "Öz", NationalID: "33333333333", BloodGroup: "0 Rh(+)", HeightCm: 178, WeightKg: 82}, Password: "1234"},
		{ID: 3, PatientInfo: domain.PatientInfo{FirstName: "Ayşe", LastName: "Yılmaz", NationalID: "44444444444", BloodGroup: "B Rh(-)", HeightCm: 160, WeightKg: 55}, Password: "1234"},
	}
	d.admins = []adminRec{
		{AdminUser: domain.AdminUser{ID: formatID(prefixAdmin, 1), Username: "admin", FirstName: "Sistem", LastName: "Yöneticisi", Email: "admin@example.com", NationalID: "99999999999"}, Password: "admin"},
		{AdminUser: domain.AdminUser{ID: formatID(prefixAdmin, 2), Username: "ayse.admin", FirstName: "Ayşe", LastName: "Yönetici", Email: "ayse.admin@example.com", NationalID: "88888888888"}, Password: "admin"},
	}

	var id int64
	for day := 0; day < fixtureDays; day++ {
		date := day0.AddDate(0, 0, day)
		for _, doc := range d.doctors {
			for _, hhmm := range fixtureTimes {
				id++
				at, _ := time.Parse(wireLayout, fmt.Sprintf("%sT%s:00", date.Format("2006-01-02"), hhmm))
				d.appointments = append(d.appointments, appointmentRec{ID: id, DoctorNID: doc.NationalID, At: at})
			}
		}
	}
	book := func(id int64, patient string, status domain.AppointmentStatus) {
		if a, ok := d.appointment(id); ok {
			a.PatientNID = patient
			a.Status = status
		}
	}
	perDay := int64(len(d.doctors) * len(fixtureTimes))
	// Tomorrow: Dr. Ahmet's 10:00 is taken and Dr. Elif (the only Dahiliye
	// doctor) is fully booked, so Dahiliye offers its waiting list.
	book(2, "33333333333", domain.StatusBooked)
	for i := int64(5); i <= 8; i++ {
		book(i, "44444444444", domain.StatusBooked)
	}
	book(4*perDay+4, "22222222222", domain.StatusBooked)
	book(2*perDay+11, "22222222222", domain.StatusCancelledByDoctor)

	past := []struct {
		daysAgo      int
		hhmm         string
		doctor       int64
		patient      string
		prescription string
	}{
		{51, "14:30", 10000000000, "22222222222", "Tansiyon ilacı: günde 1 kez."},
		{20, "09:30", 10000000000, "22222222222", "Hipertansiyon tanısı. Amlodipin 5 mg 1x1, yaşam tarzı değişikliği önerildi."},
		{10, "14:00", 20000000000, "33333333333", "Gastrit tanısı. PPI tedavisi başlandı, kontrol 1 ay sonra."},
		{5, "11:00", 20000000000, "22222222222", ""},
	}
	for _, p := range past {
		id++
		date := day0.AddDate(0, 0, -1-p.daysAgo)
		at, _ := time.Parse(wireLayout, fmt.Sprintf("%sT%s:00", date.Format("2006-01-02"), p.hhmm))
		rec := appointmentRec{ID: id, DoctorNID: p.doctor, At: at, PatientNID: p.patient, Status: domain.StatusCompleted}
		if p.prescription != "" {
			text := p.prescription
			rec.Prescription = &text
		}
		d.appointments = append(d.appointments, rec)
	}
	d.seq[prefixAppointment] = id

	d.prescriptions = []prescriptionRec{
		{ID: 1, Date: day0.AddDate(0, 0, -11).Format("2006-01-02"), PatientNID: "22222222222", DoctorNID: 10000000000, Medicines: []string{"Aspirin 100 mg", "Beloc ZOK 25 mg"}},
		{ID: 2, Date: day0.AddDate(0, 0, -9).Format("2006-01-02"), PatientNID: "33333333333", DoctorNID: 20000000000, Medicines: []string{"Metformin 850 mg"}},
		{ID: 3, Date: day0.AddDate(0, 0, -6).Format("2006-01-02"), PatientNID: "44444444444", DoctorNID: 30000000000, Medicines: []string{"Atorvastatin 20 mg", "Ramipril 5 mg"}},
	}
	requested := day0.Add(-24 * time.Hour).Add(9 * time.Hour)
	d.waiting = []waitingRec{
		{ID: 1, Level: domain.WaitingLevelDoctor, DoctorNID: 10000000000, DepartmentID: 1, PatientNID: "22222222222", RequestedAt: requested},
		{ID: 2, Level: domain.WaitingLevelDoctor, DoctorNID: 20000000000, DepartmentID: 2, PatientNID: "33333333333", RequestedAt: requested.Add(45 * time.Minute)},
		{ID: 3, Level: domain.WaitingLevelDepartment, DepartmentID: 4, PatientNID: "44444444444", RequestedAt: requested.Add(5 * time.Hour)},
	}

	d.seq[prefixHospital] = 3
	d.seq[prefixDepartment] = 4
	d.seq[prefixDoctor] = 3
	d.seq[prefixPatient] = 3
	d.seq[prefixAdmin] = 2
	d.seq[prefixPrescription] = 3
	d.seq[prefixWaiting] = 3
	return d
}

const prefixAppointment = "appt"
