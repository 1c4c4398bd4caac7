package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/wolfman30/mhrs-booking/internal/appointments"
	"github.com/wolfman30/mhrs-booking/internal/booking"
	"github.com/wolfman30/mhrs-booking/internal/domain"
)

const emptyNotice = "Kayıt bulunamadı."

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func renderRows(w io.Writer, header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, emptyNotice)
		return
	}
	t := newTable(w, header...)
	t.AppendBulk(rows)
	t.Render()
}

// StatusLabel is the Turkish display text of an appointment status.
func StatusLabel(s domain.AppointmentStatus) string {
	switch n := s.Normalize(); {
	case n.IsCancelled():
		return "İptal edildi"
	case n == domain.StatusCompleted, n == domain.StatusPast:
		return "Tamamlandı"
	case n == domain.StatusBooked, n == domain.StatusFuture:
		return "Aktif"
	default:
		return string(n)
	}
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

// RenderPatientInfo prints the patient's profile card.
func RenderPatientInfo(w io.Writer, p *domain.PatientInfo) {
	if p == nil {
		return
	}
	t := newTable(w, "Ad Soyad", "T.C. Kimlik No", "Kan Grubu", "Boy (cm)", "Kilo (kg)")
	t.Append([]string{p.FullName(), p.NationalID, p.BloodGroup, strconv.Itoa(p.HeightCm), strconv.Itoa(p.WeightKg)})
	t.Render()
}

// RenderDoctorInfo prints the doctor's profile card.
func RenderDoctorInfo(w io.Writer, d *domain.DoctorInfo) {
	if d == nil {
		return
	}
	t := newTable(w, "Ad Soyad", "T.C. Kimlik No", "Hastane", "Bölüm")
	t.Append([]string{"Dr. " + d.FullName(), d.NationalID, d.HospitalName, d.DepartmentName})
	t.Render()
}

// RenderEntries prints an appointment list. Doctors see the patient column
// only; patients see doctor, hospital and department. Rows for which
// expanded returns true are followed by their prescription.
func RenderEntries(w io.Writer, viewer domain.Role, items []appointments.Entry, expanded func(int64) bool) {
	var header []string
	if viewer == domain.RoleDoctor {
		header = []string{"No", "Tarih", "Saat", "Hasta", "Durum"}
	} else {
		header = []string{"No", "Tarih", "Saat", "Doktor", "Hastane", "Bölüm", "Durum"}
	}
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		status := StatusLabel(e.Status)
		if msg := e.CancelMessage(viewer); msg != "" {
			status = msg
		}
		if viewer == domain.RoleDoctor {
			rows = append(rows, []string{id(e.ID), e.Date(), e.Time(), e.Counterparty, status})
		} else {
			rows = append(rows, []string{id(e.ID), e.Date(), e.Time(), e.Counterparty, e.Hospital, e.Department, status})
		}
	}
	renderRows(w, header, rows)

	if expanded == nil {
		return
	}
	for _, e := range items {
		if !expanded(e.ID) {
			continue
		}
		if e.HasPrescription {
			fmt.Fprintf(w, "Reçete (randevu %d): %s\n", e.ID, e.Prescription)
		} else {
			fmt.Fprintf(w, "Randevu %d için reçete yazılmamış.\n", e.ID)
		}
	}
}

// RenderWaitingList prints waiting-list enrollments. Doctors see who is
// waiting; patients see what they are waiting for.
func RenderWaitingList(w io.Writer, viewer domain.Role, items []domain.WaitingListItem) {
	rows := make([][]string, 0, len(items))
	if viewer == domain.RoleDoctor {
		for _, it := range items {
			rows = append(rows, []string{id(it.WaitingID), levelLabel(it.Level), it.PatientName, it.PatientNationalID, it.DepartmentName, it.RequestDateTime})
		}
		renderRows(w, []string{"No", "Tür", "Hasta", "T.C. Kimlik No", "Bölüm", "Talep Tarihi"}, rows)
		return
	}
	for _, it := range items {
		doctor := it.DoctorLabel()
		if it.Level == domain.WaitingLevelDepartment && doctor == "" {
			doctor = "-"
		}
		rows = append(rows, []string{id(it.WaitingID), levelLabel(it.Level), doctor, it.HospitalName, it.DepartmentName, it.RequestDateTime})
	}
	renderRows(w, []string{"No", "Tür", "Doktor", "Hastane", "Bölüm", "Talep Tarihi"}, rows)
}

func levelLabel(level string) string {
	switch strings.ToUpper(level) {
	case domain.WaitingLevelDepartment:
		return "Bölüm"
	case domain.WaitingLevelDoctor:
		return "Doktor"
	}
	return level
}

// RenderSlots prints each doctor's slots on the selected date, marking
// booked ones and fully booked doctors.
func RenderSlots(w io.Writer, doctors []booking.DoctorSlots) {
	rows := make([][]string, 0, len(doctors))
	for _, d := range doctors {
		times := make([]string, 0, len(d.Slots))
		for _, s := range d.Slots {
			if s.IsBooked {
				times = append(times, s.Time+" (dolu)")
			} else {
				times = append(times, s.Time)
			}
		}
		state := fmt.Sprintf("%d boş", d.FreeCount())
		switch {
		case len(d.Slots) == 0:
			state = "Randevu yok"
		case d.Full():
			state = "Tümü dolu"
		}
		rows = append(rows, []string{booking.DoctorLabel(d), strings.Join(times, ", "), state})
	}
	renderRows(w, []string{"Doktor", "Saatler", "Durum"}, rows)
}

// RenderDaySlots prints one doctor's slots with the appointment numbers
// used to book them.
func RenderDaySlots(w io.Writer, slots []domain.Slot) {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		state := "Boş"
		if s.IsBooked {
			state = "Dolu"
		}
		rows = append(rows, []string{id(s.AppointmentID), s.Time, state})
	}
	renderRows(w, []string{"No", "Saat", "Durum"}, rows)
}

func RenderHospitals(w io.Writer, items []domain.AdminHospital) {
	rows := make([][]string, 0, len(items))
	for _, h := range items {
		rows = append(rows, []string{h.ID, h.Name, h.City, h.District})
	}
	renderRows(w, []string{"No", "Hastane", "Şehir", "İlçe"}, rows)
}

// RenderDepartments prints departments with their hospital's name when
// hospitals knows it.
func RenderDepartments(w io.Writer, items []domain.AdminDepartment, hospitals []domain.AdminHospital) {
	names := make(map[string]string, len(hospitals))
	for _, h := range hospitals {
		names[h.ID] = h.Name
	}
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		hospital := names[d.HospitalID]
		if hospital == "" {
			hospital = d.HospitalID
		}
		rows = append(rows, []string{d.ID, d.Name, hospital})
	}
	renderRows(w, []string{"No", "Bölüm", "Hastane"}, rows)
}

func RenderDoctors(w io.Writer, items []domain.AdminDoctor) {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{d.ID, d.FullName(), d.NationalID, d.HospitalID, d.DepartmentID})
	}
	renderRows(w, []string{"No", "Ad Soyad", "T.C. Kimlik No", "Hastane", "Bölüm"}, rows)
}

func RenderPatients(w io.Writer, items []domain.AdminPatient) {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{p.ID, p.FullName(), p.NationalID, p.BloodGroup, strconv.Itoa(p.HeightCm), strconv.Itoa(p.WeightKg)})
	}
	renderRows(w, []string{"No", "Ad Soyad", "T.C. Kimlik No", "Kan Grubu", "Boy", "Kilo"}, rows)
}

func RenderPrescriptions(w io.Writer, items []domain.AdminPrescription) {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{p.ID, p.When(), p.PatientName, p.DoctorName, p.HospitalName, p.DepartmentName, strings.Join(p.AllMedicines(), ", ")})
	}
	renderRows(w, []string{"No", "Tarih", "Hasta", "Doktor", "Hastane", "Bölüm", "İlaçlar"}, rows)
}

func RenderAdminWaitingList(w io.Writer, items []domain.AdminWaitingItem) {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		doctor := it.DoctorName
		if doctor == "" {
			doctor = "-"
		}
		rows = append(rows, []string{it.ID, it.PatientName, it.PatientNationalID, doctor, it.HospitalName, it.DepartmentName, it.RequestedDateTime})
	}
	renderRows(w, []string{"No", "Hasta", "T.C. Kimlik No", "Doktor", "Hastane", "Bölüm", "Talep Tarihi"}, rows)
}

func RenderUsers(w io.Writer, items []domain.AdminUser) {
	rows := make([][]string, 0, len(items))
	for _, u := range items {
		rows = append(rows, []string{u.ID, u.Username, strings.TrimSpace(u.FirstName + " " + u.LastName), u.Email, u.NationalID})
	}
	renderRows(w, []string{"No", "Kullanıcı Adı", "Ad Soyad", "E-posta", "T.C. Kimlik No"}, rows)
}

// RenderAppointmentLog prints one page of the admin appointment log.
func RenderAppointmentLog(w io.Writer, rows []domain.AdminAppointment, expanded func(int64) bool) {
	out := make([][]string, 0, len(rows))
	for _, a := range rows {
		out = append(out, []string{id(a.ID), a.When(), a.HospitalName, a.DepartmentName, a.DoctorName, a.PatientName, StatusLabel(a.Status)})
	}
	renderRows(w, []string{"No", "Tarih", "Hastane", "Bölüm", "Doktor", "Hasta", "Durum"}, out)

	if expanded == nil {
		return
	}
	for _, a := range rows {
		if !expanded(a.ID) {
			continue
		}
		fmt.Fprintf(w, "Randevu %d: hasta T.C. %s", a.ID, a.PatientNationalID)
		if a.PrescriptionText != "" {
			fmt.Fprintf(w, ", reçete: %s", a.PrescriptionText)
		}
		fmt.Fprintln(w)
	}
}

// RenderSummary prints the admin dashboard counters.
func RenderSummary(w io.Writer, s *domain.DashboardSummary) {
	if s == nil {
		return
	}
	t := newTable(w, "Gösterge", "Sayı")
	t.AppendBulk([][]string{
		{"Hastaneler", strconv.Itoa(s.TotalHospitals)},
		{"Bölümler", strconv.Itoa(s.TotalDepartments)},
		{"Doktorlar", strconv.Itoa(s.TotalDoctors)},
		{"Hastalar", strconv.Itoa(s.TotalPatients)},
		{"Randevular", strconv.Itoa(s.TotalAppointments)},
		{"Aktif randevular", strconv.Itoa(s.TotalActiveAppointments)},
		{"Bekleme listesi", strconv.Itoa(s.TotalWaitingList)},
	})
	t.Render()
}
