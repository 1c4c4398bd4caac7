package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewService(apiclient.New(ts.URL, apiclient.WithLogger(logging.Discard())), logging.Discard())
}

func TestService_SlotsConvertsWireFormat(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/doctor/slots", r.URL.Path)
		assert.Equal(t, "10000000000", r.URL.Query().Get("doctorNationalId"))
		assert.Equal(t, "2025-12-01", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`[
			{"appointmentId":1,"slotDateTime":"2025-12-01T09:30:00","status":"BOOKED"},
			{"appointmentId":2,"slotDateTime":"2025-12-01T10:00:00","status":"EMPTY"}
		]`))
	})

	slots, err := svc.Slots(context.Background(), 10000000000, time.Date(2025, 12, 1, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []domain.Slot{
		{AppointmentID: 1, Time: "09:30", IsBooked: true},
		{AppointmentID: 2, Time: "10:00", IsBooked: false},
	}, slots)
}

func TestService_ByDepartment(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/doctor/by-department", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("departmentId"))
		_, _ = w.Write([]byte(`[{"doctorNationalId":10000000000,"firstName":"Ahmet","lastName":"Yılmaz","departmentId":1,"hospitalId":1}]`))
	})

	doctors, err := svc.ByDepartment(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Ahmet Yılmaz", doctors[0].FullName())
}

func TestService_CancelAppointment(t *testing.T) {
	var got string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, svc.CancelAppointment(context.Background(), 5))
	assert.Equal(t, "POST /doctor/appointments/5/cancel", got)
}

func TestService_PanelReads(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doctor/info":
			_, _ = w.Write([]byte(`{"firstName":"Ahmet","lastName":"Yılmaz","nationalId":"10000000000","hospitalName":"Ankara Şehir Hastanesi","departmentName":"Kardiyoloji"}`))
		case "/doctor/past-appointments":
			_, _ = w.Write([]byte(`[{"id":1,"dateTime":"2025-10-10T14:30:00","patientFirstName":"Zeynep","patientLastName":"Kurt","prescriptionText":"Tansiyon ilacı"}]`))
		case "/doctor/future-appointments":
			_, _ = w.Write([]byte(`[{"id":2,"dateTime":"2025-12-01T09:30:00","patientFirstName":"Zeynep","patientLastName":"Kurt","status":"BOOKED"}]`))
		case "/doctor/waiting-list":
			_, _ = w.Write([]byte(`[{"waitingId":4,"level":"DOCTOR","patientName":"Zeynep Kurt"}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Yılmaz", info.FullName())

	past, err := svc.PastAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, "Tansiyon ilacı", past[0].PrescriptionText)

	future, err := svc.FutureAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, domain.StatusBooked, future[0].Status)

	waiting, err := svc.WaitingList(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, int64(4), waiting[0].WaitingID)
}
