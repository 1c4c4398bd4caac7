package console

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/booking"
	"github.com/wolfman30/mhrs-booking/internal/doctor"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/mockapi"
	"github.com/wolfman30/mhrs-booking/internal/session"
	"github.com/wolfman30/mhrs-booking/internal/views"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var testNow = time.Date(2025, 11, 30, 10, 0, 0, 0, time.UTC)

type shellRun struct {
	shell  *Shell
	out    string
	store  session.Store
	server *httptest.Server
}

// runShell feeds lines to a fresh shell wired to the fixture backend and
// runs it until the input ends or the user quits.
func runShell(t *testing.T, lines ...string) shellRun {
	t.Helper()
	srv := mockapi.New(mockapi.Config{
		Logger:    logging.Discard(),
		JWTSecret: "test-secret",
		Now:       func() time.Time { return testNow },
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	store := session.NewMemoryStore()
	var out bytes.Buffer
	sh := NewShell(Deps{
		Client:   apiclient.New(ts.URL+"/api", apiclient.WithLogger(logging.Discard())),
		Store:    store,
		PageSize: 5,
		Now:      func() time.Time { return testNow },
		Logger:   logging.Discard(),
	}, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)

	require.NoError(t, sh.Run(context.Background()))
	return shellRun{shell: sh, out: out.String(), store: store, server: ts}
}

func TestShell_PatientBooksAndCancels(t *testing.T) {
	run := runShell(t,
		"1", "22222222222", "1234", // patient login
		"3",                        // new appointment
		"1", "2025-12-01",          // date
		"2", "1",                   // city: Ankara
		"3", "şehir", "1",          // hospital, narrowed by search
		"4", "2",                   // department: Kardiyoloji
		"6", "1", "e",              // book 09:30 with Dr. Ahmet Yılmaz
		"7",                        // back home
		"2",                        // future appointments
		"1", "1", "e",              // cancel appointment 1
		"3",                        // back home
		"6",                        // quit
	)

	assert.Contains(t, run.out, "Hoş geldiniz, Zeynep Kurt.")
	assert.Contains(t, run.out, "2025-12-01 tarihli, saat 09:30 için randevu almak istiyor musunuz?")
	assert.Contains(t, run.out, "Randevunuz oluşturuldu.")
	assert.Contains(t, run.out, "Randevu iptal edildi.")
	assert.Contains(t, run.out, "Bu randevunuz hasta tarafından iptal edilmiştir.")
	assert.Equal(t, views.Route{Role: domain.RolePatient, Screen: views.ScreenPatientHome}, run.shell.Route())

	// Cancelling frees the slot on the backend again.
	client := apiclient.New(run.server.URL+"/api", apiclient.WithLogger(logging.Discard()))
	sess, err := run.store.Load(context.Background())
	require.NoError(t, err)
	client.SetAuthToken(sess.Token)
	slots, err := doctor.NewService(client, logging.Discard()).Slots(context.Background(), 10000000000, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, int64(1), slots[0].AppointmentID)
	assert.False(t, slots[0].IsBooked)
}

func TestShell_PatientJoinsWaitingLists(t *testing.T) {
	run := runShell(t,
		"1", "22222222222", "1234",
		"3",
		"1", "2025-12-01",
		"2", "1",      // Ankara
		"3", "2",      // Ankara Şehir Hastanesi
		"4", "1",      // Dahiliye, fully booked
		"6", "1", "e", // doctor waiting list
		"7", "e",      // department waiting list
		"8",           // back home
		"4",           // waiting lists
		"3",           // back
		"6",
	)

	assert.Contains(t, run.out, "Tümü dolu")
	assert.Contains(t, run.out, "Bu bölümdeki tüm doktorların randevuları dolu.")
	assert.Equal(t, 2, strings.Count(run.out, "Bekleme listesine eklendiniz"))
	assert.Contains(t, run.out, "Elif Demir")
	assert.Contains(t, run.out, "Dahiliye")
}

func TestShell_DoctorViewsPrescriptionAndWaitingList(t *testing.T) {
	run := runShell(t,
		"2", "10000000000", "1234",
		"1",        // past appointments
		"1", "169", // toggle prescription
		"3",        // back
		"3", "2",   // waiting list, back
		"5",
	)

	assert.Contains(t, run.out, "Dr. Ahmet Yılmaz")
	assert.Contains(t, run.out, "Reçete (randevu 169): Tansiyon ilacı: günde 1 kez.")
	assert.Contains(t, run.out, "Zeynep Kurt")
	assert.NotContains(t, run.out, "Bekleme listesinden çık")
}

func TestShell_InvalidLoginStaysOnLogin(t *testing.T) {
	run := runShell(t, "1", "22222222222", "yanlış", "5")

	assert.Contains(t, run.out, "Giriş başarısız. Bilgilerinizi kontrol edin.")
	assert.Equal(t, views.ScreenLogin, run.shell.Route().Screen)
	assert.Nil(t, run.shell.Session())
}

func TestShell_RegisterThenLogin(t *testing.T) {
	run := runShell(t,
		"4", "Ali", "Veli", "55555555555", "1", "180", "80", "gizli",
		"1", "55555555555", "gizli",
		"6",
	)

	assert.Contains(t, run.out, "Kayıt başarılı. Ali Veli, artık giriş yapabilirsiniz.")
	assert.Contains(t, run.out, "Hoş geldiniz, Ali Veli.")
	assert.Equal(t, domain.RolePatient, run.shell.Route().Role)
}

func TestShell_RegisterRejectsShortNationalID(t *testing.T) {
	run := runShell(t,
		"4", "Ali", "Veli", "123", "1", "", "", "gizli",
		"", // empty first name returns to login
		"5",
	)

	assert.Contains(t, run.out, "Form geçersiz")
	assert.Equal(t, views.ScreenLogin, run.shell.Route().Screen)
}

func TestShell_SignOutClearsSession(t *testing.T) {
	run := runShell(t, "1", "22222222222", "1234", "5", "5")

	assert.Contains(t, run.out, "Çıkış yapıldı.")
	assert.Equal(t, views.ScreenLogin, run.shell.Route().Screen)
	_, err := run.store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestShell_AdminManagesHospitalsAndPagesLog(t *testing.T) {
	run := runShell(t,
		"3", "admin", "admin",
		"1",                                         // hospitals and departments
		"2", "Ege Üniversitesi", "İzmir", "Bornova", // add hospital
		"1", "izmir",                                // filter
		"3", "h4", "e",                              // delete it
		"7",                                         // back
		"3",                                         // appointment log
		"2",                                         // next page
		"5",                                         // back
		"9",
	)

	assert.Contains(t, run.out, "Yönetim Paneli")
	assert.Contains(t, run.out, "Hastane eklendi (no h4).")
	assert.Contains(t, run.out, "Filtre: izmir")
	assert.Contains(t, run.out, "Kayıt silindi.")
	assert.Contains(t, run.out, "Sayfa 2")
}

func TestShell_AdminDeclinedDeleteKeepsRow(t *testing.T) {
	run := runShell(t,
		"3", "admin", "admin",
		"4",            // patients
		"3", "h1",      // delete unknown key
		"3", "p1", "h", // decline
		"5",            // back
		"9",
	)

	assert.Contains(t, run.out, "Hata: kayıt bulunamadı.")
	assert.Contains(t, run.out, "Silme iptal edildi.")
	assert.NotContains(t, run.out, "Kayıt silindi.")
}

func TestShell_WizardRejectsPastDate(t *testing.T) {
	run := runShell(t,
		"1", "22222222222", "1234",
		"3",
		"1", "2025-11-01",
		"2", // back: city is not offered without a date
		"6",
	)

	assert.Contains(t, run.out, "Hata: geçmiş bir tarih seçilemez.")
	assert.Equal(t, views.ScreenPatientHome, run.shell.Route().Screen)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "işlem iptal edildi.", describe(booking.ErrDeclined))
	assert.Equal(t, "seçilen saat dolu.", describe(booking.ErrSlotBooked))
	assert.Equal(t, "kayıt bulunamadı.", describe(&apiclient.APIError{StatusCode: 404}))
}
