package hospital

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

func TestService_Cities(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hospital/cities", r.URL.Path)
		_, _ = w.Write([]byte(`["Ankara","İstanbul"]`))
	})

	cities, err := svc.Cities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara", "İstanbul"}, cities)
}

func TestService_SearchOmitsBlankDistrict(t *testing.T) {
	var gotQuery map[string][]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hospital/search", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"hospitalId":1,"name":"Ankara Şehir Hastanesi","city":"Ankara","district":"Çankaya"}]`))
	})

	hospitals, err := svc.Search(context.Background(), "Ankara", "  ")
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, int64(1), hospitals[0].HospitalID)
	assert.Equal(t, []string{"Ankara"}, gotQuery["city"])
	_, hasDistrict := gotQuery["district"]
	assert.False(t, hasDistrict)

	_, err = svc.Search(context.Background(), "Ankara", "Çankaya")
	require.NoError(t, err)
	assert.Equal(t, []string{"Çankaya"}, gotQuery["district"])
}

func TestService_CreateReturnsAssignedID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/hospital", r.URL.Path)
		var in domain.HospitalDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.HospitalID = 42
		_ = json.NewEncoder(w).Encode(in)
	})

	created, err := svc.Create(context.Background(), domain.HospitalDTO{Name: "Yeni", City: "Sinop"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.HospitalID)
	assert.Equal(t, "Sinop", created.City)
}

func TestService_AllError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	hospitals, err := svc.All(context.Background())
	require.Error(t, err)
	assert.Nil(t, hospitals)
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))
}
