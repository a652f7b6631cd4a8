package appointments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postBook(t *testing.T, f *serviceFixture, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(f.svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Book(rec, req)
	return rec
}

func bookBody(key string) string {
	doc, _ := json.Marshal(map[string]any{
		"key":          key,
		"zip":          "78701",
		"booking_type": "standard",
		"patient":      map[string]string{"name": "Pat Doe", "phone": "+15125550100"},
	})
	return string(doc)
}

func TestBookEndpointCreated(t *testing.T) {
	f := newServiceFixture(t)
	token, _ := f.sealedKey(t, bookingNow.Add(26*time.Hour))

	rec := postBook(t, f, bookBody(token))

	require.Equal(t, http.StatusCreated, rec.Code)
	var appt Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, f.store.id, appt.ID)
	assert.Equal(t, "booked", appt.Status)
}

func TestBookEndpointInvalidKey(t *testing.T) {
	f := newServiceFixture(t)

	rec := postBook(t, f, bookBody("not-a-real-token"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookEndpointExpiredKey(t *testing.T) {
	f := newServiceFixture(t)
	token, _ := f.sealedKey(t, bookingNow.Add(-time.Hour))

	rec := postBook(t, f, bookBody(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookEndpointConflict(t *testing.T) {
	f := newServiceFixture(t)
	f.store.err = ErrSlotTaken
	token, _ := f.sealedKey(t, bookingNow.Add(26*time.Hour))

	rec := postBook(t, f, bookBody(token))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookEndpointValidation(t *testing.T) {
	f := newServiceFixture(t)

	cases := map[string]string{
		"bad json":     `{`,
		"missing key":  `{"zip": "78701", "patient": {"name": "Pat"}}`,
		"missing zip":  `{"key": "abc", "patient": {"name": "Pat"}}`,
		"missing name": `{"key": "abc", "zip": "78701"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postBook(t, f, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
