package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-BusinessBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BusinessBooking/pkg/logger"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, serviceID, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"serviceId": serviceID})
	w := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(w, r)
	return w
}

func TestAvailableSlots(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		ServiceID: 3,
		Date:      day,
		Slots:     []time.Time{day.Add(9 * time.Hour), day.Add(9*time.Hour + 15*time.Minute)},
	}}

	w := serve(uc, "3", "date=2026-10-19")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, day, uc.got.Date)

	var resp AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "2026-10-19", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[0].Equal(day.Add(9*time.Hour)))
}

func TestAvailableSlotsClosedDayIsEmptyList(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{ServiceID: 3}}

	w := serve(uc, "3", "date=2026-10-18")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":[]`)
}

func TestAvailableSlotsErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "3", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "3", "date=19.10.2026").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "x", "date=2026-10-19").Code)

	assert.Equal(t, http.StatusNotFound, serve(&fakeUseCase{err: getAvailableSlots.ErrServiceNotFound}, "3", "date=2026-10-19").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{err: getAvailableSlots.ErrDateInPast}, "3", "date=2026-10-01").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{err: getAvailableSlots.ErrBrokenServiceLink}, "3", "date=2026-10-19").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeUseCase{err: getAvailableSlots.ErrInternal}, "3", "date=2026-10-19").Code)
}
