package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	before := testutil.ToFloat64(httpErrorsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "500"))
	beforeReq := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, beforeReq+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}")))
	assert.Equal(t, before+1, testutil.ToFloat64(httpErrorsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "500")))
}

func TestObserveSourceFetch(t *testing.T) {
	okBefore := testutil.ToFloat64(sourceFetchTotal.WithLabelValues("TestJudge", ResultSuccess))
	failBefore := testutil.ToFloat64(sourceFetchTotal.WithLabelValues("TestJudge", ResultFailure))

	ObserveSourceFetch("TestJudge", 7, nil)
	ObserveSourceFetch("TestJudge", 0, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(sourceFetchTotal.WithLabelValues("TestJudge", ResultSuccess)))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(sourceFetchTotal.WithLabelValues("TestJudge", ResultFailure)))
	// A failed fetch leaves the last known count alone.
	assert.Equal(t, float64(7), testutil.ToFloat64(sourceContests.WithLabelValues("TestJudge")))
}

func TestObserveUserSync(t *testing.T) {
	okBefore := testutil.ToFloat64(userSyncTotal.WithLabelValues(ResultSuccess))
	authBefore := testutil.ToFloat64(userSyncTotal.WithLabelValues("unauthenticated"))

	ObserveUserSync("", time.Now())
	ObserveUserSync("unauthenticated", time.Now())

	assert.Equal(t, okBefore+1, testutil.ToFloat64(userSyncTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, authBefore+1, testutil.ToFloat64(userSyncTotal.WithLabelValues("unauthenticated")))
}

func TestAddReminders(t *testing.T) {
	before := testutil.ToFloat64(remindersAddedTotal)

	AddReminders(3)
	AddReminders(0)
	AddReminders(-1)

	assert.Equal(t, before+3, testutil.ToFloat64(remindersAddedTotal))
}

func TestObserveCalendarError(t *testing.T) {
	before := testutil.ToFloat64(calendarWriteErrorsTotal.WithLabelValues("insert"))
	ObserveCalendarError("insert")
	assert.Equal(t, before+1, testutil.ToFloat64(calendarWriteErrorsTotal.WithLabelValues("insert")))
}

func TestHandler(t *testing.T) {
	AddReminders(1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "contestcal_reminders_added_total"))
}
