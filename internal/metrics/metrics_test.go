package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with defaults", func() {
			m := NewManager()
			So(m, ShouldNotBeNil)
			So(m.Registry(), ShouldNotBeNil)
		})

		Convey("When two managers share nothing", func() {
			So(func() {
				NewManager()
				NewManager()
			}, ShouldNotPanic)
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)
			So(m.Registry(), ShouldEqual, registry)
		})
	})
}

func TestObserveEvaluation(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()))

		Convey("Outcomes and fallback fields are counted", func() {
			m.ObserveEvaluation("ok", 0, 10*time.Millisecond)
			m.ObserveEvaluation("fallback", domain.FallbackScore|domain.FallbackFeedback, time.Millisecond)
			m.ObserveEvaluation("fallback", domain.FallbackScore, time.Millisecond)

			So(testutil.ToFloat64(m.evaluations.WithLabelValues("ok")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.evaluations.WithLabelValues("fallback")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.evaluationFallback.WithLabelValues("score")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.evaluationFallback.WithLabelValues("feedback")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.evaluationFallback.WithLabelValues("reasoning")), ShouldEqual, 0)
		})

		Convey("Store counters increment", func() {
			m.RecordArgumentSaved()
			m.RecordArgumentDeleted()
			m.RecordUsage(domain.UsagePractice, 90)
			m.RecordJournalDrop()

			So(testutil.ToFloat64(m.argumentsSaved), ShouldEqual, 1)
			So(testutil.ToFloat64(m.argumentsDeleted), ShouldEqual, 1)
			So(testutil.ToFloat64(m.usageSeconds.WithLabelValues("practice")), ShouldEqual, 90)
			So(testutil.ToFloat64(m.journalDropped), ShouldEqual, 1)
		})
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	Convey("Given a router instrumented by the manager", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()))
		r := chi.NewRouter()
		r.Use(m.Middleware)
		r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		r.Handle("/metrics", m.Handler())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
		So(rec.Code, ShouldEqual, http.StatusTeapot)

		Convey("The request is labelled by route pattern", func() {
			So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/items/{id}", "GET", "418")), ShouldEqual, 1)
		})

		Convey("The metrics endpoint exposes the counters", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(strings.Contains(rec.Body.String(), "debate_coach_http_requests_total"), ShouldBeTrue)
		})
	})
}
