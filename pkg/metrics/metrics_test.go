package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the hook namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, defaultNamespace)
				So(manager.subsystem, ShouldEqual, defaultSubsystem)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, defaultNamespace)
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline outcomes", func() {
			before := testutil.ToFloat64(globalManager.submissionsSkip.WithLabelValues("card_unknown"))
			RecordSubmissionSkipped("card_unknown")
			RecordSubmissionSkipped("card_unknown")

			Convey("Then the skip counter should grow by reason", func() {
				after := testutil.ToFloat64(globalManager.submissionsSkip.WithLabelValues("card_unknown"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording calls and submissions", func() {
			So(func() {
				RecordCallIntercepted("cardmng", "inquire")
				RecordCardUpdate()
				RecordDecodeError("legacy")
				RecordSubmission()
				RecordSubmissionFailed()
				RecordSubmitLatency(12.5)
			}, ShouldNotPanic)

			Convey("Then the registry should gather them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "takure_hook_calls_intercepted_total")
				So(names, ShouldContain, "takure_hook_submit_latency_milliseconds")
			})
		})
	})
}
