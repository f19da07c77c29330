package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the namespace with the labels", func() {
				So(manager, ShouldNotBeNil)
				manager.factsGenerated.Add(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_sub_facts_generated_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			before := counterValue(globalManager.generations.WithLabelValues("persisted"))
			RecordGeneration("persisted")
			RecordFactsGenerated(4)
			RecordParley("safe")
			RecordGenerationDuration(0.2)
			RecordConfidence(80)

			Convey("Then the counters move", func() {
				So(counterValue(globalManager.generations.WithLabelValues("persisted")), ShouldEqual, before+1)
			})
		})

		Convey("When recording feed, grading and storage metrics", func() {
			So(func() {
				RecordOddsRequest("odds", "200")
				RecordOddsRequestLatency(12)
				RecordOddsCache("hit")
				RecordKeyRotation()
				RecordKeysExhausted("basketball_nba")
				RecordInjuryRefresh("ok")
				RecordGraded("WIN")
				RecordGradingRun()
				RecordInsight("warning")
				RecordAdjustment("homeBonus")
				RecordStoreOperation("memory", "get", "ok")
				RecordStoreLatency("memory", "get", 0.1)
				UpdateQueueSize(1)
				UpdateQueueCapacity(16)
				RecordQueueEnqueue()
				RecordQueueEnqueueError()
				RecordQueueDequeue()
				RecordJob("generate", "ok")
				RecordJobLatency("generate", 3)
				RecordHTTPRequest("/feed", "GET", "200")
				RecordHTTPRequestDuration("/feed", "GET", "200", 0.01)
				RecordErrorByComponent("oddsapi", "status")
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			RecordKeyRotation()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "vstrike_engine_api_key_rotations_total")
		})
	})
}
