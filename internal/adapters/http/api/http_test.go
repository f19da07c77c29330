package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/vstrike/internal/adapters/http/api"
	"github.com/okian/vstrike/internal/adapters/repository"
	service "github.com/okian/vstrike/internal/app"
	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/grading"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDeps struct {
	outcome     *feed.Outcome
	sets        map[string]*model.DailySet
	graded      []string
	confirmed   *bool
	imported    int
	overwritten bool
	analysis    *feedback.Analysis
	bankroll    decimal.Decimal
}

func newMockDeps() *mockDeps {
	set := &model.DailySet{Date: "2026-10-14", Facts: []model.BetFact{{ID: "g1", Result: model.ResultPending}}}
	return &mockDeps{
		outcome:  &feed.Outcome{State: feed.StatePersisted, Set: set},
		sets:     map[string]*model.DailySet{"2026-10-14": set},
		bankroll: decimal.NewFromInt(20),
	}
}

func (m *mockDeps) GetStats(context.Context) (service.Stats, error) {
	return service.Stats{Started: true, Date: "2026-10-14", Facts: 1}, nil
}

func (m *mockDeps) Today(context.Context) (*feed.Outcome, error) { return m.outcome, nil }

func (m *mockDeps) DailySet(_ context.Context, date string) (*model.DailySet, error) {
	if set, ok := m.sets[date]; ok {
		return set, nil
	}
	return nil, fmt.Errorf("%s: %w", date, service.ErrNoSet)
}

func (m *mockDeps) GradeYesterday(context.Context) (grading.Report, error) {
	m.graded = append(m.graded, "yesterday")
	return grading.Report{Date: "2026-10-13"}, nil
}

func (m *mockDeps) GradeDay(_ context.Context, date string, scores []model.FinalScore) (grading.Report, error) {
	m.graded = append(m.graded, date)
	return grading.Report{Date: date, Graded: len(scores)}, nil
}

func (m *mockDeps) SetResult(ctx context.Context, date, id string, r model.Result) (*model.DailySet, error) {
	set, err := m.DailySet(ctx, date)
	if err != nil {
		return nil, err
	}
	return set, grading.SetResult(set, id, r)
}

func (m *mockDeps) Analyze(context.Context, string) (*feedback.Analysis, error) { return m.analysis, nil }

func (m *mockDeps) Params(context.Context) (model.Params, error) { return model.DefaultParams(), nil }

func (m *mockDeps) Overrides(context.Context) (*feedback.Overrides, error) {
	return &feedback.Overrides{}, nil
}

func (m *mockDeps) ApplyAdjustment(_ context.Context, a feedback.Action, confirmed bool) (feedback.Change, error) {
	m.confirmed = &confirmed
	if !confirmed {
		return feedback.Change{}, feedback.ErrNotConfirmed
	}
	return feedback.Change{ID: "c1", Param: a.Param, NewValue: a.NewValue}, nil
}

func (m *mockDeps) WeeklySummary(context.Context) (feedback.Summary, error) {
	return feedback.Summary{Days: 1}, nil
}

func (m *mockDeps) ExportHistory(context.Context) (*repository.History, error) {
	return &repository.History{Version: 1, Sets: []model.DailySet{*m.sets["2026-10-14"]}}, nil
}

func (m *mockDeps) ImportHistory(_ context.Context, h *repository.History, overwrite bool) (int, error) {
	m.imported = len(h.Sets)
	m.overwritten = overwrite
	return len(h.Sets), nil
}

func (m *mockDeps) Bankroll(context.Context) (decimal.Decimal, error) { return m.bankroll, nil }

func (m *mockDeps) SetBankroll(_ context.Context, v decimal.Decimal) (decimal.Decimal, error) {
	if !v.IsPositive() {
		return decimal.Decimal{}, service.ErrInvalidBankroll
	}
	m.bankroll = v.Round(2)
	return m.bankroll, nil
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestServer_Routes(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		mux := http.NewServeMux()
		api.NewServer(deps).Register(context.Background(), mux)

		Convey("Then health and metrics are served", func() {
			So(serve(mux, "GET", "/healthz", "").Code, ShouldEqual, http.StatusOK)
			So(serve(mux, "GET", "/metrics", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats are served", func() {
			w := serve(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["facts"], ShouldEqual, 1.0)
		})

		Convey("When today's feed is requested", func() {
			w := serve(mux, "GET", "/feed", "")

			Convey("Then the set is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["status"], ShouldEqual, "ok")
				So(body["date"], ShouldEqual, "2026-10-14")
			})
		})

		Convey("When today has no qualifying picks", func() {
			deps.outcome = &feed.Outcome{State: feed.StateEmpty, Set: &model.DailySet{Date: "2026-10-14"}}
			w := serve(mux, "GET", "/feed", "")

			Convey("Then the response says so without failing", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["status"], ShouldEqual, "no_recommendations")
				So(body["set"], ShouldBeNil)
			})
		})

		Convey("Then a stored day is served and unknown days are 404", func() {
			So(serve(mux, "GET", "/feed/2026-10-14", "").Code, ShouldEqual, http.StatusOK)
			So(serve(mux, "GET", "/feed/2026-01-01", "").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, "GET", "/feed/today", "").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, "POST", "/feed", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When grading", func() {
			So(serve(mux, "POST", "/grade", "").Code, ShouldEqual, http.StatusOK)
			w := serve(mux, "POST", "/grade", `{"date":"2026-10-14","scores":[{"event_id":"g1","home_team":"Lakers","away_team":"Kings","home_score":110,"away_score":100}]}`)

			Convey("Then both modes reach the engine", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(w)["graded"], ShouldEqual, 1.0)
				So(deps.graded, ShouldResemble, []string{"yesterday", "2026-10-14"})
			})
		})

		Convey("When a result is set by hand", func() {
			w := serve(mux, "POST", "/results", `{"date":"2026-10-14","id":"g1","result":"win"}`)

			Convey("Then it is applied once", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				again := serve(mux, "POST", "/results", `{"date":"2026-10-14","id":"g1","result":"LOSS"}`)
				So(again.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("Then bad input is rejected", func() {
				So(serve(mux, "POST", "/results", `{"date":"2026-10-14","id":"g1","result":"PENDING"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(serve(mux, "POST", "/results", `{"date":"2026-10-14","id":"zzz","result":"WIN"}`).Code, ShouldEqual, http.StatusNotFound)
				So(serve(mux, "POST", "/results", `{"nope":1}`).Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("Then insights report missing data", func() {
			w := serve(mux, "GET", "/insights?date=2026-10-14", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["status"], ShouldEqual, "no_data")
			So(serve(mux, "GET", "/insights", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When parameters are adjusted", func() {
			unconfirmed := serve(mux, "POST", "/params/adjust", `{"action":{"param":"homeBonus","new_value":8}}`)
			confirmed := serve(mux, "POST", "/params/adjust", `{"action":{"param":"homeBonus","new_value":8},"confirm":true}`)

			Convey("Then only the confirmed change is applied", func() {
				So(unconfirmed.Code, ShouldEqual, http.StatusBadRequest)
				So(confirmed.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(confirmed)["new_value"], ShouldEqual, 8.0)
				So(*deps.confirmed, ShouldBeTrue)
			})
		})

		Convey("Then params and the weekly summary are served", func() {
			w := serve(mux, "GET", "/params", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			params := decodeBody(w)["params"].(map[string]any)
			So(params, ShouldNotBeEmpty)
			So(serve(mux, "GET", "/summary/weekly", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the bankroll is replaced", func() {
			put := serve(mux, "PUT", "/bankroll", `{"bankroll":"35.456"}`)

			Convey("Then the new value is stored and read back", func() {
				So(put.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(put)["bankroll"], ShouldEqual, "35.46")
				get := serve(mux, "GET", "/bankroll", "")
				So(get.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(get)["bankroll"], ShouldEqual, "35.46")
			})

			Convey("Then invalid values and methods are rejected", func() {
				So(serve(mux, "PUT", "/bankroll", `{"bankroll":"-5"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(serve(mux, "PUT", "/bankroll", `{"amount":5}`).Code, ShouldEqual, http.StatusBadRequest)
				del := serve(mux, "DELETE", "/bankroll", "")
				So(del.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(del.Header().Get("Allow"), ShouldEqual, "GET, PUT")
			})
		})

		Convey("When history is exported and imported back", func() {
			exp := serve(mux, "GET", "/history/export", "")
			So(exp.Code, ShouldEqual, http.StatusOK)
			imp := serve(mux, "POST", "/history/import?overwrite=true", exp.Body.String())

			Convey("Then the days round trip", func() {
				So(imp.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(imp)["imported"], ShouldEqual, 1.0)
				So(deps.overwritten, ShouldBeTrue)
				So(serve(mux, "POST", "/history/import?overwrite=maybe", exp.Body.String()).Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
