package injuries_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/vstrike/internal/adapters/injuries"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() { _ = logger.Init() }

func TestDecode(t *testing.T) {
	Convey("Given both feed shapes", t, func() {
		book, err := injuries.Decode([]byte(`{"LeBron James":"out","Anthony Davis":"Active"}`))
		So(err, ShouldBeNil)
		So(book, ShouldResemble, rules.Injuries{"LeBron James": rules.StatusOut})

		book, err = injuries.Decode([]byte(`[{"player":"Jayson Tatum","status":"QUESTIONABLE"},{"player":"","status":"OUT"}]`))
		So(err, ShouldBeNil)
		So(book, ShouldResemble, rules.Injuries{"Jayson Tatum": rules.StatusQuestionable})

		_, err = injuries.Decode([]byte(`"nope"`))
		So(err, ShouldNotBeNil)
	})
}

func TestFetchStatuses(t *testing.T) {
	ctx := context.Background()

	Convey("Given a feed that accepts only the second key", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-apisports-key") != "good" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"Stephen Curry":"DOUBTFUL"}`))
		}))
		defer srv.Close()

		c, err := injuries.New(injuries.ProviderAPISports, srv.URL, []string{"bad", "good"},
			injuries.WithRateLimit(1000, 10))
		So(err, ShouldBeNil)

		book, err := c.FetchStatuses(ctx)
		So(err, ShouldBeNil)
		So(book.Status("Stephen Curry"), ShouldEqual, rules.StatusDoubtful)
	})

	Convey("Given a failing feed", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, err := injuries.New(injuries.ProviderSportsData, srv.URL, []string{"k"}, injuries.WithRateLimit(1000, 10))
		So(err, ShouldBeNil)
		_, err = c.FetchStatuses(ctx)
		So(errors.Is(err, injuries.ErrFeed), ShouldBeTrue)
	})

	Convey("Given an unknown provider", t, func() {
		_, err := injuries.New("espn", "http://x", nil)
		So(errors.Is(err, injuries.ErrUnknownProvider), ShouldBeTrue)
	})
}
