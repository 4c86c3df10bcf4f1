package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/takure/internal/adapters/avs"
	"github.com/okian/takure/internal/adapters/hook"
	service "github.com/okian/takure/internal/app"
	"github.com/okian/takure/internal/config"
	"github.com/okian/takure/internal/domain/version"
	. "github.com/smartystreets/goconvey/convey"
)

func newConfig() *config.Config {
	cfg := config.New(context.Background())
	cfg.Tachi.BaseURL = "http://127.0.0.1:1"
	return cfg
}

func TestService_New(t *testing.T) {
	Convey("Given a configuration and a host", t, func() {
		Convey("Then a service is built with a client from the config", func() {
			svc, err := service.New(newConfig(), newFakeHost())
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
		})

		Convey("Then a missing host is refused", func() {
			_, err := service.New(newConfig(), nil)
			So(errors.Is(err, service.ErrNotConfigured), ShouldBeTrue)
		})

		Convey("Then a missing base url is refused outside debug mode", func() {
			cfg := newConfig()
			cfg.Tachi.BaseURL = ""
			_, err := service.New(cfg, newFakeHost())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service for a supported game", t, func() {
		ctx := context.Background()
		host := newFakeHost()
		remote := &fakeRemote{}
		cfg := newConfig()
		svc, err := service.New(cfg, host, service.WithRemote(remote))
		So(err, ShouldBeNil)
		defer svc.Stop(ctx)

		ea3 := versionTree("MDX", "A", "2023091800")

		Convey("When started", func() {
			So(svc.Start(ctx, ea3, 0), ShouldBeNil)

			Convey("Then the hook is installed and the user known", func() {
				So(svc.Active(), ShouldBeTrue)
				So(host.point.Installed(), ShouldBeTrue)
				So(svc.User(), ShouldEqual, uint64(42))
				So(svc.Profile().Generation, ShouldEqual, version.NoteArrayV2)
			})

			Convey("Then a second start is refused", func() {
				So(errors.Is(svc.Start(ctx, ea3, 0), service.ErrAlreadyStarted), ShouldBeTrue)
			})

			Convey("Then stopping removes the hook", func() {
				svc.Stop(ctx)
				So(svc.Active(), ShouldBeFalse)
				So(host.point.Installed(), ShouldBeFalse)
			})
		})

		Convey("When the module is disabled", func() {
			cfg.General.Enable = false
			So(svc.Start(ctx, ea3, 0), ShouldBeNil)
			So(svc.Active(), ShouldBeFalse)
			So(remote.Statuses(), ShouldEqual, 0)
		})

		Convey("When the build is unsupported", func() {
			for _, tree := range []*avs.MemTree{
				versionTree("KFC", "A", "2023091800"),
				versionTree("MDX", "X", "2023091800"),
				versionTree("MDX", "A", "2021010100"),
			} {
				So(svc.Start(ctx, tree, 0), ShouldBeNil)
				So(svc.Active(), ShouldBeFalse)
			}
			So(host.point.Installed(), ShouldBeFalse)
		})

		Convey("When the version cannot be read", func() {
			So(svc.Start(ctx, avs.NewMemTree(), 0), ShouldBeNil)

			Convey("Then the hook is enabled with the default profile", func() {
				So(svc.Active(), ShouldBeTrue)
				So(svc.Profile().Generation, ShouldEqual, version.Legacy)
			})
		})

		Convey("When the scoring service is unreachable", func() {
			remote.statusErr = errors.New("connection refused")
			err := svc.Start(ctx, ea3, 0)
			So(errors.Is(err, service.ErrStatusProbe), ShouldBeTrue)
			So(host.point.Installed(), ShouldBeFalse)
		})

		Convey("When debug mode is on", func() {
			cfg.General.Debug = true
			So(svc.Start(ctx, ea3, 0), ShouldBeNil)
			So(remote.Statuses(), ShouldEqual, 0)
			So(svc.Active(), ShouldBeTrue)
		})

		Convey("When the interception point cannot be installed", func() {
			host.point.FailInstall(errors.New("page protection denied"))
			err := svc.Start(ctx, ea3, 0)
			So(errors.Is(err, hook.ErrInstall), ShouldBeTrue)
			So(svc.Active(), ShouldBeFalse)
		})
	})
}

func TestService_Intercept(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		host := newFakeHost()
		remote := &fakeRemote{}
		svc, err := service.New(newConfig(), host, service.WithRemote(remote))
		So(err, ShouldBeNil)
		So(svc.Start(ctx, versionTree("MDX", "A", "2022100500"), 0), ShouldBeNil)
		defer svc.Stop(ctx)

		host.Put(0x1000, cardTree("inquire", testCard))
		host.Put(0x2000, saveTree(saveMethod, savePayload("usersave", "REF", false, 0)))
		host.Put(0x3000, avs.NewMemTree())

		Convey("When the game inquires a card and saves a score", func() {
			host.point.Invoke(0x1000)
			host.point.Invoke(0x2000)
			host.point.Invoke(0x3000)

			Convey("Then the score is submitted and every call reached the game", func() {
				So(remote.Imports(), ShouldHaveLength, 1)
				So(host.point.OriginalCalls(), ShouldEqual, int64(3))
				card, _ := svc.Cards().Current()
				So(card, ShouldEqual, testCard)
			})
		})

		Convey("When a save fails to submit", func() {
			remote.importErr = errors.New("timeout")
			host.point.Invoke(0x1000)
			host.point.Invoke(0x2000)
			So(host.point.OriginalCalls(), ShouldEqual, int64(2))
			So(remote.Imports(), ShouldBeEmpty)
		})
	})
}
