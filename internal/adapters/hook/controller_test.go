package hook

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/okian/takure/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestControllerLifecycle(t *testing.T) {
	Convey("Given a controller over a function point", t, func() {
		ctx := context.Background()
		point := NewFuncPoint(func(uintptr) int32 { return 7 })
		c := NewController(point, func(context.Context, uintptr) {})

		Convey("Install is idempotent", func() {
			So(c.Install(ctx), ShouldBeNil)
			So(c.Install(ctx), ShouldBeNil)
			So(c.Installed(), ShouldBeTrue)
		})

		Convey("Remove without install does nothing", func() {
			c.Remove(ctx)
			So(c.Installed(), ShouldBeFalse)
		})

		Convey("Remove restores direct calls", func() {
			So(c.Install(ctx), ShouldBeNil)
			c.Remove(ctx)
			So(c.Installed(), ShouldBeFalse)
			So(point.Invoke(1), ShouldEqual, int32(7))
			So(point.OriginalCalls(), ShouldEqual, int64(1))
		})

		Convey("A failing install is reported as an install error", func() {
			point.FailInstall(errors.New("protect denied"))
			err := c.Install(ctx)
			So(errors.Is(err, ErrInstall), ShouldBeTrue)
			So(c.Installed(), ShouldBeFalse)
		})
	})
}

func TestControllerIntercept(t *testing.T) {
	Convey("Given an installed controller", t, func() {
		ctx := context.Background()
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)

		var mu sync.Mutex
		var seen []uintptr
		var order []string
		point := NewFuncPoint(func(arg uintptr) int32 {
			mu.Lock()
			order = append(order, "original")
			mu.Unlock()
			return int32(arg) * 2
		})
		handler := func(_ context.Context, arg uintptr) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, arg)
			order = append(order, "handler")
		}
		c := NewController(point, handler, WithLogger(logger.Get()))
		So(c.Install(ctx), ShouldBeNil)

		Convey("The handler runs before the original, which runs once", func() {
			So(point.Invoke(21), ShouldEqual, int32(42))
			So(seen, ShouldResemble, []uintptr{21})
			So(order, ShouldResemble, []string{"handler", "original"})
			So(point.OriginalCalls(), ShouldEqual, int64(1))
		})

		Convey("A nil argument skips the handler but not the original", func() {
			So(point.Invoke(0), ShouldEqual, int32(0))
			So(seen, ShouldBeEmpty)
			So(point.OriginalCalls(), ShouldEqual, int64(1))
		})

		Convey("A panicking handler is recovered and the original still runs", func() {
			panicking := NewFuncPoint(func(uintptr) int32 { return 3 })
			pc := NewController(panicking, func(context.Context, uintptr) {
				panic("boom")
			}, WithLogger(logger.Get()))
			So(pc.Install(ctx), ShouldBeNil)

			So(func() { panicking.Invoke(5) }, ShouldNotPanic)
			So(panicking.OriginalCalls(), ShouldEqual, int64(1))
			So(strings.Contains(buf.String(), "recovered from handler panic"), ShouldBeTrue)
		})

		Convey("Concurrent calls each reach the original exactly once", func() {
			var wg sync.WaitGroup
			for i := 1; i <= 32; i++ {
				wg.Add(1)
				go func(arg uintptr) {
					defer wg.Done()
					point.Invoke(arg)
				}(uintptr(i))
			}
			wg.Wait()
			So(point.OriginalCalls(), ShouldEqual, int64(32))
			So(len(seen), ShouldEqual, 32)
		})
	})
}
