package lifecycle

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traykeeper/internal/tray"
)

func TestRoute_PrimaryClickHidesVisibleWindow(t *testing.T) {
	w := &fakeWindow{visible: true}
	out := Route(newContext(w), PrimaryClick())

	assert.False(t, w.visible)
	assert.Equal(t, TransitionHidden, out.Transition)
	assert.Empty(t, out.Failures)
	assert.Empty(t, out.Effects)
}

func TestRoute_PrimaryClickShowsAndFocusesHiddenWindow(t *testing.T) {
	w := &fakeWindow{}
	out := Route(newContext(w), PrimaryClick())

	assert.True(t, w.visible)
	assert.True(t, w.focused)
	assert.Equal(t, []string{"is_visible", "show", "set_focus"}, w.calls)
	assert.Equal(t, TransitionShown, out.Transition)
}

func TestRoute_PrimaryClickRoundTrip(t *testing.T) {
	for _, start := range []bool{true, false} {
		w := &fakeWindow{visible: start}
		ctx := newContext(w)
		for i := 1; i <= 10; i++ {
			Route(ctx, PrimaryClick())
			want := start
			if i%2 == 1 {
				want = !start
			}
			require.Equal(t, want, w.visible, "start=%v click=%d", start, i)
		}
		assert.Equal(t, 10, w.queries, "visibility must be re-queried on every click")
	}
}

func TestRoute_PrimaryClickRequeriesAfterExternalChange(t *testing.T) {
	w := &fakeWindow{visible: true}
	ctx := newContext(w)

	Route(ctx, PrimaryClick())
	require.False(t, w.visible)

	// 窗口被外部重新显示，下一次单击必须看到新状态
	w.visible = true
	Route(ctx, PrimaryClick())
	assert.False(t, w.visible)
}

func TestRoute_PrimaryClickVisibilityQueryFailureShows(t *testing.T) {
	w := &fakeWindow{visible: false, failVisible: true}
	out := Route(newContext(w), PrimaryClick())

	assert.True(t, w.visible)
	assert.True(t, w.focused)
	assert.Equal(t, []string{"is_visible", "show", "set_focus"}, w.calls)
	assert.Equal(t, TransitionShown, out.Transition)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "is_visible", out.Failures[0].Op)
	assert.True(t, errors.Is(out.Failures[0], errHost))

	// 窗口实际可见但查询失败时，同样只会再次显示，不会隐藏
	w.calls = nil
	out = Route(newContext(w), PrimaryClick())
	assert.True(t, w.visible)
	assert.Equal(t, []string{"is_visible", "show", "set_focus"}, w.calls)
	assert.Equal(t, TransitionShown, out.Transition)
}

func TestRoute_MenuShowHide(t *testing.T) {
	w := &fakeWindow{}
	ctx := newContext(w)

	out := Route(ctx, MenuItemActivated(tray.MenuShow))
	assert.True(t, w.visible)
	assert.True(t, w.focused)
	assert.Equal(t, TransitionShown, out.Transition)

	out = Route(ctx, MenuItemActivated(tray.MenuHide))
	assert.False(t, w.visible)
	assert.Equal(t, TransitionHidden, out.Transition)
}

func TestRoute_MenuActivationsEndInLastRequestedState(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		w := &fakeWindow{visible: rng.Intn(2) == 0}
		ctx := newContext(w)

		n := 1 + rng.Intn(8)
		last := ""
		for i := 0; i < n; i++ {
			id := tray.MenuShow
			if rng.Intn(2) == 0 {
				id = tray.MenuHide
			}
			Route(ctx, MenuItemActivated(id))
			last = id
		}
		assert.Equal(t, last == tray.MenuShow, w.visible, "round %d", round)
	}
}

func TestRoute_RepeatedShowIsIdempotent(t *testing.T) {
	w := &fakeWindow{}
	ctx := newContext(w)
	for i := 0; i < 3; i++ {
		Route(ctx, MenuItemActivated(tray.MenuShow))
		require.True(t, w.visible)
	}
	for i := 0; i < 3; i++ {
		Route(ctx, MenuItemActivated(tray.MenuHide))
		require.False(t, w.visible)
	}
}

func TestRoute_ShowStillFocusesWhenShowFails(t *testing.T) {
	w := &fakeWindow{failShow: true}
	out := Route(newContext(w), MenuItemActivated(tray.MenuShow))

	assert.Equal(t, []string{"show", "set_focus"}, w.calls)
	assert.Equal(t, TransitionNone, out.Transition)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "show", out.Failures[0].Op)
}

func TestRoute_FocusFailureDoesNotUndoShow(t *testing.T) {
	w := &fakeWindow{failFocus: true}
	out := Route(newContext(w), MenuItemActivated(tray.MenuShow))

	assert.True(t, w.visible)
	assert.Equal(t, TransitionShown, out.Transition)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "set_focus", out.Failures[0].Op)
}

func TestRoute_QuitTerminatesRegardlessOfVisibility(t *testing.T) {
	for _, visible := range []bool{true, false} {
		w := &fakeWindow{visible: visible}
		out := Route(newContext(w), MenuItemActivated(tray.MenuQuit))

		eff, ok := out.Terminate()
		require.True(t, ok)
		assert.Equal(t, 0, eff.Code)
		assert.Equal(t, visible, w.visible)
		assert.Empty(t, w.calls)
	}

	out := Route(newContext(nil), MenuItemActivated(tray.MenuQuit))
	_, ok := out.Terminate()
	assert.True(t, ok, "quit does not need the window")
}

func TestRoute_CloseRequestedHidesAndVetoes(t *testing.T) {
	w := &fakeWindow{visible: true}
	api := &fakeClose{}
	ctx := newContext(w)

	out := Route(ctx, CloseRequested(MainWindow, api))

	assert.Equal(t, 1, api.prevented)
	assert.True(t, out.CloseVetoed)
	assert.False(t, w.visible)
	assert.False(t, w.destroyed)
	assert.Empty(t, out.Effects)

	// 仍可通过托盘重新显示
	_, ok := ctx.Windows.Lookup(MainWindow)
	require.True(t, ok)
	Route(ctx, PrimaryClick())
	assert.True(t, w.visible)
}

func TestRoute_CloseRequestedVetoesEvenWhenHideFails(t *testing.T) {
	w := &fakeWindow{visible: true, failHide: true}
	api := &fakeClose{}
	out := Route(newContext(w), CloseRequested(MainWindow, api))

	assert.Equal(t, 1, api.prevented)
	assert.True(t, out.CloseVetoed)
	assert.Equal(t, TransitionNone, out.Transition)
	require.Len(t, out.Failures, 1)
}

func TestRoute_CloseRequestedForOtherWindowIsIgnored(t *testing.T) {
	w := &fakeWindow{visible: true}
	api := &fakeClose{}
	out := Route(newContext(w), CloseRequested("settings", api))

	assert.Zero(t, api.prevented)
	assert.False(t, out.CloseVetoed)
	assert.True(t, w.visible)
	assert.Empty(t, w.calls)
}

func TestRoute_MissingWindowIsNoop(t *testing.T) {
	events := []Event{
		PrimaryClick(),
		MenuItemActivated(tray.MenuShow),
		MenuItemActivated(tray.MenuHide),
		CloseRequested(MainWindow, &fakeClose{}),
		SecondInstance(),
	}
	for _, ev := range events {
		out := Route(newContext(nil), ev)
		assert.Equal(t, TransitionNone, out.Transition, ev.Kind.String())
		assert.Empty(t, out.Failures)
		assert.Empty(t, out.Effects)
	}

	// 只有非 main 的窗口时同样无操作
	other := &fakeWindow{visible: true}
	reg := NewRegistry()
	reg.Register("secondary", other)
	Route(&Context{Windows: reg}, PrimaryClick())
	assert.True(t, other.visible)
	assert.Empty(t, other.calls)

	assert.NotPanics(t, func() { Route(nil, PrimaryClick()) })
	assert.NotPanics(t, func() { Route(&Context{}, MenuItemActivated(tray.MenuShow)) })
}

func TestRoute_UnknownMenuIDAndEventKindIgnored(t *testing.T) {
	w := &fakeWindow{visible: true}
	ctx := newContext(w)

	for _, ev := range []Event{
		MenuItemActivated("settings"),
		MenuItemActivated(""),
		{Kind: EventUnknown},
		{Kind: EventKind(99), MenuID: tray.MenuQuit},
	} {
		out := Route(ctx, ev)
		assert.Equal(t, Outcome{}, out)
	}
	assert.True(t, w.visible)
	assert.Empty(t, w.calls)
}

func TestRoute_MenuRestrictsToKnownItems(t *testing.T) {
	w := &fakeWindow{}
	ctx := newContext(w)
	ctx.Menu = tray.BuildMenu()

	Route(ctx, MenuItemActivated(tray.MenuShow))
	assert.True(t, w.visible)

	out := Route(ctx, MenuItemActivated("about"))
	assert.Equal(t, Outcome{}, out)
}

func TestRoute_SecondInstanceShowsWindow(t *testing.T) {
	w := &fakeWindow{}
	out := Route(newContext(w), SecondInstance())

	assert.True(t, w.visible)
	assert.True(t, w.focused)
	assert.Equal(t, TransitionShown, out.Transition)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "tray_primary_click", EventTrayPrimaryClick.String())
	assert.Equal(t, "close_requested", EventCloseRequested.String())
	assert.Equal(t, "unknown(42)", EventKind(42).String())
}
