package lifecycle

import (
	"fmt"

	"traykeeper/internal/tray"
)

// Context is what the router may consult while handling one event.
type Context struct {
	Windows WindowLookup
	// Menu, when non-empty, restricts menu activations to its items.
	Menu tray.Menu
}

// Transition reports which visibility change was applied to the window.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionShown
	TransitionHidden
)

func (t Transition) String() string {
	switch t {
	case TransitionShown:
		return "shown"
	case TransitionHidden:
		return "hidden"
	default:
		return "none"
	}
}

// EffectKind enumerates effects the driver must carry out.
type EffectKind int

const (
	EffectTerminate EffectKind = iota + 1
)

// Effect is an action Route asks its caller to perform.
type Effect struct {
	Kind EffectKind
	Code int
}

// Terminate ends the process with code.
func Terminate(code int) Effect {
	return Effect{Kind: EffectTerminate, Code: code}
}

// OpError records a window operation the router attempted and discarded.
type OpError struct {
	Window string
	Op     string
	Err    error
}

func (e OpError) Error() string {
	return fmt.Sprintf("window %q: %s: %v", e.Window, e.Op, e.Err)
}

func (e OpError) Unwrap() error {
	return e.Err
}

// Outcome is the result of routing a single event.
type Outcome struct {
	Transition  Transition
	CloseVetoed bool
	Effects     []Effect
	// Failures lists best-effort operations that failed. Route never acts on
	// them.
	Failures []OpError
}

// Terminate returns the terminate effect, if any.
func (o Outcome) Terminate() (Effect, bool) {
	for _, e := range o.Effects {
		if e.Kind == EffectTerminate {
			return e, true
		}
	}
	return Effect{}, false
}

// Route applies ev to the current window state. It re-queries visibility on
// every call and never returns an error.
func Route(c *Context, ev Event) Outcome {
	var out Outcome
	if c == nil {
		c = &Context{}
	}

	switch ev.Kind {
	case EventTrayPrimaryClick:
		c.toggle(&out)
	case EventMenuItemActivated:
		if !c.knownItem(ev.MenuID) {
			return out
		}
		switch ev.MenuID {
		case tray.MenuShow:
			c.show(&out)
		case tray.MenuHide:
			c.hide(&out)
		case tray.MenuQuit:
			out.Effects = append(out.Effects, Terminate(0))
		}
	case EventCloseRequested:
		if ev.Window != MainWindow {
			return out
		}
		if ev.Close != nil {
			ev.Close.PreventClose()
			out.CloseVetoed = true
		}
		c.hide(&out)
	case EventSecondInstance:
		c.show(&out)
	}
	return out
}

func (c *Context) knownItem(id string) bool {
	if c.Menu.Len() == 0 {
		return true
	}
	_, ok := c.Menu.Lookup(id)
	return ok
}

func (c *Context) mainWindow() (WindowHandle, bool) {
	if c.Windows == nil {
		return nil, false
	}
	w, ok := c.Windows.Lookup(MainWindow)
	if !ok || w == nil {
		return nil, false
	}
	return w, true
}

func (c *Context) toggle(out *Outcome) {
	w, ok := c.mainWindow()
	if !ok {
		return
	}
	// A failed query counts as hidden.
	visible, err := w.IsVisible()
	if err != nil {
		out.fail("is_visible", err)
		visible = false
	}
	if visible {
		hideWindow(w, out)
	} else {
		showWindow(w, out)
	}
}

func (c *Context) show(out *Outcome) {
	if w, ok := c.mainWindow(); ok {
		showWindow(w, out)
	}
}

func (c *Context) hide(out *Outcome) {
	if w, ok := c.mainWindow(); ok {
		hideWindow(w, out)
	}
}

// showWindow shows w and then gives it focus; focus is attempted even when
// show fails.
func showWindow(w WindowHandle, out *Outcome) {
	shown := true
	if err := w.Show(); err != nil {
		out.fail("show", err)
		shown = false
	}
	if err := w.SetFocus(); err != nil {
		out.fail("set_focus", err)
	}
	if shown {
		out.Transition = TransitionShown
	}
}

func hideWindow(w WindowHandle, out *Outcome) {
	if err := w.Hide(); err != nil {
		out.fail("hide", err)
		return
	}
	out.Transition = TransitionHidden
}

func (o *Outcome) fail(op string, err error) {
	o.Failures = append(o.Failures, OpError{Window: MainWindow, Op: op, Err: err})
}
