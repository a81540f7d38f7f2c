package lifecycle

import "errors"

var errHost = errors.New("host refused")

type fakeWindow struct {
	visible   bool
	focused   bool
	destroyed bool

	failVisible bool
	failShow    bool
	failHide    bool
	failFocus   bool

	queries int
	calls   []string
}

func (w *fakeWindow) IsVisible() (bool, error) {
	w.queries++
	w.calls = append(w.calls, "is_visible")
	if w.failVisible {
		return false, errHost
	}
	return w.visible, nil
}

func (w *fakeWindow) Show() error {
	w.calls = append(w.calls, "show")
	if w.failShow {
		return errHost
	}
	w.visible = true
	return nil
}

func (w *fakeWindow) Hide() error {
	w.calls = append(w.calls, "hide")
	if w.failHide {
		return errHost
	}
	w.visible = false
	w.focused = false
	return nil
}

func (w *fakeWindow) SetFocus() error {
	w.calls = append(w.calls, "set_focus")
	if w.failFocus {
		return errHost
	}
	w.focused = true
	return nil
}

type fakeClose struct {
	prevented int
}

func (c *fakeClose) PreventClose() { c.prevented++ }

func newContext(w *fakeWindow) *Context {
	reg := NewRegistry()
	if w != nil {
		reg.Register(MainWindow, w)
	}
	return &Context{Windows: reg}
}
