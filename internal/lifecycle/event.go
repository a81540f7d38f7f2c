// Package lifecycle decides what happens to the main window when the tray or
// the window itself reports something. Route is a pure function of the current
// window state and one event; Dispatcher is the thin driver that serializes
// delivery and carries out the terminate effect.
package lifecycle

import "fmt"

// MainWindow is the label of the only window the router manages.
const MainWindow = "main"

// EventKind classifies incoming events.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventTrayPrimaryClick
	EventMenuItemActivated
	EventCloseRequested
	// EventSecondInstance is delivered when the app is launched while
	// already running.
	EventSecondInstance
)

func (k EventKind) String() string {
	switch k {
	case EventTrayPrimaryClick:
		return "tray_primary_click"
	case EventMenuItemActivated:
		return "menu_item_activated"
	case EventCloseRequested:
		return "close_requested"
	case EventSecondInstance:
		return "second_instance"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// CloseAPI is handed over with a close request. Calling PreventClose before
// the handler returns cancels the host's default close.
type CloseAPI interface {
	PreventClose()
}

// Event is one notification from the tray or window host.
type Event struct {
	Kind EventKind
	// Window is the label of the window a close request belongs to.
	Window string
	// MenuID is the stable id of the activated menu item.
	MenuID string
	Close  CloseAPI
}

// PrimaryClick builds a tray primary-click event.
func PrimaryClick() Event {
	return Event{Kind: EventTrayPrimaryClick}
}

// MenuItemActivated builds a menu activation event for the given item id.
func MenuItemActivated(id string) Event {
	return Event{Kind: EventMenuItemActivated, MenuID: id}
}

// CloseRequested builds a close request for the named window.
func CloseRequested(window string, api CloseAPI) Event {
	return Event{Kind: EventCloseRequested, Window: window, Close: api}
}

// SecondInstance builds the event fired when another launch is redirected to
// this process.
func SecondInstance() Event {
	return Event{Kind: EventSecondInstance}
}
