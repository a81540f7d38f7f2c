//go:build getlantern && !stub

package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"
)

// getlantern/systray 只投递菜单点击，托盘图标单击无法感知。
const (
	backendName          = "getlantern"
	primaryClickDelivery = false
)

type lanternTray struct {
	opts Options
	ctx  context.Context

	// done 关闭后所有菜单监听协程退出
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	ready bool
}

func start(ctx context.Context, opts Options) (Controller, error) {
	t := &lanternTray{
		opts: opts,
		ctx:  ctx,
		done: make(chan struct{}),
	}
	go systray.Run(t.onReady, t.onExit)
	return t, nil
}

func (t *lanternTray) SetTooltip(tooltip string) {
	if tooltip == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready {
		systray.SetTooltip(tooltip)
	}
}

func (t *lanternTray) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		wasReady := t.ready
		t.ready = false
		t.mu.Unlock()

		close(t.done)
		if wasReady {
			systray.Quit()
		}
	})
}

func (t *lanternTray) onReady() {
	if len(t.opts.Icon) > 0 {
		systray.SetIcon(t.opts.Icon)
	}
	systray.SetTooltip(t.opts.Tooltip)

	for _, item := range t.opts.Menu.Items() {
		if item.IsSeparator() {
			systray.AddSeparator()
			continue
		}
		t.forward(item.ID, systray.AddMenuItem(item.Label, item.Tooltip).ClickedCh)
	}

	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()

	go func() {
		select {
		case <-t.ctx.Done():
			t.Stop()
		case <-t.done:
		}
	}()
}

// forward 把一个菜单项的点击转成 OnMenuItem(id)，直到托盘停止
func (t *lanternTray) forward(id string, clicks <-chan struct{}) {
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ctx.Done():
				return
			case <-clicks:
				if t.stopped() {
					return
				}
				t.opts.menuItem(id)
			}
		}
	}()
}

func (t *lanternTray) stopped() bool {
	select {
	case <-t.done:
		return true
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

func (t *lanternTray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
}
