//go:build !stub && !getlantern

package tray

import (
	"context"
	"sync"

	"github.com/energye/systray"
)

const (
	backendName          = "energye"
	primaryClickDelivery = true
)

type energyeController struct {
	opts      Options
	ctx       context.Context
	once      sync.Once
	running   bool
	runningMu sync.Mutex
}

func (c *energyeController) SetTooltip(tooltip string) {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()
	if c.running && tooltip != "" {
		systray.SetTooltip(tooltip)
	}
}

func (c *energyeController) Stop() {
	c.once.Do(func() {
		c.runningMu.Lock()
		defer c.runningMu.Unlock()
		if c.running {
			systray.Quit()
			c.running = false
		}
	})
}

func start(ctx context.Context, opts Options) (Controller, error) {
	ctrl := &energyeController{
		opts: opts,
		ctx:  ctx,
	}

	// systray.Run 会阻塞，在单独的 goroutine 中运行
	go func() {
		systray.Run(ctrl.onReady, ctrl.onExit)
	}()

	// 上下文结束时顺带停止托盘
	go func() {
		<-ctx.Done()
		ctrl.Stop()
	}()

	return ctrl, nil
}

func (c *energyeController) onReady() {
	c.runningMu.Lock()
	c.running = true
	c.runningMu.Unlock()

	if len(c.opts.Icon) > 0 {
		systray.SetIcon(c.opts.Icon)
	}
	systray.SetTooltip(c.opts.Tooltip)

	// 左键单击切换主窗口；右键保持默认行为弹出菜单
	systray.SetOnClick(func(systray.IMenu) {
		c.opts.primaryClick()
	})

	for _, item := range c.opts.Menu.Items() {
		if item.IsSeparator() {
			systray.AddSeparator()
			continue
		}
		id := item.ID
		systray.AddMenuItem(item.Label, item.Tooltip).Click(func() {
			c.opts.menuItem(id)
		})
	}
}

func (c *energyeController) onExit() {
	c.runningMu.Lock()
	c.running = false
	c.runningMu.Unlock()
}
