// app_events.go - Wails 事件发射
// 将主窗口可见性变化通知到前端

package main

import (
	"traykeeper/internal/lifecycle"
)

// 事件名称常量
const (
	EventWindowVisibility = "window:visibility"
)

// emitVisibility 在窗口显示/隐藏后发送事件到前端
func (a *App) emitVisibility(ev lifecycle.Event, out lifecycle.Outcome) {
	if out.Transition == lifecycle.TransitionNone || a.emit == nil {
		return
	}

	a.mu.RLock()
	ctx := a.ctx
	a.mu.RUnlock()
	if ctx == nil {
		return
	}

	a.emit(ctx, EventWindowVisibility, map[string]interface{}{
		"visible": out.Transition == lifecycle.TransitionShown,
		"source":  ev.Kind.String(),
	})
}
