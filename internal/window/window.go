// Package window adapts the Wails v2 main window to lifecycle.WindowHandle.
//
// Wails v2 cannot report whether a window is visible, so Handle records it
// from its own Show and Hide calls. Every show/hide must go through the
// Handle: calling runtime.WindowShow or runtime.WindowHide directly (from Go
// or from the frontend's JS runtime) leaves the recorded state stale, and the
// next tray click toggles the wrong way.
package window

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrNotAttached 窗口尚未拿到 Wails 上下文（启动前或关闭后）
var ErrNotAttached = errors.New("window not attached to runtime")

// Runtime 封装用到的 Wails runtime 函数，便于测试替换
type Runtime struct {
	Show           func(ctx context.Context)
	Hide           func(ctx context.Context)
	Unminimise     func(ctx context.Context)
	SetAlwaysOnTop func(ctx context.Context, b bool)
}

// WailsRuntime 返回真实的 Wails v2 runtime 实现
func WailsRuntime() Runtime {
	return Runtime{
		Show:           runtime.WindowShow,
		Hide:           runtime.WindowHide,
		Unminimise:     runtime.WindowUnminimise,
		SetAlwaysOnTop: runtime.WindowSetAlwaysOnTop,
	}
}

// Handle Wails 主窗口句柄。
// Wails v2 没有可见性查询接口，可见性由句柄自身记录：
// 所有显示/隐藏都经过这里，StartHidden 决定初始值。
type Handle struct {
	mu      sync.Mutex
	name    string
	ctx     context.Context
	rt      Runtime
	visible bool
}

// New 创建窗口句柄，visible 为窗口启动时是否显示
func New(name string, visible bool, rt Runtime) *Handle {
	return &Handle{
		name:    name,
		rt:      rt,
		visible: visible,
	}
}

// Name 窗口标识
func (h *Handle) Name() string {
	return h.name
}

// Attach 在 OnStartup 中绑定 Wails 上下文
func (h *Handle) Attach(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx = ctx
}

// Detach 在 OnShutdown 中解绑，之后所有操作返回 ErrNotAttached
func (h *Handle) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx = nil
}

func (h *Handle) IsVisible() (bool, error) {
	if h == nil {
		return false, ErrNotAttached
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx == nil {
		return false, ErrNotAttached
	}
	return h.visible, nil
}

func (h *Handle) Show() error {
	if h == nil {
		return ErrNotAttached
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("show", h.rt.Show); err != nil {
		return err
	}
	h.visible = true
	return nil
}

func (h *Handle) Hide() error {
	if h == nil {
		return ErrNotAttached
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("hide", h.rt.Hide); err != nil {
		return err
	}
	h.visible = false
	return nil
}

// SetFocus 取消最小化并短暂置顶，把窗口拉到前台
func (h *Handle) SetFocus() error {
	if h == nil {
		return ErrNotAttached
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("unminimise", h.rt.Unminimise); err != nil {
		return err
	}
	if h.rt.SetAlwaysOnTop == nil {
		return nil
	}
	if err := h.call("always_on_top", func(ctx context.Context) { h.rt.SetAlwaysOnTop(ctx, true) }); err != nil {
		return err
	}
	return h.call("always_on_top", func(ctx context.Context) { h.rt.SetAlwaysOnTop(ctx, false) })
}

// call 执行一次 runtime 调用，把 panic 转成错误。调用方持有锁。
func (h *Handle) call(op string, fn func(ctx context.Context)) (err error) {
	if h.ctx == nil {
		return ErrNotAttached
	}
	if fn == nil {
		return fmt.Errorf("window %s: %s: not supported", h.name, op)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("window %s: %s: %v", h.name, op, r)
		}
	}()
	fn(h.ctx)
	return nil
}
