// app.go - Wails 应用核心结构
// 持有托盘、主窗口句柄和事件分发器，负责生命周期管理

package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"traykeeper/config"
	"traykeeper/internal/lifecycle"
	"traykeeper/internal/logging"
	"traykeeper/internal/tray"
	"traykeeper/internal/window"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App 是 Wails 应用的核心结构
type App struct {
	// Wails 上下文
	ctx context.Context

	config        *config.Config
	configPath    string
	configWatcher *config.ConfigWatcher
	logger        *slog.Logger
	logOutput     *logging.Output

	// 窗口与托盘
	registry   *lifecycle.Registry
	mainWindow *window.Handle
	menu       tray.Menu
	dispatcher *lifecycle.Dispatcher
	trayCtrl   tray.Controller
	trayIcon   []byte

	// 可替换的宿主能力（测试注入）
	emit func(ctx context.Context, eventName string, optionalData ...interface{})

	startTime time.Time
	mu        sync.RWMutex
}

type appDeps struct {
	runtime window.Runtime
	emit    func(ctx context.Context, eventName string, optionalData ...interface{})
	exit    func(code int)
}

func wailsDeps() appDeps {
	return appDeps{
		runtime: window.WailsRuntime(),
		emit:    runtime.EventsEmit,
	}
}

// NewApp 创建新的应用实例
func NewApp(cfg *config.Config, configPath string, logOutput *logging.Output, trayIcon []byte) *App {
	return newApp(cfg, configPath, logOutput, trayIcon, wailsDeps())
}

func newApp(cfg *config.Config, configPath string, logOutput *logging.Output, trayIcon []byte, deps appDeps) *App {
	a := &App{
		config:     cfg,
		configPath: configPath,
		logger:     logOutput.Logger,
		logOutput:  logOutput,
		registry:   lifecycle.NewRegistry(),
		mainWindow: window.New(lifecycle.MainWindow, !cfg.Window.StartHidden, deps.runtime),
		menu:       tray.BuildMenu(),
		trayIcon:   trayIcon,
		emit:       deps.emit,
		startTime:  time.Now(),
	}

	a.dispatcher = lifecycle.NewDispatcher(
		&lifecycle.Context{Windows: a.registry, Menu: a.menu},
		lifecycle.WithLogger(a.logger),
		lifecycle.WithExit(deps.exit),
		lifecycle.WithObserver(a.emitVisibility),
	)
	return a
}

// startup 在 Wails 应用启动时调用
func (a *App) startup(ctx context.Context) {
	a.attach(ctx)

	// 先启动托盘再监听配置，热加载回调才能拿到 trayCtrl
	cfg := a.currentConfig()
	a.startTray(cfg)
	a.setupConfigReload()

	a.warnTrayBackend(tray.Backend(), tray.PrimaryClickDelivered())
	a.logger.Info("✅ TrayKeeper 启动完成",
		"tray_backend", tray.Backend(),
		"start_hidden", cfg.Window.StartHidden)
}

// currentConfig 在锁内读取当前配置
func (a *App) currentConfig() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// warnTrayBackend 托盘实现无法投递单击时提示，窗口只能通过菜单切换
func (a *App) warnTrayBackend(backend string, primaryClick bool) {
	if primaryClick {
		return
	}
	a.logger.Warn("⚠️ 当前托盘实现不支持单击托盘图标切换窗口，请使用托盘菜单的 Show/Hide",
		"tray_backend", backend)
}

// attach 绑定 Wails 上下文并登记主窗口
func (a *App) attach(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	a.mainWindow.Attach(ctx)
	a.registry.Register(a.mainWindow.Name(), a.mainWindow)
}

// startTray 挂载托盘菜单，托盘事件转交分发器
func (a *App) startTray(cfg *config.Config) {
	a.mu.RLock()
	ctx := a.ctx
	a.mu.RUnlock()

	ctrl, err := tray.Start(ctx, tray.Options{
		Icon:           a.trayIcon,
		Tooltip:        cfg.Tray.Tooltip,
		Menu:           a.menu,
		OnPrimaryClick: a.onTrayPrimaryClick,
		OnMenuItem:     a.onTrayMenuItem,
	})
	if err != nil {
		// 托盘创建失败属于宿主问题，窗口仍可使用
		a.logger.Error("托盘启动失败", "error", err)
		return
	}

	a.mu.Lock()
	a.trayCtrl = ctrl
	a.mu.Unlock()
}

func (a *App) onTrayPrimaryClick() {
	a.dispatcher.Dispatch(lifecycle.PrimaryClick())
}

func (a *App) onTrayMenuItem(id string) {
	a.dispatcher.Dispatch(lifecycle.MenuItemActivated(id))
}

// onSecondInstanceLaunch 重复启动时把已运行实例的窗口拉到前台
func (a *App) onSecondInstanceLaunch(data options.SecondInstanceData) {
	a.logger.Info("检测到重复启动", "args", data.Args, "working_directory", data.WorkingDirectory)
	a.dispatcher.Dispatch(lifecycle.SecondInstance())
}

// closeRequest 记录关闭事件是否被拦截
type closeRequest struct {
	prevented bool
}

func (c *closeRequest) PreventClose() {
	c.prevented = true
}

// beforeClose 在窗口关闭前调用，返回 true 阻止关闭。
// 关闭按钮只隐藏到托盘，退出只能通过托盘菜单。
func (a *App) beforeClose(ctx context.Context) bool {
	req := &closeRequest{}
	a.dispatcher.Dispatch(lifecycle.CloseRequested(lifecycle.MainWindow, req))
	return req.prevented
}

// shutdown 在 Wails 应用关闭时调用
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	trayCtrl := a.trayCtrl
	configWatcher := a.configWatcher
	a.trayCtrl = nil
	a.configWatcher = nil
	a.mu.Unlock()

	a.logger.Info("🛑 正在关闭 TrayKeeper...", "uptime", time.Since(a.startTime).Round(time.Second))

	if trayCtrl != nil {
		trayCtrl.Stop()
	}
	if configWatcher != nil {
		_ = configWatcher.Close()
	}

	for _, name := range a.registry.Names() {
		a.registry.Unregister(name)
		a.logger.Debug("窗口已注销", "window", name)
	}
	a.mainWindow.Detach()

	a.logger.Info("✅ TrayKeeper 已关闭")
	_ = a.logOutput.Close()
}

// setupConfigReload 监听配置文件，热更新托盘提示和日志级别
func (a *App) setupConfigReload() {
	if a.configPath == "" {
		return
	}

	watcher, err := config.NewConfigWatcher(a.configPath, a.logger)
	if err != nil {
		a.logger.Warn("⚠️ 配置热加载不可用", "error", err)
		return
	}
	watcher.AddReloadCallback(a.applyConfig)

	a.mu.Lock()
	a.configWatcher = watcher
	a.mu.Unlock()
}

// applyConfig 应用可热更新的配置项
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.config = cfg
	trayCtrl := a.trayCtrl
	a.mu.Unlock()

	a.logOutput.Level.Set(logging.ParseLevel(cfg.Logging.Level))
	if trayCtrl != nil {
		trayCtrl.SetTooltip(cfg.Tray.Tooltip)
	}
}
