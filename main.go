// main.go - TrayKeeper Wails 应用入口
// 主窗口关闭时隐藏到托盘，退出只走托盘菜单

package main

import (
	"embed"
	"flag"
	"fmt"
	"os"
	goruntime "runtime"

	"traykeeper/config"
	"traykeeper/internal/logging"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

// 版本信息
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// 命令行参数
var (
	configPath  = flag.String("config", config.DefaultPath(), "配置文件路径")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// 嵌入前端资源
//
//go:embed all:frontend/dist
var assets embed.FS

// 嵌入应用图标
//
//go:embed build/appicon.png
var icon []byte

// 托盘图标（Windows 需要 .ico）
//
//go:embed build/trayicon.ico
var trayIconICO []byte

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("TrayKeeper\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Built: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告：配置加载失败，使用默认配置: %v\n", err)
		cfg = config.Default()
	}

	logOutput, err := logging.Setup(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告：日志文件不可用，仅输出到控制台: %v\n", err)
		logOutput, _ = logging.Setup(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	app := NewApp(cfg, *configPath, logOutput, trayIcon())

	appOptions := &options.App{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		MinWidth:    cfg.Window.MinWidth,
		MinHeight:   cfg.Window.MinHeight,
		StartHidden: cfg.Window.StartHidden,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		BackgroundColour: &options.RGBA{R: 26, G: 26, B: 46, A: 1},

		// 生命周期回调
		OnStartup:     app.startup,
		OnBeforeClose: app.beforeClose,
		OnShutdown:    app.shutdown,

		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				HideTitleBar:               false,
				FullSizeContent:            true,
				UseToolbar:                 false,
			},
			About: &mac.AboutInfo{
				Title:   cfg.Window.Title,
				Message: fmt.Sprintf("版本 %s", Version),
				Icon:    icon,
			},
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Linux: &linux.Options{
			Icon: icon,
		},
	}

	if cfg.SingleInstance.Enabled {
		appOptions.SingleInstanceLock = &options.SingleInstanceLock{
			UniqueId:               cfg.SingleInstance.ID,
			OnSecondInstanceLaunch: app.onSecondInstanceLaunch,
		}
	}

	if err := wails.Run(appOptions); err != nil {
		logOutput.Logger.Error("应用运行失败", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func trayIcon() []byte {
	if goruntime.GOOS == "windows" {
		return trayIconICO
	}
	return icon
}
