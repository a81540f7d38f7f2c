package tray

import "context"

// Controller 表示托盘控制器（用于停止托盘、更新提示文本）。
type Controller interface {
	SetTooltip(tooltip string)
	Stop()
}

// Options 托盘启动参数。
type Options struct {
	// Icon 托盘图标内容（Windows 推荐 .ico 字节；其它平台可忽略）。
	Icon []byte

	// Tooltip 托盘悬浮提示文本。
	Tooltip string

	// Menu 挂载到托盘图标上的菜单，为空时使用 BuildMenu()。
	Menu Menu

	// OnPrimaryClick 托盘图标主键（左键）单击时触发。
	OnPrimaryClick func()

	// OnMenuItem 菜单项被点击时触发，参数为菜单项 ID。
	OnMenuItem func(id string)
}

const defaultTooltip = "TrayKeeper"

// Start 启动系统托盘（平台相关实现）。
func Start(ctx context.Context, opts Options) (Controller, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Menu.Len() == 0 {
		opts.Menu = BuildMenu()
	}
	if opts.Tooltip == "" {
		opts.Tooltip = defaultTooltip
	}
	return start(ctx, opts)
}

// Backend 返回当前编译进来的托盘实现名称
func Backend() string {
	return backendName
}

// PrimaryClickDelivered 当前实现能否投递托盘图标单击（OnPrimaryClick）
func PrimaryClickDelivered() bool {
	return primaryClickDelivery
}

func (o Options) primaryClick() {
	if o.OnPrimaryClick != nil {
		o.OnPrimaryClick()
	}
}

func (o Options) menuItem(id string) {
	if o.OnMenuItem != nil {
		o.OnMenuItem(id)
	}
}
