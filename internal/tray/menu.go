package tray

// 菜单项稳定 ID，事件路由按 ID 分发
const (
	MenuShow = "show"
	MenuHide = "hide"
	MenuQuit = "quit"
)

// ItemKind 菜单项类型
type ItemKind int

const (
	// ItemAction 可点击的菜单项
	ItemAction ItemKind = iota
	// ItemSeparator 分隔线
	ItemSeparator
)

// MenuItem 托盘菜单项，启动时创建，之后不再修改
type MenuItem struct {
	ID      string
	Label   string
	Tooltip string
	Kind    ItemKind
}

// IsSeparator 是否为分隔线
func (m MenuItem) IsSeparator() bool {
	return m.Kind == ItemSeparator
}

// Menu 有序的托盘菜单
type Menu struct {
	items []MenuItem
}

// BuildMenu 构建固定托盘菜单：显示、隐藏、分隔线、退出。
func BuildMenu() Menu {
	return Menu{items: []MenuItem{
		{ID: MenuShow, Label: "Show", Tooltip: "Show the main window", Kind: ItemAction},
		{ID: MenuHide, Label: "Hide", Tooltip: "Hide the main window", Kind: ItemAction},
		{Kind: ItemSeparator},
		{ID: MenuQuit, Label: "Quit", Tooltip: "Quit the application", Kind: ItemAction},
	}}
}

// Items 返回菜单项副本
func (m Menu) Items() []MenuItem {
	out := make([]MenuItem, len(m.items))
	copy(out, m.items)
	return out
}

// Lookup 按 ID 查找可点击菜单项
func (m Menu) Lookup(id string) (MenuItem, bool) {
	if id == "" {
		return MenuItem{}, false
	}
	for _, item := range m.items {
		if item.Kind == ItemAction && item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Len 菜单项数量（含分隔线）
func (m Menu) Len() int {
	return len(m.items)
}
