// Package layout splits the terminal between the sidebar, the editor and
// the response panel.
package layout

// Mode is how many panels fit side by side.
type Mode int

const (
	// Single shows only the focused panel.
	Single Mode = iota
	// Split shows the editor and the response.
	Split
	// Full shows all three panels, the sidebar when enabled.
	Full
)

// Breakpoints, in columns.
const (
	SplitWidth = 60
	FullWidth  = 100
)

const (
	chromeRows      = 2 // header line and status bar
	minSidebarWidth = 24
	maxSidebarWidth = 40
)

// PanelLayout holds the computed panel sizes. Widths of hidden panels are
// zero except in Single mode, where every panel gets the full width.
type PanelLayout struct {
	Mode          Mode
	Width         int
	Height        int
	ContentHeight int

	SidebarWidth  int
	EditorWidth   int
	ResponseWidth int
}

// Calculate lays out a terminal of width x height.
func Calculate(width, height int, sidebar bool) PanelLayout {
	l := PanelLayout{
		Width:         width,
		Height:        height,
		ContentHeight: max(height-chromeRows, 1),
	}

	switch {
	case width < SplitWidth:
		l.Mode = Single
		l.SidebarWidth, l.EditorWidth, l.ResponseWidth = width, width, width
		return l
	case width < FullWidth:
		l.Mode = Split
	default:
		l.Mode = Full
		if sidebar {
			l.SidebarWidth = min(max(width/5, minSidebarWidth), maxSidebarWidth)
		}
	}
	rest := width - l.SidebarWidth
	l.EditorWidth = rest / 2
	l.ResponseWidth = rest - l.EditorWidth
	return l
}

// ShowsSidebar reports whether the sidebar is drawn next to the other panels.
func (l PanelLayout) ShowsSidebar() bool {
	return l.Mode == Full && l.SidebarWidth > 0
}

// SidebarReachable reports whether focus may move to the sidebar. In Single
// mode every panel is reachable one at a time.
func (l PanelLayout) SidebarReachable() bool {
	return l.Mode == Single || l.ShowsSidebar()
}
