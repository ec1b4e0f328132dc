// Package tray provides the status-bar menu using getlantern/systray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID        int
	Title     string
	Checkable bool
	Checked   bool
	Disabled  bool
	Callback  func()

	children []*MenuItem
	item     *systray.MenuItem
}

// Tray manages the status-bar title and menu. Items are declared before Run
// and materialized once systray is ready; later updates go straight to the
// live items.
type Tray struct {
	mu      sync.Mutex
	items   []*MenuItem // top level, nil is a separator
	byID    []*MenuItem
	title   string
	tooltip string
	ready   bool
	onExit  func()
	quitCh  chan struct{}

	stopOnce sync.Once
}

// New creates a new status-bar tray
func New(title, tooltip string) *Tray {
	return &Tray{
		title:   title,
		tooltip: tooltip,
		quitCh:  make(chan struct{}),
	}
}

func (t *Tray) add(parent int, mi *MenuItem) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	mi.ID = len(t.byID)
	t.byID = append(t.byID, mi)
	if p := t.lookup(parent); p != nil {
		p.children = append(p.children, mi)
	} else {
		t.items = append(t.items, mi)
	}
	return mi.ID
}

// lookup returns the item for id or nil. Caller holds t.mu.
func (t *Tray) lookup(id int) *MenuItem {
	if id < 0 || id >= len(t.byID) {
		return nil
	}
	return t.byID[id]
}

// AddMenuItem adds a clickable item to the menu
func (t *Tray) AddMenuItem(title string, callback func()) int {
	return t.add(-1, &MenuItem{Title: title, Callback: callback})
}

// AddCheckbox adds an item that shows a check mark.
func (t *Tray) AddCheckbox(title string, checked bool, callback func()) int {
	return t.add(-1, &MenuItem{Title: title, Checkable: true, Checked: checked, Callback: callback})
}

// AddLabel adds a disabled, informational item.
func (t *Tray) AddLabel(title string) int {
	return t.add(-1, &MenuItem{Title: title, Disabled: true})
}

// AddSubMenu adds an item that only opens a submenu.
func (t *Tray) AddSubMenu(title string) int {
	return t.add(-1, &MenuItem{Title: title})
}

// AddSubMenuItem adds an item under parent.
func (t *Tray) AddSubMenuItem(parent int, title string, checkable, checked bool, callback func()) int {
	return t.add(parent, &MenuItem{Title: title, Checkable: checkable, Checked: checked, Callback: callback})
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, nil) // nil indicates separator
}

// SetItemChecked sets the checked state of a menu item
func (t *Tray) SetItemChecked(id int, checked bool) {
	t.mu.Lock()
	mi := t.lookup(id)
	if mi == nil {
		t.mu.Unlock()
		return
	}
	mi.Checked = checked
	live := mi.item
	t.mu.Unlock()

	if live != nil {
		if checked {
			live.Check()
		} else {
			live.Uncheck()
		}
	}
}

// SetItemTitle changes the label of a menu item.
func (t *Tray) SetItemTitle(id int, title string) {
	t.mu.Lock()
	mi := t.lookup(id)
	if mi == nil {
		t.mu.Unlock()
		return
	}
	mi.Title = title
	live := mi.item
	t.mu.Unlock()

	if live != nil {
		live.SetTitle(title)
	}
}

// SetTitle changes the text shown in the status bar.
func (t *Tray) SetTitle(title string) {
	t.mu.Lock()
	t.title = title
	ready := t.ready
	t.mu.Unlock()

	if ready {
		systray.SetTitle(title)
	}
}

// OnExit registers fn to run after the menu loop stops.
func (t *Tray) OnExit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExit = fn
}

// Run starts the tray event loop (blocks). It must be called from the main
// goroutine.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.exit)
}

func (t *Tray) exit() {
	close(t.quitCh)
	t.mu.Lock()
	fn := t.onExit
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetTitle(t.title)
	systray.SetTooltip(t.tooltip)

	for _, mi := range t.items {
		if mi == nil {
			systray.AddSeparator()
			continue
		}
		if mi.Checkable {
			mi.item = systray.AddMenuItemCheckbox(mi.Title, "", mi.Checked)
		} else {
			mi.item = systray.AddMenuItem(mi.Title, "")
		}
		t.materialize(mi)
	}
	t.ready = true
}

func (t *Tray) materialize(mi *MenuItem) {
	if mi.Disabled {
		mi.item.Disable()
	}
	for _, child := range mi.children {
		if child.Checkable {
			child.item = mi.item.AddSubMenuItemCheckbox(child.Title, "", child.Checked)
		} else {
			child.item = mi.item.AddSubMenuItem(child.Title, "")
		}
		t.materialize(child)
	}

	// Handle clicks in goroutine
	if mi.Callback != nil {
		go func(mi *MenuItem) {
			for {
				select {
				case <-mi.item.ClickedCh:
					mi.Callback()
				case <-t.quitCh:
					return
				}
			}
		}(mi)
	}
}

// Stop stops the tray. Calls after the first are ignored.
func (t *Tray) Stop() {
	t.stopOnce.Do(systray.Quit)
}
