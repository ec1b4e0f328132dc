package tray

import (
	"log/slog"

	"huangdou/internal/config"
	"huangdou/internal/trigger"
)

// Prompter shows the modal dialogs the menu needs.
type Prompter interface {
	Prompt(title, message, def string) (text string, ok bool, err error)
	Info(title, message string) error
}

// LoginItem switches start-at-login on and off.
type LoginItem interface {
	IsEnabled() bool
	Toggle() (bool, error)
}

// Menu builds the application menu on a Tray and keeps it in sync with the
// configuration.
type Menu struct {
	tray   *Tray
	cfg    *config.Manager
	dialog Prompter
	login  LoginItem
	onQuit func()

	keyIDs     map[trigger.Key]int
	settingIDs map[Setting]int
	presetIDs  map[Setting][]int
	loginID    int
}

// NewMenu declares the menu items on t. login may be nil where login items
// are unsupported.
func NewMenu(t *Tray, cfg *config.Manager, dialog Prompter, login LoginItem, onQuit func()) *Menu {
	m := &Menu{
		tray:       t,
		cfg:        cfg,
		dialog:     dialog,
		login:      login,
		onQuit:     onQuit,
		keyIDs:     make(map[trigger.Key]int),
		settingIDs: make(map[Setting]int),
		presetIDs:  make(map[Setting][]int),
		loginID:    -1,
	}
	m.build(cfg.Get())
	return m
}

func (m *Menu) build(cfg config.Config) {
	t := m.tray

	t.AddLabel(AppTitle)
	t.AddSeparator()

	for _, opt := range KeyOptions(cfg) {
		key := opt.Key
		m.keyIDs[key] = t.AddCheckbox(opt.Label, opt.Checked, func() { m.selectKey(key) })
	}
	t.AddSeparator()

	t.AddLabel("Delay settings")
	for _, s := range Settings {
		setting := s
		parent := t.AddSubMenu(setting.Label(cfg))
		m.settingIDs[setting] = parent
		for _, opt := range setting.Options(cfg) {
			v := opt.Value
			id := t.AddSubMenuItem(parent, opt.Label, true, opt.Checked, func() { m.apply(setting, v) })
			m.presetIDs[setting] = append(m.presetIDs[setting], id)
		}
		t.AddSubMenuItem(parent, customLabel, false, false, func() { m.promptCustom(setting) })
	}
	t.AddSeparator()

	if m.login != nil {
		m.loginID = t.AddCheckbox("Launch at login", m.login.IsEnabled(), m.toggleLogin)
		t.AddSeparator()
	}

	t.AddMenuItem("How to use", m.showHelp)
	t.AddSeparator()
	t.AddMenuItem("Quit", m.quit)
}

// Refresh updates labels and check marks to match cfg.
func (m *Menu) Refresh(cfg config.Config) {
	for _, opt := range KeyOptions(cfg) {
		m.tray.SetItemChecked(m.keyIDs[opt.Key], opt.Checked)
	}
	for _, s := range Settings {
		m.tray.SetItemTitle(m.settingIDs[s], s.Label(cfg))
		ids := m.presetIDs[s]
		for i, opt := range s.Options(cfg) {
			if i < len(ids) {
				m.tray.SetItemChecked(ids[i], opt.Checked)
			}
		}
	}
}

// SetRecording switches the status-bar indicator.
func (m *Menu) SetRecording(recording bool) {
	m.tray.SetTitle(StatusTitle(recording))
}

func (m *Menu) selectKey(k trigger.Key) {
	slog.Info("tray: trigger key selected", "key", k)
	m.update(func(c *config.Config) { c.ShortcutTag = int(k) })
}

func (m *Menu) apply(s Setting, v float64) {
	m.update(func(c *config.Config) { s.Apply(c, v) })
}

func (m *Menu) promptCustom(s Setting) {
	cur := s.Value(m.cfg.Get())
	text, ok, err := m.dialog.Prompt(s.PromptTitle(), PromptMessage(), FormatValue(cur))
	if err != nil {
		slog.Error("tray: custom value dialog failed", "error", err)
		return
	}
	if !ok {
		return
	}
	v, err := config.ParseDelay(text)
	if err != nil {
		slog.Debug("tray: ignoring invalid custom value", "input", text)
		return
	}
	m.apply(s, v)
}

func (m *Menu) update(fn func(*config.Config)) {
	if err := m.cfg.Update(fn); err != nil {
		slog.Error("tray: failed to save preferences", "error", err)
	}
}

func (m *Menu) toggleLogin() {
	on, err := m.login.Toggle()
	if err != nil {
		slog.Error("tray: failed to change login item", "error", err)
		on = m.login.IsEnabled()
	}
	m.tray.SetItemChecked(m.loginID, on)
}

func (m *Menu) showHelp() {
	if err := m.dialog.Info(HelpTitle, HelpText); err != nil {
		slog.Error("tray: failed to show help", "error", err)
	}
}

func (m *Menu) quit() {
	if m.onQuit != nil {
		m.onQuit()
	}
	m.tray.Stop()
}
