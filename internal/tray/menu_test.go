package tray

import (
	"errors"
	"path/filepath"
	"testing"

	"huangdou/internal/config"
	"huangdou/internal/trigger"
)

type fakePrompter struct {
	text    string
	ok      bool
	err     error
	prompts []string
	infos   []string
}

func (p *fakePrompter) Prompt(title, message, def string) (string, bool, error) {
	p.prompts = append(p.prompts, def)
	return p.text, p.ok, p.err
}

func (p *fakePrompter) Info(title, message string) error {
	p.infos = append(p.infos, title)
	return nil
}

type fakeLogin struct {
	enabled bool
	err     error
}

func (l *fakeLogin) IsEnabled() bool { return l.enabled }

func (l *fakeLogin) Toggle() (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.enabled = !l.enabled
	return l.enabled, nil
}

type menuHarness struct {
	menu   *Menu
	tray   *Tray
	cfg    *config.Manager
	dialog *fakePrompter
	login  *fakeLogin
}

func newMenuHarness(t *testing.T) *menuHarness {
	t.Helper()
	cfg, err := config.NewManager(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	h := &menuHarness{
		tray:   New(StatusTitle(false), AppTitle),
		cfg:    cfg,
		dialog: &fakePrompter{},
		login:  &fakeLogin{},
	}
	h.menu = NewMenu(h.tray, cfg, h.dialog, h.login, nil)
	cfg.RegisterChangeCallback(h.menu.Refresh)
	return h
}

func (h *menuHarness) item(id int) *MenuItem {
	return h.tray.byID[id]
}

func (h *menuHarness) click(id int) {
	h.item(id).Callback()
}

func TestMenuInitialState(t *testing.T) {
	h := newMenuHarness(t)

	if !h.item(h.menu.keyIDs[trigger.RightCommand]).Checked {
		t.Error("Expected right command checked by default")
	}
	if h.item(h.menu.keyIDs[trigger.LeftCommand]).Checked {
		t.Error("Expected left command unchecked")
	}
	if got := h.item(h.menu.settingIDs[NormalDelay]).Title; got != "Normal delay (later uses): 3.0 s" {
		t.Errorf("unexpected submenu title %q", got)
	}
	// presets plus the custom entry
	if got := len(h.item(h.menu.settingIDs[Threshold]).children); got != 7 {
		t.Errorf("Expected 7 threshold entries, got %d", got)
	}
}

func TestSelectKey(t *testing.T) {
	h := newMenuHarness(t)

	h.click(h.menu.keyIDs[trigger.LeftOption])

	if h.cfg.Get().TriggerKey() != trigger.LeftOption {
		t.Errorf("Expected left option saved, got %v", h.cfg.Get().TriggerKey())
	}
	for k, id := range h.menu.keyIDs {
		if h.item(id).Checked != (k == trigger.LeftOption) {
			t.Errorf("%s checked=%v", k, h.item(id).Checked)
		}
	}
}

func TestSelectPreset(t *testing.T) {
	h := newMenuHarness(t)
	ids := h.menu.presetIDs[ColdStartDelay]

	h.click(ids[0])

	if h.cfg.Get().ColdStartDelay != 0.5 {
		t.Errorf("Expected cold start 0.5, got %v", h.cfg.Get().ColdStartDelay)
	}
	if !h.item(ids[0]).Checked {
		t.Error("Expected selected preset checked")
	}
	for _, id := range ids[1:] {
		if h.item(id).Checked {
			t.Errorf("Expected %q unchecked", h.item(id).Title)
		}
	}
	if got := h.item(h.menu.settingIDs[ColdStartDelay]).Title; got != "Cold start delay (first use): 0.5 s" {
		t.Errorf("Expected title to follow value, got %q", got)
	}
}

func TestCustomValue(t *testing.T) {
	h := newMenuHarness(t)
	h.dialog.text, h.dialog.ok = "7.25", true

	h.menu.promptCustom(NormalDelay)

	if h.cfg.Get().NormalDelay != 7.25 {
		t.Errorf("Expected custom value saved, got %v", h.cfg.Get().NormalDelay)
	}
	if len(h.dialog.prompts) != 1 || h.dialog.prompts[0] != "3.0" {
		t.Errorf("Expected prompt prefilled with current value, got %v", h.dialog.prompts)
	}
}

func TestCustomValueRejected(t *testing.T) {
	for _, input := range []string{"abc", "0", "10.5", ""} {
		h := newMenuHarness(t)
		h.dialog.text, h.dialog.ok = input, true

		h.menu.promptCustom(Threshold)

		if h.cfg.Get().LongPressThreshold != 0.5 {
			t.Errorf("input %q: Expected prior value kept, got %v", input, h.cfg.Get().LongPressThreshold)
		}
	}
}

func TestCustomValueCanceled(t *testing.T) {
	h := newMenuHarness(t)
	h.dialog.text, h.dialog.ok = "2.0", false

	h.menu.promptCustom(ColdStartDelay)

	if h.cfg.Get().ColdStartDelay != 3.5 {
		t.Errorf("Expected prior value kept, got %v", h.cfg.Get().ColdStartDelay)
	}
}

func TestToggleLogin(t *testing.T) {
	h := newMenuHarness(t)

	h.click(h.menu.loginID)
	if !h.login.enabled || !h.item(h.menu.loginID).Checked {
		t.Error("Expected login item enabled and checked")
	}

	h.login.err = errors.New("permission denied")
	h.click(h.menu.loginID)
	if !h.item(h.menu.loginID).Checked {
		t.Error("Expected check to follow actual state after failure")
	}
}

func TestHelp(t *testing.T) {
	h := newMenuHarness(t)

	h.menu.showHelp()

	if len(h.dialog.infos) != 1 || h.dialog.infos[0] != HelpTitle {
		t.Errorf("Expected help dialog, got %v", h.dialog.infos)
	}
}

func TestSetRecording(t *testing.T) {
	h := newMenuHarness(t)

	h.menu.SetRecording(true)
	if h.tray.title != "🔴" {
		t.Errorf("Expected recording title, got %q", h.tray.title)
	}
	h.menu.SetRecording(false)
	if h.tray.title != "🎤" {
		t.Errorf("Expected idle title, got %q", h.tray.title)
	}
}
