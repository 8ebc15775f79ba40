package world

import "fmt"

// Effects is the fire-and-forget cosmetic surface of the host: particles,
// camera shake, HUD updates, audio cues. Calls never fail and return
// nothing; a headless host may ignore them entirely.
type Effects interface {
	Particles(preset string, x, y float64)
	CameraShake(intensity, duration float64)
	UIText(elementID, text string)
	UIBar(elementID string, value, max float64)
	ShowScreen(name string)
	HideScreen(name string)
	Audio(cue string)
}

// NopEffects discards every trigger.
type NopEffects struct{}

func (NopEffects) Particles(string, float64, float64) {}
func (NopEffects) CameraShake(float64, float64)       {}
func (NopEffects) UIText(string, string)              {}
func (NopEffects) UIBar(string, float64, float64)     {}
func (NopEffects) ShowScreen(string)                  {}
func (NopEffects) HideScreen(string)                  {}
func (NopEffects) Audio(string)                       {}

// EffectLog records triggers as formatted strings, newest last. Used by
// tests and by the headless runner's debug mode.
type EffectLog struct {
	Calls []string
}

func (l *EffectLog) Particles(preset string, x, y float64) {
	l.record("particles %s (%.0f,%.0f)", preset, x, y)
}
func (l *EffectLog) CameraShake(intensity, duration float64) {
	l.record("camera_shake %.1f %.2f", intensity, duration)
}
func (l *EffectLog) UIText(elementID, text string) {
	l.record("ui_text %s %q", elementID, text)
}
func (l *EffectLog) UIBar(elementID string, value, max float64) {
	l.record("ui_bar %s %.1f/%.1f", elementID, value, max)
}
func (l *EffectLog) ShowScreen(name string) { l.record("show_screen %s", name) }
func (l *EffectLog) HideScreen(name string) { l.record("hide_screen %s", name) }
func (l *EffectLog) Audio(cue string)       { l.record("audio %s", cue) }

func (l *EffectLog) record(format string, args ...any) {
	l.Calls = append(l.Calls, fmt.Sprintf(format, args...))
}

// CountPrefix returns how many recorded triggers start with prefix.
func (l *EffectLog) CountPrefix(prefix string) int {
	n := 0
	for _, c := range l.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
