package waywin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deedles.dev/waywin/xdg"
)

func TestConfigureCompatible(t *testing.T) {
	maximized := Configure{Serial: 3, Width: 1920, Height: 1080, Flags: ConfigureMaximized | ConfigureActivated}
	fullscreen := Configure{Serial: 4, Width: 1920, Height: 1080, Flags: ConfigureFullscreen}
	floating := Configure{Serial: 5, Width: 800, Height: 600, Flags: ConfigureActivated}

	tests := []struct {
		name          string
		cfg           Configure
		width, height int32
		flags         ConfigureFlags
		want          bool
	}{
		{"zero serial never matches", Configure{}, 800, 600, 0, false},
		{"flags must be a subset", floating, 800, 600, ConfigureMaximized, false},
		{"maximized exact size", maximized, 1920, 1080, ConfigureMaximized, true},
		{"maximized wrong size", maximized, 1280, 1024, ConfigureMaximized, false},
		{"maximized flag omitted still exact", maximized, 640, 480, 0, false},
		{"fullscreen smaller is fine", fullscreen, 1280, 720, ConfigureFullscreen, true},
		{"fullscreen exact is fine", fullscreen, 1920, 1080, ConfigureFullscreen, true},
		{"fullscreen larger is not", fullscreen, 2560, 1440, ConfigureFullscreen, false},
		{"floating takes any size", floating, 12345, 1, 0, true},
		{"floating with subset flags", floating, 100, 100, ConfigureActivated, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Compatible(tt.width, tt.height, tt.flags))
		})
	}
}

func TestFlagsFromStates(t *testing.T) {
	f := flagsFromStates([]xdg.ToplevelState{
		xdg.ToplevelStateMaximized,
		xdg.ToplevelStateActivated,
		xdg.ToplevelState(99), // unknown states are ignored
	})
	assert.True(t, f.Has(ConfigureMaximized))
	assert.True(t, f.Has(ConfigureActivated))
	assert.False(t, f.Has(ConfigureFullscreen))
	assert.False(t, f.Has(ConfigureResizing))

	assert.Equal(t, ConfigureFlags(0), flagsFromStates(nil))
}
