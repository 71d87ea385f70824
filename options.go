package waywin

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"deedles.dev/waywin/internal/logger"
)

// Options control backend behavior. Values come from a [global]
// section in the config file, overridden by an application-scoped
// [app.<name>] section.
type Options struct {
	// AppID is the app id used for toplevel surfaces.
	AppID string

	// NoViewporter and NoRelativePointer disable use of the
	// corresponding optional protocols even when the compositor
	// advertises them.
	NoViewporter      bool
	NoRelativePointer bool

	// ForegroundGrace is how long to wait after a keyboard focus
	// leave before revoking host foreground.
	ForegroundGrace time.Duration

	// ReceiveTimeout is the per-wait timeout while reading a
	// selection payload from the compositor.
	ReceiveTimeout time.Duration
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() *Options {
	return &Options{
		AppID:           "waywin",
		ForegroundGrace: 50 * time.Millisecond,
		ReceiveTimeout:  3 * time.Second,
	}
}

// LoadOptions reads options for the named application from the
// config file under the XDG config directory. A missing file yields
// the defaults.
func LoadOptions(app string) *Options {
	opts := DefaultOptions()
	if app != "" {
		opts.AppID = app
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, "waywin"))
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			logger.Warnf("read config: %v", err)
		}
		return opts
	}

	opts.apply(v, "global")
	if app != "" {
		opts.apply(v, "app."+sanitizeKey(app))
	}
	return opts
}

func (opts *Options) apply(v *viper.Viper, section string) {
	get := func(key string) string { return section + "." + key }

	if v.IsSet(get("app_id")) {
		opts.AppID = v.GetString(get("app_id"))
	}
	if v.IsSet(get("no_viewporter")) {
		opts.NoViewporter = v.GetBool(get("no_viewporter"))
	}
	if v.IsSet(get("no_relative_pointer")) {
		opts.NoRelativePointer = v.GetBool(get("no_relative_pointer"))
	}
	if v.IsSet(get("foreground_grace_ms")) {
		opts.ForegroundGrace = time.Duration(v.GetInt(get("foreground_grace_ms"))) * time.Millisecond
	}
	if v.IsSet(get("receive_timeout_ms")) {
		opts.ReceiveTimeout = time.Duration(v.GetInt(get("receive_timeout_ms"))) * time.Millisecond
	}
}

// sanitizeKey keeps application names from escaping their config
// section. Viper treats dots as separators.
func sanitizeKey(app string) string {
	return strings.ReplaceAll(strings.ToLower(app), ".", "_")
}
