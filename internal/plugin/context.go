package plugin

import (
	"log/slog"

	"github.com/wilbur182/grudge/internal/config"
	"github.com/wilbur182/grudge/internal/journal"
	"github.com/wilbur182/grudge/internal/store"
)

// BindingRegistrar is the slice of keymap.Registry a plugin needs to
// claim keys inside its own focus contexts.
type BindingRegistrar interface {
	RegisterPluginBinding(key, command, context string)
}

// Context carries the app-owned resources a plugin may hold on to from
// Init. All fields are set before registration and never change.
type Context struct {
	ConfigDir string
	Config    *config.Config
	Store     *store.Store
	Journal   *journal.Journal // nil when event journaling is disabled
	Logger    *slog.Logger
	Keymap    BindingRegistrar
}
