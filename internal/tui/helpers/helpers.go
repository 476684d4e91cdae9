package helpers

import (
	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/session"
)

// NavigateToWelcomeMsg asks the root model to return to the welcome screen.
type NavigateToWelcomeMsg struct{}

// OpenWorkspaceMsg asks the root model to open the workspace at Path.
type OpenWorkspaceMsg struct {
	Path string
}

// NavigateToSettingsMsg asks the root model to show the settings screen.
type NavigateToSettingsMsg struct{}

// ConfigSavedMsg reports that settings were written to disk so the root
// model can re-apply theme and editor options.
type ConfigSavedMsg struct {
	Config *config.Config
}

// UIContext carries environment information needed for creating UI models.
type UIContext struct {
	Width   int
	Height  int
	Config  *config.Config
	Session *session.Session
	Logger  *logging.AppLogger
}

// NewUIContext creates a new UI context with the provided parameters.
func NewUIContext(width, height int, cfg *config.Config, sess *session.Session, logger *logging.AppLogger) UIContext {
	return UIContext{
		Width:   width,
		Height:  height,
		Config:  cfg,
		Session: sess,
		Logger:  logger,
	}
}

// HasValidDimensions checks if the context has valid window dimensions.
func (ctx UIContext) HasValidDimensions() bool {
	return ctx.Width > 0 && ctx.Height > 0
}
