package tui

import "io"

// Theme captures optional prefixes the surface applies when printing
// messages. Keep minimal to avoid coupling surface logic to ANSI specifics.
type Theme struct {
	RequiredSuffix string
	ErrorPrefix    string
	SuccessPrefix  string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{
	RequiredSuffix: " *",
	ErrorPrefix:    "✗ ",
	SuccessPrefix:  "✓ ",
}

// Option configures the terminal surface.
type Option func(*Surface)

// WithPromptDriver overrides the prompt driver used by the surface.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Surface) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages and tables.
func WithOutput(w io.Writer) Option {
	return func(s *Surface) {
		if w != nil {
			s.out = w
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Surface) {
		s.theme = theme
	}
}

// WithSubmitMessage changes the final confirmation question.
func WithSubmitMessage(msg string) Option {
	return func(s *Surface) {
		if msg != "" {
			s.submitMessage = msg
		}
	}
}

// WithSelectPageSize limits how many options a select prompt shows at once.
// Zero keeps survey's default.
func WithSelectPageSize(size int) Option {
	return func(s *Surface) {
		if size >= 0 {
			s.pageSize = size
		}
	}
}
