package tui

// Option customizes the renderer during construction.
type Option func(*Renderer)

// WithPromptDriver swaps the survey-backed driver for a custom one. Tests use
// this to script responses.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme overrides the lipgloss styles used for section headers, help
// lines, and inline errors.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithFileReader overrides how file-upload fields resolve a path into bytes.
// Tests supply a reader backed by a map instead of the filesystem.
func WithFileReader(read func(path string) ([]byte, error)) Option {
	return func(r *Renderer) {
		if read != nil {
			r.readFile = read
		}
	}
}
