package render

// GroupStrategy controls where optional fields are rendered.
type GroupStrategy string

const (
	// GroupNone renders optional fields inline with the required ones.
	GroupNone GroupStrategy = "no"
	// GroupExpander collects optional fields behind a disclosure section the
	// user can skip entirely.
	GroupExpander GroupStrategy = "expander"
	// GroupSidebar renders optional fields in a trailing secondary section.
	GroupSidebar GroupStrategy = "sidebar"
)

// Options describe per-render data that renderers use to customise their
// output without mutating the form model pipeline.
type Options struct {
	// Values pre-populates widgets using dotted field paths ("author.email").
	Values map[string]any
	// Errors surfaces validation feedback keyed by field path; renderers show
	// these inline next to the matching widget.
	Errors map[string][]string
	// GroupOptional moves optional fields into a secondary area.
	GroupOptional GroupStrategy
	// LowercaseLabels lowercases every widget label.
	LowercaseLabels bool
	// IgnoreEmpty drops empty scalar entries (strings and numbers) from the
	// collected state unless a previous value exists for the path.
	IgnoreEmpty bool
	// SubmitLabel names the submit action. Defaults to "Submit".
	SubmitLabel string
}
