package render

import (
	"context"

	"github.com/goliatone/go-autoform/pkg/model"
)

// Input renders interactive widgets for a form model and collects the values
// the user entered into an explicit State. The state going in carries prefill
// values and server-side errors; the state coming out is the session's
// current value map.
type Input interface {
	Name() string
	Render(ctx context.Context, form model.FormModel, opts Options) (*State, error)
}

// Display renders a model instance's values as read-only widgets and returns
// the marshalled representation (HTML fragment, styled text, ...).
type Display interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, state *State) ([]byte, error)
}
