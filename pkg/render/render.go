// Package render produces HTML from accumulated request state. Rendering is
// pure: no I/O, no mutation of the bound state, byte-identical output for
// equal input.
package render

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Renderer wraps a loaded view engine. Handlers render to a string and send
// it themselves, which keeps template execution separate from the response
// write.
type Renderer struct {
	views  fiber.Views
	layout string
}

// New loads the engine once and returns the renderer.
func New(views fiber.Views, layout string) (*Renderer, error) {
	if err := views.Load(); err != nil {
		return nil, fmt.Errorf("render: load views: %w", err)
	}
	return &Renderer{views: views, layout: layout}, nil
}

// HTML renders the named page inside the configured layout.
func (r *Renderer) HTML(name string, bind any) (string, error) {
	var buf bytes.Buffer
	var err error
	if r.layout != "" {
		err = r.views.Render(&buf, name, bind, r.layout)
	} else {
		err = r.views.Render(&buf, name, bind)
	}
	if err != nil {
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	return buf.String(), nil
}

// Fragment renders the named template without the layout, for partial
// responses such as a freshly inserted comment row.
func (r *Renderer) Fragment(name string, bind any) (string, error) {
	var buf bytes.Buffer
	if err := r.views.Render(&buf, name, bind); err != nil {
		return "", fmt.Errorf("render fragment %q: %w", name, err)
	}
	return buf.String(), nil
}
