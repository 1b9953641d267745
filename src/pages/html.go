// Package pages holds the server rendered pages. Static pages are .templ
// sources; the form pages are built by the field helpers in fields.go and
// send every user supplied string through templ.EscapeString.
package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
	"github.com/gopher93185789/redshow/pkg/types"
)

// Form is the state of a submitted (or prefilled) form.
type Form struct {
	Values  url.Values
	Errors  map[string]string
	Message string
}

func (f Form) value(name string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values.Get(name)
}

// Flash is the one-shot message carried in the ?msg= and ?err= query params.
type Flash struct {
	Msg string
	Err string
}

type writer struct {
	w   io.Writer
	err error
}

func (h *writer) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *writer) rawf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *writer) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}
		fn(ctx, h)
		return h.err
	})
}

func esc(s string) string { return templ.EscapeString(s) }

func completionURL(r types.Role) templ.SafeURL {
	if r == types.RoleOwner {
		return templ.SafeURL("/accounts/complete-owner-profile/")
	}
	return templ.SafeURL("/accounts/complete-artist-profile/")
}

func (h *writer) formMessage(f Form) {
	if f.Message != "" {
		h.raw(`<div class="alert alert-danger">`, esc(f.Message), `</div>`)
	}
}
