package h

import (
	"context"

	"github.com/a-h/templ"
)

// RenderTempl renders a templ component to a string, typically a MsgKey
// resolved against the translator carried by ctx.
func RenderTempl(ctx context.Context, t templ.Component) (string, error) {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(ctx, buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
