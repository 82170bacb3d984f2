package plugin

import (
	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/onchange"
)

// OnChange delivers debounced snapshots of the document.
type OnChange struct {
	notifier *onchange.Notifier
}

// NewOnChange creates the plugin. opts configure the underlying notifier.
func NewOnChange(cb onchange.Callback, opts ...onchange.Option) *OnChange {
	return &OnChange{notifier: onchange.New(cb, opts...)}
}

// Name implements Plugin.
func (p *OnChange) Name() string { return "onchange" }

// Register implements Plugin. Teardown cancels any pending delivery.
func (p *OnChange) Register(doc *document.Document) (func(), error) {
	detach := p.notifier.Attach(doc)
	return func() {
		detach()
		p.notifier.Close()
	}, nil
}

// Notifier returns the underlying notifier.
func (p *OnChange) Notifier() *onchange.Notifier {
	return p.notifier
}
