// Package plugin composes editor behaviors on top of a document.
//
// Each Plugin registers listeners or filters on a document and returns a
// teardown func. A Composer registers a set of plugins in order and tears
// them down in reverse.
package plugin

import (
	"fmt"
	"sync"

	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/logging"
)

// Plugin is an editor behavior attached to a document.
type Plugin interface {
	// Name identifies the plugin in logs and errors.
	Name() string
	// Register attaches the plugin to doc and returns the func that
	// detaches it.
	Register(doc *document.Document) (func(), error)
}

// Composer owns a set of registered plugins.
type Composer struct {
	mu        sync.Mutex
	plugins   []Plugin
	teardowns []func()
	mounted   *document.Document
	log       *logging.Logger
}

// NewComposer creates a composer over plugins. Registration order is the
// slice order.
func NewComposer(log *logging.Logger, plugins ...Plugin) *Composer {
	return &Composer{
		plugins: plugins,
		log:     logging.OrNop(log).WithComponent("plugin"),
	}
}

// Names returns the plugin names in registration order.
func (c *Composer) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.plugins))
	for i, p := range c.plugins {
		names[i] = p.Name()
	}
	return names
}

// Mount registers every plugin on doc. If one fails the ones already
// registered are torn down and the error is returned.
func (c *Composer) Mount(doc *document.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted != nil {
		return ErrAlreadyMounted
	}

	for _, p := range c.plugins {
		teardown, err := p.Register(doc)
		if err != nil {
			c.unwind()
			return &RegisterError{Plugin: p.Name(), Err: err}
		}
		if teardown == nil {
			teardown = func() {}
		}
		c.teardowns = append(c.teardowns, teardown)
		c.log.Debug("registered %s", p.Name())
	}
	c.mounted = doc
	return nil
}

// Unmount tears every plugin down in reverse order. It is a no-op when
// nothing is mounted.
func (c *Composer) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unwind()
	c.mounted = nil
}

// unwind runs the collected teardowns in reverse; the caller holds c.mu.
func (c *Composer) unwind() {
	for i := len(c.teardowns) - 1; i >= 0; i-- {
		c.teardowns[i]()
	}
	c.teardowns = nil
}

// RegisterError reports which plugin failed to register.
type RegisterError struct {
	Plugin string
	Err    error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *RegisterError) Unwrap() error {
	return e.Err
}
