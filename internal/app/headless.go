package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/logging"
	"github.com/dshills/inkpad/internal/onchange"
)

// TagInput marks paragraphs read in headless mode.
const TagInput = "input"

// snapshotWriter prints snapshots as JSON lines in headless mode and logs
// them otherwise.
type snapshotWriter struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	log     *logging.Logger
}

func newSnapshotWriter(out io.Writer, enabled bool, log *logging.Logger) *snapshotWriter {
	return &snapshotWriter{out: out, enabled: enabled, log: log.WithComponent("snapshot")}
}

// EncodeSnapshot renders snap as {"text": ..., "state": {...}} with the
// serialized state embedded as JSON rather than as a string.
func EncodeSnapshot(snap onchange.Snapshot) (string, error) {
	out, err := sjson.Set("", "text", snap.Text)
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(out, "state", snap.StateJSON)
}

func (w *snapshotWriter) write(snap onchange.Snapshot) {
	if !w.enabled {
		w.log.Debug("snapshot chars=%d", len(snap.Text))
		return
	}
	line, err := EncodeSnapshot(snap)
	if err != nil {
		w.log.Error("encoding snapshot: %v", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintln(w.out, line); err != nil {
		w.log.Error("writing snapshot: %v", err)
	}
}

// runHeadless appends every input line as a paragraph. At end of input
// pending snapshots are flushed.
func (app *Application) runHeadless(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(app.opts.Input)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()

	app.log.Info("headless session started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				app.Flush()
				if err := <-errc; err != nil {
					return &OperationError{Op: "read input", Err: err}
				}
				return nil
			}
			if err := app.AppendParagraph(line); err != nil {
				return &OperationError{Op: "append line", Err: err}
			}
		}
	}
}

// AppendParagraph adds text as a new paragraph. A document holding only
// one empty paragraph has that paragraph filled instead.
func (app *Application) AppendParagraph(text string) error {
	return app.doc.Update(func(w document.Writer) error {
		if last, ok := w.Last(); ok && w.Len() == 1 && last.Text == "" {
			return w.SetText(last.Key, text)
		}
		w.Append(document.NodeParagraph, text)
		return nil
	}, document.UpdateOptions{Tag: TagInput})
}

// Flush delivers pending snapshots now.
func (app *Application) Flush() {
	set := app.Plugins()
	if set == nil {
		return
	}
	if set.OnChange != nil {
		set.OnChange.Notifier().Flush()
	}
	for _, sc := range set.Scripts {
		if n := sc.Notifier(); n != nil {
			n.Flush()
		}
	}
}
