// Package document is the host editor behind the playground.
//
// A Document owns an ordered list of blocks (paragraphs, headings, quotes,
// list items, code). Its state is immutable: each committed update yields a
// new *State, so anything that captured an older state can keep reading it.
//
// Collaborators use four calls:
//
//	unregister := doc.RegisterUpdateListener(func(ev document.UpdateEvent) { ... })
//	ev.Read(func(r document.Reader) error { text := r.TextContent(); ... })
//	r.JSON()
//	doc.Update(func(w document.Writer) error { ... }, document.UpdateOptions{})
//
// Whether an update is recorded in undo history is decided per call by
// UpdateOptions.SkipHistory, never by shared state, so several widgets can
// drive the same document without interfering.
//
// Serialized state has the shape
//
//	{"root":{"type":"root","version":1,"children":[
//	  {"key":"...","type":"paragraph","text":"...","format":0,"color":"#ff0000"}]}}
//
// color is omitted for blocks in the default color.
package document
