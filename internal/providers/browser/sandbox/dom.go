package sandbox

import (
	"sort"
	"strings"
	"sync"
)

// Document is the page state injected scripts can observe and change:
// the root element's class list and inline style, and the title.
type Document struct {
	mu      sync.RWMutex
	title   string
	classes []string
	style   map[string]string
	changes []Change
}

// NewDocument creates an empty document with the given title
func NewDocument(title string) *Document {
	return &Document{
		title: title,
		style: make(map[string]string),
	}
}

// Title returns the document title
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.title
}

// SetTitle replaces the document title
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
	d.changes = append(d.changes, Change{Type: ChangeTitle, Value: title})
}

// HasClass reports whether the root element carries class
func (d *Document) HasClass(class string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.indexOf(class) >= 0
}

// Classes returns the root element's classes in insertion order
func (d *Document) Classes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string{}, d.classes...)
}

// AddClass adds class if missing
func (d *Document) AddClass(class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(class)
}

// RemoveClass removes class if present
func (d *Document) RemoveClass(class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remove(class)
}

// ToggleClass flips class, or forces it on or off when force is set.
// It returns whether the class is present afterwards.
func (d *Document) ToggleClass(class string, force *bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	want := d.indexOf(class) < 0
	if force != nil {
		want = *force
	}
	if want {
		d.add(class)
	} else {
		d.remove(class)
	}
	return want
}

// Property returns an inline style property, or "" when unset
func (d *Document) Property(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.style[name]
}

// SetProperty sets an inline style property. An empty value removes it.
func (d *Document) SetProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if value == "" {
		d.removeProperty(name)
		return
	}
	d.style[name] = value
	d.changes = append(d.changes, Change{Type: ChangeStyleSet, Property: name, Value: value})
}

// RemoveProperty deletes an inline style property and returns its old value
func (d *Document) RemoveProperty(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeProperty(name)
}

// StyleText renders the inline style the way cssText would
func (d *Document) StyleText() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.style))
	for name := range d.style {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(d.style[name])
		b.WriteByte(';')
	}
	return b.String()
}

// Changes returns accumulated modifications
func (d *Document) Changes() []Change {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Change{}, d.changes...)
}

// drainChanges returns and clears accumulated modifications
func (d *Document) drainChanges() []Change {
	d.mu.Lock()
	defer d.mu.Unlock()
	changes := d.changes
	d.changes = nil
	return changes
}

func (d *Document) indexOf(class string) int {
	for i, c := range d.classes {
		if c == class {
			return i
		}
	}
	return -1
}

func (d *Document) add(class string) {
	if class == "" || d.indexOf(class) >= 0 {
		return
	}
	d.classes = append(d.classes, class)
	d.changes = append(d.changes, Change{Type: ChangeClassAdd, Property: class})
}

func (d *Document) remove(class string) {
	idx := d.indexOf(class)
	if idx < 0 {
		return
	}
	d.classes = append(d.classes[:idx], d.classes[idx+1:]...)
	d.changes = append(d.changes, Change{Type: ChangeClassRemove, Property: class})
}

func (d *Document) removeProperty(name string) string {
	old, ok := d.style[name]
	if !ok {
		return ""
	}
	delete(d.style, name)
	d.changes = append(d.changes, Change{Type: ChangeStyleRemove, Property: name})
	return old
}
