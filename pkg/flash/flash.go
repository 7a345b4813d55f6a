// Package flash keeps one-shot messages in the session between two requests.
//
// Messages added while handling a request are shown on the next one. When a
// request loads the flash, the stored messages move to the display list and the
// session copy is cleared.
//
//	f := flash.Load(sess)
//	f.Add("Profile saved", flash.Success)
//	for _, msg := range f.Messages() { ... } // messages added by the previous request
package flash

import "fmt"

// SessionKey is the session value holding flash state.
const SessionKey = "flash"

// Type classifies all messages of a flash. There is one type per flash, not per message.
type Type string

const (
	Info    Type = "info"
	Error   Type = "error"
	Success Type = "success"
	Warning Type = "warning"
)

// Store is the session surface the flash needs. *session.Session satisfies it.
type Store interface {
	GetValue(key string) (any, bool)
	SetValue(key string, val any)
}

// Flash holds the messages to display for the current request and the messages
// queued for the next one.
type Flash struct {
	store   Store
	display []string
	queued  []string
	typ     Type
	queuedT Type
}

// Load moves the stored messages into the display list and clears the session copy.
func Load(store Store) *Flash {
	f := &Flash{store: store, typ: Info, queuedT: Info}

	raw, ok := store.GetValue(SessionKey)
	if !ok {
		return f
	}

	list, typ := decode(raw)
	f.display = list
	if typ != "" {
		f.typ = typ
	}

	if len(list) > 0 || f.typ != Info {
		f.save()
	}
	return f
}

// Messages returns a copy of the messages to display.
func (f *Flash) Messages() []string {
	out := make([]string, len(f.display))
	copy(out, f.display)
	return out
}

// Count returns the number of messages to display.
func (f *Flash) Count() int {
	return len(f.display)
}

// Type returns the type of the displayed messages.
func (f *Flash) Type() Type {
	return f.typ
}

// SetType changes the type for displayed and queued messages.
func (f *Flash) SetType(t Type) {
	f.typ = t
	f.queuedT = t
	f.save()
}

// Add queues a message for the next request. An optional type overrides the
// flash type.
func (f *Flash) Add(msg string, t ...Type) {
	f.queued = append(f.queued, msg)
	if len(t) > 0 && t[0] != "" {
		f.typ = t[0]
		f.queuedT = t[0]
	}
	f.save()
}

// Addf queues a formatted message.
func (f *Flash) Addf(t Type, format string, args ...any) {
	f.Add(fmt.Sprintf(format, args...), t)
}

// Clear drops displayed and queued messages.
func (f *Flash) Clear() {
	f.display = nil
	f.queued = nil
	f.save()
}

func (f *Flash) save() {
	list := make([]string, len(f.queued))
	copy(list, f.queued)
	f.store.SetValue(SessionKey, map[string]any{
		"message_list":  list,
		"messages_type": string(f.queuedT),
	})
}

// decode accepts both the in-memory form and the shape produced by a JSON
// round trip through a session store.
func decode(raw any) ([]string, Type) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, ""
	}

	var list []string
	switch v := m["message_list"].(type) {
	case []string:
		list = append(list, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
	}

	typ, _ := m["messages_type"].(string)
	return list, Type(typ)
}
