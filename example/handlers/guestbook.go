package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/duende"
	"github.com/dmitrymomot/duende/pkg/flash"
	"github.com/dmitrymomot/duende/pkg/i18n"
	"github.com/dmitrymomot/duende/pkg/jsonrpc"
	"github.com/dmitrymomot/duende/pkg/view"
)

// Guestbook serves the guestbook views.
type Guestbook struct {
	store Store
}

// NewGuestbook keeps entries in store, in memory when store is nil.
func NewGuestbook(store Store) *Guestbook {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Guestbook{store: store}
}

// Views declares:
//
//	/           index, the entry list
//	/sign       POST form, redirects back to the index
//	/api/list   JSON-RPC list of entries
func (h *Guestbook) Views(r duende.Registrar) {
	r.View("index", view.Template("site/index.html", h.index))
	r.View("sign", duende.Chain(view.Redirect(h.sign), view.Restrict(http.MethodPost)))
	r.Module("api", func(r duende.Registrar) {
		r.View("list", view.JSONRPC(h.list))
	})
}

const pageSize = 20

func (h *Guestbook) index(c duende.Context) (view.Data, error) {
	page := max(duende.QueryDefault(c, "page", 1), 1)
	entries, err := h.store.List(c, (page-1)*pageSize, pageSize+1)
	if err != nil {
		return nil, err
	}
	more := len(entries) > pageSize
	if more {
		entries = entries[:pageSize]
	}
	return view.Data{
		"entries": entries,
		"next":    page + 1,
		"more":    more,
	}, nil
}

func (h *Guestbook) sign(c duende.Context) (string, error) {
	name := strings.TrimSpace(c.Form("name"))
	msg := strings.TrimSpace(c.Form("message"))

	f, err := c.Flash()
	if err != nil {
		return "", err
	}
	if name == "" || msg == "" {
		f.Add(c.Gettext("Name and message are required"), flash.Error)
		return c.URL("site:/")
	}

	if err := h.store.Add(c, Entry{Created: time.Now(), Name: name, Message: msg}); err != nil {
		return "", err
	}

	f.Add(c.Gettext("Thanks for signing, %(name)s!", i18n.M{"name": name}))
	return c.URL("site:/")
}

func (h *Guestbook) list(c duende.Context) (any, error) {
	if c.Request().Method != http.MethodPost {
		return nil, jsonrpc.InvalidRequest("use POST")
	}
	return h.store.List(c, 0, pageSize)
}
