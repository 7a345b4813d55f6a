// Package view provides response helpers for duende views.
//
// Each helper turns a function returning a value into an internal.HandlerFunc
// writing the matching response:
//
//	r.View("list", view.Template("blog/posts/list.html", func(c duende.Context) (view.Data, error) {
//	    posts, err := repo.List(c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return view.Data{"posts": posts}, nil
//	}))
//
//	r.Module("api", func(r duende.Registrar) {
//	    r.Use(view.Restrict(http.MethodPost))
//	    r.View("save", view.JSONRPC(save))
//	})
//
// Template data may carry a "_template" key naming the template to render
// instead of the declared one.
package view
