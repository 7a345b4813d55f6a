package urls

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Apply appends query parameters to u.
//
// Parameters are emitted in key order. Slice values repeat the key once per item.
// String values starting with "%s" are left unescaped so the URL can still be
// used as a format string.
func Apply(u string, params map[string]any) string {
	if len(params) == 0 {
		return u
	}

	pairs := make([]string, 0, len(params))
	for _, name := range slices.Sorted(maps.Keys(params)) {
		key := url.QueryEscape(name)
		switch v := params[name].(type) {
		case string:
			if strings.HasPrefix(v, "%s") {
				pairs = append(pairs, key+"="+v)
				continue
			}
			pairs = append(pairs, key+"="+url.QueryEscape(v))
		case []string:
			for _, item := range v {
				pairs = append(pairs, key+"="+url.QueryEscape(item))
			}
		case []any:
			for _, item := range v {
				pairs = append(pairs, key+"="+url.QueryEscape(fmt.Sprint(item)))
			}
		case []int:
			for _, item := range v {
				pairs = append(pairs, key+"="+url.QueryEscape(fmt.Sprint(item)))
			}
		default:
			pairs = append(pairs, key+"="+url.QueryEscape(fmt.Sprint(v)))
		}
	}

	query := strings.Join(pairs, "&")
	switch {
	case !strings.Contains(u, "?"):
		return u + "?" + query
	case strings.HasSuffix(u, "?"):
		return u + query
	default:
		return u + "&" + query
	}
}

// Quote escapes the path and query of a URL that may contain unicode characters.
// Slashes are kept in the path; '=', '&' and '/' are kept in the query.
func Quote(raw string) string {
	head, path, query, fragment := split(raw)
	out := head + escapeKeeping(path, "/")
	if query != "" {
		out += "?" + escapeKeeping(query, "=&/")
	}
	if fragment != "" {
		out += "#" + fragment
	}
	return out
}

// Unquote reverses Quote.
func Unquote(raw string) (string, error) {
	head, path, query, fragment := split(raw)

	p, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unquote path: %w", err)
	}
	out := head + p

	if query != "" {
		q, err := url.PathUnescape(query)
		if err != nil {
			return "", fmt.Errorf("unquote query: %w", err)
		}
		out += "?" + q
	}
	if fragment != "" {
		out += "#" + fragment
	}
	return out, nil
}

// split cuts a URL into "scheme://host", path, query and fragment.
func split(raw string) (head, path, query, fragment string) {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		afterScheme := rest[i+3:]
		end := strings.IndexAny(afterScheme, "/?#")
		if end < 0 {
			return rest, "", "", ""
		}
		head = rest[:i+3+end]
		rest = afterScheme[end:]
	}
	rest, fragment, _ = strings.Cut(rest, "#")
	path, query, _ = strings.Cut(rest, "?")
	return head, path, query, fragment
}

func escapeKeeping(s, keep string) string {
	var b strings.Builder
	start := 0
	for i, r := range s {
		if strings.ContainsRune(keep, r) {
			b.WriteString(url.PathEscape(s[start:i]))
			b.WriteRune(r)
			start = i + len(string(r))
		}
	}
	b.WriteString(url.PathEscape(s[start:]))
	return b.String()
}
