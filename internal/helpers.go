package internal

import "strconv"

// ContextValue returns the value stored under key when it has type T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param is the set of types Query can parse.
type Param interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Query parses a query parameter as T. Missing or malformed values give the
// zero value.
func Query[T Param](c Context, name string) T {
	var zero T
	return QueryDefault(c, name, zero)
}

// QueryDefault parses a query parameter as T, falling back to def.
func QueryDefault[T Param](c Context, name string, def T) T {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	if v, err := parseParam[T](raw); err == nil {
		return v
	}
	return def
}

func parseParam[T Param](raw string) (T, error) {
	var out T
	var (
		v   any
		err error
	)
	switch any(out).(type) {
	case int:
		v, err = strconv.Atoi(raw)
	case int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		v, err = strconv.ParseFloat(raw, 64)
	case bool:
		v, err = strconv.ParseBool(raw)
	default:
		v = raw
	}
	if err != nil {
		return out, err
	}
	out, _ = v.(T)
	return out, nil
}
