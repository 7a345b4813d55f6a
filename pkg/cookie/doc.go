// Package cookie reads and writes HTTP cookies in plain, signed or encrypted form.
//
// The session manager stores its token in a signed cookie when a secret is
// configured, and the locale extractor reads the plain "lang" cookie.
//
//	m := cookie.New(cookie.WithSecret(os.Getenv("DUENDE_COOKIE_SECRET")), cookie.WithSecure(true))
//	_ = m.Write(w, "sid", token, 3600, cookie.Signed)
//	token, err := m.Read(r, "sid", cookie.Signed)
package cookie
