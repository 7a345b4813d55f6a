package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dmitrymomot/duende/pkg/cookie"
	"github.com/dmitrymomot/duende/pkg/db"
	"github.com/dmitrymomot/duende/pkg/flash"
	"github.com/dmitrymomot/duende/pkg/i18n"
	"github.com/dmitrymomot/duende/pkg/session"
	"github.com/dmitrymomot/duende/pkg/template"
	"github.com/dmitrymomot/duende/pkg/urls"
	"github.com/dmitrymomot/duende/pkg/xhr"
)

// ViewKey is the context key used to store the *ResolvedView of the request.
type ViewKey struct{}

// TranslationKey is the context key used to store the *i18n.TranslationManager.
type TranslationKey struct{}

// LocaleKey is the context key used to store the resolved POSIX locale string.
type LocaleKey struct{}

// TemplateKey is the context key used to store the *template.Environment.
type TemplateKey struct{}

// DBKey is the context key used to store the request scoped *db.Scoped.
type DBKey struct{}

// FlashKey is the context key used to store the *flash.Flash.
type FlashKey struct{}

// RemoteUserKey is the context key used to store the signed in user name.
type RemoteUserKey struct{}

// SessionIDKey is the context key used to store the session ID.
type SessionIDKey struct{}

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and the services installed by
// the middleware chain for one request.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	// Calls ParseForm/ParseMultipartForm internally on first access.
	Form(name string) string

	// FormFile returns the first file for the given form key.
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// IsXHR reports whether the request was sent by a script.
	IsXHR() bool

	// WantsJSON reports whether errors should be answered with JSON-RPC envelopes:
	// the request is XHR and accepts application/json.
	WantsJSON() bool

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// Blob writes raw bytes with the given content type.
	Blob(code int, contentType string, b []byte) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// Error creates and returns an HTTPError without writing a response.
	// The error should be returned from the view to reach the error middleware.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render renders a component with the given status code.
	// Compatible with templ.Component.
	Render(code int, component Component) error

	// RenderTemplate renders a template of the environment installed by the
	// Template middleware. The content type is guessed from the template name.
	RenderTemplate(code int, name string, data any) error

	// Template returns the template environment.
	// Returns ErrNotConfigured when the Template middleware did not run.
	Template() (*template.Environment, error)

	// Written returns true if a response has already been written.
	Written() bool

	// ResponseWriter returns the wrapped ResponseWriter.
	ResponseWriter() *ResponseWriter

	// Debug reports whether the application runs in debug mode.
	Debug() bool

	// URLs returns the url mapping of the application.
	URLs() *urls.Mapping

	// URL builds a URL with the url mapping, see urls.Mapping.URL.
	URL(u string, args ...any) (string, error)

	// View returns the view resolved for this request, or nil.
	View() *ResolvedView

	// Resolve resolves the view of the request path and stores it in the context.
	// Later calls return the stored view.
	Resolve() (*ResolvedView, error)

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	// The value can be retrieved using Get or from c.Context().Value(key).
	Set(key any, value any)

	// Get retrieves a value from the request context.
	// Returns nil if the key is not found.
	Get(key any) any

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	SetCookie(name, value string, maxAge int) error

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// CookieSigned returns a signed cookie value.
	// Returns cookie.ErrNoSecret if no secret is configured.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a signed cookie.
	// Returns cookie.ErrNoSecret if no secret is configured.
	SetCookieSigned(name, value string, maxAge int) error

	// CookieEncrypted returns an encrypted cookie value.
	CookieEncrypted(name string) (string, error)

	// SetCookieEncrypted sets an encrypted cookie.
	SetCookieEncrypted(name, value string, maxAge int) error

	// Session returns the current session, loading it from the store on first call.
	// Returns session.ErrNotConfigured if no session manager is configured.
	// Returns nil, nil if the request carries no session.
	Session() (*session.Session, error)

	// InitSession creates a new session for this request.
	InitSession() error

	// AuthenticateSession signs user in and rotates the session token.
	// Creates a new session if one doesn't exist.
	AuthenticateSession(user string) error

	// SessionValue retrieves a value from the session.
	// Returns session.ErrNotFound if no session exists.
	SessionValue(key string) (any, error)

	// SetSessionValue stores a value in the session, creating the session when needed.
	SetSessionValue(key string, val any) error

	// DeleteSessionValue removes a value from the session.
	DeleteSessionValue(key string) error

	// DestroySession removes the session and clears the cookie.
	DestroySession() error

	// User returns the signed in user, as published by the Auth middleware
	// or read from the session.
	User() string

	// SessionID returns the ID of the current session or "".
	SessionID() string

	// Flash returns the flash messages of the request.
	// Returns ErrFlashNotEnabled when the Flash middleware did not run.
	Flash() (*flash.Flash, error)

	// DB returns the database session scoped to this request.
	// Returns ErrDatabaseNotActive when the Database middleware did not run.
	DB() (*db.Scoped, error)

	// Translations returns the translation manager installed by the Locale
	// middleware, or nil.
	Translations() *i18n.TranslationManager

	// Locale returns the POSIX locale of the request, e.g. "en_US".
	Locale() string

	// Gettext translates msg in the domain of the current application.
	// Returns msg unchanged if no translations are installed.
	Gettext(msg string, args ...i18n.M) string

	// NGettext translates a message with plural forms in the domain of the
	// current application.
	NGettext(singular, plural string, n int, args ...i18n.M) string

	// FormatNumber formats a number using locale-specific separators.
	FormatNumber(n float64) string

	// FormatCurrency formats a currency amount using locale-specific formatting.
	FormatCurrency(amount float64) string

	// FormatPercent formats a percentage using locale-specific formatting.
	FormatPercent(n float64) string

	// FormatDate formats a date using locale-specific formatting.
	FormatDate(date time.Time) string

	// FormatTime formats a time value using locale-specific formatting.
	FormatTime(t time.Time) string

	// FormatDateTime formats a datetime using locale-specific formatting.
	FormatDateTime(datetime time.Time) string
}

// requestContext implements the Context interface.
type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	mapping        *urls.Mapping
	sessionManager *SessionManager
	session        *session.Session
	resolver       *ViewResolver

	debug                 bool
	sessionLoaded         bool
	sessionHookRegistered bool
}

// newContext creates a new context with the response wrapper.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	return &requestContext{
		request:        r,
		responseWriter: NewResponseWriter(w),
		logger:         app.logger,
		cookieManager:  app.cookieManager,
		mapping:        app.mapping,
		sessionManager: app.sessionManager,
		resolver:       app.resolver,
		debug:          app.debug,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) IsXHR() bool {
	return xhr.IsXHR(c.request)
}

func (c *requestContext) WantsJSON() bool {
	return xhr.WantsJSONRPC(c.request)
}

func (c *requestContext) JSON(code int, v any) error {
	var (
		b   []byte
		err error
	)
	if c.debug {
		b, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	} else {
		b, err = sonic.ConfigStd.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode json response: %w", err)
	}
	return c.Blob(code, "application/json; charset=utf-8", b)
}

func (c *requestContext) String(code int, s string) error {
	return c.Blob(code, "text/plain; charset=utf-8", []byte(s))
}

func (c *requestContext) Blob(code int, contentType string, b []byte) error {
	if contentType != "" {
		c.responseWriter.Header().Set("Content-Type", contentType)
	}
	c.responseWriter.WriteHeader(code)
	_, err := c.responseWriter.Write(b)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	xhr.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

// Render binds the request translations and flash to the render context so
// components built by template.Environment.Component see them.
func (c *requestContext) Render(code int, component Component) error {
	ctx := template.WithBindings(c.request.Context(), c.bindings())
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return err
	}
	return c.Blob(code, "text/html; charset=utf-8", buf.Bytes())
}

func (c *requestContext) Template() (*template.Environment, error) {
	env, ok := c.Get(TemplateKey{}).(*template.Environment)
	if !ok || env == nil {
		return nil, fmt.Errorf("template environment: %w", ErrNotConfigured)
	}
	return env, nil
}

// RenderTemplate renders into a buffer first so a failing template leaves the
// response untouched for the error middleware.
func (c *requestContext) RenderTemplate(code int, name string, data any) error {
	env, err := c.Template()
	if err != nil {
		return err
	}

	contentType, err := template.ContentType(name)
	if err != nil {
		contentType = "text/html; charset=utf-8"
	}

	var buf bytes.Buffer
	if err := env.Render(&buf, name, data, c.bindings()); err != nil {
		return err
	}
	return c.Blob(code, contentType, buf.Bytes())
}

func (c *requestContext) bindings() template.Bindings {
	b := template.Bindings{Flash: c.flash()}
	if tm := c.Translations(); tm != nil {
		b.Translator = tm
	}
	return b
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Debug() bool {
	return c.debug
}

func (c *requestContext) URLs() *urls.Mapping {
	return c.mapping
}

func (c *requestContext) URL(u string, args ...any) (string, error) {
	if c.mapping == nil {
		return "", fmt.Errorf("url mapping: %w", ErrNotConfigured)
	}
	return c.mapping.URL(u, args...)
}

func (c *requestContext) View() *ResolvedView {
	rv, _ := c.Get(ViewKey{}).(*ResolvedView)
	return rv
}

func (c *requestContext) Resolve() (*ResolvedView, error) {
	if rv := c.View(); rv != nil {
		return rv, nil
	}
	if c.resolver == nil {
		return nil, fmt.Errorf("view resolver: %w", ErrNotConfigured)
	}
	rv, err := c.resolver.Resolve(c.Context(), c.request.URL.Path)
	if err != nil {
		return nil, err
	}
	c.Set(ViewKey{}, rv)
	return rv, nil
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookieManager.Read(c.request, name, cookie.Plain)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) error {
	return c.cookieManager.Write(c.responseWriter, name, value, maxAge, cookie.Plain)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookieManager.Delete(c.responseWriter, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookieManager.Read(c.request, name, cookie.Signed)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookieManager.Write(c.responseWriter, name, value, maxAge, cookie.Signed)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.cookieManager.Read(c.request, name, cookie.Encrypted)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge int) error {
	return c.cookieManager.Write(c.responseWriter, name, value, maxAge, cookie.Encrypted)
}

// registerSessionHook ensures the session flush hook is registered once.
// It runs before the response is written to persist any session changes.
func (c *requestContext) registerSessionHook() {
	if c.sessionHookRegistered || c.sessionManager == nil {
		return
	}
	c.sessionHookRegistered = true
	c.responseWriter.OnBeforeWrite(c.saveSession)
}

// saveSession persists a dirty session. Errors are logged, the response goes on.
func (c *requestContext) saveSession() {
	if c.session == nil || !c.session.IsDirty() {
		return
	}
	if err := c.sessionManager.Store().Update(c.Context(), c.session); err != nil {
		c.logger.ErrorContext(c.Context(), "failed to save session", slog.String("error", err.Error()))
		return
	}
	c.session.ClearDirty()
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessionManager == nil {
		return nil, session.ErrNotConfigured
	}

	c.registerSessionHook()

	if c.sessionLoaded {
		return c.session, nil
	}

	sess, err := c.sessionManager.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}

	c.session = sess
	c.sessionLoaded = true
	return c.session, nil
}

func (c *requestContext) InitSession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	c.registerSessionHook()

	sess, err := c.sessionManager.CreateSession(c.Context(), c.request)
	if err != nil {
		return err
	}

	c.session = sess
	c.sessionLoaded = true
	return c.sessionManager.SaveSession(c.responseWriter, sess)
}

func (c *requestContext) AuthenticateSession(user string) error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	sess, err := c.Session()
	if err != nil {
		c.logger.WarnContext(c.Context(), "failed to load session", slog.String("error", err.Error()))
	}
	if sess == nil {
		if err := c.InitSession(); err != nil {
			return err
		}
		sess = c.session
	}

	sess.SetUser(user)

	// A token issued before sign in must not stay valid after it.
	if err := c.sessionManager.RotateToken(c.Context(), sess); err != nil {
		return err
	}

	c.Set(RemoteUserKey{}, user)
	c.Set(SessionIDKey{}, sess.ID)
	return c.sessionManager.SaveSession(c.responseWriter, sess)
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, session.ErrNotFound
	}

	val, ok := sess.GetValue(key)
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if sess == nil {
		if err := c.InitSession(); err != nil {
			return err
		}
		sess = c.session
	}

	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if sess == nil {
		return session.ErrNotFound
	}

	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) DestroySession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	if c.session != nil {
		if err := c.sessionManager.Store().Delete(c.Context(), c.session.ID); err != nil {
			return err
		}
	}

	c.sessionManager.DeleteSession(c.responseWriter)

	// Loaded with nil, so the deleted session is not read again.
	c.session = nil
	c.sessionLoaded = true
	c.Set(RemoteUserKey{}, "")
	c.Set(SessionIDKey{}, "")

	return nil
}

func (c *requestContext) User() string {
	if u, ok := c.Get(RemoteUserKey{}).(string); ok {
		return u
	}
	sess, err := c.Session()
	if err != nil || sess == nil {
		return ""
	}
	return sess.User()
}

func (c *requestContext) SessionID() string {
	if id, ok := c.Get(SessionIDKey{}).(string); ok {
		return id
	}
	if c.session != nil {
		return c.session.ID
	}
	return ""
}

func (c *requestContext) flash() *flash.Flash {
	f, _ := c.Get(FlashKey{}).(*flash.Flash)
	return f
}

func (c *requestContext) Flash() (*flash.Flash, error) {
	f := c.flash()
	if f == nil {
		return nil, ErrFlashNotEnabled
	}
	return f, nil
}

func (c *requestContext) DB() (*db.Scoped, error) {
	s, ok := c.Get(DBKey{}).(*db.Scoped)
	if !ok || s == nil {
		return nil, ErrDatabaseNotActive
	}
	return s, nil
}

func (c *requestContext) Translations() *i18n.TranslationManager {
	tm, _ := c.Get(TranslationKey{}).(*i18n.TranslationManager)
	return tm
}

func (c *requestContext) Locale() string {
	if l, ok := c.Get(LocaleKey{}).(string); ok && l != "" {
		return l
	}
	if tm := c.Translations(); tm != nil {
		return tm.Locale()
	}
	return i18n.DefaultLocale
}

// domain is the translation domain of the request: the resolved app.
func (c *requestContext) domain() string {
	if rv := c.View(); rv != nil {
		return rv.App
	}
	if c.mapping != nil {
		return c.mapping.RootApp()
	}
	return ""
}

func (c *requestContext) Gettext(msg string, args ...i18n.M) string {
	tm := c.Translations()
	if tm == nil {
		return i18n.Interpolate(msg, i18n.Merge(args...))
	}
	return tm.Gettext(c.domain(), msg, args...)
}

func (c *requestContext) NGettext(singular, plural string, n int, args ...i18n.M) string {
	tm := c.Translations()
	if tm == nil {
		msg := plural
		if n == 1 {
			msg = singular
		}
		return i18n.Interpolate(msg, i18n.Merge(append([]i18n.M{{"num": n}}, args...)...))
	}
	return tm.NGettext(c.domain(), singular, plural, n, args...)
}

func (c *requestContext) format() *i18n.LocaleFormat {
	if tm := c.Translations(); tm != nil {
		return tm.Format()
	}
	return i18n.FormatFor(i18n.DefaultLocale)
}

func (c *requestContext) FormatNumber(n float64) string {
	return c.format().FormatNumber(n)
}

func (c *requestContext) FormatCurrency(amount float64) string {
	return c.format().FormatCurrency(amount)
}

func (c *requestContext) FormatPercent(n float64) string {
	return c.format().FormatPercent(n)
}

func (c *requestContext) FormatDate(date time.Time) string {
	return c.format().FormatDate(date)
}

func (c *requestContext) FormatTime(t time.Time) string {
	return c.format().FormatTime(t)
}

func (c *requestContext) FormatDateTime(datetime time.Time) string {
	return c.format().FormatDateTime(datetime)
}
