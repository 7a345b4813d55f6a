package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/dmitrymomot/duende/pkg/cache"
	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/sanitizer"
)

var (
	ErrNoRecipients = errors.New("notify: no recipients configured")
	ErrRender       = errors.New("notify: render report")
	ErrSend         = errors.New("notify: send report")
)

// DefaultThrottle is how long an identical report is suppressed after being sent.
const DefaultThrottle = 10 * time.Minute

// Config holds error report settings.
// Embed it in the app config for env parsing with caarlos0/env.
type Config struct {
	To            []string      `env:"NOTIFY_TO" envSeparator:","`
	SubjectPrefix string        `env:"NOTIFY_SUBJECT_PREFIX" envDefault:"[duende]"`
	Throttle      time.Duration `env:"NOTIFY_THROTTLE" envDefault:"10m"`
}

// Email is a prepared message handed to a Sender.
type Email struct {
	Subject string
	HTML    string
	Text    string
	To      []string
}

// Sender delivers emails. The resend subpackage provides one.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Report describes a failed request.
type Report struct {
	Time      time.Time
	Err       error
	RequestID string
	Method    string
	URL       string
	View      string
	User      string
	Stack     []byte
	Status    int
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger used for suppressed and failed reports.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// Notifier mails error reports. Reports with the same status, view and error
// message are sent once per throttle window.
type Notifier struct {
	sender Sender
	cfg    Config
	sent   *cache.Memory[struct{}]
	logger *slog.Logger
}

// New creates a Notifier sending through sender.
func New(sender Sender, cfg Config, opts ...Option) *Notifier {
	if cfg.Throttle <= 0 {
		cfg.Throttle = DefaultThrottle
	}
	n := &Notifier{
		sender: sender,
		cfg:    cfg,
		sent:   cache.NewMemory[struct{}](cache.WithTTL(cfg.Throttle), cache.WithMaxEntries(1024)),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends r unless an identical report was sent recently.
func (n *Notifier) Notify(ctx context.Context, r Report) error {
	if len(n.cfg.To) == 0 {
		return ErrNoRecipients
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}

	key := fmt.Sprintf("%d|%s|%s", r.Status, r.View, errorText(r.Err))
	if _, err := n.sent.Get(key); err == nil {
		n.logger.DebugContext(ctx, "error report throttled", slog.String("key", key))
		return nil
	}

	email, err := n.compose(r)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSend, err)
	}

	n.sent.Set(key, struct{}{})
	return nil
}

func (n *Notifier) compose(r Report) (*Email, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, reportData{Report: r, Error: errorText(r.Err)}); err != nil {
		return nil, errors.Join(ErrRender, err)
	}

	md := buf.String()
	html, err := sanitizer.Markdown(md)
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}

	subject := fmt.Sprintf("%d %s %s", r.Status, r.Method, r.URL)
	if p := strings.TrimSpace(n.cfg.SubjectPrefix); p != "" {
		subject = p + " " + subject
	}

	return &Email{
		To:      n.cfg.To,
		Subject: subject,
		HTML:    html,
		Text:    md,
	}, nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type reportData struct {
	Report
	Error string
}

var reportTemplate = template.Must(template.New("report").Parse(`# {{.Status}} {{.Method}} {{.URL}}

| | |
|---|---|
| Time | {{.Time.Format "2006-01-02T15:04:05Z07:00"}} |
{{- with .View}}
| View | {{.}} |
{{- end}}
{{- with .RequestID}}
| Request ID | {{.}} |
{{- end}}
{{- with .User}}
| User | {{.}} |
{{- end}}

## Error

` + "```" + `
{{.Error}}
` + "```" + `
{{with .Stack}}
## Stack

` + "```" + `
{{printf "%s" .}}
` + "```" + `
{{end}}`))
