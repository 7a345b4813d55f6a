// Package notify mails reports of failed requests.
//
// Reports are written as markdown, rendered to sanitized HTML and handed to a
// Sender. The Errors middleware sends one for every 5xx response when a
// Notifier is configured:
//
//	n := notify.New(resend.New(resendCfg), notify.Config{To: []string{"ops@example.com"}})
//	middlewares.Errors(middlewares.WithErrorsNotifier(n))
package notify
