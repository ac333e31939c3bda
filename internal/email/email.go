// Package email holds the providers used to deliver import alerts.
package email

type Email interface {
	Send(subject, text, html string, recipients []string) error
}
