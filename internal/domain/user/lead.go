// Package user holds identity records captured by the landing page.
package user

import "time"

// Lead is a landing-page email capture, created before any questionnaire run
// and independent of it.
type Lead struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
	Changed time.Time `json:"changed"`
}
