package services

import "errors"

var (
	// ErrConsentRequired is returned when answers arrive before consent.
	ErrConsentRequired = errors.New("consent is required before answering")

	// ErrUnknownQuestion is returned for an answer key outside the graph.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrAnswerRequired is returned when advancing past an unsatisfied question.
	ErrAnswerRequired = errors.New("a valid answer is required to continue")

	// ErrAlreadySubmitted is returned for edits after final submission.
	ErrAlreadySubmitted = errors.New("this run has already been submitted")

	// ErrNotAtEnd is returned when submission is requested mid-form.
	ErrNotAtEnd = errors.New("the questionnaire is not complete")

	// ErrSyncFailed is returned when the final submission write fails.
	ErrSyncFailed = errors.New("failed to store the submission")

	// ErrInvalidEmail is returned for a lead capture with a malformed email.
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrInvalidCredentials is returned for a failed admin login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
