package usecase

import "github.com/m-mizutani/goerr/v2"

// ErrAssistantUnavailable signals that the language model provider kept
// failing after retries. The turn is dropped cleanly; session history is
// untouched.
var ErrAssistantUnavailable = goerr.New("assistant is temporarily unavailable")
