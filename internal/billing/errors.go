package billing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrGateway      = errors.New("gateway error")
	ErrDatastore    = errors.New("datastore error")
)

// Specific causes. Each one matches its category with errors.Is.
var (
	ErrMissingBuyerEmail = fmt.Errorf("%w: no email in gateway payment details", ErrInvalidInput)
	ErrPaymentNotFound   = fmt.Errorf("%w: payment", ErrNotFound)
	ErrPlanNotFound      = fmt.Errorf("%w: plan", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("%w: user", ErrNotFound)
)
