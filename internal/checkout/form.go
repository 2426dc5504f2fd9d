package checkout

import "errors"

// State of the checkout form.
type State int

const (
	// Collecting is the initial state: payment details are being edited.
	Collecting State = iota
	// Submitted is terminal: validation passed and control was handed
	// to order submission.
	Submitted
)

var ErrAlreadySubmitted = errors.New("checkout already submitted")

// ConfirmFunc is invoked once validation passes. Returning an error
// keeps the form retryable.
type ConfirmFunc func(PaymentDetails) error

// Form is the checkout state machine. Validation failures never advance
// the state; a confirmation failure moves it back to Collecting so the
// user can retry.
type Form struct {
	state   State
	confirm ConfirmFunc
}

// NewForm creates a form in the Collecting state.
func NewForm(confirm ConfirmFunc) *Form {
	return &Form{confirm: confirm}
}

// State returns the current form state.
func (f *Form) State() State {
	return f.state
}

// Submit validates the payment details and, on success, transitions to
// Submitted and invokes the confirmation callback.
func (f *Form) Submit(details PaymentDetails) error {
	if f.state == Submitted {
		return ErrAlreadySubmitted
	}

	if err := details.Validate(); err != nil {
		return err
	}

	f.state = Submitted
	if f.confirm == nil {
		return nil
	}

	if err := f.confirm(details); err != nil {
		f.state = Collecting
		return err
	}
	return nil
}
