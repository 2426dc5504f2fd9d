package checkout

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Supported payment methods.
const (
	MethodCreditCard = "credit_card"
	MethodPayPal     = "paypal"
)

// Validation failures, each a distinct user-facing message.
var (
	ErrInvalidMethod     = errors.New("please choose a payment method")
	ErrMissingDetails    = errors.New("please fill in all payment details")
	ErrInvalidCardNumber = errors.New("invalid card number")
	ErrInvalidExpiry     = errors.New("invalid expiry date, use MM/YY format")
	ErrInvalidCVV        = errors.New("invalid CVV")
)

// PaymentDetails is what the checkout form collects. Card data is
// validated locally and never transmitted anywhere; the payment path is
// intentionally simulated, there is no gateway behind it.
type PaymentDetails struct {
	Method         string `json:"payment_method"`
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
}

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
)

// cardFields mirrors the credit-card inputs; field order fixes the
// precedence of validation messages.
type cardFields struct {
	Name   string `validate:"required"`
	Number string `validate:"required,cardnumber"`
	Expiry string `validate:"required,cardexpiry"`
	CVV    string `validate:"required,cardcvv"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Card number must be exactly 16 digits once whitespace is stripped.
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return cardPattern.MatchString(stripSpaces(fl.Field().String()))
	})
	_ = v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cardcvv", func(fl validator.FieldLevel) bool {
		return cvvPattern.MatchString(fl.Field().String())
	})

	return v
}

// Validate applies the checkout form rules. Card fields are only
// checked for the credit-card method.
func (d PaymentDetails) Validate() error {
	switch d.Method {
	case MethodPayPal:
		return nil
	case MethodCreditCard:
	default:
		return ErrInvalidMethod
	}

	err := validate.Struct(cardFields{
		Name:   strings.TrimSpace(d.CardholderName),
		Number: d.CardNumber,
		Expiry: d.Expiry,
		CVV:    d.CVV,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ErrMissingDetails
	}

	first := fieldErrs[0]
	if first.Tag() == "required" {
		return ErrMissingDetails
	}
	switch first.Field() {
	case "Number":
		return ErrInvalidCardNumber
	case "Expiry":
		return ErrInvalidExpiry
	case "CVV":
		return ErrInvalidCVV
	}
	return ErrMissingDetails
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
