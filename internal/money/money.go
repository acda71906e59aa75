package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"finledger/internal/errs"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount cannot be negative", errs.ErrValidation)
	ErrMalformedAmount  = fmt.Errorf("%w: amount is not a decimal number", errs.ErrValidation)
	ErrCurrencyRequired = fmt.Errorf("%w: currency is required", errs.ErrValidation)
	ErrUnknownCurrency  = fmt.Errorf("%w: unknown ISO-4217 currency", errs.ErrValidation)
)

// Amount is a non-negative decimal value in a single ISO-4217 currency.
// The zero Amount is not valid; build one with NewAmount or ParseAmount.
type Amount struct {
	value    decimal.Decimal
	currency string
}

func NewAmount(value decimal.Decimal, currencyCode string) (Amount, error) {
	code, err := NormalizeCurrency(currencyCode)
	if err != nil {
		return Amount{}, err
	}
	if value.Sign() < 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{value: value, currency: code}, nil
}

func ParseAmount(raw, currencyCode string) (Amount, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Amount{}, ErrMalformedAmount
	}
	return NewAmount(value, currencyCode)
}

// MustAmount is NewAmount for literals known to be valid.
func MustAmount(raw, currencyCode string) Amount {
	amount, err := ParseAmount(raw, currencyCode)
	if err != nil {
		panic(err)
	}
	return amount
}

func (a Amount) Value() decimal.Decimal {
	return a.value
}

func (a Amount) Currency() string {
	return a.currency
}

func (a Amount) IsZero() bool {
	return a.currency == ""
}

// Equal compares numerically, so 1.5 USD equals 1.50 USD.
func (a Amount) Equal(other Amount) bool {
	return a.currency == other.currency && a.value.Equal(other.value)
}

func (a Amount) String() string {
	return a.value.String() + " " + a.currency
}

// NormalizeCurrency validates an ISO-4217 code and returns it upper-cased.
func NormalizeCurrency(code string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return "", ErrCurrencyRequired
	}
	unit, err := currency.ParseISO(trimmed)
	if err != nil {
		return "", ErrUnknownCurrency
	}
	return unit.String(), nil
}

type amountJSON struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(amountJSON{Value: a.value, Currency: a.currency})
}
