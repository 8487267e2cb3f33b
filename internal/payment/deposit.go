package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CURRENCY         = "INR"
	REFERENCE_LENGTH = 12
)

var (
	ErrInvalidAmount    = errors.New("please enter a valid amount")
	ErrInvalidReference = fmt.Errorf("please enter a valid %d-digit UTR/transaction id", REFERENCE_LENGTH)
)

// Presets are the quick amounts offered on the deposit screen.
var Presets = []string{"200", "300", "500", "1K", "2.5K", "5K", "10K", "25K", "50K"}

// ParseAmount reads a plain or K-suffixed amount ("2.5K" is 2500).
func ParseAmount(raw string) (decimal.Decimal, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	multiplier := decimal.NewFromInt(1)
	if strings.HasSuffix(v, "K") {
		v = strings.TrimSuffix(v, "K")
		multiplier = decimal.NewFromInt(1000)
	}
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	amount = amount.Mul(multiplier)
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return amount, nil
}

// ValidateReference checks the self-reported bank reference (UTR). Nothing
// is verified against a payment rail.
func ValidateReference(ref string) error {
	if len(ref) != REFERENCE_LENGTH {
		return ErrInvalidReference
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return ErrInvalidReference
		}
	}
	return nil
}

// Checkout is what the deposit screen shows before the player pays.
type Checkout struct {
	MerchantID string          `json:"merchant_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	QRPayload  string          `json:"qr_payload"`
}

func NewCheckout(merchantID string, amount decimal.Decimal) (Checkout, error) {
	if !amount.IsPositive() {
		return Checkout{}, ErrInvalidAmount
	}
	if merchantID == "" {
		return Checkout{}, errors.New("merchant id is not configured")
	}
	return Checkout{
		MerchantID: merchantID,
		Amount:     amount,
		Currency:   CURRENCY,
		QRPayload:  QRPayload(merchantID, amount),
	}, nil
}

func QRPayload(merchantID string, amount decimal.Decimal) string {
	return fmt.Sprintf("upi://pay?pa=%s&am=%s&cu=%s", merchantID, amount.String(), CURRENCY)
}

func DepositDetails(ref string) string {
	return "UTR: " + ref
}
