package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"200", "200", false},
		{"1K", "1000", false},
		{"2.5K", "2500", false},
		{" 50k ", "50000", false},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPresetsParse(t *testing.T) {
	for _, p := range Presets {
		_, err := ParseAmount(p)
		assert.NoError(t, err, p)
	}
}

func TestValidateReference(t *testing.T) {
	assert.NoError(t, ValidateReference("123456789012"))
	assert.ErrorIs(t, ValidateReference("12345678901"), ErrInvalidReference)
	assert.ErrorIs(t, ValidateReference("1234567890123"), ErrInvalidReference)
	assert.ErrorIs(t, ValidateReference("12345678901x"), ErrInvalidReference)
	assert.ErrorIs(t, ValidateReference(""), ErrInvalidReference)
	assert.Equal(t, "UTR: 123456789012", DepositDetails("123456789012"))
}

func TestNewCheckout(t *testing.T) {
	c, err := NewCheckout("shop@upi", decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, "upi://pay?pa=shop@upi&am=500&cu=INR", c.QRPayload)
	assert.Equal(t, CURRENCY, c.Currency)

	_, err = NewCheckout("shop@upi", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = NewCheckout("", decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestWithdrawalForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    WithdrawalForm
		wantErr error
		details string
	}{
		{
			name:    "complete bank",
			form:    WithdrawalForm{Method: MethodBank, BankName: "SBI", AccountNumber: "00112233", HolderName: "Alice", IFSC: "SBIN0000001"},
			details: "Bank: SBI | A/C: 00112233",
		},
		{
			name:    "complete upi",
			form:    WithdrawalForm{Method: MethodUPI, UPIID: "alice@upi", UPIName: "Alice"},
			details: "UPI: alice@upi",
		},
		{
			name:    "bank missing ifsc",
			form:    WithdrawalForm{Method: MethodBank, BankName: "SBI", AccountNumber: "00112233", HolderName: "Alice"},
			wantErr: ErrIncompleteBankDetails,
		},
		{
			name:    "upi missing name",
			form:    WithdrawalForm{Method: MethodUPI, UPIID: "alice@upi"},
			wantErr: ErrIncompleteUPIDetails,
		},
		{
			name:    "upi ignores bank fields",
			form:    WithdrawalForm{Method: MethodUPI, UPIID: "alice@upi", UPIName: "Alice", BankName: "SBI"},
			details: "UPI: alice@upi",
		},
		{
			name:    "unknown method",
			form:    WithdrawalForm{Method: "PAYPAL"},
			wantErr: ErrUnknownMethod,
		},
		{
			name:    "missing method",
			form:    WithdrawalForm{},
			wantErr: ErrUnknownMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.details, tt.form.Details())
		})
	}
}

func TestInviteLink(t *testing.T) {
	link, err := InviteLink("ChromaPredict", "T1D7q2", "9876543210")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(link, "sms:+919876543210?body="))
	assert.NotContains(t, link, "+Use", "spaces are %20, not +")

	body, err := url.QueryUnescape(strings.TrimPrefix(link, "sms:+919876543210?body="))
	require.NoError(t, err)
	assert.Equal(t, InviteMessage("ChromaPredict", "T1D7q2"), body)
	assert.Equal(t, "Join me on ChromaPredict! Use my code: T1D7q2 to get a 100% Welcome Bonus.", body)

	_, err = InviteLink("ChromaPredict", "T1D7q2", "98765")
	assert.ErrorIs(t, err, ErrInvalidPhone)
	_, err = InviteLink("ChromaPredict", "T1D7q2", "98765abcde")
	assert.ErrorIs(t, err, ErrInvalidPhone)
	_, err = InviteLink("ChromaPredict", "", "9876543210")
	assert.Error(t, err)
}
