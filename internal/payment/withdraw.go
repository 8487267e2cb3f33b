package payment

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Method string

const (
	MethodBank Method = "BANK"
	MethodUPI  Method = "UPI"
)

var (
	ErrUnknownMethod         = errors.New("withdrawal method must be BANK or UPI")
	ErrIncompleteBankDetails = errors.New("please fill all bank details")
	ErrIncompleteUPIDetails  = errors.New("please fill all UPI details")
)

var validate = validator.New()

// WithdrawalForm carries the payout destination. Only the fields of the
// chosen method are required.
type WithdrawalForm struct {
	Method        Method `json:"method" validate:"required,oneof=BANK UPI"`
	BankName      string `json:"bank_name" validate:"required_if=Method BANK"`
	AccountNumber string `json:"account_number" validate:"required_if=Method BANK"`
	HolderName    string `json:"holder_name" validate:"required_if=Method BANK"`
	IFSC          string `json:"ifsc" validate:"required_if=Method BANK"`
	UPIID         string `json:"upi_id" validate:"required_if=Method UPI"`
	UPIName       string `json:"upi_name" validate:"required_if=Method UPI"`
}

func (f *WithdrawalForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Field() == "Method" {
			return fmt.Errorf("%w: %q", ErrUnknownMethod, f.Method)
		}
	}
	if f.Method == MethodBank {
		return ErrIncompleteBankDetails
	}
	return ErrIncompleteUPIDetails
}

// Details renders the free-form transaction details line.
func (f *WithdrawalForm) Details() string {
	if f.Method == MethodUPI {
		return "UPI: " + f.UPIID
	}
	return fmt.Sprintf("Bank: %s | A/C: %s", f.BankName, f.AccountNumber)
}
