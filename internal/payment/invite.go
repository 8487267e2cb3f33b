package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	INVITE_COUNTRY_CODE = "+91"
	INVITE_PHONE_LENGTH = 10
)

var ErrInvalidPhone = fmt.Errorf("please enter a %d-digit mobile number", INVITE_PHONE_LENGTH)

func InviteMessage(appName, code string) string {
	return fmt.Sprintf("Join me on %s! Use my code: %s to get a 100%% Welcome Bonus.", appName, code)
}

// InviteLink builds the sms: URI handed to the device's messaging app.
func InviteLink(appName, code, phone string) (string, error) {
	if code == "" {
		return "", errors.New("invite code is not configured")
	}
	if len(phone) != INVITE_PHONE_LENGTH {
		return "", ErrInvalidPhone
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}

	body := strings.ReplaceAll(url.QueryEscape(InviteMessage(appName, code)), "+", "%20")
	return fmt.Sprintf("sms:%s%s?body=%s", INVITE_COUNTRY_CODE, phone, body), nil
}
