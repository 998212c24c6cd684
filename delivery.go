package goCognito

import (
	"strings"

	"github.com/MrEthical07/goCognito/pool"
)

// attributeForMedium maps a delivery medium to the user attribute that holds
// its destination.
func attributeForMedium(medium DeliveryMedium) string {
	switch medium {
	case MediumEmail:
		return "email"
	case MediumSMS:
		return "phone_number"
	default:
		return ""
	}
}

// SelectAppropriateDeliveryMethod walks acceptableMediums in caller priority
// order and returns the details of the first medium whose attribute is
// present and non-empty on the user. The second result is false when no
// medium is usable; callers must then fail the enclosing operation with
// [ErrInvalidParameter] rather than fall back silently.
func SelectAppropriateDeliveryMethod(acceptableMediums []DeliveryMedium, user pool.User) (DeliveryDetails, bool) {
	for _, medium := range acceptableMediums {
		name := attributeForMedium(medium)
		if name == "" {
			continue
		}
		value, ok := user.Attributes.Get(name)
		if !ok || value == "" {
			continue
		}
		return DeliveryDetails{
			AttributeName: name,
			Medium:        medium,
			Destination:   value,
		}, true
	}
	return DeliveryDetails{}, false
}

// renderTemplate substitutes the code and username placeholders the hosted
// service recognizes.
func renderTemplate(template, code, username string) string {
	out := strings.ReplaceAll(template, "{####}", code)
	return strings.ReplaceAll(out, "{username}", username)
}

// composeCodeMessage builds the confirmation/MFA code payload.
func composeCodeMessage(cfg DeliveryConfig, code, username string) Message {
	return Message{
		Code:         code,
		EmailSubject: cfg.CodeEmailSubject,
		EmailMessage: renderTemplate(cfg.CodeEmailMessage, code, username),
		SMSMessage:   renderTemplate(cfg.CodeSMSMessage, code, username),
	}
}

// composeInviteMessage builds the temporary-password invitation payload.
func composeInviteMessage(cfg DeliveryConfig, temporaryPassword, username string) Message {
	return Message{
		Code:         temporaryPassword,
		EmailSubject: cfg.InviteEmailSubject,
		EmailMessage: renderTemplate(cfg.InviteEmailMessage, temporaryPassword, username),
		SMSMessage:   renderTemplate(cfg.InviteSMSMessage, temporaryPassword, username),
	}
}
