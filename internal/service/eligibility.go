package service

import (
	"smsnotify/internal/model"
)

// Reason codes attached to eligibility decisions for the dispatch log.
const (
	ReasonEligible        = "eligible"
	ReasonDisabled        = "disabled"
	ReasonNoOptin         = "no_optin"
	ReasonUnsubscribed    = "unsubscribed"
	ReasonWelcomeDisabled = "welcome_disabled"
)

// EligibilityInput carries everything the resolver needs, already looked
// up by the caller. The resolver itself does no I/O.
type EligibilityInput struct {
	Enabled       bool
	OptinRequired bool
	Subscribed    bool
	OptedOut      bool
	Category      string
}

// Decision is the outcome of an eligibility check. It is never persisted.
type Decision struct {
	ShouldSend bool
	Reason     string
}

// ResolveEligibility decides send/no-send for one (customer, category)
// pair. Disabled always wins. With opt-in required a positive subscription
// must exist; without it the customer is default-subscribed unless they
// explicitly opted out.
func ResolveEligibility(in EligibilityInput) Decision {
	if !in.Enabled {
		return Decision{ShouldSend: false, Reason: ReasonDisabled}
	}

	if in.OptinRequired {
		if !in.Subscribed {
			return Decision{ShouldSend: false, Reason: ReasonNoOptin}
		}
		return Decision{ShouldSend: true, Reason: ReasonEligible}
	}

	if in.OptedOut {
		return Decision{ShouldSend: false, Reason: ReasonUnsubscribed}
	}

	return Decision{ShouldSend: true, Reason: ReasonEligible}
}

// ResolveWelcome decides whether a welcome message goes out. It is not a
// category subscription: only the module switch and the welcome flag gate
// it, and the caller invokes it only when the mobile number just changed.
func ResolveWelcome(enabled, sendWelcomeMessage bool) Decision {
	if !enabled {
		return Decision{ShouldSend: false, Reason: ReasonDisabled}
	}
	if !sendWelcomeMessage {
		return Decision{ShouldSend: false, Reason: ReasonWelcomeDisabled}
	}

	return Decision{ShouldSend: true, Reason: ReasonEligible}
}

// IsSubscribed reports whether subs contains an active subscription for
// the given category.
func IsSubscribed(subs []model.SmsSubscription, category string) bool {
	for _, sub := range subs {
		if sub.SmsType == category {
			return true
		}
	}
	return false
}
