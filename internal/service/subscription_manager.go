package service

import (
	"context"
	"fmt"

	"smsnotify/internal/model"
	"smsnotify/internal/mpostgres"

	"github.com/useinsider/go-pkg/inslogger"
)

// BatchResult counts per-item outcomes of a create or remove pass. The
// batch is not a transaction: one failing row never aborts the rest.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// BatchMessages holds the user-facing copy for a batch outcome, keyed by
// singular vs. plural count. Plural variants use a %d verb.
type BatchMessages struct {
	SuccessOne      string
	SuccessMultiple string
	ErrorOne        string
	ErrorMultiple   string
}

// UserMessages returns the texts to surface for a batch result, one per
// outcome present, singular when the count is exactly one. A mixed batch
// reports the failure and the partial success side by side. Empty result,
// no messages.
func (r BatchResult) UserMessages(messages BatchMessages) ([]string, bool) {
	var texts []string

	if r.Failed == 1 {
		texts = append(texts, messages.ErrorOne)
	} else if r.Failed > 1 {
		texts = append(texts, fmt.Sprintf(messages.ErrorMultiple, r.Failed))
	}

	if r.Succeeded == 1 {
		texts = append(texts, messages.SuccessOne)
	} else if r.Succeeded > 1 {
		texts = append(texts, fmt.Sprintf(messages.SuccessMultiple, r.Succeeded))
	}

	return texts, r.Failed > 0
}

type SubscriptionManager interface {
	RemoveSubscriptions(ctx context.Context, current []model.SmsSubscription, desired []string, customerID uint) BatchResult
	CreateSubscriptions(ctx context.Context, desired []string, customerID uint) BatchResult
}

type subscriptionManager struct {
	subscriptionService mpostgres.SubscriptionService
	logger              inslogger.Interface
}

func NewSubscriptionManager(subscriptionService mpostgres.SubscriptionService, logger inslogger.Interface) SubscriptionManager {
	return &subscriptionManager{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// RemoveSubscriptions deletes every currently subscribed category that is
// not in the desired set. Failed deletes are counted and logged, and the
// pass continues.
func (s *subscriptionManager) RemoveSubscriptions(ctx context.Context, current []model.SmsSubscription, desired []string, customerID uint) BatchResult {
	var result BatchResult

	keep := make(map[string]bool, len(desired))
	for _, smsType := range desired {
		keep[smsType] = true
	}

	for _, sub := range current {
		if keep[sub.SmsType] {
			continue
		}

		if err := s.subscriptionService.Delete(ctx, customerID, sub.SmsType); err != nil {
			s.logger.Errorf("Failed to remove %s subscription for customer %d: %v", sub.SmsType, customerID, err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	return result
}

// CreateSubscriptions adds a subscription row for every desired category.
// The caller has already excluded categories that remain subscribed.
// Unknown category keys are rejected without touching the store.
func (s *subscriptionManager) CreateSubscriptions(ctx context.Context, desired []string, customerID uint) BatchResult {
	var result BatchResult

	for _, smsType := range desired {
		if !model.IsValidSmsType(smsType) {
			s.logger.Errorf("Refusing to subscribe customer %d to unknown sms type %q", customerID, smsType)
			result.Failed++
			continue
		}

		if _, err := s.subscriptionService.Create(ctx, customerID, smsType); err != nil {
			s.logger.Errorf("Failed to create %s subscription for customer %d: %v", smsType, customerID, err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	return result
}
