package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"smsnotify/internal/config"
	"smsnotify/internal/gateway"
	"smsnotify/internal/model"
	"smsnotify/internal/mpostgres"

	"github.com/useinsider/go-pkg/inslogger"
)

// The gateway rejects message bodies above this many characters.
const maxUserDataLength = 1000

var (
	ErrInvalidDestination = errors.New("service: destination is not a valid mobile number")
	ErrEmptyMessage       = errors.New("service: message body is empty")
	ErrMessageTooLong     = errors.New("service: message body exceeds gateway limit")
)

// MessageSender dispatches one templated SMS per qualifying commerce event.
// Every method performs at most one gateway attempt and never retries;
// failures are reported to the caller for logging, not raised to the
// triggering commerce operation.
type MessageSender interface {
	SendOrderMessage(ctx context.Context, order model.Order) error
	SendShipmentMessage(ctx context.Context, shipment model.Shipment) error
	SendWelcomeMessage(ctx context.Context, customer model.Customer) error
	SyncGroupMembership(ctx context.Context, customer model.Customer, subscribe bool) error
}

type messageSender struct {
	subscriptionService mpostgres.SubscriptionService
	customerService     mpostgres.CustomerService
	settings            gateway.Settings
	templates           config.TemplateConfig
	logger              inslogger.Interface
	sendClient          *gateway.Client
	subscribeClient     *gateway.Client
	unsubscribeClient   *gateway.Client
}

func NewMessageSender(
	subscriptionService mpostgres.SubscriptionService,
	customerService mpostgres.CustomerService,
	settings gateway.Settings,
	templates config.TemplateConfig,
	logger inslogger.Interface,
) MessageSender {
	sendClient := gateway.NewClient(logger)
	sendClient.Configure(gateway.OperationSend, "")

	subscribeClient := gateway.NewClient(logger)
	subscribeClient.Configure(gateway.OperationSubscribe, "")

	unsubscribeClient := gateway.NewClient(logger)
	unsubscribeClient.Configure(gateway.OperationUnsubscribe, "")

	return &messageSender{
		subscriptionService: subscriptionService,
		customerService:     customerService,
		settings:            settings,
		templates:           templates,
		logger:              logger,
		sendClient:          sendClient,
		subscribeClient:     subscribeClient,
		unsubscribeClient:   unsubscribeClient,
	}
}

// SendOrderMessage dispatches the notification matching the order's state,
// if the customer is eligible for that category. An order state with no
// category is not an error.
func (s *messageSender) SendOrderMessage(ctx context.Context, order model.Order) error {
	category := order.SmsType()
	if category == "" {
		s.logger.Logf("Order %s state %q has no notification category, skipping", order.IncrementID, order.State)
		return nil
	}

	customer, err := s.customerService.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return fmt.Errorf("loading customer %d: %w", order.CustomerID, err)
	}

	decision, err := s.resolve(ctx, customer.ID, category)
	if err != nil {
		return err
	}
	if !decision.ShouldSend {
		s.logger.Logf("Skipping %s message for customer %d: %s", category, customer.ID, decision.Reason)
		return nil
	}

	return s.dispatch(ctx, category, customer, OrderVariables(order, customer))
}

// SendShipmentMessage dispatches the order_shipped notification for a
// persisted shipment.
func (s *messageSender) SendShipmentMessage(ctx context.Context, shipment model.Shipment) error {
	customer, err := s.customerService.GetCustomer(ctx, shipment.CustomerID)
	if err != nil {
		return fmt.Errorf("loading customer %d: %w", shipment.CustomerID, err)
	}

	decision, err := s.resolve(ctx, customer.ID, model.SmsTypeOrderShipped)
	if err != nil {
		return err
	}
	if !decision.ShouldSend {
		s.logger.Logf("Skipping %s message for customer %d: %s", model.SmsTypeOrderShipped, customer.ID, decision.Reason)
		return nil
	}

	return s.dispatch(ctx, model.SmsTypeOrderShipped, customer, ShipmentVariables(shipment, customer))
}

// SendWelcomeMessage dispatches the welcome message. Callers invoke it only
// after the customer's mobile number was newly set or changed; it is gated
// by the welcome flag, not by a category subscription.
func (s *messageSender) SendWelcomeMessage(ctx context.Context, customer model.Customer) error {
	decision := ResolveWelcome(s.settings.Enabled, s.settings.SendWelcomeMessage)
	if !decision.ShouldSend {
		s.logger.Logf("Skipping welcome message for customer %d: %s", customer.ID, decision.Reason)
		return nil
	}

	return s.dispatch(ctx, "welcome", customer, CustomerVariables(customer))
}

// SyncGroupMembership tells the gateway to add or remove the customer's
// number from the configured gate. Best effort: callers log failures and
// move on. A missing gate id disables the sync entirely.
func (s *messageSender) SyncGroupMembership(ctx context.Context, customer model.Customer, subscribe bool) error {
	if s.settings.GateID == "" {
		return nil
	}

	destination := customer.FullMobileNumber()
	if !model.IsValidDestination(destination) {
		return ErrInvalidDestination
	}

	client := s.unsubscribeClient
	if subscribe {
		client = s.subscribeClient
	}

	fields := map[string]string{
		gateway.FieldDestination: destination,
		"gateId":                 s.settings.GateID,
	}

	resp, err := client.Execute(ctx, s.settings, fields)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway group sync returned status %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}

func (s *messageSender) resolve(ctx context.Context, customerID uint, category string) (Decision, error) {
	subscriptions, err := s.subscriptionService.GetByCustomer(ctx, customerID)
	if err != nil {
		return Decision{}, fmt.Errorf("loading subscriptions for customer %d: %w", customerID, err)
	}

	// The store only persists positive subscriptions (deselecting deletes
	// the row), so an explicit opt-out record cannot exist here.
	return ResolveEligibility(EligibilityInput{
		Enabled:       s.settings.Enabled,
		OptinRequired: s.settings.OptinRequired,
		Subscribed:    IsSubscribed(subscriptions, category),
		OptedOut:      false,
		Category:      category,
	}), nil
}

func (s *messageSender) dispatch(ctx context.Context, category string, customer model.Customer, variables map[string]string) error {
	template := s.templates.ForCategory(category)
	if template == "" {
		s.logger.Warnf("No %s template configured, skipping message for customer %d", category, customer.ID)
		return nil
	}

	entity := gateway.Message{
		Source:      s.settings.Source,
		SourceTON:   s.settings.SourceType,
		Destination: customer.FullMobileNumber(),
		UserData:    RenderTemplate(template, variables),
	}

	if err := validateMessage(entity); err != nil {
		return fmt.Errorf("%s message for customer %d rejected: %w", category, customer.ID, err)
	}

	resp, err := s.sendClient.Execute(ctx, s.settings, gateway.Extract(entity))
	if err != nil {
		return fmt.Errorf("sending %s message for customer %d: %w", category, customer.ID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway rejected %s message for customer %d: status %d: %s", category, customer.ID, resp.StatusCode, resp.Body)
	}

	s.logger.Logf("Sent %s message to customer %d", category, customer.ID)
	return nil
}

// validateMessage rejects malformed messages before any network call.
func validateMessage(entity gateway.Message) error {
	if !model.IsValidDestination(entity.Destination) {
		return ErrInvalidDestination
	}
	if entity.UserData == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(entity.UserData) > maxUserDataLength {
		return ErrMessageTooLong
	}
	return nil
}
