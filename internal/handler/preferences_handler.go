package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"smsnotify/internal/config"
	"smsnotify/internal/model"
	"smsnotify/internal/mpostgres"
	"smsnotify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/useinsider/go-pkg/inslogger"
	"github.com/useinsider/go-pkg/insredis"
)

// Customers land back on the manage-preferences view after every
// submission, success or not.
const managePreferencesPath = "/sms/notifications/manage"

const genericPreferencesError = "Something went wrong while saving your text notification preferences."

var removeMessages = service.BatchMessages{
	SuccessOne:      "You have been unsubscribed from 1 text notification.",
	SuccessMultiple: "You have been unsubscribed from %d text notifications.",
	ErrorOne:        "You could not be unsubscribed from 1 text notification.",
	ErrorMultiple:   "You could not be unsubscribed from %d text notifications.",
}

var createMessages = service.BatchMessages{
	SuccessOne:      "You have been subscribed to 1 text notification.",
	SuccessMultiple: "You have been subscribed to %d text notifications.",
	ErrorOne:        "You could not be subscribed to 1 text notification.",
	ErrorMultiple:   "You could not be subscribed to %d text notifications.",
}

type PreferencesHandler struct {
	subscriptionService mpostgres.SubscriptionService
	customerService     mpostgres.CustomerService
	subscriptionManager service.SubscriptionManager
	messageSender       service.MessageSender
	dispatcher          service.Dispatcher
	gatewayConfig       config.GatewayConfig
	logger              inslogger.Interface
	redisClient         insredis.RedisInterface
}

func NewPreferencesHandler(
	subscriptionService mpostgres.SubscriptionService,
	customerService mpostgres.CustomerService,
	subscriptionManager service.SubscriptionManager,
	messageSender service.MessageSender,
	dispatcher service.Dispatcher,
	gatewayConfig config.GatewayConfig,
	logger inslogger.Interface,
	redisClient insredis.RedisInterface,
) *PreferencesHandler {

	return &PreferencesHandler{
		subscriptionService: subscriptionService,
		customerService:     customerService,
		subscriptionManager: subscriptionManager,
		messageSender:       messageSender,
		dispatcher:          dispatcher,
		gatewayConfig:       gatewayConfig,
		logger:              logger,
		redisClient:         redisClient,
	}
}

// ManagePreferences reconciles a customer's notification preferences.
// @Summary Save text notification preferences
// @Description Reconcile the customer's subscribed categories against the selected set and update their mobile number
// @Tags preferences
// @Accept json
// @Produce json
// @Param preferences body model.ManagePreferencesRequest true "Selected categories and mobile number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/notifications/preferences [post]
func (h *PreferencesHandler) ManagePreferences(c *gin.Context) {
	var req model.ManagePreferencesRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid preferences payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	ctx := c.Request.Context()

	current, err := h.subscriptionService.GetByCustomer(ctx, req.CustomerID)
	if err != nil {
		h.logger.Errorf("Failed to load subscriptions for customer %d: %v", req.CustomerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    genericPreferencesError,
			"redirect": managePreferencesPath,
		})
		return
	}

	var userMessages []string

	removed := h.subscriptionManager.RemoveSubscriptions(ctx, current, req.SmsTypes, req.CustomerID)
	if texts, _ := removed.UserMessages(removeMessages); len(texts) > 0 {
		userMessages = append(userMessages, texts...)
	}

	// Categories that stay subscribed are untouched: no redundant
	// delete+create round trip.
	toCreate := req.SmsTypes[:0:0]
	for _, smsType := range req.SmsTypes {
		if !service.IsSubscribed(current, smsType) {
			toCreate = append(toCreate, smsType)
		}
	}

	created := h.subscriptionManager.CreateSubscriptions(ctx, toCreate, req.CustomerID)
	if texts, _ := created.UserMessages(createMessages); len(texts) > 0 {
		userMessages = append(userMessages, texts...)
	}

	numberUpdated := false
	if req.MobilePhoneNumber != "" {
		numberUpdated, err = h.customerService.UpdateMobileNumber(ctx, req.CustomerID, req.MobilePhonePrefix, req.MobilePhoneNumber)
		if err != nil {
			h.logger.Errorf("Failed to update mobile number for customer %d: %v", req.CustomerID, err)
			userMessages = append(userMessages, "Your mobile telephone number could not be updated.")
		} else if numberUpdated {
			userMessages = append(userMessages, "Your mobile telephone number has been updated.")
		}
	}

	h.queueFollowUps(req, removed, created, numberUpdated)
	h.invalidatePreferencesCache(req.CustomerID)

	c.JSON(http.StatusOK, gin.H{
		"messages":              userMessages,
		"removed":               removed.Succeeded,
		"created":               created.Succeeded,
		"mobile_number_updated": numberUpdated,
		"redirect":              managePreferencesPath,
	})
}

// GetPreferences returns a customer's current subscriptions.
// @Summary Get text notification preferences
// @Description Retrieve the customer's subscribed categories and the opt-in terms
// @Tags preferences
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/preferences/{customerId} [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("customerId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	cacheKey := fmt.Sprintf("preferences:%d", customerID)

	if h.redisClient != nil {
		cached, err := h.redisClient.Get(cacheKey).Result()
		if err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		} else if err != nil && err.Error() != "redis: nil" {
			h.logger.Warnf("Redis error while reading preferences cache: %v", err)
		}
	}

	subscriptions, err := h.subscriptionService.GetByCustomer(c.Request.Context(), uint(customerID))
	if err != nil {
		h.logger.Errorf("Failed to load subscriptions for customer %d: %v", customerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve text notification preferences"})
		return
	}
	if subscriptions == nil {
		subscriptions = []model.SmsSubscription{}
	}

	payload, err := json.Marshal(gin.H{
		"customer_id":            customerID,
		"subscriptions":          subscriptions,
		"available_sms_types":    model.SmsTypes,
		"terms_and_conditions":   h.gatewayConfig.TermsAndConditions,
		"show_terms_after_optin": h.gatewayConfig.ShowTermsAfterOptin,
	})
	if err != nil {
		h.logger.Warnf("Failed to marshal preferences: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve text notification preferences"})
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Set(cacheKey, payload, 10*time.Minute).Err(); err != nil {
			h.logger.Warnf("Failed to cache preferences: %v", err)
		}
	}

	c.Data(http.StatusOK, "application/json", payload)
}

// queueFollowUps schedules the welcome message and the gateway group sync
// off the request goroutine. Both are best effort: failures are logged and
// never surfaced to the submitting customer.
func (h *PreferencesHandler) queueFollowUps(req model.ManagePreferencesRequest, removed, created service.BatchResult, numberUpdated bool) {
	wantWelcome := numberUpdated
	wantSubscribe := created.Succeeded > 0
	wantUnsubscribe := len(req.SmsTypes) == 0 && removed.Succeeded > 0

	if !wantWelcome && !wantSubscribe && !wantUnsubscribe {
		return
	}

	customerID := req.CustomerID

	h.dispatcher.Dispatch(func(ctx context.Context) {
		customer, err := h.customerService.GetCustomer(ctx, customerID)
		if err != nil {
			h.logger.Errorf("Failed to load customer %d for follow-up dispatch: %v", customerID, err)
			return
		}

		if wantWelcome {
			if err := h.messageSender.SendWelcomeMessage(ctx, customer); err != nil {
				h.logger.Errorf("Failed to send welcome message to customer %d: %v", customerID, err)
			}
		}

		if wantSubscribe || wantUnsubscribe {
			if err := h.messageSender.SyncGroupMembership(ctx, customer, wantSubscribe); err != nil {
				h.logger.Errorf("Failed to sync gateway group membership for customer %d: %v", customerID, err)
			}
		}
	})
}

func (h *PreferencesHandler) invalidatePreferencesCache(customerID uint) {
	if h.redisClient == nil {
		return
	}

	cacheKey := fmt.Sprintf("preferences:%d", customerID)
	if err := h.redisClient.Del(cacheKey).Err(); err != nil {
		h.logger.Warnf("Failed to invalidate preferences cache for customer %d: %v", customerID, err)
	}
}
