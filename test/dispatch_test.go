package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smsnotify/internal/config"
	"smsnotify/internal/gateway"
	"smsnotify/internal/handler"
	"smsnotify/internal/model"
	"smsnotify/internal/secret"
	"smsnotify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/useinsider/go-pkg/inslogger"
)

const testEncryptionKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

type stubSubscriptionService struct {
	mock.Mock
}

func (m *stubSubscriptionService) GetByCustomer(ctx context.Context, customerID uint) ([]model.SmsSubscription, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]model.SmsSubscription), args.Error(1)
}

func (m *stubSubscriptionService) Create(ctx context.Context, customerID uint, smsType string) (model.SmsSubscription, error) {
	args := m.Called(ctx, customerID, smsType)
	return args.Get(0).(model.SmsSubscription), args.Error(1)
}

func (m *stubSubscriptionService) Delete(ctx context.Context, customerID uint, smsType string) error {
	args := m.Called(ctx, customerID, smsType)
	return args.Error(0)
}

type stubCustomerService struct {
	mock.Mock
}

func (m *stubCustomerService) GetCustomer(ctx context.Context, id uint) (model.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Customer), args.Error(1)
}

func (m *stubCustomerService) UpdateMobileNumber(ctx context.Context, id uint, prefix, number string) (bool, error) {
	args := m.Called(ctx, id, prefix, number)
	return args.Bool(0), args.Error(1)
}

// TestShipmentDispatch_EndToEnd drives the full path from the
// shipment-persisted call-in to the gateway: a customer subscribed to
// order_shipped only gets exactly one message, addressed to their stored
// mobile number and carrying the rendered shipped template.
func TestShipmentDispatch_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gatewayCalls int32
	var gotBody map[string]string
	var gotPath string
	received := make(chan struct{}, 1)

	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gatewayCalls, 1)
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		received <- struct{}{}
	}))
	defer gatewayServer.Close()

	encrypted, err := secret.Encrypt(testEncryptionKey, "s3cret")
	require.NoError(t, err)

	settings := gateway.Settings{
		Enabled:           true,
		OptinRequired:     true,
		APIUser:           "apiuser",
		APIPassword:       encrypted,
		EncryptionKey:     testEncryptionKey,
		PlatformID:        "ABC123",
		PlatformPartnerID: "123",
		SourceType:        gateway.TONAlphanumeric,
		Source:            "WebShop",
		BaseURI:           gatewayServer.URL + "/sms/",
		Timeout:           2 * time.Second,
	}

	templates := config.TemplateConfig{
		OrderShipped: "{{customer_name}}, order {{order_id}} has shipped.",
	}

	customer := model.Customer{
		ID:                42,
		FirstName:         "Jane",
		LastName:          "Doe",
		MobilePhonePrefix: "+1",
		MobilePhoneNumber: "5556789012",
	}

	subscriptions := new(stubSubscriptionService)
	customers := new(stubCustomerService)
	subscriptions.On("GetByCustomer", mock.Anything, uint(42)).Return([]model.SmsSubscription{
		{ID: 1, CustomerID: 42, SmsType: model.SmsTypeOrderShipped},
	}, nil)
	customers.On("GetCustomer", mock.Anything, uint(42)).Return(customer, nil)

	logger := inslogger.NewLogger(inslogger.Debug)
	sender := service.NewMessageSender(subscriptions, customers, settings, templates, logger)

	dispatcher := service.NewDispatcher(logger, 2*time.Second, 8)
	require.NoError(t, dispatcher.Start())
	defer dispatcher.Stop()

	eventHandler := handler.NewEventHandler(sender, dispatcher, logger)

	router := gin.Default()
	router.POST("/api/events/shipment", eventHandler.ShipmentPersisted)

	payload := []byte(`{"entity_id":9,"order_increment_id":"100000123","customer_id":42}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/events/shipment", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusAccepted, resp.Code)

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("gateway never received the dispatch")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&gatewayCalls))
	assert.Equal(t, "/sms/send", gotPath)
	assert.Equal(t, "+15556789012", gotBody["destination"])
	assert.Equal(t, "Jane Doe, order 100000123 has shipped.", gotBody["userData"])
	assert.Equal(t, "ABC123", gotBody["platformId"])
	assert.Equal(t, "123", gotBody["platformPartnerId"])
}

// TestShipmentDispatch_NotSubscribed proves the inverse: without an
// order_shipped subscription the call-in is accepted but nothing reaches
// the gateway.
func TestShipmentDispatch_NotSubscribed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gatewayCalls int32
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gatewayCalls, 1)
	}))
	defer gatewayServer.Close()

	encrypted, err := secret.Encrypt(testEncryptionKey, "s3cret")
	require.NoError(t, err)

	settings := gateway.Settings{
		Enabled:       true,
		OptinRequired: true,
		APIUser:       "apiuser",
		APIPassword:   encrypted,
		EncryptionKey: testEncryptionKey,
		SourceType:    gateway.TONAlphanumeric,
		Source:        "WebShop",
		BaseURI:       gatewayServer.URL + "/sms/",
		Timeout:       2 * time.Second,
	}

	subscriptions := new(stubSubscriptionService)
	customers := new(stubCustomerService)
	subscriptions.On("GetByCustomer", mock.Anything, uint(42)).Return([]model.SmsSubscription{}, nil)
	customers.On("GetCustomer", mock.Anything, uint(42)).Return(model.Customer{
		ID:                42,
		MobilePhonePrefix: "+1",
		MobilePhoneNumber: "5556789012",
	}, nil)

	logger := inslogger.NewLogger(inslogger.Debug)
	sender := service.NewMessageSender(subscriptions, customers, settings, config.TemplateConfig{
		OrderShipped: "{{customer_name}}, order {{order_id}} has shipped.",
	}, logger)

	dispatcher := service.NewDispatcher(logger, 2*time.Second, 8)
	require.NoError(t, dispatcher.Start())

	eventHandler := handler.NewEventHandler(sender, dispatcher, logger)

	router := gin.Default()
	router.POST("/api/events/shipment", eventHandler.ShipmentPersisted)

	payload := []byte(`{"order_increment_id":"100000123","customer_id":42}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/events/shipment", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusAccepted, resp.Code)

	// Stop triggers a queue drain; give the worker a moment to finish it.
	require.NoError(t, dispatcher.Stop())
	time.Sleep(100 * time.Millisecond)

	assert.Zero(t, atomic.LoadInt32(&gatewayCalls))
	subscriptions.AssertCalled(t, "GetByCustomer", mock.Anything, uint(42))
}
