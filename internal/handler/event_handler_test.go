package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"smsnotify/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/useinsider/go-pkg/inslogger"
)

func TestOrderPersisted_QueuesDispatch(t *testing.T) {
	mockSender := new(MockMessageSender)
	dispatcher := &syncDispatcher{}

	order := model.Order{EntityID: 5, IncrementID: "100000077", CustomerID: 42, State: model.OrderStateNew}
	mockSender.On("SendOrderMessage", mock.Anything, order).Return(nil)

	h := NewEventHandler(mockSender, dispatcher, inslogger.NewLogger(inslogger.Debug))

	router := setupRouter()
	router.POST("/api/events/order", h.OrderPersisted)

	body := []byte(`{"entity_id":5,"increment_id":"100000077","customer_id":42,"state":"new"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/events/order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusAccepted, resp.Code)
	assert.Equal(t, 1, dispatcher.tasks)
	mockSender.AssertExpectations(t)
}

func TestOrderPersisted_GuestCheckout_NoDispatch(t *testing.T) {
	mockSender := new(MockMessageSender)
	dispatcher := &syncDispatcher{}

	h := NewEventHandler(mockSender, dispatcher, inslogger.NewLogger(inslogger.Debug))

	router := setupRouter()
	router.POST("/api/events/order", h.OrderPersisted)

	body := []byte(`{"increment_id":"100000077","customer_id":0,"state":"new"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/events/order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusAccepted, resp.Code)
	assert.Zero(t, dispatcher.tasks)
	mockSender.AssertNotCalled(t, "SendOrderMessage", mock.Anything, mock.Anything)
}

func TestOrderPersisted_InvalidPayload(t *testing.T) {
	h := NewEventHandler(new(MockMessageSender), &syncDispatcher{}, inslogger.NewLogger(inslogger.Debug))

	router := setupRouter()
	router.POST("/api/events/order", h.OrderPersisted)

	req, _ := http.NewRequest(http.MethodPost, "/api/events/order", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestShipmentPersisted_QueuesDispatch(t *testing.T) {
	mockSender := new(MockMessageSender)
	dispatcher := &syncDispatcher{}

	shipment := model.Shipment{EntityID: 9, OrderIncrementID: "100000123", CustomerID: 42}
	mockSender.On("SendShipmentMessage", mock.Anything, shipment).Return(nil)

	h := NewEventHandler(mockSender, dispatcher, inslogger.NewLogger(inslogger.Debug))

	router := setupRouter()
	router.POST("/api/events/shipment", h.ShipmentPersisted)

	body := []byte(`{"entity_id":9,"order_increment_id":"100000123","customer_id":42}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/events/shipment", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusAccepted, resp.Code)
	assert.Equal(t, 1, dispatcher.tasks)
	mockSender.AssertExpectations(t)
}

func TestShipmentPersisted_SenderFailureStillAccepted(t *testing.T) {
	mockSender := new(MockMessageSender)
	dispatcher := &syncDispatcher{}

	mockSender.On("SendShipmentMessage", mock.Anything, mock.Anything).
		Return(assert.AnError)

	h := NewEventHandler(mockSender, dispatcher, inslogger.NewLogger(inslogger.Debug))

	router := setupRouter()
	router.POST("/api/events/shipment", h.ShipmentPersisted)

	body := []byte(`{"order_increment_id":"100000123","customer_id":42}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/events/shipment", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// The gateway failure never reaches the triggering commerce operation.
	assert.Equal(t, http.StatusAccepted, resp.Code)
}
