package handler

import (
	"context"
	"net/http"

	"smsnotify/internal/model"
	"smsnotify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/useinsider/go-pkg/inslogger"
)

// EventHandler receives the host application's commerce event call-ins.
// Dispatch is fire-and-forget: the triggering commerce operation gets a 202
// no matter what happens at the gateway, and failures only reach the log.
type EventHandler struct {
	messageSender service.MessageSender
	dispatcher    service.Dispatcher
	logger        inslogger.Interface
}

func NewEventHandler(
	messageSender service.MessageSender,
	dispatcher service.Dispatcher,
	logger inslogger.Interface,
) *EventHandler {

	return &EventHandler{
		messageSender: messageSender,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// OrderPersisted handles the order-persisted call-in.
// @Summary Notify an order change
// @Description Queue the SMS notification matching the persisted order's state
// @Tags events
// @Accept json
// @Produce json
// @Param order body model.Order true "Persisted order"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/events/order [post]
func (h *EventHandler) OrderPersisted(c *gin.Context) {
	var order model.Order

	if err := c.ShouldBindJSON(&order); err != nil {
		h.logger.Errorf("Invalid order payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if order.CustomerID == 0 {
		// Guest checkout: nobody to notify.
		c.JSON(http.StatusAccepted, gin.H{"message": "Accepted"})
		return
	}

	h.dispatcher.Dispatch(func(ctx context.Context) {
		if err := h.messageSender.SendOrderMessage(ctx, order); err != nil {
			h.logger.Errorf("Failed to dispatch order %s notification: %v", order.IncrementID, err)
		}
	})

	c.JSON(http.StatusAccepted, gin.H{"message": "Accepted"})
}

// ShipmentPersisted handles the shipment-persisted call-in.
// @Summary Notify a shipment
// @Description Queue the order_shipped SMS notification for the persisted shipment
// @Tags events
// @Accept json
// @Produce json
// @Param shipment body model.Shipment true "Persisted shipment"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/events/shipment [post]
func (h *EventHandler) ShipmentPersisted(c *gin.Context) {
	var shipment model.Shipment

	if err := c.ShouldBindJSON(&shipment); err != nil {
		h.logger.Errorf("Invalid shipment payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if shipment.CustomerID == 0 {
		c.JSON(http.StatusAccepted, gin.H{"message": "Accepted"})
		return
	}

	h.dispatcher.Dispatch(func(ctx context.Context) {
		if err := h.messageSender.SendShipmentMessage(ctx, shipment); err != nil {
			h.logger.Errorf("Failed to dispatch shipment notification for order %s: %v", shipment.OrderIncrementID, err)
		}
	})

	c.JSON(http.StatusAccepted, gin.H{"message": "Accepted"})
}
