package service

import (
	"strings"

	"smsnotify/internal/model"
)

// RenderTemplate substitutes {{name}} placeholders with the supplied
// variables. Placeholders without a variable are left in place so a
// misconfigured template is visible in the dispatch log rather than
// silently blanked.
func RenderTemplate(template string, variables map[string]string) string {
	if len(variables) == 0 {
		return template
	}

	pairs := make([]string, 0, len(variables)*2)
	for name, value := range variables {
		pairs = append(pairs, "{{"+name+"}}", value)
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// OrderVariables builds the substitution set for order notifications. The
// triggering order is passed in explicitly; nothing is read from shared
// state.
func OrderVariables(order model.Order, customer model.Customer) map[string]string {
	return map[string]string{
		"order_id":            order.IncrementID,
		"order_url":           order.OrderURL,
		"customer_name":       customer.FullName(),
		"customer_first_name": customer.FirstName,
		"customer_last_name":  customer.LastName,
		"store_name":          order.StoreName,
	}
}

// ShipmentVariables builds the substitution set for shipment notifications.
func ShipmentVariables(shipment model.Shipment, customer model.Customer) map[string]string {
	return map[string]string{
		"order_id":            shipment.OrderIncrementID,
		"order_url":           shipment.OrderURL,
		"customer_name":       customer.FullName(),
		"customer_first_name": customer.FirstName,
		"customer_last_name":  customer.LastName,
		"store_name":          shipment.StoreName,
	}
}

// CustomerVariables builds the substitution set for the welcome message.
func CustomerVariables(customer model.Customer) map[string]string {
	return map[string]string{
		"customer_name":       customer.FullName(),
		"customer_first_name": customer.FirstName,
		"customer_last_name":  customer.LastName,
		"mobile_number":       customer.FullMobileNumber(),
	}
}
