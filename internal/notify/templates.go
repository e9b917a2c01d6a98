package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

const scheduleFormat = "Monday, January 2, 2006 at 3:04 PM"

func dollars(c money.Cents) string {
	return "$" + c.Format()
}

func scheduledLocal(order *models.Order, location *time.Location) string {
	return order.ScheduledFor.In(location).Format(scheduleFormat)
}

func fulfillmentLine(order *models.Order, pickupAddress string) string {
	if order.IsDelivery() && order.DeliveryAddress != nil {
		return "Delivery to " + *order.DeliveryAddress
	}
	return "Pickup at " + pickupAddress
}

func lineItemsHTML(order *models.Order) string {
	var b strings.Builder
	b.WriteString("<table cellpadding=\"6\" cellspacing=\"0\">")
	for _, line := range order.LineItems {
		label := line.Name
		if line.TierQuantity > 1 {
			label = fmt.Sprintf("%s (pack of %d)", line.Name, line.TierQuantity)
		}
		fmt.Fprintf(&b, "<tr><td>%d × %s</td><td align=\"right\">%s</td></tr>",
			line.Qty, html.EscapeString(label), dollars(line.LineTotalCents))
	}
	b.WriteString("</table>")
	return b.String()
}

func lineItemsText(order *models.Order) string {
	var b strings.Builder
	for _, line := range order.LineItems {
		label := line.Name
		if line.TierQuantity > 1 {
			label = fmt.Sprintf("%s (pack of %d)", line.Name, line.TierQuantity)
		}
		fmt.Fprintf(&b, "  %d x %s — %s\n", line.Qty, label, dollars(line.LineTotalCents))
	}
	return b.String()
}

func totalsHTML(order *models.Order) string {
	var b strings.Builder
	b.WriteString("<table cellpadding=\"6\" cellspacing=\"0\">")
	fmt.Fprintf(&b, "<tr><td>Subtotal</td><td align=\"right\">%s</td></tr>", dollars(order.SubtotalCents))
	if order.DeliveryFeeCents > 0 {
		fmt.Fprintf(&b, "<tr><td>Delivery fee</td><td align=\"right\">%s</td></tr>", dollars(order.DeliveryFeeCents))
	}
	fmt.Fprintf(&b, "<tr><td>Tax (HST)</td><td align=\"right\">%s</td></tr>", dollars(order.TaxCents))
	fmt.Fprintf(&b, "<tr><td><strong>Total</strong></td><td align=\"right\"><strong>%s</strong></td></tr>", dollars(order.TotalCents))
	b.WriteString("</table>")
	return b.String()
}

func totalsText(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Subtotal: %s\n", dollars(order.SubtotalCents))
	if order.DeliveryFeeCents > 0 {
		fmt.Fprintf(&b, "  Delivery fee: %s\n", dollars(order.DeliveryFeeCents))
	}
	fmt.Fprintf(&b, "  Tax (HST): %s\n", dollars(order.TaxCents))
	fmt.Fprintf(&b, "  Total: %s\n", dollars(order.TotalCents))
	return b.String()
}

func confirmationHTML(order *models.Order, pickupAddress string, location *time.Location) string {
	return fmt.Sprintf(
		"<h2>Thanks for your order, %s!</h2>"+
			"<p>We've received your order and it's now being prepared.</p>"+
			"<p><strong>%s</strong><br>%s</p>%s%s"+
			"<p>We'll email you again when your order is ready.</p>",
		html.EscapeString(order.CustomerName),
		html.EscapeString(fulfillmentLine(order, pickupAddress)),
		scheduledLocal(order, location),
		lineItemsHTML(order),
		totalsHTML(order),
	)
}

func confirmationText(order *models.Order, pickupAddress string, location *time.Location) string {
	return fmt.Sprintf(
		"Thanks for your order, %s!\n\n"+
			"We've received your order and it's now being prepared.\n\n"+
			"%s\n%s\n\n%s\n%s\n"+
			"We'll email you again when your order is ready.\n",
		order.CustomerName,
		fulfillmentLine(order, pickupAddress),
		scheduledLocal(order, location),
		lineItemsText(order),
		totalsText(order),
	)
}

func adminAlertHTML(order *models.Order, location *time.Location) string {
	address := "pickup"
	if order.IsDelivery() && order.DeliveryAddress != nil {
		address = *order.DeliveryAddress
	}
	return fmt.Sprintf(
		"<h2>New order %s</h2>"+
			"<p>%s — %s — %s</p>"+
			"<p>%s for %s<br>Address: %s</p>%s%s",
		shortID(order),
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.CustomerEmail),
		html.EscapeString(order.CustomerPhone),
		html.EscapeString(order.FulfillmentMethod.String()),
		scheduledLocal(order, location),
		html.EscapeString(address),
		lineItemsHTML(order),
		totalsHTML(order),
	)
}

func adminAlertText(order *models.Order, location *time.Location) string {
	address := "pickup"
	if order.IsDelivery() && order.DeliveryAddress != nil {
		address = *order.DeliveryAddress
	}
	return fmt.Sprintf(
		"New order %s\n\n"+
			"Customer: %s (%s, %s)\n"+
			"%s for %s\nAddress: %s\n\n%s\n%s",
		shortID(order),
		order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.FulfillmentMethod.String(),
		scheduledLocal(order, location),
		address,
		lineItemsText(order),
		totalsText(order),
	)
}

func readyHTML(order *models.Order, pickupAddress string) string {
	return fmt.Sprintf(
		"<h2>Your order %s is ready!</h2>"+
			"<p>Hi %s, your order is ready for pickup.</p>"+
			"<p><strong>Pickup location:</strong> %s</p>",
		shortID(order),
		html.EscapeString(order.CustomerName),
		html.EscapeString(pickupAddress),
	)
}

func readyText(order *models.Order, pickupAddress string) string {
	return fmt.Sprintf(
		"Your order %s is ready!\n\nHi %s, your order is ready for pickup.\n\nPickup location: %s\n",
		shortID(order), order.CustomerName, pickupAddress,
	)
}

func outForDeliveryHTML(order *models.Order) string {
	address := ""
	if order.DeliveryAddress != nil {
		address = *order.DeliveryAddress
	}
	return fmt.Sprintf(
		"<h2>Your order %s is on its way!</h2>"+
			"<p>Hi %s, your order is out for delivery to:</p>"+
			"<p><strong>%s</strong></p>",
		shortID(order),
		html.EscapeString(order.CustomerName),
		html.EscapeString(address),
	)
}

func outForDeliveryText(order *models.Order) string {
	address := ""
	if order.DeliveryAddress != nil {
		address = *order.DeliveryAddress
	}
	return fmt.Sprintf(
		"Your order %s is on its way!\n\nHi %s, your order is out for delivery to:\n%s\n",
		shortID(order), order.CustomerName, address,
	)
}

func cancelledHTML(order *models.Order) string {
	return fmt.Sprintf(
		"<h2>Your order %s has been cancelled</h2>"+
			"<p>Hi %s, your order has been cancelled. If you weren't expecting this, "+
			"reply to this email and we'll sort it out.</p>",
		shortID(order),
		html.EscapeString(order.CustomerName),
	)
}

func cancelledText(order *models.Order) string {
	return fmt.Sprintf(
		"Your order %s has been cancelled\n\nHi %s, your order has been cancelled. "+
			"If you weren't expecting this, reply to this email and we'll sort it out.\n",
		shortID(order), order.CustomerName,
	)
}
