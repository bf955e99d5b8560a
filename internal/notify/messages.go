package notify

import (
	"fmt"
	"strings"
	"time"

	"burns-farm-shop/internal/domain"

	"github.com/shopspring/decimal"
)

const signOff = "Best regards,\nThe Burns Farm Team"

func pounds(amount decimal.Decimal) string {
	return "£" + amount.StringFixed(2)
}

// DeliveredSMS is the text sent when an order is marked delivered
func DeliveredSMS(order domain.Order) string {
	return fmt.Sprintf(
		"Your Burns Farm Shop order has been delivered! Order #%s delivered on %s at %s. Total: %s. Thank you for choosing Burns Farm!",
		order.ID, order.DeliveryDate, order.DeliverySlot, pounds(order.Total),
	)
}

// DeliveredEmail returns the subject and body of the delivery confirmation email
func DeliveredEmail(order domain.Order) (string, string) {
	c := order.Customer

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s %s,\n\n", c.FirstName, c.LastName)
	fmt.Fprintf(&b, "Your order #%s has been successfully delivered to %s on %s at %s.\n\n",
		order.ID, c.Accommodation, order.DeliveryDate, order.DeliverySlot)
	b.WriteString("Items delivered:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d - %s\n", item.Product.Name, item.Quantity, pounds(item.LineTotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", pounds(order.Total))
	b.WriteString("Thank you for choosing Burns Farm Shop! We hope you enjoy your groceries and gifts.\n\n")
	b.WriteString(signOff)

	return "Your Burns Farm Shop Order Has Been Delivered!", b.String()
}

// CustomerMessageSubject is used for free-text emails from the shop to a customer
func CustomerMessageSubject(order domain.Order) string {
	return fmt.Sprintf("A message about your Burns Farm Shop order #%s", order.ID)
}

// InvitationEmail returns the subject and body sent to a new team member
func InvitationEmail(inv domain.UserInvitation, link string, ttl time.Duration) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s %s,\n\n", inv.FirstName, inv.LastName)
	fmt.Fprintf(&b, "You have been invited to join the Burns Farm Shop management team as a %s.\n\n", inv.Role)
	fmt.Fprintf(&b, "Click here to accept your invitation: %s\n", link)
	fmt.Fprintf(&b, "This invitation expires in %s.\n\n", humanDays(ttl))
	b.WriteString(signOff)

	return "You're invited to manage Burns Farm Shop", b.String()
}

func humanDays(d time.Duration) string {
	days := int(d.Hours() / 24)
	switch {
	case days == 1:
		return "1 day"
	case days > 1:
		return fmt.Sprintf("%d days", days)
	}
	return d.String()
}
