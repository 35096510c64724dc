package order

import (
	"context"
	"fmt"

	"github.com/qiustore/backend/internal/application/notification"
	"github.com/qiustore/backend/internal/domain/identity"
	"github.com/qiustore/backend/internal/domain/order"
)

// mailVariant binds one email kind to its timeline labels
type mailVariant struct {
	subject         string
	body            func(o *order.Order) string
	sentLabel       string
	invalidLabel    string
	unverifiedLabel string
	mismatchLabel   string
}

var confirmationMail = mailVariant{
	subject: "Your order confirmation",
	body: func(o *order.Order) string {
		return fmt.Sprintf(
			"<p>Hi %s,</p><p>We received your payment for order %s. The total charged was %s.</p><p>Thank you for shopping with us.</p>",
			o.Shipping.FullName, o.ID, o.Total.StringFixed(2))
	},
	sentLabel:       order.LabelConfirmationSent,
	invalidLabel:    order.LabelConfirmationInvalid,
	unverifiedLabel: order.LabelConfirmationUnverified,
	mismatchLabel:   order.LabelConfirmationMismatch,
}

var deliveryMail = mailVariant{
	subject: "Your order has been delivered",
	body: func(o *order.Order) string {
		return fmt.Sprintf(
			"<p>Hi %s,</p><p>Order %s has been delivered to %s, %s.</p><p>We hope you enjoy it.</p>",
			o.Shipping.FullName, o.ID, o.Shipping.Address, o.Shipping.City)
	},
	sentLabel:       order.LabelDeliveryNoteSent,
	invalidLabel:    order.LabelDeliveryNoteInvalid,
	unverifiedLabel: order.LabelDeliveryNoteUnverified,
	mismatchLabel:   order.LabelDeliveryNoteMismatch,
}

// dispatchMail runs the email dispatch rule against one order. Every branch
// is recorded at most once on the timeline, and a prior sent label suppresses
// re-dispatch entirely. The returned warning is empty when nothing went
// wrong; it never becomes an error because mail must not fail the request.
func dispatchMail(ctx context.Context, mailer notification.Mailer, o *order.Order, u *identity.User, v mailVariant) string {
	recipient := o.Shipping.Email
	if recipient == "" {
		return ""
	}
	if o.HasTimelineLabel(v.sentLabel) {
		return ""
	}

	if !identity.IsValidEmail(recipient) {
		o.AppendTimeline(v.invalidLabel)
		return "email not sent: the address is not valid"
	}
	if !u.EmailVerified {
		o.AppendTimeline(v.unverifiedLabel)
		return "email not sent: verify your email address first"
	}
	if !identity.SameEmail(recipient, u.Email) {
		o.AppendTimeline(v.mismatchLabel)
		return "email not sent: the address does not match your account"
	}

	res := mailer.Send(ctx, notification.Message{
		To:      recipient,
		Subject: v.subject,
		Body:    v.body(o),
	})
	switch {
	case res.Sent:
		o.AppendTimeline(v.sentLabel)
		return ""
	case res.Reason == notification.ReasonNotConfigured:
		o.AppendTimeline(order.LabelMailServiceUnconfigured)
		return res.Warning
	default:
		o.AppendTimeline(order.LabelMailSendFailed)
		return res.Warning
	}
}
