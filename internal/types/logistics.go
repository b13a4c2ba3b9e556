package types

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/samber/lo"
)

// ConsignmentStatus tracks a consignment through booking, transit and delivery
type ConsignmentStatus string

const (
	ConsignmentStatusBooked         ConsignmentStatus = "booked"
	ConsignmentStatusInTransit      ConsignmentStatus = "in_transit"
	ConsignmentStatusOutForDelivery ConsignmentStatus = "out_for_delivery"
	ConsignmentStatusDelivered      ConsignmentStatus = "delivered"
	ConsignmentStatusCancelled      ConsignmentStatus = "cancelled"
)

func (s ConsignmentStatus) String() string {
	return string(s)
}

// PaymentMode is how freight is settled for a consignment
type PaymentMode string

const (
	PaymentModePaid   PaymentMode = "paid"
	PaymentModeToPay  PaymentMode = "to_pay"
	PaymentModeCredit PaymentMode = "credit"
)

func (m PaymentMode) Validate() error {
	allowed := []PaymentMode{
		PaymentModePaid,
		PaymentModeToPay,
		PaymentModeCredit,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment mode").
			WithHint("Please provide a valid payment mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type InvoiceStatus string

const (
	InvoiceStatusOpen          InvoiceStatus = "open"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

type OGPLStatus string

const (
	OGPLStatusDispatched OGPLStatus = "dispatched"
	OGPLStatusArrived    OGPLStatus = "arrived"
)

type DeliveryRunStatus string

const (
	DeliveryRunStatusOpen      DeliveryRunStatus = "open"
	DeliveryRunStatusCompleted DeliveryRunStatus = "completed"
)

// ReceiptMode is the instrument a receipt was collected with
type ReceiptMode string

const (
	ReceiptModeCash   ReceiptMode = "cash"
	ReceiptModeCheque ReceiptMode = "cheque"
	ReceiptModeUPI    ReceiptMode = "upi"
	ReceiptModeBank   ReceiptMode = "bank_transfer"
)

func (m ReceiptMode) Validate() error {
	allowed := []ReceiptMode{
		ReceiptModeCash,
		ReceiptModeCheque,
		ReceiptModeUPI,
		ReceiptModeBank,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid receipt mode").
			WithHint("Please provide a valid receipt mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
