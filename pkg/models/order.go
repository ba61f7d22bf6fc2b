package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "Placed"
)

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "Card"
	PaymentCOD  PaymentMethod = "COD"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentCOD:
		return true
	}
	return false
}

// Customer holds the shipping contact collected at checkout. All fields
// are required; checkout validation rejects blanks.
type Customer struct {
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
	Phone   string `bson:"phone" json:"phone"`
}

// Order is the immutable record written to the orders collection at
// checkout. Items is a snapshot of the cart at submission time; amounts
// are in whole currency units.
type Order struct {
	ID             string        `bson:"_id,omitempty" json:"id"`
	Items          []LineItem    `bson:"items" json:"items"`
	Subtotal       int64         `bson:"subtotal" json:"subtotal"`
	DeliveryFee    int64         `bson:"deliveryFee" json:"delivery_fee"`
	TotalAmount    int64         `bson:"totalAmount" json:"total_amount"`
	Customer       Customer      `bson:"customer" json:"customer"`
	PaymentMethod  PaymentMethod `bson:"paymentMethod" json:"payment_method"`
	PaymentDetails string        `bson:"paymentDetails" json:"payment_details"`
	Status         OrderStatus   `bson:"status" json:"status"`
	PlacedAt       time.Time     `bson:"placedAt" json:"placed_at"`
}
