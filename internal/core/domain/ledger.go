package domain

import "time"

// Currency codes accepted on deposits.
const (
	CurrencyPEN = "PEN"
	CurrencyUSD = "USD"
)

// Client is a billed customer. Prices overrides the generic unit price of a
// product for this client; a missing entry means the product's GenericPrice
// applies. The override only affects prices proposed for new bills — lines
// already written keep their snapshotted price.
type Client struct {
	ID     string             `json:"id" bson:"_id,omitempty"`
	Name   string             `json:"name" bson:"name"`
	Prices map[string]float64 `json:"prices" bson:"prices"`
}

// UnitPriceFor returns the unit price this client pays for the given product.
func (c *Client) UnitPriceFor(p *Product) float64 {
	if override, ok := c.Prices[p.ID]; ok {
		return override
	}
	return p.GenericPrice
}

// Product is a sellable item with a default unit price.
type Product struct {
	ID           string  `json:"id" bson:"_id,omitempty"`
	Name         string  `json:"name" bson:"name"`
	GenericPrice float64 `json:"genericprice" bson:"generic_price"`
}

// LineItem is one quantity/price/detail entry within a bill. Price is the
// unit price snapshotted when the bill was created; it is never re-derived
// from the product or client, so historical totals stay stable.
type LineItem struct {
	Amount       float64 `json:"amount" bson:"amount"`
	Price        float64 `json:"price" bson:"price"`
	ExtraDetails string  `json:"extraDetails" bson:"extra_details"`
}

// Bill is an itemized receipt charged to a client. Products maps a product id
// to the ordered list of line items sold under it. Identifier is generated
// server-side at creation and is never settable by the caller. A bill may
// reference a client id that no longer exists; nothing cascades.
type Bill struct {
	ID         string                `json:"id" bson:"_id,omitempty"`
	ClientID   string                `json:"clientid" bson:"client_id"`
	Date       time.Time             `json:"date" bson:"date"`
	Identifier string                `json:"identifier" bson:"identifier"`
	Products   map[string][]LineItem `json:"products" bson:"products"`
}

// Total sums amount×price across every line of the bill.
func (b *Bill) Total() float64 {
	var total float64
	for _, lines := range b.Products {
		for _, line := range lines {
			total += line.Amount * line.Price
		}
	}
	return total
}

// Deposit is a payment received from a client. Amount is stored in settlement
// currency units: the caller converts before submitting, and ExchangeRate
// records the rate that was applied (1 for PEN).
type Deposit struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	ClientID      string    `json:"clientid" bson:"client_id"`
	Currency      string    `json:"currency" bson:"currency"`
	Amount        float64   `json:"amount" bson:"amount"`
	ExchangeRate  float64   `json:"changueamount" bson:"exchange_rate"`
	OperationCode string    `json:"operationcode,omitempty" bson:"operation_code,omitempty"`
	Date          time.Time `json:"date" bson:"date"`
}
