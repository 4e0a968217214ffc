package openpayments

// IncomingPayment is the merchant-side resource representing the amount the
// merchant expects to receive. Its id is the receiver of the later quote.
type IncomingPayment struct {
	ID             string  `json:"id"`
	IncomingAmount *Amount `json:"incomingAmount,omitempty"`
	ReceivedAmount *Amount `json:"receivedAmount,omitempty"`
	ExpiresAt      string  `json:"expiresAt,omitempty"`
	Description    string  `json:"description,omitempty"`
	Completed      bool    `json:"completed,omitempty"`
}

type incomingPaymentRequest struct {
	IncomingAmount *Amount `json:"incomingAmount"`
	ExpiresAt      string  `json:"expiresAt"`
	Description    string  `json:"description"`
}

// Quote is a priced conversion from the sending asset to the receiving
// amount, created under the customer's access token.
type Quote struct {
	ID            string  `json:"id"`
	Receiver      string  `json:"receiver,omitempty"`
	SendAmount    *Amount `json:"sendAmount,omitempty"`
	ReceiveAmount *Amount `json:"receiveAmount,omitempty"`
	ExpiresAt     string  `json:"expiresAt,omitempty"`
}

type quoteRequest struct {
	Receiver string `json:"receiver"`
}

// OutgoingPayment is the terminal artifact of a checkout.
type OutgoingPayment struct {
	ID            string  `json:"id"`
	QuoteID       string  `json:"quoteId,omitempty"`
	Receiver      string  `json:"receiver,omitempty"`
	SendAmount    *Amount `json:"sendAmount,omitempty"`
	ReceiveAmount *Amount `json:"receiveAmount,omitempty"`
	Description   string  `json:"description,omitempty"`
}

type outgoingPaymentRequest struct {
	QuoteID     string `json:"quoteId"`
	Description string `json:"description"`
}
