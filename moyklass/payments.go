package moyklass

import (
	"context"
	"fmt"
	"net/http"
)

// PaymentsService groups the payment endpoints.
type PaymentsService struct {
	client *Client
}

// PaymentListParams filters GET /v1/company/payments.
type PaymentListParams struct {
	CreatedAt                []string       `url:"createdAt,omitempty"`
	Date                     []string       `url:"date,omitempty"`
	Summa                    []int          `url:"summa,omitempty"`
	InvoiceID                *int           `url:"invoiceId,omitempty"`
	Optype                   PaymentOptypes `url:"optype,omitempty"`
	PaymentTypeID            *int           `url:"paymentTypeId,omitempty"`
	IncludeUserSubscriptions bool           `url:"includeUserSubscriptions"`
	UserID                   *int           `url:"userId,omitempty"`
	FilialID                 []int          `url:"filialId,omitempty"`
	AppendInvoices           bool           `url:"appendInvoices"`
	Page
}

// PaymentParams is the body of POST /v1/company/payments.
type PaymentParams struct {
	UserID             int           `json:"userId"`
	Date               string        `json:"date"`
	Summa              float64       `json:"summa"`
	Optype             PaymentOptype `json:"optype,omitempty"`
	PaymentTypeID      *int          `json:"paymentTypeId,omitempty"`
	UserSubscriptionID *int          `json:"userSubscriptionId,omitempty"`
	FilialID           *int          `json:"filialId,omitempty"`
	Comment            *string       `json:"comment,omitempty"`
}

// List retrieves payments matching params. A nil params lists with defaults.
func (s *PaymentsService) List(ctx context.Context, params *PaymentListParams) (*Response, error) {
	p := PaymentListParams{}
	if params != nil {
		p = *params
	}
	p.Page = p.Page.withDefaults()

	q, err := encodeQuery(&p)
	if err != nil {
		return nil, err
	}
	return s.client.Execute(ctx, http.MethodGet, "v1/company/payments", q, nil)
}

// Types lists the payment types configured for the company.
func (s *PaymentsService) Types(ctx context.Context) (*Response, error) {
	return s.client.Execute(ctx, http.MethodGet, "v1/company/paymentTypes", nil, nil)
}

// Create records a payment. An unknown Optype is left out of the body.
func (s *PaymentsService) Create(ctx context.Context, params *PaymentParams) (*Response, error) {
	if params == nil {
		return nil, fmt.Errorf("payment params are required")
	}
	p := *params
	p.Optype = validOrZero(p.Optype)
	return s.client.Execute(ctx, http.MethodPost, "v1/company/payments", nil, &p)
}
