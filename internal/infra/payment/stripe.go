package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeCheckout はhosted checkoutセッションを作成する。
// package globalのstripe.Keyではなくclientインスタンスを注入して使う。
type StripeCheckout struct {
	api *client.API
}

func NewStripeCheckout(secretKey string) *StripeCheckout {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCheckout{api: api}
}

// CreateSession は注文金額ちょうどのcheckoutセッションを作る。
// 金額はGBP→ペンスに変換。success/cancel URLとmetadataに注文IDを載せて、
// リダイレクト後のverifyが照合できるようにする。
func (s *StripeCheckout) CreateSession(ctx context.Context, orderID int64, amount float64, origin string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("gbp"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Order #%d", orderID)),
					},
					UnitAmount: stripe.Int64(int64(math.Round(amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/verify?success=true&orderId=%d", origin, orderID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/verify?success=false&orderId=%d", origin, orderID)),
	}
	params.Context = ctx
	params.AddMetadata("orderId", strconv.FormatInt(orderID, 10))
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", err
	}

	return sess.ID, sess.URL, nil
}
