package transfer

import "time"

// PaddleWebhookEvent is the envelope Paddle delivers to the webhook
// endpoint. Data fields are a subset of the subscription object; only
// what the reconciler reads is mapped.
type PaddleWebhookEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       PaddleEventData `json:"data"`
}

type PaddleEventData struct {
	ID                   string `json:"id"`
	Status               string `json:"status"`
	CustomerID           string `json:"customer_id"`
	CurrentBillingPeriod struct {
		StartsAt time.Time `json:"starts_at"`
		EndsAt   time.Time `json:"ends_at"`
	} `json:"current_billing_period"`
	TrialDates *struct {
		StartsAt time.Time `json:"starts_at"`
		EndsAt   time.Time `json:"ends_at"`
	} `json:"trial_dates"`
	ScheduledChange *struct {
		Action      string    `json:"action"`
		EffectiveAt time.Time `json:"effective_at"`
	} `json:"scheduled_change"`
	CanceledAt *time.Time `json:"canceled_at"`
	EndedAt    *time.Time `json:"ended_at"`
	Items      []struct {
		Price struct {
			ID        string `json:"id"`
			ProductID string `json:"product_id"`
		} `json:"price"`
		Quantity int `json:"quantity"`
	} `json:"items"`
	CustomData struct {
		UserID string `json:"user_id"`
	} `json:"custom_data"`
}

// PriceID returns the first line item's price id; subscriptions here
// carry a single plan item.
func (d *PaddleEventData) PriceID() string {
	if len(d.Items) == 0 {
		return ""
	}
	return d.Items[0].Price.ID
}

type PaddleCheckoutRequest struct {
	PriceID string `json:"price_id"`
}

type PaddleTransactionResponse struct {
	Data struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Checkout struct {
			URL string `json:"url"`
		} `json:"checkout"`
	} `json:"data"`
}

type PaddlePortalSessionResponse struct {
	Data struct {
		ID   string `json:"id"`
		URLs struct {
			General struct {
				Overview string `json:"overview"`
			} `json:"general"`
		} `json:"urls"`
	} `json:"data"`
}
