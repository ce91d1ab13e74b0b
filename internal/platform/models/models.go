package models

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	LastLoginAt  *int64 `json:"last_login_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Account is a configured per-vendor integration. SharedSecret is the token
// the vendor presents on every webhook delivery.
type Account struct {
	ID           string `json:"id"`
	Vendor       string `json:"vendor"`
	AccountName  string `json:"account_name"`
	SharedSecret string `json:"-"`
	WebhookURL   string `json:"webhook_url"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Order is the canonical, vendor-agnostic sale record. RawPayload keeps the
// original vendor JSON for forensic replay.
type Order struct {
	ID               string  `json:"id"`
	Vendor           string  `json:"vendor"`
	AccountID        string  `json:"account_id"`
	OrderRef         string  `json:"order_ref"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentMethod    string  `json:"payment_method"`
	TotalAmount      float64 `json:"total_amount"`
	Currency         string  `json:"currency"`
	Installments     int     `json:"installments"`
	ProductID        string  `json:"product_id,omitempty"`
	ProductName      string  `json:"product_name,omitempty"`
	OfferID          string  `json:"offer_id,omitempty"`
	OfferName        string  `json:"offer_name,omitempty"`
	CustomerName     string  `json:"customer_name,omitempty"`
	CustomerEmail    string  `json:"customer_email,omitempty"`
	CustomerPhone    string  `json:"customer_phone,omitempty"`
	CustomerDocument *string `json:"customer_document"`
	CreatedAt        int64   `json:"created_at"`
	RawPayload       string  `json:"raw_payload,omitempty"`
}

// WebhookLog is one append-only audit row per inbound webhook call,
// regardless of outcome.
type WebhookLog struct {
	ID         string  `json:"id"`
	AccountID  *string `json:"account_id,omitempty"`
	Method     string  `json:"method"`
	URL        string  `json:"url"`
	StatusCode int     `json:"status_code"`
	Payload    string  `json:"payload"`
	CreatedAt  int64   `json:"created_at"`
}

// MetricDefinition is a derived KPI computed from aggregated insight fields.
// Formula is restricted to the whitelisted expression grammar.
type MetricDefinition struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Formula   string `json:"formula"`
	Format    string `json:"format"`
	Builtin   bool   `json:"builtin"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// InsightRow is one day of raw ad performance for a campaign, imported from
// the ads platform out-of-band.
type InsightRow struct {
	ID          string  `json:"id"`
	CampaignID  string  `json:"campaign_id"`
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	CreatedAt   int64   `json:"created_at"`
}

type Pixel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

type PixelEvent struct {
	ID         string `json:"id"`
	PixelID    string `json:"pixel_id"`
	EventName  string `json:"event_name"`
	SessionID  string `json:"session_id"`
	PageURL    string `json:"page_url"`
	Referrer   string `json:"referrer,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	OS         string `json:"os,omitempty"`
	Browser    string `json:"browser,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}
