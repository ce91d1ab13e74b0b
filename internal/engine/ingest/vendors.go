package ingest

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	VendorTicto     = "ticto"
	VendorCartPanda = "cartpanda"
)

// flexFloat accepts a JSON number or a numeric string. Anything else
// decodes to 0 rather than failing the payload.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		if fv, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			*f = flexInt(fv)
			return nil
		}
		*f = 0
		return nil
	}
	*f = flexInt(v)
	return nil
}

// flexString renders strings as-is and bare numbers as their literal text,
// since vendors flip-flop between the two for ids and status codes.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(str)
		return nil
	}
	*f = flexString(s)
	return nil
}

// tictoPayload is the envelope Ticto posts: the shared token at the top
// level and the order detail nested under "body".
type tictoPayload struct {
	Token string    `json:"token"`
	Body  tictoBody `json:"body"`
}

type tictoBody struct {
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	Order         struct {
		Hash         flexString `json:"hash"`
		PaidAmount   flexFloat  `json:"paid_amount"`
		Installments flexInt    `json:"installments"`
	} `json:"order"`
	Item struct {
		ProductID   flexString `json:"product_id"`
		ProductName string     `json:"product_name"`
		OfferID     flexString `json:"offer_id"`
		OfferName   string     `json:"offer_name"`
	} `json:"item"`
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone struct {
			DDI    flexString `json:"ddi"`
			DDD    flexString `json:"ddd"`
			Number flexString `json:"number"`
		} `json:"phone"`
		CPF flexString `json:"cpf"`
	} `json:"customer"`
}

// cartPandaPayload is the CartPanda event envelope.
type cartPandaPayload struct {
	Event string `json:"event"`
	Order struct {
		ID              flexString `json:"id"`
		Number          flexString `json:"number"`
		Email           string     `json:"email"`
		Phone           flexString `json:"phone"`
		TotalPrice      flexFloat  `json:"total_price"`
		Currency        string     `json:"currency"`
		FinancialStatus flexString `json:"financial_status"`
		Payment         struct {
			PaymentType  flexString `json:"payment_type"`
			Installments flexInt    `json:"installments"`
		} `json:"payment"`
		Customer struct {
			FirstName string     `json:"first_name"`
			LastName  string     `json:"last_name"`
			Email     string     `json:"email"`
			CPF       flexString `json:"cpf"`
		} `json:"customer"`
		LineItems []struct {
			ProductID flexString `json:"product_id"`
			Title     string     `json:"title"`
		} `json:"line_items"`
	} `json:"order"`
}
