package bitx

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time wraps time.Time with the service's JSON convention of integer epoch
// milliseconds.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UnixMilli())
}

// decodeEnum parses a JSON string into an enumerated value, rejecting
// anything outside the closed set. Unknown strings surface to the caller as
// a DecodeError rather than silently defaulting.
func decodeEnum[T ~string](b []byte, valid map[string]T, kind string) (T, error) {
	var zero T
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return zero, fmt.Errorf("%s: %w", kind, err)
	}
	v, ok := valid[s]
	if !ok {
		return zero, fmt.Errorf("unknown %s %q", kind, s)
	}
	return v, nil
}

// Pair identifies a currency pair traded on the exchange.
type Pair string

const (
	XBTZAR Pair = "XBTZAR"
	XBTNAD Pair = "XBTNAD"
	XBTKES Pair = "XBTKES"
	XBTMYR Pair = "XBTMYR"
	XBTNGN Pair = "XBTNGN"
	XBTIDR Pair = "XBTIDR"
	ETHXBT Pair = "ETHXBT"
)

var pairs = map[string]Pair{
	"XBTZAR": XBTZAR,
	"XBTNAD": XBTNAD,
	"XBTKES": XBTKES,
	"XBTMYR": XBTMYR,
	"XBTNGN": XBTNGN,
	"XBTIDR": XBTIDR,
	"ETHXBT": ETHXBT,
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pair) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, pairs, "currency pair")
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Pair) String() string { return string(p) }

// Asset identifies a currency, either crypto or fiat.
type Asset string

const (
	XBT Asset = "XBT"
	ETH Asset = "ETH"
	ZAR Asset = "ZAR"
	NAD Asset = "NAD"
	KES Asset = "KES"
	MYR Asset = "MYR"
	NGN Asset = "NGN"
	IDR Asset = "IDR"
)

var assets = map[string]Asset{
	"XBT": XBT,
	"ETH": ETH,
	"ZAR": ZAR,
	"NAD": NAD,
	"KES": KES,
	"MYR": MYR,
	"NGN": NGN,
	"IDR": IDR,
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Asset) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, assets, "asset")
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Asset) String() string { return string(a) }

// OrderType is the side of a limit order: BID buys the base currency, ASK
// sells it.
type OrderType string

const (
	BID OrderType = "BID"
	ASK OrderType = "ASK"
)

var orderTypes = map[string]OrderType{
	"BID": BID,
	"ASK": ASK,
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *OrderType) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, orderTypes, "order type")
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t OrderType) String() string { return string(t) }

// Side is the direction of a market order or quote.
type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

var sides = map[string]Side{
	"BUY":  BUY,
	"SELL": SELL,
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Side) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, sides, "side")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Side) String() string { return string(s) }

// OrderStatus is the state of a placed order.
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderComplete OrderStatus = "COMPLETE"
)

var orderStatuses = map[string]OrderStatus{
	"PENDING":  OrderPending,
	"COMPLETE": OrderComplete,
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, orderStatuses, "order status")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s OrderStatus) String() string { return string(s) }

// RequestStatus is the state of a withdrawal request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "PENDING"
	RequestProcessing RequestStatus = "PROCESSING"
	RequestCompleted  RequestStatus = "COMPLETED"
	RequestCancelled  RequestStatus = "CANCELLED"
)

var requestStatuses = map[string]RequestStatus{
	"PENDING":    RequestPending,
	"PROCESSING": RequestProcessing,
	"COMPLETED":  RequestCompleted,
	"CANCELLED":  RequestCancelled,
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *RequestStatus) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, requestStatuses, "request status")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s RequestStatus) String() string { return string(s) }

// WithdrawalType identifies the withdrawal mechanism per market.
type WithdrawalType string

const (
	WithdrawZAREFT   WithdrawalType = "ZAR_EFT"
	WithdrawNADEFT   WithdrawalType = "NAD_EFT"
	WithdrawKESMpesa WithdrawalType = "KES_MPESA"
	WithdrawMYRIBG   WithdrawalType = "MYR_IBG"
	WithdrawIDRLLG   WithdrawalType = "IDR_LLG"
)

var withdrawalTypes = map[string]WithdrawalType{
	"ZAR_EFT":   WithdrawZAREFT,
	"NAD_EFT":   WithdrawNADEFT,
	"KES_MPESA": WithdrawKESMpesa,
	"MYR_IBG":   WithdrawMYRIBG,
	"IDR_LLG":   WithdrawIDRLLG,
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *WithdrawalType) UnmarshalJSON(b []byte) error {
	v, err := decodeEnum(b, withdrawalTypes, "withdrawal type")
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t WithdrawalType) String() string { return string(t) }
