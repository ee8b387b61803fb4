package moyklass

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PaymentOptype is the payment operation type.
type PaymentOptype string

const (
	// PaymentOptypeIncome is a payment received from a client
	PaymentOptypeIncome PaymentOptype = "income"
	// PaymentOptypeDebit is a charge against the client balance
	PaymentOptypeDebit PaymentOptype = "debit"
	// PaymentOptypeRefund is money returned to a client
	PaymentOptypeRefund PaymentOptype = "refund"
)

// Valid reports whether o is a known operation type.
func (o PaymentOptype) Valid() bool {
	switch o {
	case PaymentOptypeIncome, PaymentOptypeDebit, PaymentOptypeRefund:
		return true
	}
	return false
}

func (o PaymentOptype) wireValue() string { return string(o) }

// EncodeValues implements query.Encoder; unknown values are omitted.
func (o PaymentOptype) EncodeValues(key string, v *url.Values) error {
	return encodeEnum(key, v, o)
}

// PaymentOptypes is a list filter of operation types. Unknown members are
// dropped when encoded and the key is omitted if none remain.
type PaymentOptypes []PaymentOptype

// EncodeValues implements query.Encoder
func (l PaymentOptypes) EncodeValues(key string, v *url.Values) error {
	return encodeEnumList(key, v, l)
}

// ParsePaymentOptype parses a case-insensitive operation type name.
func ParsePaymentOptype(s string) (PaymentOptype, error) {
	o := PaymentOptype(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unknown payment optype %q", s)
	}
	return o, nil
}

// UserSort is the field users are sorted by.
type UserSort string

const (
	UserSortID        UserSort = "id"
	UserSortName      UserSort = "name"
	UserSortCreatedAt UserSort = "createdAt"
	UserSortUpdatedAt UserSort = "updatedAt"
)

// Valid reports whether s is a known sort field.
func (s UserSort) Valid() bool {
	switch s {
	case UserSortID, UserSortName, UserSortCreatedAt, UserSortUpdatedAt:
		return true
	}
	return false
}

func (s UserSort) wireValue() string { return string(s) }

// EncodeValues implements query.Encoder; unknown values are omitted.
func (s UserSort) EncodeValues(key string, v *url.Values) error {
	return encodeEnum(key, v, s)
}

// ParseUserSort parses a sort field name, case-insensitively.
func ParseUserSort(s string) (UserSort, error) {
	for _, candidate := range []UserSort{UserSortID, UserSortName, UserSortCreatedAt, UserSortUpdatedAt} {
		if strings.EqualFold(string(candidate), strings.TrimSpace(s)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown user sort field %q", s)
}

// SortDirection is the sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Valid reports whether d is a known direction.
func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

func (d SortDirection) wireValue() string { return string(d) }

// EncodeValues implements query.Encoder; unknown values are omitted.
func (d SortDirection) EncodeValues(key string, v *url.Values) error {
	return encodeEnum(key, v, d)
}

// ParseSortDirection parses "asc" or "desc".
func ParseSortDirection(s string) (SortDirection, error) {
	d := SortDirection(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
	return d, nil
}

// SubscriptionStatus is the state of a subscription sold to a user. It is
// sent as an integer.
type SubscriptionStatus int

const (
	SubscriptionStatusInactive SubscriptionStatus = 1
	SubscriptionStatusActive   SubscriptionStatus = 2
	SubscriptionStatusFrozen   SubscriptionStatus = 3
	SubscriptionStatusFinished SubscriptionStatus = 4
)

var subscriptionStatusNames = map[SubscriptionStatus]string{
	SubscriptionStatusInactive: "inactive",
	SubscriptionStatusActive:   "active",
	SubscriptionStatusFrozen:   "frozen",
	SubscriptionStatusFinished: "finished",
}

// Valid reports whether s is a known status.
func (s SubscriptionStatus) Valid() bool {
	_, ok := subscriptionStatusNames[s]
	return ok
}

// String returns the status name
func (s SubscriptionStatus) String() string {
	if name, ok := subscriptionStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s SubscriptionStatus) wireValue() string { return strconv.Itoa(int(s)) }

// EncodeValues implements query.Encoder; unknown values are omitted.
func (s SubscriptionStatus) EncodeValues(key string, v *url.Values) error {
	return encodeEnum(key, v, s)
}

// SubscriptionStatuses is a list filter of statuses.
type SubscriptionStatuses []SubscriptionStatus

// EncodeValues implements query.Encoder
func (l SubscriptionStatuses) EncodeValues(key string, v *url.Values) error {
	return encodeEnumList(key, v, l)
}

// ParseSubscriptionStatus accepts a status name or its numeric value.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && SubscriptionStatus(n).Valid() {
		return SubscriptionStatus(n), nil
	}
	for status, name := range subscriptionStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown subscription status %q", s)
}
