package subscription

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
)

// Record - serialized form of a subscription; the renewal date is an ISO-8601 string
type Record struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Cost           string `json:"cost"`
	RenewalDate    string `json:"renewalDate"`
	DeliveryMethod string `json:"deliveryMethod"`
}

func ToRecord(s entity.Subscription) Record {
	return Record{
		ID:             s.ID,
		Name:           s.Name,
		Cost:           s.Cost.String(),
		RenewalDate:    s.RenewalDate.Format(time.RFC3339Nano),
		DeliveryMethod: string(s.DeliveryMethod),
	}
}

// ToEntity parses a record back; any mismatch is reported as ErrCorrupt
func (r Record) ToEntity() (entity.Subscription, error) {
	cost, err := decimal.NewFromString(r.Cost)
	if err != nil {
		return entity.Subscription{}, fmt.Errorf("%w: id=%q cost: %v", ErrCorrupt, r.ID, err)
	}
	renewal, err := time.Parse(time.RFC3339Nano, r.RenewalDate)
	if err != nil {
		return entity.Subscription{}, fmt.Errorf("%w: id=%q renewalDate: %v", ErrCorrupt, r.ID, err)
	}
	return entity.Subscription{
		ID:             r.ID,
		Name:           r.Name,
		Cost:           cost,
		RenewalDate:    renewal,
		DeliveryMethod: entity.DeliveryMethod(r.DeliveryMethod),
	}, nil
}

// Marshal encodes the list as a JSON array of records
func Marshal(subs []entity.Subscription) ([]byte, error) {
	recs := make([]Record, 0, len(subs))
	for _, s := range subs {
		recs = append(recs, ToRecord(s))
	}
	return json.Marshal(recs)
}

// Unmarshal decodes a JSON array of records. Unknown fields are rejected.
func Unmarshal(data []byte) ([]entity.Subscription, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var recs []Record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if recs == nil {
		return nil, fmt.Errorf("%w: not a list", ErrCorrupt)
	}
	out := make([]entity.Subscription, 0, len(recs))
	for _, r := range recs {
		s, err := r.ToEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks the invariants of a single stored subscription
func Validate(s entity.Subscription) error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return fmt.Errorf("%w: empty id", ErrCorrupt)
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: id=%q empty name", ErrCorrupt, s.ID)
	case s.Cost.IsNegative():
		return fmt.Errorf("%w: id=%q negative cost", ErrCorrupt, s.ID)
	case s.RenewalDate.IsZero():
		return fmt.Errorf("%w: id=%q empty renewal date", ErrCorrupt, s.ID)
	case !s.DeliveryMethod.Valid():
		return fmt.Errorf("%w: id=%q delivery method %q", ErrCorrupt, s.ID, s.DeliveryMethod)
	}
	return nil
}

// ValidateAll validates every record and the uniqueness of IDs
func ValidateAll(subs []entity.Subscription) error {
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if err := Validate(s); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrCorrupt, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
