package wizard

import (
	"strings"
	"time"
)

const (
	displayLayout  = "02/01/2006"
	transferLayout = "2006-01-02"
)

// IsDisplayDate reports whether s is a real calendar date written DD/MM/YYYY
func IsDisplayDate(s string) bool {
	_, err := time.Parse(displayLayout, s)
	return err == nil
}

// ToTransferDate converts "DD/MM/YYYY" to "YYYY-MM-DD". It reports false when
// s does not split into exactly three "/"-separated parts.
func ToTransferDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(displayLayout, s); err == nil {
		return t.Format(transferLayout), true
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0], true
}

// TransferDatePtr is ToTransferDate with nil standing for "no date", which
// encodes as JSON null.
func TransferDatePtr(s string) *string {
	d, ok := ToTransferDate(s)
	if !ok {
		return nil
	}
	return &d
}

// returnsBeforePickup reports whether both dates are set and the return date
// comes first. Same-day rentals are allowed.
func returnsBeforePickup(pickup, ret string) bool {
	p, err := time.Parse(displayLayout, pickup)
	if err != nil {
		return false
	}
	r, err := time.Parse(displayLayout, ret)
	if err != nil {
		return false
	}
	return r.Before(p)
}
