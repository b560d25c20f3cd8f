package lib

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultOrderNumberPrefix = "ORD"

// GenerateOrderNumber generates an order number in the format PREFIX-YYYYMMDD-XXXXXXXX
// where XXXXXXXX are eight random hex characters. Uniqueness is enforced by
// the store; callers regenerate on conflict.
func GenerateOrderNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultOrderNumberPrefix
	}

	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), random)
}
