// internal/domain/order/number.go
package order

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateNumber returns an order number of the form ZG-<base36 ms>-<4 chars>
func GenerateNumber(now time.Time) string {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "ZG-" + stamp + "-" + randomSuffix(4)
}

func randomSuffix(n int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(base36[idx.Int64()])
	}
	return b.String()
}
