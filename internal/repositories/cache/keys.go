package cache

import (
	"fmt"
	"time"
)

const (
	// session:{id} -> models.Session
	KeySession = "session:%s"

	// product:item:{itemId} -> models.Product
	KeyProductItem = "product:item:%s"

	// trending:{category}:{limit} -> []models.TrendingProduct
	KeyTrending        = "trending:%s:%d"
	KeyTrendingPattern = "trending:*"

	// view:dedup:{sessionId}:{productId}
	KeyViewDedup = "view:dedup:%s:%d"

	// payment:pending:{gatewayOrderId} -> checkout.PendingPayment
	KeyPendingPayment = "payment:pending:%s"
)

var (
	TTLSession   = 10 * time.Minute
	TTLProduct   = 10 * time.Minute
	TTLTrending  = 5 * time.Minute
	TTLViewDedup = 30 * time.Minute

	TTLPendingPayment = 2 * time.Hour
)

// GenerateKey formats one of the key templates above.
func GenerateKey(template string, args ...interface{}) string {
	return fmt.Sprintf(template, args...)
}
