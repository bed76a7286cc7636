package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherly/api/internal/payments"
)

func PaymentMiddleware(provider payments.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("payment_provider", provider)
		c.Next()
	}
}

func GetPaymentProvider(c *gin.Context) payments.Provider {
	provider, exists := c.Get("payment_provider")
	if !exists {
		return nil
	}
	return provider.(payments.Provider)
}
