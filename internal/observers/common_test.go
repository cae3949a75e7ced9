package observers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPriceRendersExactFourDecimalPlaces(t *testing.T) {
	assert.Equal(t, "1.0000", formatPrice(10000))
	assert.Equal(t, "0.0001", formatPrice(1))
	assert.Equal(t, "123.4567", formatPrice(1234567))
	assert.Equal(t, "0.0000", formatPrice(0))
}
