package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Availability(t *testing.T) {
	assert.True(t, Product{Stock: 5}.IsAvailable())
	assert.False(t, Product{Stock: 0}.IsAvailable())
}

func TestProduct_CanFulfill(t *testing.T) {
	p := Product{Stock: 5}

	assert.True(t, p.CanFulfill(5))
	assert.True(t, p.CanFulfill(1))
	assert.False(t, p.CanFulfill(6))
}
