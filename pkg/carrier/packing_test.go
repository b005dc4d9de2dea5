package carrier_test

import (
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/stretchr/testify/assert"
)

func TestNewPackageBox(t *testing.T) {
	box := carrier.NewPackageBox(carrier.BoxSpec{
		Reference:   "medium-box",
		OuterWidth:  30,
		OuterLength: 40,
		OuterDepth:  20,
		EmptyWeight: 500,
		InnerWidth:  28,
		InnerLength: 38,
		InnerDepth:  18,
		MaxWeight:   10000,
		Price:       2.50,
		Currency:    "USD",
	})

	assert.Equal(t, "medium-box", box.Reference())
	assert.Equal(t, 30, box.OuterWidth())
	assert.Equal(t, 28, box.InnerWidth())
	assert.Equal(t, 10000, box.MaxWeight())
	assert.Equal(t, 2.50, box.Price())
	assert.Equal(t, "USD", box.Currency())
}

func TestNewPackageBox_InnerDefaultsToOuter(t *testing.T) {
	box := carrier.NewPackageBox(carrier.BoxSpec{
		Reference:   "satchel",
		OuterWidth:  22,
		OuterLength: 33,
		OuterDepth:  5,
	})

	assert.Equal(t, 22, box.InnerWidth())
	assert.Equal(t, 33, box.InnerLength())
	assert.Equal(t, 5, box.InnerDepth())
}
