package stock

import (
	"testing"

	"aesthetx/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestParseStockValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"10", 10},
		{"", 0},
		{"abc", 0},
		{"  7", 7},
		{"12abc", 12},
		{"3.9", 3},
		{"-4", 0},
		{"+5", 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStockValue(tt.in))
		})
	}
}

func TestAggregate(t *testing.T) {
	total, inStock := Aggregate(map[string]string{"S": "10", "M": "", "L": "5"}, []string{"S", "L"})
	assert.Equal(t, 15, total)
	assert.True(t, inStock)

	total, inStock = Aggregate(map[string]string{"S": "", "M": ""}, []string{"S", "M"})
	assert.Equal(t, 0, total)
	assert.False(t, inStock)
}

func TestAggregateIgnoresUnavailableKeys(t *testing.T) {
	total, _ := AggregateCounts(map[string]int{"S": 4, "XL": 20}, []string{"S", "S"})
	assert.Equal(t, 4, total)
}

func TestDimension(t *testing.T) {
	assert.Equal(t, DimensionSize, Dimension(models.GarmentUpper))
	assert.Equal(t, DimensionSize, Dimension(models.GarmentLower))
	assert.Equal(t, DimensionColor, Dimension(models.GarmentPendant))
}

func TestAdjustRecomputes(t *testing.T) {
	p := &models.Product{
		GarmentType:    models.GarmentLower,
		AvailableSizes: []string{"30", "32"},
		SizeStock:      datatypes.NewJSONType(models.StockMap{"30": 2, "32": 1}),
	}
	Recompute(p)
	assert.Equal(t, 3, p.CurrentStock)

	Adjust(p, "32", -1)
	assert.Equal(t, 2, p.CurrentStock)
	assert.True(t, p.InStock)

	Adjust(p, "30", -5)
	assert.Equal(t, 0, p.SizeStock.Data()["30"])
	assert.False(t, p.InStock)
}
