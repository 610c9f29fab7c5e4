package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

func TestSummarize_DatosDemo(t *testing.T) {
	sum := Summarize(DemoCustomers(entity.DefaultSettings()))

	assert.Equal(t, 5, sum.TotalCustomers)
	assert.True(t, sum.TotalRevenue.Equal(dec("83450")))
	assert.Equal(t, int64(10280), sum.ActivePoints)
	assert.Equal(t, 10, sum.TotalTransactions)
	assert.True(t, sum.AverageOrderValue.Equal(dec("8345")))

	require.Len(t, sum.TopCustomers, 5)
	assert.Equal(t, "Aisha Sharma", sum.TopCustomers[0].Name)
	assert.Equal(t, "Sneha Gupta", sum.TopCustomers[2].Name)
	assert.Equal(t, "Karan Singh", sum.TopCustomers[4].Name)

	assert.Equal(t, []Segment{{"VIP (>10k)", 2}, {"Regular (>2k)", 2}, {"New", 1}}, sum.Segments)
	assert.Equal(t, map[entity.Tier]int{
		entity.TierPlatinum: 1, entity.TierGold: 1, entity.TierSilver: 2, entity.TierBronze: 1,
	}, sum.TierDistribution)
}

func TestSummarize_SinTransacciones(t *testing.T) {
	sum := Summarize(nil)
	assert.True(t, sum.AverageOrderValue.IsZero())
	assert.Empty(t, sum.TopCustomers)
	assert.Equal(t, 0, sum.TotalCustomers)
}

func TestWriteCustomersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCustomersCSV(&buf, DemoCustomers(entity.DefaultSettings())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Name,Mobile,TotalSpent,Points,SpendingTier,PointsTier", lines[0])
	assert.Equal(t, "Aisha Sharma,9876543210,62000,7500,Platinum,Platinum", lines[1])
	assert.Equal(t, "Sneha Gupta,5432109876,4800,850,Silver,Silver", lines[5])
}

func TestDemoCustomers_PinYNiveles(t *testing.T) {
	list := DemoCustomers(entity.DefaultSettings())
	require.Len(t, list, 5)
	for _, c := range list {
		assert.Equal(t, c.Mobile[:4], c.PIN)
		assert.NotEmpty(t, c.History)
	}
	assert.Equal(t, entity.EntryRedeem, list[0].History[2].Type)
	assert.Equal(t, entity.TierGold, list[1].SpendingTier)
}
