package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

func TestAuditDoc_ConservaDecimales(t *testing.T) {
	a := &entity.SettlementAudit{
		ID: "a1", Mobile: "9876543210", EffectiveTier: entity.TierSilver,
		BillAmount: decimal.RequireFromString("333.33"), AmountTendered: decimal.NewFromInt(400),
		DiscountPercent: decimal.NewFromInt(5), TierDiscount: decimal.RequireFromString("16.6665"),
		PointsRedeemed: decimal.NewFromInt(350), FinalBill: decimal.RequireFromString("-33.3365"),
		NetPoints: -283, PointsAfter: 67, LedgerVersion: 3,
	}
	back, err := fromAuditDoc(toAuditDoc(a))
	require.NoError(t, err)
	assert.True(t, back.TierDiscount.Equal(a.TierDiscount))
	assert.True(t, back.FinalBill.Equal(a.FinalBill))
	assert.Equal(t, a.EffectiveTier, back.EffectiveTier)
	assert.Equal(t, uint64(3), back.LedgerVersion)
}

func TestFromAuditDoc_MontoInvalido(t *testing.T) {
	_, err := fromAuditDoc(auditDoc{ID: "x", BillAmount: "abc"})
	assert.Error(t, err)
}

// TestTxRunner_Integracion requiere TEST_MONGO_URI apuntando a un replica set desechable.
func TestTxRunner_Integracion(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI no definido")
	}
	ctx := context.Background()
	client, err := Connect(ctx, uri, "payloop_test")
	require.NoError(t, err)
	defer client.Disconnect(ctx)
	require.NoError(t, client.EnsureIndexes(ctx))

	runner := NewTxRunner(client)
	key := "test-" + uuid.NewString()
	err = runner.RunLedger(ctx, func(blobs repository.BlobRepository, audit repository.AuditRepository) error {
		if err := blobs.Put(ctx, key, []byte(`[]`)); err != nil {
			return err
		}
		return audit.Append(ctx, &entity.SettlementAudit{
			ID: uuid.NewString(), Mobile: key, CreatedAt: time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	err = runner.RunLedger(ctx, func(blobs repository.BlobRepository, audit repository.AuditRepository) error {
		got, err := blobs.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
		list, err := audit.ListByMobile(ctx, key, 5)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		return nil
	})
	require.NoError(t, err)
}
