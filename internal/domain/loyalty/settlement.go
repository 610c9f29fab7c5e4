package loyalty

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// Request datos de una venta a liquidar.
type Request struct {
	BillAmount     decimal.Decimal
	AmountTendered decimal.Decimal
	RedeemPoints   bool
}

// MaxAmount monto máximo aceptado por venta, tanto para la factura como para lo entregado.
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// Validate rechaza montos negativos o por encima de MaxAmount antes de entrar al motor.
func (r Request) Validate() error {
	if r.BillAmount.IsNegative() || r.AmountTendered.IsNegative() {
		return domain.ErrMalformedInput
	}
	if r.BillAmount.GreaterThan(MaxAmount) || r.AmountTendered.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: el máximo por venta es %s", domain.ErrMalformedInput, MaxAmount.String())
	}
	return nil
}

// Result desglose de una liquidación aceptada. Los montos no se redondean;
// solo NetPointsChange se trunca (floor) porque es lo que se persiste.
type Result struct {
	NewCustomer            bool
	EffectiveTier          entity.Tier
	DiscountPercent        decimal.Decimal
	TierDiscountAmount     decimal.Decimal
	BillAfterTierDiscount  decimal.Decimal
	PointsRedemptionAmount decimal.Decimal
	FinalBill              decimal.Decimal
	PointsEarned           decimal.Decimal
	NetPointsChange        int64
}

// TotalDiscount descuento de nivel + puntos canjeados.
func (r *Result) TotalDiscount() decimal.Decimal {
	return r.TierDiscountAmount.Add(r.PointsRedemptionAmount)
}

// EntryType earn o redeem según el signo del delta neto.
func (r *Result) EntryType() entity.EntryType {
	return entity.EntryTypeFor(r.NetPointsChange)
}

// Settle calcula la liquidación de una venta. customer nil indica un cliente nuevo.
// Si lo entregado no cubre el total se devuelve *domain.InsufficientTenderError y ningún resultado.
func Settle(customer *entity.Customer, req Request, settings entity.Settings) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if customer == nil {
		return settleNew(req)
	}
	return settleExisting(customer, req, settings)
}

func settleNew(req Request) (*Result, error) {
	earned := req.AmountTendered.Sub(req.BillAmount)
	if earned.IsNegative() {
		return nil, domain.NewInsufficientTenderError(req.BillAmount, req.AmountTendered)
	}
	net, err := netPoints(0, earned)
	if err != nil {
		return nil, err
	}
	return &Result{
		NewCustomer:            true,
		EffectiveTier:          entity.TierBronze,
		DiscountPercent:        decimal.Zero,
		TierDiscountAmount:     decimal.Zero,
		BillAfterTierDiscount:  req.BillAmount,
		PointsRedemptionAmount: decimal.Zero,
		FinalBill:              req.BillAmount,
		PointsEarned:           earned,
		NetPointsChange:        net,
	}, nil
}

func settleExisting(c *entity.Customer, req Request, settings entity.Settings) (*Result, error) {
	tier := ResolveEffectiveTier(c.SpendingTier, c.PointsTier)
	pct := ResolveDiscountPercent(tier, settings.Discounts)

	// El descuento de nivel solo aplica cuando el cliente canjea puntos.
	tierDiscount := decimal.Zero
	if req.RedeemPoints {
		tierDiscount = req.BillAmount.Mul(pct).Div(hundred)
	}
	billAfter := req.BillAmount.Sub(tierDiscount)

	balance := decimal.NewFromInt(c.Points)
	requested := decimal.Zero
	if req.RedeemPoints {
		requested = balance
	}
	redemption := decimal.Min(balance, requested, billAfter)
	if redemption.IsNegative() {
		redemption = decimal.Zero
	}

	finalBill := req.BillAmount.Sub(tierDiscount).Sub(redemption)
	if req.AmountTendered.LessThan(finalBill) {
		return nil, domain.NewInsufficientTenderError(finalBill, req.AmountTendered)
	}

	earned := req.AmountTendered.Sub(finalBill)
	net, err := netPoints(c.Points, earned.Sub(redemption))
	if err != nil {
		return nil, err
	}
	return &Result{
		EffectiveTier:          tier,
		DiscountPercent:        pct,
		TierDiscountAmount:     tierDiscount,
		BillAfterTierDiscount:  billAfter,
		PointsRedemptionAmount: redemption,
		FinalBill:              finalBill,
		PointsEarned:           earned,
		NetPointsChange:        net,
	}, nil
}

var (
	hundred  = decimal.NewFromInt(100)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// netPoints trunca el delta y verifica que tanto el delta como el saldo resultante quepan en int64.
func netPoints(balance int64, delta decimal.Decimal) (int64, error) {
	floored := delta.Floor()
	after := floored.Add(decimal.NewFromInt(balance))
	if floored.Abs().GreaterThan(maxInt64) || after.GreaterThan(maxInt64) || after.IsNegative() {
		return 0, fmt.Errorf("%w: saldo de puntos fuera de rango", domain.ErrMalformedInput)
	}
	return floored.IntPart(), nil
}
