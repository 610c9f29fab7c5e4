package http

import (
	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/loyalty"
)

// toCustomerResponse nunca expone el PIN. El historial solo se incluye en la vista de detalle.
func toCustomerResponse(c *entity.Customer, withHistory bool) dto.CustomerResponse {
	out := dto.CustomerResponse{
		Mobile:        c.Mobile,
		Name:          c.Name,
		Points:        c.Points,
		TotalSpent:    c.TotalSpent,
		SpendingTier:  string(c.SpendingTier),
		PointsTier:    string(c.PointsTier),
		EffectiveTier: string(loyalty.ResolveEffectiveTier(c.SpendingTier, c.PointsTier)),
		Transactions:  c.Transactions(),
	}
	if withHistory {
		out.History = make([]dto.HistoryEntryDTO, 0, len(c.History))
		for i := len(c.History) - 1; i >= 0; i-- {
			out.History = append(out.History, toHistoryDTO(c.History[i]))
		}
	}
	return out
}

func toCustomerList(list []*entity.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c, false))
	}
	return out
}

func toHistoryDTO(h entity.HistoryEntry) dto.HistoryEntryDTO {
	return dto.HistoryEntryDTO{
		ID:              h.ID,
		Date:            h.Date,
		Bill:            h.Bill,
		OriginalBill:    h.OriginalBill(),
		Points:          h.Points,
		Type:            string(h.Type),
		DiscountApplied: h.DiscountApplied,
	}
}

func toGlobalHistory(list []ledger.GlobalEntry) []dto.HistoryEntryDTO {
	out := make([]dto.HistoryEntryDTO, 0, len(list))
	for _, g := range list {
		e := toHistoryDTO(g.HistoryEntry)
		e.Mobile = g.Mobile
		e.Name = g.Name
		out = append(out, e)
	}
	return out
}

func toNotificationDTO(n entity.NotificationLog) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:              n.ID,
		Date:            n.Date,
		RecipientName:   n.RecipientName,
		RecipientMobile: n.RecipientMobile,
		Message:         n.Message,
		Status:          string(n.Status),
	}
}

func toBreakdown(r *loyalty.Result) dto.SettlementBreakdown {
	return dto.SettlementBreakdown{
		NewCustomer:           r.NewCustomer,
		EffectiveTier:         string(r.EffectiveTier),
		DiscountPercent:       r.DiscountPercent,
		TierDiscount:          r.TierDiscountAmount,
		BillAfterTierDiscount: r.BillAfterTierDiscount,
		PointsRedeemed:        r.PointsRedemptionAmount,
		FinalBill:             r.FinalBill,
		PointsEarned:          r.PointsEarned,
		NetPointsChange:       r.NetPointsChange,
		EntryType:             string(r.EntryType()),
	}
}

func toSettingsDTO(s entity.Settings) dto.SettingsDTO {
	return dto.SettingsDTO{
		SpendingTiers: toTierTableDTO(s.SpendingTiers),
		PointsTiers:   toTierTableDTO(s.PointsTiers),
		Discounts:     toTierTableDTO(s.Discounts),
	}
}

func toTierTableDTO(t entity.TierTable) dto.TierTableDTO {
	return dto.TierTableDTO{Platinum: t.Platinum, Gold: t.Gold, Silver: t.Silver, Bronze: t.Bronze}
}

func fromSettingsDTO(in dto.SettingsDTO) entity.Settings {
	return entity.Settings{
		SpendingTiers: fromTierTableDTO(in.SpendingTiers),
		PointsTiers:   fromTierTableDTO(in.PointsTiers),
		Discounts:     fromTierTableDTO(in.Discounts),
	}
}

func fromTierTableDTO(t dto.TierTableDTO) entity.TierTable {
	return entity.TierTable{Platinum: t.Platinum, Gold: t.Gold, Silver: t.Silver, Bronze: t.Bronze}
}

func toSettlementInput(in dto.SettleRequest) ledger.SettlementInput {
	return ledger.SettlementInput{
		Mobile:         in.Mobile,
		Name:           in.Name,
		PIN:            in.PIN,
		BillAmount:     in.BillAmount,
		AmountTendered: in.AmountTendered,
		RedeemPoints:   in.RedeemPoints,
	}
}

func toAuditList(list []*entity.SettlementAudit) []dto.AuditEntryDTO {
	out := make([]dto.AuditEntryDTO, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AuditEntryDTO{
			ID:              a.ID,
			NewCustomer:     a.NewCustomer,
			BillAmount:      a.BillAmount,
			AmountTendered:  a.AmountTendered,
			RedeemPoints:    a.RedeemPoints,
			EffectiveTier:   string(a.EffectiveTier),
			DiscountPercent: a.DiscountPercent,
			TierDiscount:    a.TierDiscount,
			PointsRedeemed:  a.PointsRedeemed,
			FinalBill:       a.FinalBill,
			NetPoints:       a.NetPoints,
			PointsAfter:     a.PointsAfter,
			LedgerVersion:   a.LedgerVersion,
			CreatedAt:       a.CreatedAt,
		})
	}
	return out
}
