package loyalty

import (
	"time"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// Identity datos con los que se crea un cliente nuevo.
type Identity struct {
	Mobile string
	Name   string
	PIN    string
}

// Apply aplica un resultado aceptado y devuelve el nuevo estado del cliente sin modificar prev.
// Para un cliente nuevo (prev nil) usa identity; para uno existente la identidad no cambia.
// Ambos niveles se recalculan siempre a partir de los nuevos totales.
func Apply(prev *entity.Customer, identity Identity, res *Result, settings entity.Settings, entryID string, now time.Time) (*entity.Customer, entity.HistoryEntry) {
	entry := entity.HistoryEntry{
		ID:              entryID,
		Date:            now,
		Bill:            res.FinalBill,
		Points:          res.NetPointsChange,
		Type:            res.EntryType(),
		DiscountApplied: res.TotalDiscount(),
	}

	var next *entity.Customer
	if prev == nil {
		next = &entity.Customer{
			Mobile:     identity.Mobile,
			Name:       identity.Name,
			PIN:        identity.PIN,
			Points:     res.NetPointsChange,
			TotalSpent: res.FinalBill,
		}
	} else {
		next = prev.Clone()
		next.Points += res.NetPointsChange
		next.TotalSpent = next.TotalSpent.Add(res.FinalBill)
	}
	next.History = append(next.History, entry)
	Reclassify(next, settings)
	return next, entry
}
