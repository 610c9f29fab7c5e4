package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/loyalty"
)

type demoEntry struct {
	date     string
	bill     int64
	points   int64
	discount int64
}

type demoCustomer struct {
	name       string
	mobile     string
	points     int64
	totalSpent int64
	history    []demoEntry
}

var demoCustomers = []demoCustomer{
	{"Aisha Sharma", "9876543210", 7500, 62000, []demoEntry{
		{"2024-05-10", 25000, 500, 1500},
		{"2024-06-22", 18000, 200, 1000},
		{"2024-07-15", 19000, -1000, 2500},
	}},
	{"Rohan Verma", "8765432109", 1500, 12500, []demoEntry{
		{"2024-06-05", 7000, 700, 350},
		{"2024-07-20", 5500, 800, 275},
	}},
	{"Priya Mehta", "7654321098", 350, 3200, []demoEntry{
		{"2024-07-18", 3200, 350, 160},
	}},
	{"Karan Singh", "6543210987", 80, 950, []demoEntry{
		{"2024-07-25", 950, 80, 0},
	}},
	{"Sneha Gupta", "5432109876", 850, 4800, []demoEntry{
		{"2024-07-01", 1200, 120, 60},
		{"2024-07-11", 1500, 150, 75},
		{"2024-07-21", 2100, 580, 105},
	}},
}

// DemoCustomers construye el conjunto de demostración con el que arranca un almacenamiento vacío.
// El PIN de cada cliente son los primeros cuatro dígitos de su móvil. Los niveles se derivan de settings.
func DemoCustomers(settings entity.Settings) []*entity.Customer {
	out := make([]*entity.Customer, 0, len(demoCustomers))
	for _, d := range demoCustomers {
		c := &entity.Customer{
			Mobile:     d.mobile,
			Name:       d.name,
			PIN:        d.mobile[:4],
			Points:     d.points,
			TotalSpent: decimal.NewFromInt(d.totalSpent),
			History:    make([]entity.HistoryEntry, 0, len(d.history)),
		}
		for _, h := range d.history {
			date, _ := time.Parse(time.DateOnly, h.date)
			c.History = append(c.History, entity.HistoryEntry{
				Date:            date.UTC(),
				Bill:            decimal.NewFromInt(h.bill),
				Points:          h.points,
				Type:            entity.EntryTypeFor(h.points),
				DiscountApplied: decimal.NewFromInt(h.discount),
			})
		}
		loyalty.Reclassify(c, settings)
		out = append(out, c)
	}
	return out
}
