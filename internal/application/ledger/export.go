package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

var csvHeader = []string{"Name", "Mobile", "TotalSpent", "Points", "SpendingTier", "PointsTier"}

// WriteCustomersCSV aplana la colección de clientes a CSV (solo lectura, sin importación inversa).
func WriteCustomersCSV(w io.Writer, customers []*entity.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, c := range customers {
		row := []string{
			c.Name,
			c.Mobile,
			c.TotalSpent.String(),
			strconv.FormatInt(c.Points, 10),
			string(c.SpendingTier),
			string(c.PointsTier),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv row %s: %w", c.Mobile, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
