package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/domainworth/domainworth/internal/core"
)

// WritePricingCSV exports pricing rows in the same column layout the
// bundled table ships with, plus premium and source columns.
func WritePricingCSV(w io.Writer, rows []core.PricingRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"tld", "registrar", "register_usd", "renew_usd", "premium", "source"}); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.TLD,
			row.Registrar,
			fmt.Sprintf("%.2f", row.RegisterUSD),
			fmt.Sprintf("%.2f", row.RenewUSD),
			strconv.FormatBool(row.Premium),
			row.Source,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
