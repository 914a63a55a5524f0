package output

import (
	"encoding/json"

	"github.com/domainworth/domainworth/internal/core"
)

// JSONFormatter renders a report as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatReport renders the full report structure.
func (f *JSONFormatter) FormatReport(report *core.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
