// Package report renders sweep results as a terminal table or CSV file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JaedanC/MultiPing/pkg/sweep"
)

var columns = []string{"IP", "RESPONSES", "NSLOOKUP"}

// Render writes the result as a bordered table, one row per host, in
// sweep order.
func Render(w io.Writer, result sweep.Result) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(columns...)

	for _, rec := range result {
		t.Row(rec.Host.String(), rec.Probes.String(), strings.Join(rec.Names, ","))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteCSV persists the result to path with a header row. Rows carry the
// same joined latency and name columns as the table.
func WriteCSV(path string, result sweep.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"ip", "responses", "nslookup"}); err != nil {
		_ = f.Close()
		return err
	}
	for _, rec := range result {
		row := []string{rec.Host.String(), rec.Probes.String(), strings.Join(rec.Names, ",")}
		if err := cw.Write(row); err != nil {
			_ = f.Close()
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
