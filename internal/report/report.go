// Package report renders parse results for humans (table) and for other tools (CSV, JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/eddiefleurent/tradelog/internal/config"
	"github.com/eddiefleurent/tradelog/internal/models"
	"github.com/eddiefleurent/tradelog/internal/parser"
	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02"

// LegRow is one leg of a parsed trade, or one rejected input.
type LegRow struct {
	Input      string `csv:"input" json:"input"`
	Status     string `csv:"status" json:"status"` // ok | error
	Reason     string `csv:"reason" json:"reason,omitempty"`
	TradeID    string `csv:"trade_id" json:"trade_id,omitempty"`
	Symbol     string `csv:"symbol" json:"symbol,omitempty"`
	Action     string `csv:"action" json:"action,omitempty"`
	SpreadType string `csv:"spread_type" json:"spread_type,omitempty"`
	Quantity   int    `csv:"quantity" json:"quantity,omitempty"`
	Price      string `csv:"price" json:"price,omitempty"`
	OrderType  string `csv:"order_type" json:"order_type,omitempty"`
	Leg        int    `csv:"leg" json:"leg"`
	LegQty     int    `csv:"leg_quantity" json:"leg_quantity,omitempty"`
	Expiration string `csv:"expiration" json:"expiration,omitempty"`
	Strike     string `csv:"strike" json:"strike,omitempty"`
	OptionType string `csv:"option_type" json:"option_type,omitempty"`
	LegAction  string `csv:"leg_action" json:"leg_action,omitempty"`
}

// ResultView is the JSON shape of one batch result.
type ResultView struct {
	Input  string        `json:"input"`
	Trade  *models.Trade `json:"trade,omitempty"`
	Error  string        `json:"error,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// View converts a parse result to its JSON shape.
func View(r parser.Result) ResultView {
	v := ResultView{Input: r.Input, Trade: r.Trade}
	if r.Err != nil {
		v.Trade = nil
		v.Error = r.Err.Error()
		v.Reason = parser.Reason(r.Err)
	}
	return v
}

// Flatten returns one row per leg of every parsed trade and one row per failure, in input order.
func Flatten(results []parser.Result) []LegRow {
	rows := make([]LegRow, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			rows = append(rows, LegRow{
				Input:  r.Input,
				Status: "error",
				Reason: parser.Reason(r.Err),
			})
			continue
		}

		t := r.Trade
		for i, leg := range t.Legs {
			rows = append(rows, LegRow{
				Input:      r.Input,
				Status:     "ok",
				TradeID:    t.ID,
				Symbol:     t.Symbol,
				Action:     string(t.Action),
				SpreadType: string(t.SpreadType),
				Quantity:   t.TotalQuantity,
				Price:      t.Price.String(),
				OrderType:  string(t.OrderType),
				Leg:        i + 1,
				LegQty:     leg.Quantity,
				Expiration: leg.Expiration.Format(dateLayout),
				Strike:     leg.Strike.String(),
				OptionType: string(leg.OptionType),
				LegAction:  string(leg.LegAction),
			})
		}
	}
	return rows
}

// WriteTable renders results as an aligned text table.
func WriteTable(w io.Writer, results []parser.Result) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Symbol", "Spread", "Leg", "Qty", "Expiration", "Strike", "Type", "Open/Close", "Price", "Order"})
	table.SetAutoWrapText(false)

	for _, row := range Flatten(results) {
		if row.Status != "ok" {
			table.Append([]string{"ERROR", row.Reason, "", "", "", "", "", "", "", row.Input})
			continue
		}
		table.Append([]string{
			row.Symbol,
			row.SpreadType,
			strconv.Itoa(row.Leg),
			fmt.Sprintf("%+d", row.LegQty),
			row.Expiration,
			row.Strike,
			row.OptionType,
			row.LegAction,
			row.Price,
			row.OrderType,
		})
	}

	table.Render()
	return nil
}

// WriteCSV renders one CSV record per leg with a header line.
func WriteCSV(w io.Writer, results []parser.Result) error {
	rows := Flatten(results)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteJSON renders results as an indented JSON array.
func WriteJSON(w io.Writer, results []parser.Result) error {
	views := make([]ResultView, len(results))
	for i, r := range results {
		views[i] = View(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

// Write renders results in the given format (table, csv or json).
func Write(w io.Writer, format string, results []parser.Result) error {
	switch format {
	case config.FormatTable, "":
		return WriteTable(w, results)
	case config.FormatCSV:
		return WriteCSV(w, results)
	case config.FormatJSON:
		return WriteJSON(w, results)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
