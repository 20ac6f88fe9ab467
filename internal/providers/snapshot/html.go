package snapshot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/dcfvalue/pkg/models"
)

// HTML snapshots hold one table per statement. A table is identified by its
// data-statement attribute ("profile", "balance_sheet", "cash_flow",
// "income_statement") or, failing that, by its caption text.
//
// Statement tables carry the period ends in the header row after the label
// column. The profile table is a two-column key/value list; the keys
// "symbol", "name" and "currency" are text, every other key is numeric.

const statementProfile = "profile"

func parseHTML(r io.Reader) (*models.CompanyData, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	data := &models.CompanyData{
		Profile: &models.CompanyProfile{Fields: make(map[string]float64)},
	}
	found := 0

	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		kind := tableKind(tbl)
		switch kind {
		case "":
			return
		case statementProfile:
			parseProfileTable(tbl, data.Profile)
		default:
			stmt := models.Statement(kind)
			if data.Table(stmt) != nil {
				return // first table for a statement wins
			}
			data.SetTable(stmt, parseStatementTable(stmt, tbl))
		}
		found++
	})

	if found == 0 {
		return nil, fmt.Errorf("no statement tables found")
	}
	data.Symbol = data.Profile.Symbol
	for _, s := range models.Statements() {
		if data.Table(s) == nil {
			data.SetTable(s, models.NewFinancialTable(s))
		}
	}
	return data, nil
}

// tableKind classifies a table, returning "" for unrelated tables.
func tableKind(tbl *goquery.Selection) string {
	if v, ok := tbl.Attr("data-statement"); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		switch v {
		case statementProfile, string(models.StatementBalanceSheet),
			string(models.StatementCashFlow), string(models.StatementIncomeStatement):
			return v
		}
		return ""
	}

	caption := strings.ToLower(strings.TrimSpace(tbl.Find("caption").First().Text()))
	switch {
	case caption == "":
		return ""
	case strings.Contains(caption, "balance"):
		return string(models.StatementBalanceSheet)
	case strings.Contains(caption, "cash flow"):
		return string(models.StatementCashFlow)
	case strings.Contains(caption, "income"):
		return string(models.StatementIncomeStatement)
	case strings.Contains(caption, "profile"):
		return statementProfile
	}
	return ""
}

func parseStatementTable(stmt models.Statement, tbl *goquery.Selection) *models.FinancialTable {
	var periods []string
	tbl.Find("tr").First().Find("th, td").Each(func(i int, th *goquery.Selection) {
		if i > 0 { // skip row label column
			periods = append(periods, strings.TrimSpace(th.Text()))
		}
	})

	table := models.NewFinancialTable(stmt, periods...)
	tbl.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() == 0 {
			return
		}
		label := cleanText(cells.First().Text())
		if label == "" {
			return
		}
		values := make([]models.Value, len(periods))
		cells.Slice(1, goquery.ToEnd).Each(func(i int, cell *goquery.Selection) {
			if i < len(values) {
				values[i] = parseNumber(cell.Text())
			}
		})
		table.Add(label, values...)
	})
	return table
}

func parseProfileTable(tbl *goquery.Selection, p *models.CompanyProfile) {
	tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		key := cleanText(cells.Eq(0).Text())
		raw := cleanText(cells.Eq(1).Text())
		switch strings.ToLower(key) {
		case "symbol":
			p.Symbol = raw
		case "name":
			p.Name = raw
		case "currency":
			p.Currency = raw
		default:
			if v, ok := parseNumber(raw).Get(); ok {
				p.Fields[key] = v
			}
		}
	})
}

// parseNumber reads a statement cell. Thousands separators and currency
// signs are ignored; "(1,234)" is negative and "12%" is 0.12. Blank cells
// and dashes are absent.
func parseNumber(s string) models.Value {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "", "\u00a0", "", " ", "").Replace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	switch s {
	case "", "-", "--", "—", "–", "N/A", "n/a", "NaN":
		return models.None()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.None()
	}
	if negative {
		v = -v
	}
	if percent {
		v /= 100
	}
	return models.Some(v)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
