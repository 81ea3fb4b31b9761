// Package csvio reads and writes the transaction interchange format:
// UTF-8 CSV with a byte-order mark, localized headers and RFC-4180
// quoting, one transaction per row.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"pocketledger/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Header row column order: type, category, amount, date, note.
var header = []string{"类型", "分类", "金额", "日期", "备注"}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Export writes transactions to w with a BOM so spreadsheet tools pick the
// right encoding. Amounts render with two decimals; quoting follows
// RFC 4180 for values containing comma, quote or newline.
func Export(w io.Writer, transactions []core.Transaction) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range transactions {
		row := []string{
			t.Type.Label(),
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Date,
			t.Note,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ImportResult reports what a bulk import did: parsed records plus the
// number of rows skipped for failing validation.
type ImportResult struct {
	Transactions []core.Transaction
	Skipped      int
}

// Import parses transaction rows from r. Invalid rows (unknown type label,
// non-numeric or negative amount, malformed date) are skipped and counted
// rather than aborting the batch. Both localized labels and the internal
// type tokens are accepted.
func Import(r io.Reader) (ImportResult, error) {
	br := bufio.NewReader(r)
	if peeked, err := br.Peek(len(utf8BOM)); err == nil && string(peeked) == string(utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	result := ImportResult{Transactions: []core.Transaction{}}
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row is a per-row failure, not a batch failure.
			result.Skipped++
			continue
		}
		if first {
			first = false
			continue
		}
		if t, ok := parseRow(record); ok {
			result.Transactions = append(result.Transactions, t)
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func parseRow(record []string) (core.Transaction, bool) {
	if len(record) < 4 {
		return core.Transaction{}, false
	}

	typ, ok := core.ParseTxType(strings.TrimSpace(record[0]))
	if !ok {
		return core.Transaction{}, false
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil || amount < 0 {
		return core.Transaction{}, false
	}

	date := strings.TrimSpace(record[3])
	if !datePattern.MatchString(date) {
		return core.Transaction{}, false
	}

	note := ""
	if len(record) > 4 {
		note = strings.TrimSpace(record[4])
	}

	return core.Transaction{
		Type:     typ,
		Amount:   amount,
		Category: strings.TrimSpace(record[1]),
		Note:     note,
		Date:     date,
	}, true
}
