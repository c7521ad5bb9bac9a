// Package dol fetches and parses the DOL foreign labor processing-times
// page: the prevailing-wage determination queues and the PERM figures.
package dol

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	bulletindomain "github.com/roledad/visa-wait-time/internal/bulletin/domain"
	"github.com/roledad/visa-wait-time/internal/shared/htmltable"
)

// ProcessingTimes is the parsed DOL page.
type ProcessingTimes struct {
	PWDQueue []bulletindomain.PWDQueueRow
	PERM     bulletindomain.PERMStatus
}

// queueTable is one "Receipt Month / Remaining Requests" table. The page
// publishes one for the H-1B program and one for PERM, in that order.
type queueTable struct {
	months map[string]int
}

// ParseProcessingTimes extracts the PWD queues and PERM figures. Tables are
// recognized by their headers, not their position on the page.
func ParseProcessingTimes(doc *html.Node) (ProcessingTimes, error) {
	var queues []queueTable
	var analystReviewPD string
	var averageDays int
	var lastUpdate string

	for _, table := range htmltable.Tables(doc) {
		rows := htmltable.Rows(table)
		if len(rows) < 2 {
			continue
		}
		header := rows[0]

		switch {
		case headerHas(header, "Receipt Month") && headerHas(header, "Remaining Requests"):
			queue, err := parseQueueTable(rows[1:])
			if err != nil {
				return ProcessingTimes{}, err
			}
			queues = append(queues, queue)

		case headerHas(header, "Processing Queue") && headerHas(header, "Priority Date"):
			pd, err := analystReviewDate(rows)
			if err != nil {
				return ProcessingTimes{}, err
			}
			analystReviewPD = pd

		case headerHas(header, "Month") && headerHas(header, "Calendar Days"):
			month, days, err := averageProcessing(rows)
			if err != nil {
				return ProcessingTimes{}, err
			}
			lastUpdate, averageDays = month, days
		}
	}

	if len(queues) < 2 {
		return ProcessingTimes{}, fmt.Errorf("processing page has %d PWD queue tables, want 2", len(queues))
	}
	if analystReviewPD == "" {
		return ProcessingTimes{}, fmt.Errorf("processing page has no analyst review priority date")
	}
	if lastUpdate == "" {
		return ProcessingTimes{}, fmt.Errorf("processing page has no average processing table")
	}

	return ProcessingTimes{
		PWDQueue: mergeQueues(queues[0], queues[1]),
		PERM: bulletindomain.PERMStatus{
			AnalystReviewPD: analystReviewPD,
			AverageDays:     averageDays,
			LastUpdate:      lastUpdate,
		},
	}, nil
}

func parseQueueTable(rows [][]string) (queueTable, error) {
	queue := queueTable{months: make(map[string]int, len(rows))}
	for _, cells := range rows {
		if len(cells) < 2 {
			return queueTable{}, fmt.Errorf("queue row has %d cells, want 2: %v", len(cells), cells)
		}
		month, err := normalizeReceiptMonth(cells[0])
		if err != nil {
			return queueTable{}, err
		}
		count, err := parseCount(cells[1])
		if err != nil {
			return queueTable{}, fmt.Errorf("receipt month %s: %w", month, err)
		}
		queue.months[month] = count
	}
	return queue, nil
}

// mergeQueues outer-joins the two program queues on receipt month, newest
// month first.
func mergeQueues(h1b, perm queueTable) []bulletindomain.PWDQueueRow {
	months := make(map[string]struct{}, len(h1b.months)+len(perm.months))
	for m := range h1b.months {
		months[m] = struct{}{}
	}
	for m := range perm.months {
		months[m] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	rows := make([]bulletindomain.PWDQueueRow, 0, len(keys))
	for _, m := range keys {
		row := bulletindomain.PWDQueueRow{ReceiptMonth: m}
		if count, found := h1b.months[m]; found {
			c := count
			row.H1BRequests = &c
		}
		if count, found := perm.months[m]; found {
			c := count
			row.PERMRequests = &c
		}
		rows = append(rows, row)
	}
	return rows
}

func analystReviewDate(rows [][]string) (string, error) {
	queueCol, dateCol := headerIndex(rows[0], "Processing Queue"), headerIndex(rows[0], "Priority Date")
	for _, cells := range rows[1:] {
		if queueCol >= len(cells) || dateCol >= len(cells) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(cells[queueCol]), "Analyst Review") {
			return strings.TrimSpace(cells[dateCol]), nil
		}
	}
	return "", fmt.Errorf("no Analyst Review row in the PERM queue table")
}

func averageProcessing(rows [][]string) (month string, days int, err error) {
	monthCol, daysCol := headerIndex(rows[0], "Month"), headerIndex(rows[0], "Calendar Days")
	cells := rows[1]
	if monthCol >= len(cells) || daysCol >= len(cells) {
		return "", 0, fmt.Errorf("malformed average processing row: %v", cells)
	}
	days, err = parseCount(cells[daysCol])
	if err != nil {
		return "", 0, fmt.Errorf("average calendar days: %w", err)
	}
	return strings.TrimSpace(cells[monthCol]), days, nil
}

// normalizeReceiptMonth converts "January 2025" to "2025-01" so the queue
// sorts chronologically as text.
func normalizeReceiptMonth(raw string) (string, error) {
	s := strings.Join(strings.Fields(raw), " ")
	t, err := time.Parse("January 2006", s)
	if err != nil {
		return "", fmt.Errorf("unrecognized receipt month %q", raw)
	}
	return t.Format("2006-01"), nil
}

// parseCount parses an integer cell, tolerating thousands separators.
func parseCount(raw string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unrecognized count %q", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %q", raw)
	}
	return n, nil
}

func headerHas(header []string, name string) bool {
	return headerIndex(header, name) >= 0
}

func headerIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}
