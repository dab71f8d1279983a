package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

// Record layout, one order per line:
//
//	orderID,customerID,status,totalAmount,createdAt,<item-entry>...
//
// Every item entry is a single comma field of six pipe-delimited sub-fields:
//
//	itemID|name|price|category|quantity|specialRequest
//
// The six-field entry is applied symmetrically on write and read so a full
// Item can be rebuilt without a catalog lookup.
const (
	fieldSep      = ","
	itemSep       = "|"
	minFields     = 5
	itemSubFields = 6
	timeLayout    = "2006-01-02T15:04:05"
)

// textCleaner strips record delimiters out of free-text fields so a special
// request cannot break the line format.
var textCleaner = strings.NewReplacer(fieldSep, " ", itemSep, " ", "\n", " ")

// Store persists the order history as a line-oriented flat file. The whole
// file is rewritten on every Save; the file handle is scoped per call.
type Store struct {
	path   string
	logger logger.Logger
}

func NewStore(path string, lgr logger.Logger) *Store {
	return &Store{path: path, logger: lgr}
}

func (s *Store) Save(history interfaces.History) error {
	var b strings.Builder
	for _, orders := range history {
		for _, order := range orders {
			b.WriteString(encodeOrder(order))
			b.WriteByte('\n')
		}
	}

	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write order store: %w", err)
	}
	return nil
}

// Load reads the store line by line. Each line is parsed independently: a
// malformed line is logged and skipped without aborting the rest of the load.
// A missing file is a first run, not an error.
func (s *Store) Load() (interfaces.History, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return interfaces.History{}, nil
		}
		return nil, fmt.Errorf("failed to open order store: %w", err)
	}
	defer file.Close()

	history := interfaces.History{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		order, err := s.decodeOrder(line)
		if err != nil {
			s.logger.Error("record_skipped", "Skipping malformed order record", "", map[string]interface{}{
				"line": lineNo,
			}, err)
			continue
		}
		history[order.CustomerID] = append(history[order.CustomerID], order)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order store: %w", err)
	}

	return history, nil
}

func encodeOrder(order *domain.Order) string {
	fields := []string{
		order.ID,
		order.CustomerID,
		string(order.Status),
		strconv.FormatFloat(order.TotalAmount, 'f', 2, 64),
		order.CreatedAt.UTC().Format(timeLayout),
	}

	itemIDs := make([]string, 0, len(order.Lines))
	for id := range order.Lines {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	for _, id := range itemIDs {
		line := order.Lines[id]
		fields = append(fields, strings.Join([]string{
			line.Item.ID,
			textCleaner.Replace(line.Item.Name),
			strconv.FormatFloat(line.Item.Price, 'f', 2, 64),
			textCleaner.Replace(line.Item.Category),
			strconv.Itoa(line.Quantity),
			textCleaner.Replace(line.SpecialRequest),
		}, itemSep))
	}

	return strings.Join(fields, fieldSep)
}

func (s *Store) decodeOrder(line string) (*domain.Order, error) {
	fields := strings.Split(line, fieldSep)
	if len(fields) < minFields {
		return nil, fmt.Errorf("record has %d fields, want at least %d", len(fields), minFields)
	}

	amount, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount %q: %w", fields[3], err)
	}

	createdAt, err := time.Parse(timeLayout, fields[4])
	if err != nil {
		return nil, fmt.Errorf("invalid order time %q: %w", fields[4], err)
	}

	order := &domain.Order{
		ID:          fields[0],
		CustomerID:  fields[1],
		Status:      domain.ParseStatus(fields[2]),
		TotalAmount: amount,
		CreatedAt:   createdAt,
		Lines:       make(map[string]domain.OrderLine),
	}

	for _, entry := range fields[minFields:] {
		sub := strings.Split(entry, itemSep)
		if len(sub) != itemSubFields {
			s.logger.Error("item_entry_skipped", "Skipping malformed item entry", "", map[string]interface{}{
				"order_id": order.ID,
				"entry":    entry,
			}, fmt.Errorf("item entry has %d sub-fields, want %d", len(sub), itemSubFields))
			continue
		}

		price, err := strconv.ParseFloat(sub[2], 64)
		if err != nil {
			s.logger.Error("item_entry_skipped", "Skipping malformed item entry", "", map[string]interface{}{
				"order_id": order.ID,
				"entry":    entry,
			}, err)
			continue
		}
		quantity, err := strconv.Atoi(sub[4])
		if err != nil {
			s.logger.Error("item_entry_skipped", "Skipping malformed item entry", "", map[string]interface{}{
				"order_id": order.ID,
				"entry":    entry,
			}, err)
			continue
		}

		order.Lines[sub[0]] = domain.OrderLine{
			Item: domain.Item{
				ID:        sub[0],
				Name:      sub[1],
				Price:     price,
				Category:  sub[3],
				Available: true,
			},
			Quantity:       quantity,
			SpecialRequest: sub[5],
		}
	}

	return order, nil
}
