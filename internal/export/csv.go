// Package export materializes fetched bars as CSV.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"StockHistory/internal/domain/models"
)

// ContentType is the MIME type of Render output.
const ContentType = "text/csv; charset=utf-8"

var header = columns(reflect.TypeOf(models.Bar{}))

// columns lists json tag names of t in declaration order.
func columns(t reflect.Type) []string {
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = f.Name
		}
		if name == "-" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Render returns the header line followed by one line per bar, joined by "\n"
// with no trailing newline. Values are written raw: no quoting or escaping.
// An empty input renders to "".
func Render(bars []models.Bar) string {
	if len(bars) == 0 {
		return ""
	}
	lines := make([]string, 0, len(bars)+1)
	lines = append(lines, strings.Join(header, ","))
	for _, b := range bars {
		lines = append(lines, strings.Join(row(b), ","))
	}
	return strings.Join(lines, "\n")
}

func row(b models.Bar) []string {
	v := reflect.ValueOf(b)
	cells := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		if strings.SplitN(v.Type().Field(i).Tag.Get("json"), ",", 2)[0] == "-" {
			continue
		}
		cells = append(cells, cell(v.Field(i)))
	}
	return cells
}

func cell(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprint(v.Interface())
	}
}

// FileName builds "<symbol>_<from>_<to>.csv".
func FileName(symbol, from, to string) string {
	return fmt.Sprintf("%s_%s_%s.csv", symbol, from, to)
}

// Write renders bars into dir/FileName(...) and returns the path. Nothing is
// written, and "" is returned, when bars is empty.
func Write(dir, symbol, from, to string, bars []models.Bar) (string, error) {
	if len(bars) == 0 {
		return "", nil
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(symbol, from, to))
	if err := os.WriteFile(path, []byte(Render(bars)), 0o644); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}
