package uploads

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
)

// ObjectOpener resolves a file reference to its contents.
type ObjectOpener interface {
	Open(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

// Reader parses uploaded catalog CSV files into rows.
type Reader struct {
	objects ObjectOpener
}

func NewReader(objects ObjectOpener) *Reader {
	return &Reader{objects: objects}
}

// ReadRows loads fileRef and parses it. Errors while fetching the object are
// returned; a file that cannot be parsed or has no data lines yields zero
// rows so the caller rejects it as empty.
func (r *Reader) ReadRows(ctx context.Context, fileRef string) ([]catalog.Row, error) {
	rc, err := r.objects.Open(ctx, fileRef)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := Parse(rc)
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) || errors.Is(err, errNoHeader) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", fileRef, err)
	}
	return rows, nil
}

var errNoHeader = errors.New("missing header row")

// Parse reads a header line followed by data lines. Blank lines are skipped.
func Parse(src io.Reader) ([]catalog.Row, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errNoHeader
	}
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = normalizeHeader(h)
	}

	var rows []catalog.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(record) {
			continue
		}
		rows = append(rows, toRow(columns, record))
	}
	return rows, nil
}

func toRow(columns, record []string) catalog.Row {
	row := catalog.Row{Extra: map[string]string{}}
	for i, col := range columns {
		if col == "" {
			continue
		}
		var v string
		if i < len(record) {
			v = strings.TrimSpace(record[i])
		}
		switch col {
		case catalog.FieldProviderCode:
			row.ProviderCode = v
		case catalog.FieldSKU:
			row.SKU = v
		case catalog.FieldName:
			row.Name = v
		case catalog.FieldDescription:
			row.Description = v
		case catalog.FieldCategory:
			row.Category = v
		case catalog.FieldTags:
			row.Tags = SplitTags(v)
		default:
			if v != "" {
				row.Extra[col] = v
			}
		}
	}
	return row
}

var knownHeaders = map[string]string{
	"providercode":  catalog.FieldProviderCode,
	"provider_code": catalog.FieldProviderCode,
	"sku":           catalog.FieldSKU,
	"name":          catalog.FieldName,
	"description":   catalog.FieldDescription,
	"category":      catalog.FieldCategory,
	"tags":          catalog.FieldTags,
	"brand":         catalog.AttrBrand,
	"color":         catalog.AttrColor,
	"colour":        catalog.AttrColor,
	"material":      catalog.AttrMaterial,
	"size":          catalog.AttrSize,
}

// normalizeHeader maps known columns to their canonical key. Unknown
// columns keep their trimmed header so they survive as attributes.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if canonical, ok := knownHeaders[strings.ToLower(h)]; ok {
		return canonical
	}
	return h
}

// SplitTags splits on comma, semicolon or pipe, dropping empty entries.
func SplitTags(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
