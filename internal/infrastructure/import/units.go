package csvimport

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit CSV columns
const (
	ColCode       = "code"
	ColPrice      = "price"
	ColAreaM2     = "area_m2"
	ColFloor      = "floor"
	ColView       = "view"
	ColTypologyID = "typology_id"
)

// MaxUnitCodeLength matches the units.code column
const MaxUnitCodeLength = 50

// UnitRow is a validated unit line
type UnitRow struct {
	Line       int
	Code       string
	Price      decimal.Decimal
	AreaM2     decimal.Decimal
	Floor      *int
	View       string
	TypologyID *uuid.UUID
}

// ParseUnits reads every unit line from r. Rows that fail validation, or
// repeat a code seen earlier in the file, are reported in the returned
// collection instead of the row slice. A non-nil error means the file as a
// whole could not be read.
func ParseUnits(r io.Reader, opts ...ParserOption) ([]UnitRow, *ErrorCollection, error) {
	p, err := NewParser(r, opts...)
	if err != nil {
		return nil, nil, err
	}
	errs := NewErrorCollection(0)
	if missing := p.Missing(ColCode, ColPrice); len(missing) > 0 {
		for _, col := range missing {
			errs.AddRequired(1, col)
		}
		return nil, errs, nil
	}

	seen := make(map[string]int)
	var rows []UnitRow
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr RowError
		if errors.As(err, &rowErr) {
			errs.Add(rowErr)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if row.IsEmpty() {
			continue
		}

		u, ok := parseUnitRow(row, errs)
		if !ok {
			continue
		}
		key := strings.ToLower(u.Code)
		if _, dup := seen[key]; dup {
			errs.AddDuplicate(row.Line, ColCode, u.Code, false)
			continue
		}
		seen[key] = row.Line
		rows = append(rows, u)
	}
	return rows, errs, nil
}

func parseUnitRow(row *Row, errs *ErrorCollection) (UnitRow, bool) {
	u := UnitRow{Line: row.Line, Code: row.Get(ColCode), View: row.Get(ColView), AreaM2: decimal.Zero}

	switch {
	case u.Code == "":
		errs.AddRequired(row.Line, ColCode)
	case len(u.Code) > MaxUnitCodeLength:
		errs.Add(RowError{Row: row.Line, Column: ColCode, Code: ErrCodeInvalidLength,
			Message: "length must be at most " + strconv.Itoa(MaxUnitCodeLength)})
	}

	if raw := row.Get(ColPrice); raw == "" {
		errs.AddRequired(row.Line, ColPrice)
	} else if price, err := decimal.NewFromString(raw); err != nil {
		errs.AddType(row.Line, ColPrice, "decimal", raw)
	} else if price.IsNegative() {
		errs.Add(RowError{Row: row.Line, Column: ColPrice, Code: ErrCodeInvalidRange,
			Message: "price cannot be negative", Value: raw})
	} else {
		u.Price = price
	}

	if raw := row.Get(ColAreaM2); raw != "" {
		if area, err := decimal.NewFromString(raw); err != nil || area.IsNegative() {
			errs.AddType(row.Line, ColAreaM2, "non-negative decimal", raw)
		} else {
			u.AreaM2 = area
		}
	}

	if raw := row.Get(ColFloor); raw != "" {
		if floor, err := strconv.Atoi(raw); err != nil {
			errs.AddType(row.Line, ColFloor, "integer", raw)
		} else {
			u.Floor = &floor
		}
	}

	if raw := row.Get(ColTypologyID); raw != "" {
		if id, err := uuid.Parse(raw); err != nil {
			errs.AddType(row.Line, ColTypologyID, "uuid", raw)
		} else {
			u.TypologyID = &id
		}
	}

	return u, !errs.HasRow(row.Line)
}
