package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// exportNames are the Configuration values written to an export, in order.
var exportNames = []string{NameDeviceID, NameDataPollTime, NameMaxDataRows}

// Export writes wb as an .xlsx document laid out like the add-in workbook:
// a Configuration sheet with defined names and a Data In sheet with the
// snapshot at row 5 and the window from row 9.
func Export(ctx context.Context, wb Workbook, w io.Writer) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", ConfigurationSheet); err != nil {
		return fmt.Errorf("rename configuration sheet: %w", err)
	}
	if err := writeConfiguration(ctx, f, wb); err != nil {
		return err
	}

	idx, err := f.NewSheet(DataSheet)
	if err != nil {
		return fmt.Errorf("create data sheet: %w", err)
	}
	if err := writeData(ctx, f, wb); err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeConfiguration(ctx context.Context, f *excelize.File, wb Workbook) error {
	if err := f.SetSheetRow(ConfigurationSheet, "A1", &[]any{"Setting", "Value"}); err != nil {
		return err
	}
	for i, name := range exportNames {
		v, err := wb.NamedValue(ctx, name)
		if err != nil && !errors.Is(err, ErrNameNotFound) {
			return fmt.Errorf("read %s: %w", name, err)
		}
		row := i + 2
		if err := f.SetSheetRow(ConfigurationSheet, CellRef(row), &[]any{name, v}); err != nil {
			return err
		}
		if err := f.SetDefinedName(&excelize.DefinedName{
			Name:     name,
			RefersTo: fmt.Sprintf("'%s'!$B$%d", ConfigurationSheet, row),
		}); err != nil {
			return fmt.Errorf("define %s: %w", name, err)
		}
	}
	return nil
}

func writeData(ctx context.Context, f *excelize.File, wb Workbook) error {
	header := make([]any, 0, Columns)
	for _, h := range Header {
		header = append(header, h)
	}
	if err := f.SetCellValue(DataSheet, "A1", "FarmBeats"); err != nil {
		return err
	}
	if err := f.SetSheetRow(DataSheet, CellRef(HeaderRow), &header); err != nil {
		return err
	}

	snap, ok, err := wb.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if ok {
		cells := Cells(snap)
		if err := f.SetSheetRow(DataSheet, CellRef(SnapshotRow), &cells); err != nil {
			return err
		}
	}

	if err := f.SetCellValue(DataSheet, CellRef(WindowStart-1), "History"); err != nil {
		return err
	}
	rows, err := wb.Window(ctx)
	if err != nil {
		return fmt.Errorf("read window: %w", err)
	}
	for i, r := range rows {
		cells := Cells(r)
		if err := f.SetSheetRow(DataSheet, CellRef(WindowStart+i), &cells); err != nil {
			return err
		}
	}
	return nil
}
