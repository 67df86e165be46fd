// Package output sérialise les tables geolocation et sales.
package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"supermarket-sim/pkg/models"
)

const (
	GeolocationFile = "geolocation.csv"
	SalesFile       = "log_sales.csv"
	WorkbookFile    = "supermarket.xlsx"

	TimestampLayout = "2006-01-02T15:04:05"

	maxSheetRows = 1048576
)

var (
	GeolocationHeader = []string{"device_id", "lat", "lon", "timestamp", "accuracy_m", "role", "area"}
	SalesHeader       = []string{"sale_id", "timestamp", "customer_id", "subtotal", "tax", "total", "payment_method"}
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatBoth Format = "both"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatBoth:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", errors.Errorf("format inconnu %q (csv, xlsx, both)", s)
	}
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// PingRecord : lat/lon à 6 décimales, précision à 1 décimale.
func PingRecord(p models.Ping) []string {
	return []string{
		p.DeviceID,
		formatFloat(p.Lat, 6),
		formatFloat(p.Lon, 6),
		p.Timestamp.Format(TimestampLayout),
		formatFloat(p.AccuracyM, 1),
		string(p.Role),
		string(p.Area),
	}
}

func SaleRecord(s models.Sale) []string {
	return []string{
		s.SaleID,
		s.Timestamp.Format(TimestampLayout),
		s.CustomerID,
		formatFloat(s.Subtotal, 2),
		formatFloat(s.Tax, 2),
		formatFloat(s.Total, 2),
		s.PaymentMethod,
	}
}

// Write crée dir si besoin et écrit les fichiers du format demandé.
func Write(dir string, format Format, pings []models.Ping, sales []models.Sale) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "création du dossier de sortie")
	}
	var paths []string
	if format == FormatCSV || format == FormatBoth {
		geo, sal, err := WriteCSV(dir, pings, sales)
		if err != nil {
			return nil, err
		}
		paths = append(paths, geo, sal)
	}
	if format == FormatXLSX || format == FormatBoth {
		wb, err := WriteXLSX(dir, pings, sales)
		if err != nil {
			return nil, err
		}
		paths = append(paths, wb)
	}
	return paths, nil
}

// WriteCSV écrit geolocation.csv et log_sales.csv dans dir.
func WriteCSV(dir string, pings []models.Ping, sales []models.Sale) (string, string, error) {
	geoPath := filepath.Join(dir, GeolocationFile)
	err := writeCSVFile(geoPath, GeolocationHeader, len(pings), func(i int) []string { return PingRecord(pings[i]) })
	if err != nil {
		return "", "", err
	}
	salesPath := filepath.Join(dir, SalesFile)
	err = writeCSVFile(salesPath, SalesHeader, len(sales), func(i int) []string { return SaleRecord(sales[i]) })
	if err != nil {
		return "", "", err
	}
	return geoPath, salesPath, nil
}

func writeCSVFile(path string, header []string, n int, row func(int) []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "création %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "fermeture %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "écriture %s", path)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return errors.Wrapf(err, "écriture %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "écriture %s", path)
}

// WriteXLSX écrit un classeur avec une feuille par table.
func WriteXLSX(dir string, pings []models.Ping, sales []models.Sale) (string, error) {
	if len(pings)+1 > maxSheetRows || len(sales)+1 > maxSheetRows {
		return "", errors.Errorf("trop de lignes pour une feuille Excel (%d pings, %d ventes)", len(pings), len(sales))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "geolocation"); err != nil {
		return "", errors.Wrap(err, "xlsx")
	}
	if _, err := f.NewSheet("sales"); err != nil {
		return "", errors.Wrap(err, "xlsx")
	}

	err := streamSheet(f, "geolocation", GeolocationHeader, len(pings), func(i int) []interface{} {
		p := pings[i]
		return []interface{}{p.DeviceID, p.Lat, p.Lon, p.Timestamp.Format(TimestampLayout), p.AccuracyM, string(p.Role), string(p.Area)}
	})
	if err != nil {
		return "", err
	}
	err = streamSheet(f, "sales", SalesHeader, len(sales), func(i int) []interface{} {
		s := sales[i]
		return []interface{}{s.SaleID, s.Timestamp.Format(TimestampLayout), s.CustomerID, s.Subtotal, s.Tax, s.Total, s.PaymentMethod}
	})
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrapf(err, "enregistrement %s", path)
	}
	return path, nil
}

func streamSheet(f *excelize.File, sheet string, header []string, n int, row func(int) []interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrapf(err, "feuille %s", sheet)
	}
	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := sw.SetRow("A1", head); err != nil {
		return errors.Wrapf(err, "feuille %s", sheet)
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row(i)); err != nil {
			return errors.Wrapf(err, "feuille %s ligne %d", sheet, i+2)
		}
	}
	return errors.Wrapf(sw.Flush(), "feuille %s", sheet)
}
