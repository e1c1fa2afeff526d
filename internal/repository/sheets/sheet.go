package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"reportbot/internal/domain"
	"reportbot/internal/repository"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	valueInputOption    = "RAW"
)

// Scopes needed to find a spreadsheet by name and write to it
var Scopes = []string{sheetsapi.SpreadsheetsScope, drive.DriveMetadataReadonlyScope}

// SheetRepo implements repository.SheetRepository on the Google Sheets API
type SheetRepo struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	sheet         string
}

// Open connects to a spreadsheet. When spreadsheetID is empty the spreadsheet
// is looked up by name through Drive. sheet selects a tab; empty means the
// first one.
func Open(ctx context.Context, spreadsheetID, name, sheet string, opts ...option.ClientOption) (*SheetRepo, error) {
	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	if spreadsheetID == "" {
		spreadsheetID, err = findSpreadsheet(ctx, name, opts)
		if err != nil {
			return nil, err
		}
	}

	return &SheetRepo{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
	}, nil
}

func findSpreadsheet(ctx context.Context, name string, opts []option.ClientOption) (string, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create drive client: %w", err)
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMimeType)

	list, err := srv.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", wrapError("find spreadsheet "+name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", name)
	}

	return list.Files[0].Id, nil
}

// SpreadsheetID returns the id of the opened spreadsheet
func (r *SheetRepo) SpreadsheetID() string {
	return r.spreadsheetID
}

// ReadCell returns the formatted value of a cell, "" when empty
func (r *SheetRepo) ReadCell(ctx context.Context, row, column int) (string, error) {
	rng := r.a1(row, column)

	resp, err := r.values.Get(r.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", wrapError("read "+rng, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}

// BatchWrite writes all updates in one request. Values are stored as sent:
// text typed by users is never parsed into formulas, numbers or dates.
func (r *SheetRepo) BatchWrite(ctx context.Context, updates []domain.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{
			Range:  r.a1(u.Row, u.Column),
			Values: [][]interface{}{{u.Value}},
		})
	}

	_, err := r.values.BatchUpdate(r.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: valueInputOption,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(fmt.Sprintf("batch write of %d cells", len(updates)), err)
	}

	return nil
}

func (r *SheetRepo) a1(row, column int) string {
	cell := A1(row, column)
	if r.sheet == "" {
		return cell
	}
	return "'" + strings.ReplaceAll(r.sheet, "'", "''") + "'!" + cell
}

// A1 returns the A1 notation of a 1-based row and column
func A1(row, column int) string {
	return ColumnLetters(column) + fmt.Sprint(row)
}

// ColumnLetters converts a 1-based column index to letters: 1 is A, 27 is AA
func ColumnLetters(column int) string {
	var letters []byte
	for column > 0 {
		column--
		letters = append([]byte{byte('A' + column%26)}, letters...)
		column /= 26
	}
	return string(letters)
}

func wrapError(op string, err error) error {
	if IsTransient(err) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsTransient reports whether err is a rate limit, server or network failure
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
