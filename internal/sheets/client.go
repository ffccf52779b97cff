package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client talks to one worksheet of one spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetTitle    string
	sheetID       int64
	columnCount   int
}

// NewClient authenticates with an uploaded service-account key blob and
// resolves the worksheet at the given index to its title and numeric sheet ID.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string, worksheetIndex, columnCount int) (*Client, error) {
	if err := ValidateCredentials(credentialsJSON); err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	c := &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		columnCount:   columnCount,
	}
	if err := c.resolveWorksheet(ctx, worksheetIndex); err != nil {
		return nil, err
	}
	return c, nil
}

// NewClientFromFile is the pre-seeded credential path for single-user deploys.
func NewClientFromFile(ctx context.Context, credentialsFile, spreadsheetID string, worksheetIndex, columnCount int) (*Client, error) {
	blob, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClient(ctx, blob, spreadsheetID, worksheetIndex, columnCount)
}

func (c *Client) resolveWorksheet(ctx context.Context, index int) error {
	ss, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	if index < 0 || index >= len(ss.Sheets) {
		return fmt.Errorf("spreadsheet has no worksheet at index %d", index)
	}
	props := ss.Sheets[index].Properties
	c.sheetTitle = props.Title
	c.sheetID = props.SheetId

	log.Debug().
		Str("spreadsheet_id", c.spreadsheetID).
		Str("worksheet", c.sheetTitle).
		Int64("sheet_id", c.sheetID).
		Msg("Resolved worksheet")
	return nil
}

// ReadAll returns every row of the worksheet, header included.
func (c *Client) ReadAll(ctx context.Context) ([][]interface{}, error) {
	readRange := fmt.Sprintf("%s!A:%s", c.sheetTitle, columnLetter(c.columnCount))
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return resp.Values, nil
}

// AppendRow adds one row after the last data row of the worksheet.
func (c *Client) AppendRow(ctx context.Context, row []interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetTitle+"!A1", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// UpdateRowRange overwrites the visible-column cells of one row.
func (c *Client) UpdateRowRange(ctx context.Context, rowNumber int, row []interface{}) error {
	cellRange := fmt.Sprintf("%s!A%d:%s%d", c.sheetTitle, rowNumber, columnLetter(c.columnCount), rowNumber)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, cellRange, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", cellRange, err)
	}
	return nil
}

// DeleteRow removes one row; every row below it shifts up by one in the store.
func (c *Client) DeleteRow(ctx context.Context, rowNumber int) error {
	req := &sheets.Request{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    c.sheetID,
				Dimension:  "ROWS",
				StartIndex: int64(rowNumber - 1),
				EndIndex:   int64(rowNumber),
			},
		},
	}
	_, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{req},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete row %d: %w", rowNumber, err)
	}
	return nil
}

// columnLetter converts a 1-based column count to its A1-notation letter.
func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
