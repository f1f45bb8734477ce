// Package sheets stores the message log and reaction tally in Google Sheets.
//
// Both spreadsheets keep their header on row 2 and data from row 3 of the first
// sheet. Rows are positional, see package store.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// DataStartRow is the first row holding data; row 2 is the header.
const DataStartRow = 3

// Credentials identifies the service account used to reach the spreadsheets.
type Credentials struct {
	ServiceAccountEmail string
	// PrivateKey may carry escaped "\n" sequences as found in .env files.
	PrivateKey      string
	CredentialsFile string
}

// NewService builds an authenticated Sheets service.
func NewService(ctx context.Context, creds Credentials, opts ...option.ClientOption) (*sheetsapi.Service, error) {
	switch {
	case creds.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(creds.CredentialsFile))
	case creds.ServiceAccountEmail != "" && creds.PrivateKey != "":
		conf := &jwt.Config{
			Email:      creds.ServiceAccountEmail,
			PrivateKey: []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
			Scopes:     []string{sheetsapi.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		opts = append(opts, option.WithTokenSource(conf.TokenSource(ctx)))
	default:
		return nil, fmt.Errorf("no Google credentials configured")
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return svc, nil
}

// sheet is a single spreadsheet addressed by A1 ranges on its first sheet.
type sheet struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	lastCol       string
}

func (s *sheet) dataRange() string {
	return fmt.Sprintf("A%d:%s", DataStartRow, s.lastCol)
}

func (s *sheet) rows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", s.spreadsheetID, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *sheet) append(ctx context.Context, cells []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{cells}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.dataRange(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to spreadsheet %s: %w", s.spreadsheetID, err)
	}
	return nil
}

func (s *sheet) update(ctx context.Context, rng string, cells []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{cells}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s in spreadsheet %s: %w", rng, s.spreadsheetID, err)
	}
	return nil
}

// column returns the A1 letter of a zero-based column index (single letter only).
func column(i int) string {
	return string(rune('A' + i))
}

// cells converts a positional row to API values, dropping trailing empty cells
// so unset columns stay blank.
func cells(row []string) []interface{} {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		out[i] = row[i]
	}
	return out
}
