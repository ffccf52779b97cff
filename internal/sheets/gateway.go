package sheets

import (
	"context"
	"encoding/json"
	"fmt"
)

// Gateway is the spreadsheet backend seam. Row numbers are 1-based sheet
// addresses; row 1 is the header.
type Gateway interface {
	ReadAll(ctx context.Context) ([][]interface{}, error)
	AppendRow(ctx context.Context, row []interface{}) error
	UpdateRowRange(ctx context.Context, rowNumber int, row []interface{}) error
	DeleteRow(ctx context.Context, rowNumber int) error
}

// serviceAccountKey is the subset of an uploaded service-account blob we
// check before handing it to the Google auth layer.
type serviceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
}

// ValidateCredentials parses an uploaded credential blob with a strict JSON
// decoder. Upload content is untrusted and must never reach anything that
// evaluates it as syntax.
func ValidateCredentials(blob []byte) error {
	var key serviceAccountKey
	if err := json.Unmarshal(blob, &key); err != nil {
		return fmt.Errorf("credential blob is not valid JSON: %w", err)
	}
	if key.Type != "service_account" {
		return fmt.Errorf("credential blob is not a service-account key (type %q)", key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return fmt.Errorf("credential blob is missing client_email or private_key")
	}
	return nil
}
