package types

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// SchematicID identifies a schematic by the SHA-256 of its normalized rows.
// Line endings and whitespace around rows do not change the ID, so the same
// schematic checked out on different platforms is stored once.
type SchematicID [sha256.Size]byte

// ComputeSchematicID hashes the rows of content joined by '\n'.
func ComputeSchematicID(content []byte) SchematicID {
	return SchematicID(sha256.Sum256([]byte(strings.Join(SplitRows(string(content)), "\n"))))
}

// Hex returns the 64-character hex form.
func (id SchematicID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 12 hex characters, for display.
func (id SchematicID) Short() string {
	return id.Hex()[:12]
}

func (id SchematicID) String() string {
	return id.Hex()
}

// IsZero reports whether id is unset.
func (id SchematicID) IsZero() bool {
	return id == SchematicID{}
}

// ParseSchematicID parses the 64-character hex form.
func ParseSchematicID(hexStr string) (SchematicID, error) {
	if len(hexStr) != 2*sha256.Size {
		return SchematicID{}, fmt.Errorf("invalid schematic ID length: expected %d, got %d", 2*sha256.Size, len(hexStr))
	}

	var id SchematicID
	if _, err := hex.Decode(id[:], []byte(hexStr)); err != nil {
		return SchematicID{}, fmt.Errorf("invalid hex string: %w", err)
	}
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id SchematicID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *SchematicID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}
	parsed, err := ParseSchematicID(hexStr)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer.
func (id SchematicID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner.
func (id *SchematicID) Scan(value interface{}) error {
	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	case nil:
		return fmt.Errorf("cannot scan nil into SchematicID")
	default:
		return fmt.Errorf("cannot scan type %T into SchematicID", value)
	}
	parsed, err := ParseSchematicID(hexStr)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
