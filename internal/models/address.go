package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Address is a reverse-geocoded trip endpoint, stored as JSONB.
type Address struct {
	DisplayName string `json:"display_name,omitempty"`
	Road        string `json:"road,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	Suburb      string `json:"suburb,omitempty"` // bairro
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Short returns "road, number - suburb" or the display name when the parts are missing.
func (a Address) Short() string {
	if a.Road == "" {
		return a.DisplayName
	}
	s := a.Road
	if a.HouseNumber != "" {
		s = fmt.Sprintf("%s, %s", s, a.HouseNumber)
	}
	if a.Suburb != "" {
		s = fmt.Sprintf("%s - %s", s, a.Suburb)
	}
	return s
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("scan address: unsupported type %T", value)
}
