package model

import "encoding/json"

type Board struct {
	BoardNo   int    `json:"board_no"`
	BoardType string `json:"board_type"`
	BoardName string `json:"board_name"`
}

// ScriptTag is a storefront script registration.
type ScriptTag struct {
	ScriptNo        string   `json:"script_no"`
	Src             string   `json:"src"`
	DisplayLocation []string `json:"display_location"`
	ClientID        string   `json:"client_id,omitempty"`
	CreatedDate     string   `json:"created_date,omitempty"`
}

// UnmarshalJSON tolerates script_no sent as a number.
func (s *ScriptTag) UnmarshalJSON(data []byte) error {
	type alias ScriptTag
	var raw struct {
		alias
		ScriptNo json.RawMessage `json:"script_no"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ScriptTag(raw.alias)
	if len(raw.ScriptNo) > 0 && raw.ScriptNo[0] == '"' {
		return json.Unmarshal(raw.ScriptNo, &s.ScriptNo)
	}
	if string(raw.ScriptNo) != "null" {
		s.ScriptNo = string(raw.ScriptNo)
	}
	return nil
}
