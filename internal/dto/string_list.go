package dto

import "encoding/json"

// StringList decodes a JSON value that may be either a single string or an
// array of strings into one uniform slice. The filter endpoints accept both
// shapes for their criteria payloads.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}

	*l = StringList(many)
	return nil
}
