package recorder

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

// DraftKey is the mirror key holding the in-progress session.
const DraftKey = "current_session"

// Draft is the mirrored form of an in-progress session.
type Draft struct {
	Climber    string           `json:"climber"`
	Discipline climb.Discipline `json:"discipline,omitempty"`
	Area       string           `json:"area,omitempty"`
	Started    time.Time        `json:"started"`
	Climbs     []climb.Entry    `json:"climbs"`
}

func encodeDraft(d Draft) ([]byte, error) {
	if d.Climbs == nil {
		d.Climbs = []climb.Entry{}
	}
	return json.Marshal(d)
}

// decodeDraft rejects unknown keys at every level.
func decodeDraft(data []byte) (Draft, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d Draft
	if err := dec.Decode(&d); err != nil {
		return Draft{}, &climb.ValidationError{Field: "draft", Reason: "malformed session draft", Err: err}
	}
	return d, nil
}
