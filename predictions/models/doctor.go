package models

import (
	"bytes"
	"encoding/json"
)

// NotAvailable is displayed in place of a missing identifier, specialty or region.
const NotAvailable = "N/A"

// DoctorRecommendation is one row of the prediction service's "doctors" array.
//
// The typed fields serve the results table; fields keeps every member of the
// source object in received order so exports reproduce the payload's own columns.
type DoctorRecommendation struct {
	NPI       string
	Specialty string
	Region    string
	// LikelihoodScore is the score as a number for banding. It is NaN when the
	// score is absent or not numeric, and 0 when it is null.
	LikelihoodScore float64

	fields []Field
}

// NewDoctorRecommendation builds a record with the four standard fields in API order.
func NewDoctorRecommendation(npi, specialty, region string, score float64) DoctorRecommendation {
	d := DoctorRecommendation{NPI: npi, Specialty: specialty, Region: region, LikelihoodScore: score}
	d.fields = []Field{
		{Key: "npi", Value: mustMarshal(npi)},
		{Key: "specialty", Value: mustMarshal(specialty)},
		{Key: "region", Value: mustMarshal(region)},
		{Key: "likelihood_score", Value: json.RawMessage(FormatNumber(score))},
	}
	return d
}

// Fields returns the record's members in received order.
func (d DoctorRecommendation) Fields() []Field {
	return d.fields
}

// Keys returns the record's member names in received order.
func (d DoctorRecommendation) Keys() []string {
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.Key
	}
	return keys
}

// Value returns the raw JSON value for key, or nil when the key is absent.
func (d DoctorRecommendation) Value(key string) json.RawMessage {
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// DisplayNPI returns the NPI or "N/A" when it is falsy.
func (d DoctorRecommendation) DisplayNPI() string { return orNotAvailable(d.NPI) }

// DisplaySpecialty returns the specialty or "N/A" when it is falsy.
func (d DoctorRecommendation) DisplaySpecialty() string { return orNotAvailable(d.Specialty) }

// DisplayRegion returns the region or "N/A" when it is falsy.
func (d DoctorRecommendation) DisplayRegion() string { return orNotAvailable(d.Region) }

// ScoreText is the likelihood score as shown in the bar label and width.
// Absent, null and boolean scores show as "".
func (d DoctorRecommendation) ScoreText() string {
	if d.fields == nil {
		return FormatNumber(d.LikelihoodScore)
	}
	raw := bytes.TrimSpace(d.Value("likelihood_score"))
	if len(raw) == 0 || raw[0] == 'n' || raw[0] == 't' || raw[0] == 'f' {
		return ""
	}
	return Text(raw)
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// UnmarshalJSON keeps the object's member order and fills the typed fields.
func (d *DoctorRecommendation) UnmarshalJSON(data []byte) error {
	fields, err := decodeOrderedObject(data)
	if err != nil {
		return err
	}

	*d = DoctorRecommendation{fields: fields}
	d.NPI = displayText(d.Value("npi"))
	d.Specialty = displayText(d.Value("specialty"))
	d.Region = displayText(d.Value("region"))

	d.LikelihoodScore = Number(d.Value("likelihood_score"))
	return nil
}

// MarshalJSON writes the members back in their original order.
func (d DoctorRecommendation) MarshalJSON() ([]byte, error) {
	if d.fields == nil {
		return json.Marshal(map[string]any{
			"npi":              d.NPI,
			"specialty":        d.Specialty,
			"region":           d.Region,
			"likelihood_score": d.LikelihoodScore,
		})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// displayText is Text for truthy values and "" for falsy ones.
func displayText(raw json.RawMessage) string {
	if !Truthy(raw) {
		return ""
	}
	return Text(raw)
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
