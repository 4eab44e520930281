package transport

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Request asks the server for one run. Either Ciphers or Random is set.
// Count limits an explicit list or sizes a random draw; 0 means unset.
type Request struct {
	Text    string
	Ciphers []string
	Random  bool
	Count   int

	// Optional parameter overrides.
	Shift *int
	Key   *string
	Grid  string // "5x6"
}

// Response mirrors a finished run.
type Response struct {
	RunID    string
	Ciphers  []string
	Encoded  string
	Decoded  string
	Document string
	State    string
	Verified bool
	Failure  string
	Warnings []string
}

/*──────── structpb mapping ───────*/

func (r Request) toStruct() (*structpb.Struct, error) {
	m := map[string]any{
		"text":    r.Text,
		"ciphers": strings2any(r.Ciphers),
		"random":  r.Random,
		"count":   r.Count,
	}
	if r.Shift != nil {
		m["shift"] = *r.Shift
	}
	if r.Key != nil {
		m["key"] = *r.Key
	}
	if r.Grid != "" {
		m["grid"] = r.Grid
	}
	return structpb.NewStruct(m)
}

func requestFrom(s *structpb.Struct) (Request, error) {
	f := s.GetFields()
	r := Request{
		Text:   f["text"].GetStringValue(),
		Random: f["random"].GetBoolValue(),
		Count:  int(f["count"].GetNumberValue()),
		Grid:   f["grid"].GetStringValue(),
	}
	for _, v := range f["ciphers"].GetListValue().GetValues() {
		name, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return r, fmt.Errorf("ciphers: want strings, got %T", v.GetKind())
		}
		r.Ciphers = append(r.Ciphers, name.StringValue)
	}
	if v, ok := f["shift"]; ok {
		n := int(v.GetNumberValue())
		r.Shift = &n
	}
	if v, ok := f["key"]; ok {
		k := v.GetStringValue()
		r.Key = &k
	}
	return r, nil
}

func (r Response) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"run_id":   r.RunID,
		"ciphers":  strings2any(r.Ciphers),
		"encoded":  r.Encoded,
		"decoded":  r.Decoded,
		"document": r.Document,
		"state":    r.State,
		"verified": r.Verified,
		"failure":  r.Failure,
		"warnings": strings2any(r.Warnings),
	})
}

func responseFrom(s *structpb.Struct) Response {
	f := s.GetFields()
	return Response{
		RunID:    f["run_id"].GetStringValue(),
		Ciphers:  any2strings(f["ciphers"]),
		Encoded:  f["encoded"].GetStringValue(),
		Decoded:  f["decoded"].GetStringValue(),
		Document: f["document"].GetStringValue(),
		State:    f["state"].GetStringValue(),
		Verified: f["verified"].GetBoolValue(),
		Failure:  f["failure"].GetStringValue(),
		Warnings: any2strings(f["warnings"]),
	}
}

func strings2any(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func any2strings(v *structpb.Value) []string {
	var out []string
	for _, e := range v.GetListValue().GetValues() {
		out = append(out, e.GetStringValue())
	}
	return out
}
