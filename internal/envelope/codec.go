package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/confmgrlabs/goadapter/internal/document"
	"github.com/confmgrlabs/goadapter/pkg/adaptererrors"
)

// Marshal serializes the envelope as a single line of JSON with no embedded
// newlines. Serialization failures are lifted into EncodingError.
func Marshal(env *Envelope) ([]byte, error) {
	if env == nil {
		return nil, adaptererrors.NewEncodingError(fmt.Errorf("envelope is nil"))
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, adaptererrors.NewEncodingError(err)
	}
	return data, nil
}

// Write emits the envelope to w as exactly one line. The write happens only
// after serialization succeeds, so a failed encode leaves w untouched.
func Write(w io.Writer, env *Envelope) error {
	data, err := Marshal(env)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return adaptererrors.NewEncodingError(err)
	}
	return nil
}

// Decoded is the inverse-path view of an envelope, with per-resource result
// payloads left as generic documents. It is exercised by tests and by
// consumers that read adapter output; the adapter itself only encodes.
type Decoded struct {
	Type     string
	Metadata Metadata
	Result   []DecodedResult
}

// DecodedResult pairs a resource type with its generic result payload.
type DecodedResult struct {
	Type   string
	Result document.Document
}

// Decode parses a serialized envelope. Numbers are preserved as json.Number
// so the round trip through Marshal is lossless.
func Decode(r io.Reader) (*Decoded, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw struct {
		Type     string   `json:"type"`
		Metadata Metadata `json:"metadata"`
		Result   []struct {
			Type   string            `json:"type"`
			Result document.Document `json:"result"`
		} `json:"result"`
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	out := &Decoded{Type: raw.Type, Metadata: raw.Metadata}
	for _, entry := range raw.Result {
		out.Result = append(out.Result, DecodedResult{Type: entry.Type, Result: entry.Result})
	}
	return out, nil
}

// DecodeBytes is a convenience wrapper over Decode.
func DecodeBytes(data []byte) (*Decoded, error) {
	return Decode(bytes.NewReader(data))
}
