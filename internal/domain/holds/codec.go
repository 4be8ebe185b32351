package holds

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire format, shared with storage and wall controllers:
//
//	{"holds": {"<holdId>": {"Used": "<Start|Foot|Hand|Finish>"}, ...}}
//
// Unused holds are never serialized; their absence is the representation.
// Encoding is deterministic: the same configuration always yields identical
// bytes (json.Marshal emits map keys in sorted order), so encoded forms can
// be content-hashed and diffed.

type usedState struct {
	Used Role `json:"Used"`
}

type envelope struct {
	Holds map[string]usedState `json:"holds"`
}

// DecodeError describes malformed serialized input, naming the offending
// hold key when one is known.
type DecodeError struct {
	Key    string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("decode hold configuration: key %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("decode hold configuration: %s", e.Reason)
}

// Encode serializes c into canonical form. It rejects configurations holding
// role values outside the contract rather than emitting them.
func Encode(c Configuration) ([]byte, error) {
	env := envelope{Holds: make(map[string]usedState, c.Len())}
	for id, role := range c {
		if !role.Valid() {
			return nil, fmt.Errorf("encode hold configuration: key %q: unknown role %q", id, role)
		}
		env.Holds[id] = usedState{Used: role}
	}
	return json.Marshal(env)
}

// Decode parses canonical form back into a Configuration. Malformed input
// fails with a DecodeError; unknown role tags fail rather than being coerced
// to "not used", and explicit NotUsed entries are rejected outright.
func Decode(data []byte) (Configuration, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Reason: "empty input"}
	}

	var raw struct {
		Holds map[string]json.RawMessage `json:"holds"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	if raw.Holds == nil {
		return nil, &DecodeError{Reason: `missing "holds" object`}
	}

	out := make(Configuration, len(raw.Holds))
	for id, entry := range raw.Holds {
		var state map[string]string
		if err := json.Unmarshal(entry, &state); err != nil {
			return nil, &DecodeError{Key: id, Reason: "hold entry is not an object of the form {\"Used\": \"<role>\"}"}
		}
		if len(state) != 1 {
			return nil, &DecodeError{Key: id, Reason: fmt.Sprintf("hold entry must carry exactly one state tag, got %d", len(state))}
		}
		tag, ok := state["Used"]
		if !ok {
			for k := range state {
				return nil, &DecodeError{Key: id, Reason: fmt.Sprintf("unknown state tag %q", k)}
			}
		}
		role := Role(tag)
		if !role.Valid() {
			return nil, &DecodeError{Key: id, Reason: fmt.Sprintf("unknown role %q", tag)}
		}
		out[id] = role
	}
	return out, nil
}
