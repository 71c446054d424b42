package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// encodeFields serializes a field list for the fields BLOB column.
func encodeFields(fields []string) ([]byte, error) {
	if fields == nil {
		fields = []string{}
	}
	data, err := msgpack.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return data, nil
}

// decodeFields parses a fields BLOB. Returns an empty slice, never nil.
func decodeFields(data []byte) ([]string, error) {
	var fields []string
	if err := msgpack.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	if fields == nil {
		fields = []string{}
	}
	return fields, nil
}
