package docai

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON renders a provider response as indented JSON. Only used for
// the CLI's -debug-api dump; the output follows the proto field names,
// not this package's types.
func ToJSON(msg proto.Message) (string, error) {
	opts := protojson.MarshalOptions{Multiline: true, Indent: "  "}
	data, err := opts.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode response: %w", err)
	}
	return string(data), nil
}
