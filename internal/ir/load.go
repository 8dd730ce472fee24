package ir

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadDocument decodes exactly one YAML document from r.
func LoadDocument(r io.Reader) (*yaml.Node, error) {
	dec := yaml.NewDecoder(r)

	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: could not parse YAML: %v", ErrStructural, err)
		}
		docs = append(docs, &doc)
	}

	if len(docs) != 1 {
		return nil, fmt.Errorf("%w: incompatible number of YAML documents found in input: 1 expected, but %d seen", ErrStructural, len(docs))
	}
	return docs[0], nil
}
