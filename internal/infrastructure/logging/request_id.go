package logging

import (
	"strings"

	"github.com/google/uuid"
)

// RequestIDGenerator produces prefixed request ids
type RequestIDGenerator struct {
	prefix string
}

func NewRequestIDGenerator(prefix string) *RequestIDGenerator {
	if prefix == "" {
		prefix = "req"
	}
	return &RequestIDGenerator{prefix: prefix}
}

// Generate returns {prefix}_{uuid without dashes}
func (g *RequestIDGenerator) Generate() string {
	return g.prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

var defaultGenerator = NewRequestIDGenerator("req")

func GenerateRequestID() string {
	return defaultGenerator.Generate()
}
