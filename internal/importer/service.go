package importer

import (
	"fmt"
	"io"

	"github.com/mvillard/immogest/internal/importer/releve"
	"github.com/mvillard/immogest/internal/ledger"
)

type Service struct {
	releveParser Parser
}

func NewService() *Service {
	return &Service{
		releveParser: releve.NewParser(),
	}
}

// Import parses a bank statement into ledger entry params for review.
// Nothing is recorded until the caller confirms the parsed entries.
func (s *Service) Import(format Format, r io.Reader) ([]ledger.RecordParams, error) {
	var parser Parser

	switch format {
	case FormatReleve:
		parser = s.releveParser
	default:
		return nil, fmt.Errorf("unknown statement format: %s", format)
	}

	return parser.Parse(r)
}
