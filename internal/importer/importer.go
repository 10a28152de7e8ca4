package importer

import (
	"io"

	"github.com/mvillard/immogest/internal/ledger"
)

// Format identifies a supported statement export format.
type Format string

const (
	FormatReleve Format = "releve"
)

type Parser interface {
	Parse(r io.Reader) ([]ledger.RecordParams, error)
}
