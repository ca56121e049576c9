package output

import (
	"context"
	"fmt"
	"io"

	"github.com/liftedinit/hashchain/internal/models"
)

const (
	FormatJSON = "json"
	FormatTSV  = "tsv"

	// Stdout as an output location writes to the command's standard output.
	Stdout = "-"
)

type OutputHandler interface {
	WriteBlocks(ctx context.Context, blocks []*models.Block) error
	Close() error
}

// New returns the handler for format writing to out, or to stdout when out is Stdout.
func New(format, out string, stdout io.Writer) (OutputHandler, error) {
	switch format {
	case FormatJSON:
		if out == Stdout {
			return NewJSONStreamHandler(stdout), nil
		}
		return NewJSONOutputHandler(out)
	case FormatTSV:
		if out == Stdout {
			return NewTSVStreamHandler(stdout), nil
		}
		return NewTSVOutputHandler(out)
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
