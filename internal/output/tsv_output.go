package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/liftedinit/hashchain/internal/models"
)

const blocksTSV = "blocks.tsv"

// TSVOutputHandler writes one line per block: id, timestamp, hash, prev_hash, nonce, data.
type TSVOutputHandler struct {
	blockFile   io.Closer
	blockWriter *bufio.Writer
}

func NewTSVOutputHandler(outDir string) (*TSVOutputHandler, error) {
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create output directory")
	}

	blockFile, err := os.Create(filepath.Join(outDir, blocksTSV))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create blocks TSV file")
	}

	return &TSVOutputHandler{
		blockFile:   blockFile,
		blockWriter: bufio.NewWriter(blockFile),
	}, nil
}

// NewTSVStreamHandler writes TSV lines to w. Closing it flushes but does not close w.
func NewTSVStreamHandler(w io.Writer) *TSVOutputHandler {
	return &TSVOutputHandler{
		blockWriter: bufio.NewWriter(w),
	}
}

func (h *TSVOutputHandler) WriteBlocks(_ context.Context, blocks []*models.Block) error {
	for _, block := range blocks {
		line := fmt.Sprintf("%d\t%d\t%s\t%s\t%d\t%s\n",
			block.ID, block.Timestamp, block.Hash, block.PrevHash, block.Nonce, string(block.Data))
		if _, err := h.blockWriter.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func (h *TSVOutputHandler) Close() error {
	if err := h.blockWriter.Flush(); err != nil {
		slog.Error("failed to flush block writer", "errors", err)
		return err
	}
	if h.blockFile == nil {
		return nil
	}
	if err := h.blockFile.Close(); err != nil {
		slog.Error("failed to close block file", "errors", err)
		return err
	}
	return nil
}
