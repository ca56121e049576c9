package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/liftedinit/hashchain/internal/models"
)

const blockFilePattern = "block_*.json"

// JSONOutputHandler writes one JSON file per block under <outDir>/block.
type JSONOutputHandler struct {
	blockDir string
}

func NewJSONOutputHandler(outDir string) (*JSONOutputHandler, error) {
	blockDir := filepath.Join(outDir, "block")

	err := os.MkdirAll(blockDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create blocks directory: %w", err)
	}

	// A previous export may be longer than this one.
	stale, err := filepath.Glob(filepath.Join(blockDir, blockFilePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list existing block files: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove stale block file: %w", err)
		}
	}

	return &JSONOutputHandler{
		blockDir: blockDir,
	}, nil
}

func (h *JSONOutputHandler) WriteBlocks(ctx context.Context, blocks []*models.Block) error {
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.writeBlock(block); err != nil {
			return fmt.Errorf("failed to write block %d: %w", block.ID, err)
		}
	}
	return nil
}

func (h *JSONOutputHandler) writeBlock(block *models.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return err
	}
	fileName := fmt.Sprintf("block_%010d.json", block.ID)
	filePath := filepath.Join(h.blockDir, fileName)
	return os.WriteFile(filePath, data, 0644)
}

func (h *JSONOutputHandler) Close() error {
	return nil
}

// JSONStreamHandler writes the whole sequence as one indented JSON array.
type JSONStreamHandler struct {
	w io.Writer
}

func NewJSONStreamHandler(w io.Writer) *JSONStreamHandler {
	return &JSONStreamHandler{w: w}
}

func (h *JSONStreamHandler) WriteBlocks(_ context.Context, blocks []*models.Block) error {
	enc := json.NewEncoder(h.w)
	enc.SetIndent("", "  ")
	return enc.Encode(blocks)
}

func (h *JSONStreamHandler) Close() error {
	return nil
}

// ReadJSONBlocks loads a block sequence written by either JSON handler. path is
// a JSON array file, or an output directory holding block/block_*.json files.
func ReadJSONBlocks(path string) ([]json.RawMessage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var blocks []json.RawMessage
		if err := json.Unmarshal(data, &blocks); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return blocks, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "block", blockFilePattern))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no block files found in %s", path)
	}
	// Zero-padded names sort in id order.
	slices.Sort(files)

	blocks := make([]json.RawMessage, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, data)
	}
	return blocks, nil
}
