package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// FileSource reads a register CSV from the local file system.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

func (s *FileSource) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	path := strings.TrimPrefix(id, "file://")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer file.Close()

	return DecodeRegisterCSV(file)
}
