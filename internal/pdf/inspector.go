package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/sinedd777/resume-reviewer/internal/domain"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNoPages = errors.New("pdf has no pages")

var disableConfigDir sync.Once

// Inspector reads page geometry from PDF bytes.
type Inspector struct {
	conf *model.Configuration
}

func NewInspector() *Inspector {
	// pdfcpu otherwise creates a config dir under the user's home on first use
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// Pages returns the size of every page in PDF points. It fails when data is
// not a readable PDF.
func (i *Inspector) Pages(data []byte) ([]domain.PageSize, error) {
	dims, err := api.PageDims(bytes.NewReader(data), i.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	if len(dims) == 0 {
		return nil, ErrNoPages
	}

	pages := make([]domain.PageSize, 0, len(dims))
	for _, d := range dims {
		pages = append(pages, domain.PageSize{Width: d.Width, Height: d.Height})
	}
	return pages, nil
}
