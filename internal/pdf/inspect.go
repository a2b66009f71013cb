package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned when the input lacks the %PDF- header
var ErrNotPDF = errors.New("not a PDF document")

var disableConfigDir sync.Once

// Info summarizes a PDF document
type Info struct {
	Pages   int    `json:"pages"`
	Size    int    `json:"size"`
	Version string `json:"version"`
}

// Inspect validates a PDF in relaxed mode and counts its pages
func Inspect(data []byte) (*Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	// pdfcpu would otherwise create ~/.config/pdfcpu on first use
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	return &Info{
		Pages:   pages,
		Size:    len(data),
		Version: headerVersion(data),
	}, nil
}

// headerVersion reads "1.3" out of "%PDF-1.3"
func headerVersion(data []byte) string {
	rest := data[len("%PDF-"):]
	end := bytes.IndexAny(rest, "\r\n \t%")
	if end < 0 || end > 8 {
		end = min(len(rest), 3)
	}
	return string(rest[:end])
}
