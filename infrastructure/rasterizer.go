package infrastructure

import (
	"bytes"
	"fmt"
	"image"

	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"

	"github.com/kkratossdead/Cv-Ia/domain"
)

// Pages are upscaled 2x linearly so text stays legible for the vision model.
const rasterScale = 2.0

// PDFRasterizer renders PDF pages to in-memory images. It touches no disk:
// nothing has to be cleaned up on any exit path.
type PDFRasterizer struct{}

func NewPDFRasterizer() *PDFRasterizer {
	return &PDFRasterizer{}
}

// Rasterize converts a complete PDF byte buffer into one image per page, in
// page order. Empty buffers, non-PDF input and zero-page documents fail with
// *domain.DocumentError; an empty image slice is never returned with a nil
// error.
func (r *PDFRasterizer) Rasterize(data []byte) ([]image.Image, error) {
	if len(data) == 0 {
		return nil, &domain.DocumentError{Reason: "empty document"}
	}

	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.DocumentError{Reason: "not a valid PDF", Err: err}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, &domain.DocumentError{Reason: "read page count", Err: err}
	}
	if numPages == 0 {
		return nil, &domain.DocumentError{Reason: "PDF has no pages"}
	}

	device := render.NewImageDevice()
	images := make([]image.Image, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return nil, &domain.DocumentError{Reason: fmt.Sprintf("read page %d", i), Err: err}
		}

		if box, err := page.GetMediaBox(); err == nil {
			device.OutputWidth = int(box.Width() * rasterScale)
		}

		img, err := device.Render(page)
		if err != nil {
			return nil, &domain.DocumentError{Reason: fmt.Sprintf("render page %d", i), Err: err}
		}
		images = append(images, img)
	}

	return images, nil
}
