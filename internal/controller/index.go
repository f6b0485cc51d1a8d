package controller

import (
	"ascii-form/internal/form"
	"ascii-form/internal/page"
)

// Index holds the elements of the generator's index page.
type Index struct {
	*page.Memory

	UploadForm   *page.FormElement
	UploadSubmit *page.Button
	AspectMode   *page.SelectElement
	SizeOptions  *page.GroupElement
	BannerForm   *page.FormElement
	BannerSubmit *page.Button
	Output       *page.TextElement
}

// NewIndex builds an in-memory copy of the index page: the upload form with
// its file, aspect mode and size fields, the banner form, and the output.
func NewIndex() *Index {
	m := page.NewMemory()
	ix := &Index{Memory: m}

	ix.UploadForm = m.AddForm(Upload.FormID)
	ix.UploadForm.SetFile("file", &form.File{})
	ix.AspectMode = m.AddSelect(AspectModeID, ix.UploadForm, "aspectMode", "scale")
	ix.SizeOptions = m.AddGroup(SizeOptionsID)
	ix.UploadForm.Set("width", "")
	ix.UploadForm.Set("height", "")
	ix.UploadSubmit = m.AddButton(Upload.ControlID, ix.UploadForm)

	ix.BannerForm = m.AddForm(Banner.FormID)
	ix.BannerForm.Set("bannerText", "")
	ix.BannerSubmit = m.AddButton(Banner.ControlID, ix.BannerForm)

	ix.Output = m.AddText(OutputID)
	return ix
}
