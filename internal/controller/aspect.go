package controller

import "ascii-form/internal/page"

// BindAspectToggle shows the size options only while the aspect mode is
// fixed. The current value is applied immediately.
func BindAspectToggle(doc page.Document) bool {
	sel := doc.Select(AspectModeID)
	group := doc.Group(SizeOptionsID)
	if sel == nil || group == nil {
		return false
	}

	apply := func(value string) {
		group.SetHidden(value != FixedAspect)
	}
	apply(sel.Value())
	sel.OnChange(apply)
	return true
}
