package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// subtypeInfo is the content database for the informational dialog: the five
// clinical hemorrhage subtypes the service scores.
var subtypeInfo = []struct {
	Name string
	Desc string
}{
	{
		Name: "Intraparenchymal",
		Desc: "Bleeding within the brain tissue itself, most often caused by hypertension, trauma or vascular malformation.",
	},
	{
		Name: "Intraventricular",
		Desc: "Bleeding into the ventricular system where cerebrospinal fluid is produced, frequently an extension of another hemorrhage type.",
	},
	{
		Name: "Subarachnoid",
		Desc: "Bleeding into the space between the arachnoid membrane and the pia mater, classically from a ruptured aneurysm.",
	},
	{
		Name: "Subdural",
		Desc: "Bleeding between the dura and the arachnoid membrane, usually from torn bridging veins after head trauma.",
	},
	{
		Name: "Epidural",
		Desc: "Bleeding between the skull and the dura mater, typically arterial and associated with skull fracture.",
	},
}

func showSubtypeInfo(w fyne.Window) {
	items := make([]*widget.AccordionItem, 0, len(subtypeInfo))
	for _, info := range subtypeInfo {
		desc := widget.NewLabel(info.Desc)
		desc.Wrapping = fyne.TextWrapWord
		items = append(items, widget.NewAccordionItem(info.Name, desc))
	}
	acc := widget.NewAccordion(items...)
	d := dialog.NewCustom("Hemorrhage types", "Close", acc, w)
	d.Resize(fyne.NewSize(460, 420))
	d.Show()
}
