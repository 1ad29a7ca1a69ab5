package utils

// Single-expansion state for the event detail page's info sections: at most
// one section is expanded at a time.
type Accordion struct {
	openID string
}

// Toggle the section with the given ID: close it if it's the open one, else
// make it the only open one.
func (a *Accordion) Toggle(id string) {
	if a.openID == id {
		a.openID = ""
		return
	}
	a.openID = id
}

// The currently expanded section ID, blank when everything is collapsed.
func (a *Accordion) Open() string {
	return a.openID
}

func (a *Accordion) IsOpen(id string) bool {
	return id != "" && a.openID == id
}
