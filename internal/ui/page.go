package ui

// Page groups the views of the chat screen.
type Page struct {
	Transcript *Transcript
	Sidebar    *Sidebar
	Form       *Form
}

func NewPage() *Page {
	return &Page{
		Transcript: NewTranscript(),
		Sidebar:    NewSidebar(),
		Form:       NewForm(),
	}
}
