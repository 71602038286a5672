// Package menu builds the two inline menu screens and resolves button taps.
package menu

import "github.com/m3rciful/screambot/bot/dispatch"

// Callback data carried by the menu buttons.
const (
	NextButton     = "Next"
	BackButton     = "Back"
	TutorialButton = "Tutorial"

	TutorialURL = "https://core.telegram.org/bots/api"
)

const (
	firstText  = "<b>Menu 1</b>\n\nA beautiful menu with a shiny inline button."
	secondText = "<b>Menu 2</b>\n\nA better menu with even more shiny inline buttons."
)

// Screen is one page of the menu.
type Screen struct {
	Text   string
	Markup *dispatch.Markup
}

// First is the screen sent by /menu.
func First() Screen {
	return Screen{
		Text: firstText,
		Markup: &dispatch.Markup{Rows: [][]dispatch.Button{
			{{Text: NextButton, Data: NextButton}},
		}},
	}
}

// Second is the screen reached with Next.
func Second() Screen {
	return Screen{
		Text: secondText,
		Markup: &dispatch.Markup{Rows: [][]dispatch.Button{
			{{Text: BackButton, Data: BackButton}},
			{{Text: TutorialButton, URL: TutorialURL}},
		}},
	}
}

// ForTap returns the screen a button tap navigates to.
func ForTap(data string) (Screen, bool) {
	switch data {
	case NextButton:
		return Second(), true
	case BackButton:
		return First(), true
	}
	return Screen{}, false
}

// Send renders s as a new HTML message.
func (s Screen) Send() dispatch.Response {
	return dispatch.Response{Text: s.Text, ParseMode: dispatch.ParseHTML, Markup: s.Markup}
}

// Edit renders s as an in-place edit of the tapped message.
func (s Screen) Edit() dispatch.Response {
	r := s.Send()
	r.Edit = true
	return r
}
