package dispatch

// ParseMode selects how Telegram renders Response.Text.
type ParseMode string

const (
	ParsePlain ParseMode = ""
	ParseHTML  ParseMode = "HTML"
)

// Button is an inline keyboard button. Exactly one of Data and URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Markup is an inline keyboard layout.
type Markup struct {
	Rows [][]Button
}

// Response is what the bot sends back. The zero Response sends nothing.
type Response struct {
	Text      string
	ParseMode ParseMode
	Markup    *Markup
	// Edit replaces the message the event came from instead of sending a new one.
	Edit bool
	// KeepEntities resends the formatting entities of the inbound message.
	KeepEntities bool
	// Notice is the short popup shown when answering a button tap.
	Notice string
}

// Empty reports whether nothing should be sent.
func (r Response) Empty() bool {
	return r.Text == "" && r.Notice == "" && r.Markup == nil
}
