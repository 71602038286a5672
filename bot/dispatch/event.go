package dispatch

// Sender identifies who produced an event.
type Sender struct {
	ID        int64
	FirstName string
	Username  string
}

// Event is one inbound update. The concrete type is one of TextMessage, Command or ButtonTap.
type Event interface {
	ChatID() int64
	From() Sender
	isEvent()
}

// TextMessage is plain text that is not a command.
type TextMessage struct {
	Chat   int64
	Sender Sender
	Text   string
}

// Command is a slash command. Name has no leading slash and no @bot suffix.
type Command struct {
	Chat    int64
	Sender  Sender
	Name    string
	Payload string
}

// ButtonTap is an inline keyboard callback.
type ButtonTap struct {
	Chat   int64
	Sender Sender
	Data   string
}

func (e TextMessage) ChatID() int64 { return e.Chat }
func (e TextMessage) From() Sender  { return e.Sender }
func (TextMessage) isEvent()        {}

func (e Command) ChatID() int64 { return e.Chat }
func (e Command) From() Sender  { return e.Sender }
func (Command) isEvent()        {}

func (e ButtonTap) ChatID() int64 { return e.Chat }
func (e ButtonTap) From() Sender  { return e.Sender }
func (ButtonTap) isEvent()        {}
