package menu

// Mode tells the gateway whether a screen overwrites the message the user
// tapped or goes out as a new message.
type Mode int

const (
	Replace Mode = iota
	Append
)

func (m Mode) String() string {
	if m == Replace {
		return "replace"
	}
	return "append"
}

type Button struct {
	Label  string
	Action Action
}

// Screen is one outbound message. Text is HTML. When Images is set the text
// becomes the caption of the first image.
type Screen struct {
	Mode    Mode
	Text    string
	Images  []string
	Buttons []Button
}

// Response is everything one request produces, in delivery order.
// DropOrigin asks the gateway to delete the message that triggered it.
type Response struct {
	Screens    []Screen
	DropOrigin bool
}

func single(mode Mode, text string, buttons ...Button) Response {
	return Response{Screens: []Screen{{Mode: mode, Text: text, Buttons: buttons}}}
}

func back(label string, to Action) Button {
	return Button{Label: label, Action: to}
}
