package engine

// Command is a declarative side effect for the host shell. The engine
// never performs I/O itself; it describes what should happen and the
// shell decides how.
type Command interface{ isCommand() }

// ScrollTo reports that the viewport moved to keep the primary cursor
// visible; hosts that animate scrolling can use it as the target.
type ScrollTo struct{ Line, Col int }

// RequestSave asks the host to write content, already serialized in the
// document's line-ending convention, to path.
type RequestSave struct {
	Path    string
	Content string
}

// RequestLoad asks the host to read path and reply with a Loaded
// message.
type RequestLoad struct{ Path string }

// SetClipboard asks the host to place text on the system clipboard.
// With multiple selections the runs are newline-joined.
type SetClipboard struct{ Text string }

func (ScrollTo) isCommand()     {}
func (RequestSave) isCommand()  {}
func (RequestLoad) isCommand()  {}
func (SetClipboard) isCommand() {}
