package shell

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vellum-editor/vellum/internal/engine"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
)

// translateKey maps one key event to an engine message. quit reports
// that the user asked to exit; a nil message means the key is unbound.
func translateKey(ev *tcell.EventKey, clipboard string) (msg engine.Msg, quit bool) {
	shift := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	alt := ev.Modifiers()&tcell.ModAlt != 0

	move := func(dir cursor.Direction, gran cursor.Granularity) engine.Msg {
		if shift {
			return engine.ExtendSelection{Dir: dir, Gran: gran}
		}
		return engine.MoveCursor{Dir: dir, Gran: gran}
	}
	hgran := cursor.Char
	if ctrl {
		hgran = cursor.Word
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return nil, true
	case tcell.KeyCtrlS:
		return engine.Save{}, false
	case tcell.KeyCtrlZ:
		return engine.Undo{}, false
	case tcell.KeyCtrlY:
		return engine.Redo{}, false
	case tcell.KeyCtrlA:
		return engine.SelectAll{}, false
	case tcell.KeyCtrlC:
		return engine.Copy{}, false
	case tcell.KeyCtrlX:
		return engine.Cut{}, false
	case tcell.KeyCtrlV:
		if clipboard == "" {
			return nil, false
		}
		return engine.InsertText{Text: clipboard}, false
	case tcell.KeyCtrlN:
		return engine.FindNext{}, false
	case tcell.KeyCtrlP:
		return engine.FindPrev{}, false

	case tcell.KeyLeft:
		return move(cursor.Left, hgran), false
	case tcell.KeyRight:
		return move(cursor.Right, hgran), false
	case tcell.KeyUp:
		if alt {
			return engine.AddCursorAbove{}, false
		}
		return move(cursor.Up, cursor.Line), false
	case tcell.KeyDown:
		if alt {
			return engine.AddCursorBelow{}, false
		}
		return move(cursor.Down, cursor.Line), false
	case tcell.KeyHome:
		if ctrl {
			return move(cursor.Left, cursor.Document), false
		}
		return move(cursor.Left, cursor.LineBoundary), false
	case tcell.KeyEnd:
		if ctrl {
			return move(cursor.Right, cursor.Document), false
		}
		return move(cursor.Right, cursor.LineBoundary), false
	case tcell.KeyPgUp:
		return move(cursor.Up, cursor.Page), false
	case tcell.KeyPgDn:
		return move(cursor.Down, cursor.Page), false

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return engine.DeleteBackward{}, false
	case tcell.KeyDelete:
		return engine.DeleteForward{}, false
	case tcell.KeyEnter:
		return engine.InsertText{Text: "\n"}, false
	case tcell.KeyTab:
		return engine.InsertText{Text: "\t"}, false
	case tcell.KeyEscape:
		return engine.CollapseCursors{}, false

	case tcell.KeyRune:
		return engine.InsertText{Text: string(ev.Rune())}, false
	}
	return nil, false
}
