package canvas

// Tool identifies the active board tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPaint
	ToolErase
	ToolPan
	ToolLine
	ToolRect
	ToolCircle
	ToolFill
	ToolEyedropper
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPaint:
		return "paint"
	case ToolErase:
		return "erase"
	case ToolPan:
		return "pan"
	case ToolLine:
		return "line"
	case ToolRect:
		return "rect"
	case ToolCircle:
		return "circle"
	case ToolFill:
		return "fill"
	case ToolEyedropper:
		return "eyedropper"
	default:
		return "unknown"
	}
}

// IsShape reports whether the tool draws a two-point shape via drag.
func (t Tool) IsShape() bool {
	return t == ToolLine || t == ToolRect || t == ToolCircle
}

// DragState is the engine's transient pointer state. Exactly one is active.
type DragState int

const (
	DragIdle DragState = iota
	DragPanning
	DragPainting
	DragShaping
	DragPreview
)

func (d DragState) String() string {
	switch d {
	case DragIdle:
		return "idle"
	case DragPanning:
		return "panning"
	case DragPainting:
		return "painting"
	case DragShaping:
		return "shaping"
	case DragPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// ShapeDraft is the start/end of an in-progress shape drag, in board
// coordinates. It exists only while a shape drag is active.
type ShapeDraft struct {
	Tool   Tool
	StartX int
	StartY int
	EndX   int
	EndY   int
}

// Button is a normalized pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)
