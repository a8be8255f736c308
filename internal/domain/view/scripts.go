package view

import (
	"fmt"
	"strconv"
)

// Names the page stylesheet is written against
const (
	ZoomClass      = "__MAX_ZOOM__"
	DragClass      = "__DRAGMODE__"
	OffsetProperty = "--OBJX"
)

// ZoomScript toggles the max-zoom presentation class on the document element
func ZoomScript(on bool) string {
	return classToggle(ZoomClass, on)
}

// DragScript toggles the drag-mode class on the document element
func DragScript(on bool) string {
	return classToggle(DragClass, on)
}

// OffsetScript sets the crop offset custom property to objX percent
func OffsetScript(objX int) string {
	return fmt.Sprintf("document.documentElement.style.setProperty(%s, %s);",
		strconv.Quote(OffsetProperty), strconv.Quote(OffsetValue(objX)))
}

// OffsetValue formats objX as a CSS percentage
func OffsetValue(objX int) string {
	return strconv.Itoa(objX) + "%"
}

func classToggle(class string, on bool) string {
	return fmt.Sprintf("document.documentElement.classList.toggle(%s, %t);", strconv.Quote(class), on)
}
