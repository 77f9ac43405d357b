// Package introspect classifies schema nodes into the closed set of widget
// shapes the renderers dispatch on. The classification is total and
// deterministic: every supported node maps to exactly one Shape, and
// unsupported nodes fail loudly instead of rendering nothing.
package introspect

// Shape is the rendering category a schema node maps to.
type Shape int

const (
	ShapeUnsupported Shape = iota
	ShapeSingleString
	ShapeSingleInteger
	ShapeSingleNumber
	ShapeSingleBoolean
	ShapeSingleEnum
	ShapeMultiEnum
	ShapeSingleDateTime
	ShapeSingleDate
	ShapeSingleTime
	ShapeSingleColor
	ShapeSingleFile
	ShapeMultiFile
	ShapeSingleDict
	ShapeSingleObject
	ShapeObjectList
	ShapePrimitiveList
	ShapeUnion
)

var shapeNames = map[Shape]string{
	ShapeUnsupported:    "unsupported",
	ShapeSingleString:   "string",
	ShapeSingleInteger:  "integer",
	ShapeSingleNumber:   "number",
	ShapeSingleBoolean:  "boolean",
	ShapeSingleEnum:     "enum",
	ShapeMultiEnum:      "multi-enum",
	ShapeSingleDateTime: "datetime",
	ShapeSingleDate:     "date",
	ShapeSingleTime:     "time",
	ShapeSingleColor:    "color",
	ShapeSingleFile:     "file",
	ShapeMultiFile:      "multi-file",
	ShapeSingleDict:     "dict",
	ShapeSingleObject:   "object",
	ShapeObjectList:     "object-list",
	ShapePrimitiveList:  "list",
	ShapeUnion:          "union",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unsupported"
}

// IsScalar reports whether the shape renders as a single flat widget.
func (s Shape) IsScalar() bool {
	switch s {
	case ShapeSingleString, ShapeSingleInteger, ShapeSingleNumber,
		ShapeSingleBoolean, ShapeSingleEnum, ShapeSingleDateTime,
		ShapeSingleDate, ShapeSingleTime, ShapeSingleColor:
		return true
	default:
		return false
	}
}
