package writer

// Point is one sample of the input stream.
type Point struct {
	X, Y, Z   float64
	R, G, B   uint8
	Intensity float64
	GPSTime   float64
}

// Prototype field names, in column order.
const (
	FieldCartesianX = "cartesianX"
	FieldCartesianY = "cartesianY"
	FieldCartesianZ = "cartesianZ"
	FieldColorRed   = "colorRed"
	FieldColorGreen = "colorGreen"
	FieldColorBlue  = "colorBlue"
	FieldIntensity  = "intensity"
	FieldTimeStamp  = "timeStamp"
)
