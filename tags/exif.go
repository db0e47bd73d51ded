package tags

// IDs the rest of the module refers to by name.
const (
	InteropIndex        uint16 = 0x0001
	DateTime            uint16 = 0x0132
	JPEGInterchange     uint16 = 0x0201
	JPEGInterchangeLen  uint16 = 0x0202
	ExifIFDPointer      uint16 = 0x8769
	GPSIFDPointer       uint16 = 0x8825
	DateTimeOriginal    uint16 = 0x9003
	DateTimeDigitized   uint16 = 0x9004
	InteropIFDPointer   uint16 = 0xA005
	GPSLatitude         uint16 = 0x0002
	GPSLatitudeRef      uint16 = 0x0001
	GPSLongitude        uint16 = 0x0004
	GPSLongitudeRef     uint16 = 0x0003
	GPSVersionID        uint16 = 0x0000
	Make                uint16 = 0x010F
	Model               uint16 = 0x0110
	Orientation         uint16 = 0x0112
	XResolution         uint16 = 0x011A
	YResolution         uint16 = 0x011B
	ResolutionUnit      uint16 = 0x0128
	Software            uint16 = 0x0131
	ExposureTime        uint16 = 0x829A
	FNumber             uint16 = 0x829D
	ExifVersion         uint16 = 0x9000
	UserComment         uint16 = 0x9286
	ExposureBiasValue   uint16 = 0x9204
	ComponentsConfig    uint16 = 0x9101
	MakerNote           uint16 = 0x927C
	FocalLength         uint16 = 0x920A
	LensSpecification   uint16 = 0xA432
	OffsetTimeOriginal  uint16 = 0x9011
	SubsecTimeOriginal  uint16 = 0x9291
	InteropVersion      uint16 = 0x0002
	ImageWidth          uint16 = 0x0100
	ImageLength         uint16 = 0x0101
	YCbCrPositioning    uint16 = 0x0213
	ExifImageWidth      uint16 = 0xA002
	ExifImageHeight     uint16 = 0xA003
	ColorSpace          uint16 = 0xA001
	FlashPixVersion     uint16 = 0xA000
	ISOSpeedRatings     uint16 = 0x8827
	ShutterSpeedValue   uint16 = 0x9201
	ApertureValue       uint16 = 0x9202
	BrightnessValue     uint16 = 0x9203
	GPSAltitude         uint16 = 0x0006
	GPSAltitudeRef      uint16 = 0x0005
	GPSTimeStamp        uint16 = 0x0007
	GPSDateStamp        uint16 = 0x001D
	GPSProcessingMethod uint16 = 0x001B
)
