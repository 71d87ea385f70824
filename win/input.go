package win

// VKey is a host virtual-key code.
type VKey uint16

// Virtual-key codes. Letters and digits use their ASCII values.
const (
	VKCancel   VKey = 0x03
	VKBack     VKey = 0x08
	VKTab      VKey = 0x09
	VKClear    VKey = 0x0C
	VKReturn   VKey = 0x0D
	VKShift    VKey = 0x10
	VKControl  VKey = 0x11
	VKMenu     VKey = 0x12
	VKPause    VKey = 0x13
	VKCapital  VKey = 0x14
	VKEscape   VKey = 0x1B
	VKSpace    VKey = 0x20
	VKPrior    VKey = 0x21
	VKNext     VKey = 0x22
	VKEnd      VKey = 0x23
	VKHome     VKey = 0x24
	VKLeft     VKey = 0x25
	VKUp       VKey = 0x26
	VKRight    VKey = 0x27
	VKDown     VKey = 0x28
	VKSnapshot VKey = 0x2C
	VKInsert   VKey = 0x2D
	VKDelete   VKey = 0x2E

	VKLWin VKey = 0x5B
	VKRWin VKey = 0x5C
	VKApps VKey = 0x5D

	VKNumpad0   VKey = 0x60
	VKNumpad1   VKey = 0x61
	VKNumpad2   VKey = 0x62
	VKNumpad3   VKey = 0x63
	VKNumpad4   VKey = 0x64
	VKNumpad5   VKey = 0x65
	VKNumpad6   VKey = 0x66
	VKNumpad7   VKey = 0x67
	VKNumpad8   VKey = 0x68
	VKNumpad9   VKey = 0x69
	VKMultiply  VKey = 0x6A
	VKAdd       VKey = 0x6B
	VKSeparator VKey = 0x6C
	VKSubtract  VKey = 0x6D
	VKDecimal   VKey = 0x6E
	VKDivide    VKey = 0x6F

	VKF1  VKey = 0x70
	VKF2  VKey = 0x71
	VKF3  VKey = 0x72
	VKF4  VKey = 0x73
	VKF5  VKey = 0x74
	VKF6  VKey = 0x75
	VKF7  VKey = 0x76
	VKF8  VKey = 0x77
	VKF9  VKey = 0x78
	VKF10 VKey = 0x79
	VKF11 VKey = 0x7A
	VKF12 VKey = 0x7B
	VKF13 VKey = 0x7C
	VKF14 VKey = 0x7D
	VKF15 VKey = 0x7E
	VKF16 VKey = 0x7F
	VKF17 VKey = 0x80
	VKF18 VKey = 0x81
	VKF19 VKey = 0x82
	VKF20 VKey = 0x83
	VKF21 VKey = 0x84
	VKF22 VKey = 0x85
	VKF23 VKey = 0x86
	VKF24 VKey = 0x87

	VKNumlock VKey = 0x90
	VKScroll  VKey = 0x91

	VKLShift   VKey = 0xA0
	VKRShift   VKey = 0xA1
	VKLControl VKey = 0xA2
	VKRControl VKey = 0xA3
	VKLMenu    VKey = 0xA4
	VKRMenu    VKey = 0xA5

	VKBrowserBack    VKey = 0xA6
	VKBrowserForward VKey = 0xA7
	VKBrowserRefresh VKey = 0xA8
	VKBrowserStop    VKey = 0xA9
	VKBrowserSearch  VKey = 0xAA
	VKBrowserHome    VKey = 0xAC
	VKVolumeMute     VKey = 0xAD
	VKVolumeDown     VKey = 0xAE
	VKVolumeUp       VKey = 0xAF
	VKMediaNext      VKey = 0xB0
	VKMediaPrev      VKey = 0xB1
	VKMediaStop      VKey = 0xB2
	VKMediaPlay      VKey = 0xB3
	VKLaunchMail     VKey = 0xB4
	VKLaunchApp1     VKey = 0xB6
	VKLaunchApp2     VKey = 0xB7

	VKOEM1      VKey = 0xBA // ;:
	VKOEMPlus   VKey = 0xBB
	VKOEMComma  VKey = 0xBC
	VKOEMMinus  VKey = 0xBD
	VKOEMPeriod VKey = 0xBE
	VKOEM2      VKey = 0xBF // /?
	VKOEM3      VKey = 0xC0 // `~
	VKOEM4      VKey = 0xDB // [{
	VKOEM5      VKey = 0xDC // \|
	VKOEM6      VKey = 0xDD // ]}
	VKOEM7      VKey = 0xDE // '"
	VKOEM8      VKey = 0xDF
	VKOEM102    VKey = 0xE2 // <> on 102-key layouts
)

// Keyboard event flags.
const (
	KeyEventExtended uint32 = 0x0001
	KeyEventUp       uint32 = 0x0002
)

// KeyboardInput is a synthesized host keyboard event.
type KeyboardInput struct {
	VKey  VKey
	Scan  uint16
	Flags uint32
	Time  uint32
}

// Mouse event flags.
const (
	MouseEventMove       uint32 = 0x0001
	MouseEventLeftDown   uint32 = 0x0002
	MouseEventLeftUp     uint32 = 0x0004
	MouseEventRightDown  uint32 = 0x0008
	MouseEventRightUp    uint32 = 0x0010
	MouseEventMiddleDown uint32 = 0x0020
	MouseEventMiddleUp   uint32 = 0x0040
	MouseEventWheel      uint32 = 0x0800
	MouseEventHWheel     uint32 = 0x1000
	MouseEventAbsolute   uint32 = 0x8000
)

// WheelDelta is the host wheel increment per detent.
const WheelDelta = 120

// MouseInput is a synthesized host mouse event. X and Y are absolute
// screen coordinates when MouseEventAbsolute is set and deltas
// otherwise.
type MouseInput struct {
	X, Y  int32
	Data  int32 // wheel distance for wheel events
	Flags uint32
	Time  uint32
}
