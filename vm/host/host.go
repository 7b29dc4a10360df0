// Package host defines the capability interfaces the VM dispatches
// CALL_NATIVE operations against. Each interface groups one device class's
// operations (Console, Display, Encoder, Touch, RFID, System, FileSystem,
// GPIO, I2C, Buzzer, Timers, Memory, Power, Storage, Sensor, WiFi, HTTP,
// IPC, App), composed into a single Host the VM owns for its lifetime —
// adapted from KTStephano-GVM's HardwareDevice capability-object pattern
// (one small interface per device class, dispatched by the CPU core) from
// its register-machine device-port model to the named-method-per-capability
// shape this language's native call table expects.
package host

// Console is the script's text-output surface.
type Console interface {
	Print(s string)
	Println(s string)
	Log(s string)
	Warn(s string)
	Error(s string)
	Clear()
}

// Display is the dial device's circular framebuffer. Colors are packed
// RGB565 in a 32-bit operand.
type Display interface {
	Clear(color uint32)
	DrawPixel(x, y int32, color uint32)
	DrawLine(x1, y1, x2, y2 int32, color uint32)
	DrawRect(x, y, w, h int32, color uint32, filled bool)
	DrawCircle(x, y, r int32, color uint32, filled bool)
	DrawText(x, y int32, text string, color uint32, size int32)
	DrawImage(x, y int32, data []byte)
	SetBrightness(level int32)
	SetTitle(title string)
	GetWidth() int32
	GetHeight() int32
}

// Encoder is the rotary-encoder input device.
type Encoder interface {
	GetButton() bool
	GetDelta() int32
	GetPosition() int32
	Reset()
}

// Touch is the touch-surface input device.
type Touch interface {
	IsPressed() bool
	GetX() int32
	GetY() int32
}

// RFID is the RFID reader.
type RFID interface {
	IsPresent() bool
	Read() string
}

// System exposes clock and cooperative-yield operations.
type System interface {
	GetTime() uint32 // ms since boot
	GetRTC() uint32  // epoch seconds
	SetRTC(epoch uint32)
	Sleep(ms uint32)
	Yield()
}

// FileSystem is the file/directory capability.
type FileSystem interface {
	Open(path, mode string) (int32, error)
	Read(handle int32, size int32) (string, error)
	Write(handle int32, data string) (int32, error)
	Close(handle int32) error
	Exists(path string) bool
	Delete(path string) error
	Size(path string) (int32, error)
	DirList(path string) ([]string, error)
	DirCreate(path string) error
	DirDelete(path string) error
	DirExists(path string) bool
}

// GPIO is general-purpose pin I/O.
type GPIO interface {
	PinMode(pin int32, mode int32)
	DigitalWrite(pin int32, high bool)
	DigitalRead(pin int32) bool
	AnalogWrite(pin int32, value int32)
	AnalogRead(pin int32) int32
}

// I2C is the two-wire bus.
type I2C interface {
	Write(addr int32, data []byte) error
	Read(addr int32, length int32) ([]byte, error)
}

// Buzzer is the piezo tone output.
type Buzzer interface {
	Tone(frequency int32, durationMs int32)
	Stop()
}

// Timers registers one-shot and repeating callbacks. The Value a Function
// callback is invoked with is supplied by the VM, not the host; Timers
// only tracks scheduling.
type Timers interface {
	SetInterval(ms int32) (id int32)
	SetTimeout(ms int32) (id int32)
	ClearInterval(id int32)
	ClearTimeout(id int32)
}

// Memory reports host-side memory pressure, distinct from the VM's own
// script-heap accounting.
type Memory interface {
	FreeBytes() uint32
	TotalBytes() uint32
}

// Power is the device power controller.
type Power interface {
	BatteryPercent() int32
	IsCharging() bool
	Restart()
	PowerOff()
}

// Storage is a small persistent key/value surface distinct from FileSystem.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Sensor is a generic named-sensor reading surface (accelerometer,
// temperature, etc.) keyed by sensor id.
type Sensor interface {
	Read(sensorID int32) (float32, error)
}

// WiFi is network connectivity control.
type WiFi interface {
	Connect(ssid, password string) error
	Disconnect()
	IsConnected() bool
	RSSI() int32
}

// HTTP is a minimal outbound request surface.
type HTTP interface {
	Get(url string) (status int32, body string, err error)
	Post(url, contentType, body string) (status int32, respBody string, err error)
}

// IPC is inter-app message passing.
type IPC interface {
	Send(appID string, message string) error
	Receive() (appID string, message string, ok bool)
}

// App is app lifecycle control.
type App interface {
	Install(path string) error
	Uninstall(appID string) error
	List() []string
	Launch(appID string) error
	Exit()
}

// Host composes every capability the native call table may dispatch to.
// A Host is owned exclusively by the VM for its lifetime; script code
// never holds a reference to it directly.
type Host interface {
	Console() Console
	Display() Display
	Encoder() Encoder
	Touch() Touch
	RFID() RFID
	System() System
	FileSystem() FileSystem
	GPIO() GPIO
	I2C() I2C
	Buzzer() Buzzer
	Timers() Timers
	Memory() Memory
	Power() Power
	Storage() Storage
	Sensor() Sensor
	WiFi() WiFi
	HTTP() HTTP
	IPC() IPC
	App() App
}
