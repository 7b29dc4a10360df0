package host

// Null is a Host whose every capability is a documented no-op or
// zero-value return, for tests and for embedding the VM without real
// hardware attached — adapted from KTStephano-GVM's nodevice "no device
// present" marker, one per capability instead of one per bus slot.
type Null struct{}

func NewNull() Host { return Null{} }

func (Null) Console() Console       { return nullConsole{} }
func (Null) Display() Display       { return nullDisplay{} }
func (Null) Encoder() Encoder       { return nullEncoder{} }
func (Null) Touch() Touch           { return nullTouch{} }
func (Null) RFID() RFID             { return nullRFID{} }
func (Null) System() System         { return nullSystem{} }
func (Null) FileSystem() FileSystem { return nullFileSystem{} }
func (Null) GPIO() GPIO             { return nullGPIO{} }
func (Null) I2C() I2C               { return nullI2C{} }
func (Null) Buzzer() Buzzer         { return nullBuzzer{} }
func (Null) Timers() Timers         { return nullTimers{} }
func (Null) Memory() Memory         { return nullMemory{} }
func (Null) Power() Power           { return nullPower{} }
func (Null) Storage() Storage       { return nullStorage{} }
func (Null) Sensor() Sensor         { return nullSensor{} }
func (Null) WiFi() WiFi             { return nullWiFi{} }
func (Null) HTTP() HTTP             { return nullHTTP{} }
func (Null) IPC() IPC               { return nullIPC{} }
func (Null) App() App               { return nullApp{} }

type nullConsole struct{}

func (nullConsole) Print(string)   {}
func (nullConsole) Println(string) {}
func (nullConsole) Log(string)     {}
func (nullConsole) Warn(string)    {}
func (nullConsole) Error(string)   {}
func (nullConsole) Clear()         {}

type nullDisplay struct{}

func (nullDisplay) Clear(uint32)                             {}
func (nullDisplay) DrawPixel(int32, int32, uint32)           {}
func (nullDisplay) DrawLine(int32, int32, int32, int32, uint32) {}
func (nullDisplay) DrawRect(int32, int32, int32, int32, uint32, bool) {}
func (nullDisplay) DrawCircle(int32, int32, int32, uint32, bool) {}
func (nullDisplay) DrawText(int32, int32, string, uint32, int32) {}
func (nullDisplay) DrawImage(int32, int32, []byte)           {}
func (nullDisplay) SetBrightness(int32)                      {}
func (nullDisplay) SetTitle(string)                          {}
func (nullDisplay) GetWidth() int32                          { return 0 }
func (nullDisplay) GetHeight() int32                         { return 0 }

type nullEncoder struct{}

func (nullEncoder) GetButton() bool   { return false }
func (nullEncoder) GetDelta() int32   { return 0 }
func (nullEncoder) GetPosition() int32 { return 0 }
func (nullEncoder) Reset()            {}

type nullTouch struct{}

func (nullTouch) IsPressed() bool { return false }
func (nullTouch) GetX() int32     { return 0 }
func (nullTouch) GetY() int32     { return 0 }

type nullRFID struct{}

func (nullRFID) IsPresent() bool { return false }
func (nullRFID) Read() string    { return "" }

type nullSystem struct{}

func (nullSystem) GetTime() uint32   { return 0 }
func (nullSystem) GetRTC() uint32    { return 0 }
func (nullSystem) SetRTC(uint32)     {}
func (nullSystem) Sleep(uint32)      {}
func (nullSystem) Yield()            {}

type nullFileSystem struct{}

func (nullFileSystem) Open(string, string) (int32, error)   { return -1, errUnsupported }
func (nullFileSystem) Read(int32, int32) (string, error)    { return "", errUnsupported }
func (nullFileSystem) Write(int32, string) (int32, error)   { return 0, errUnsupported }
func (nullFileSystem) Close(int32) error                    { return errUnsupported }
func (nullFileSystem) Exists(string) bool                   { return false }
func (nullFileSystem) Delete(string) error                  { return errUnsupported }
func (nullFileSystem) Size(string) (int32, error)           { return 0, errUnsupported }
func (nullFileSystem) DirList(string) ([]string, error)      { return nil, errUnsupported }
func (nullFileSystem) DirCreate(string) error                { return errUnsupported }
func (nullFileSystem) DirDelete(string) error                { return errUnsupported }
func (nullFileSystem) DirExists(string) bool                 { return false }

type nullGPIO struct{}

func (nullGPIO) PinMode(int32, int32)      {}
func (nullGPIO) DigitalWrite(int32, bool)  {}
func (nullGPIO) DigitalRead(int32) bool    { return false }
func (nullGPIO) AnalogWrite(int32, int32)  {}
func (nullGPIO) AnalogRead(int32) int32    { return 0 }

type nullI2C struct{}

func (nullI2C) Write(int32, []byte) error          { return errUnsupported }
func (nullI2C) Read(int32, int32) ([]byte, error)  { return nil, errUnsupported }

type nullBuzzer struct{}

func (nullBuzzer) Tone(int32, int32) {}
func (nullBuzzer) Stop()             {}

type nullTimers struct{}

func (nullTimers) SetInterval(int32) int32 { return -1 }
func (nullTimers) SetTimeout(int32) int32  { return -1 }
func (nullTimers) ClearInterval(int32)     {}
func (nullTimers) ClearTimeout(int32)      {}

type nullMemory struct{}

func (nullMemory) FreeBytes() uint32  { return 0 }
func (nullMemory) TotalBytes() uint32 { return 0 }

type nullPower struct{}

func (nullPower) BatteryPercent() int32 { return 100 }
func (nullPower) IsCharging() bool      { return false }
func (nullPower) Restart()              {}
func (nullPower) PowerOff()             {}

type nullStorage struct{}

func (nullStorage) Get(string) (string, bool) { return "", false }
func (nullStorage) Set(string, string)        {}
func (nullStorage) Delete(string)             {}

type nullSensor struct{}

func (nullSensor) Read(int32) (float32, error) { return 0, errUnsupported }

type nullWiFi struct{}

func (nullWiFi) Connect(string, string) error { return errUnsupported }
func (nullWiFi) Disconnect()                  {}
func (nullWiFi) IsConnected() bool            { return false }
func (nullWiFi) RSSI() int32                  { return 0 }

type nullHTTP struct{}

func (nullHTTP) Get(string) (int32, string, error) { return 0, "", errUnsupported }
func (nullHTTP) Post(string, string, string) (int32, string, error) {
	return 0, "", errUnsupported
}

type nullIPC struct{}

func (nullIPC) Send(string, string) error                  { return errUnsupported }
func (nullIPC) Receive() (string, string, bool)            { return "", "", false }

type nullApp struct{}

func (nullApp) Install(string) error   { return errUnsupported }
func (nullApp) Uninstall(string) error { return errUnsupported }
func (nullApp) List() []string         { return nil }
func (nullApp) Launch(string) error    { return errUnsupported }
func (nullApp) Exit()                  {}
