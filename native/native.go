// Package native is the stable numbering shared between the compiler and
// the VM for CALL_NATIVE: it maps a host-qualified identifier written in
// script source (e.g. "os.console.print") to the small integer ID encoded
// into the instruction, and back to the host capability/method the VM
// dispatches it to.
package native

// ID identifies one host operation reachable via CALL_NATIVE. IDs are
// stable across compiler and VM versions built from the same table.
type ID uint16

const (
	ConsolePrint ID = iota
	ConsolePrintln
	ConsoleLog
	ConsoleWarn
	ConsoleError
	ConsoleClear

	DisplayClear
	DisplayDrawPixel
	DisplayDrawLine
	DisplayDrawRect
	DisplayDrawCircle
	DisplayDrawText
	DisplayDrawImage
	DisplaySetBrightness
	DisplaySetTitle
	DisplayGetWidth
	DisplayGetHeight

	EncoderGetButton
	EncoderGetDelta
	EncoderGetPosition
	EncoderReset

	TouchIsPressed
	TouchGetX
	TouchGetY

	RFIDIsPresent
	RFIDRead

	SystemGetTime
	SystemGetRTC
	SystemSetRTC
	SystemSleep
	SystemYield

	FileOpen
	FileRead
	FileWrite
	FileClose
	FileExists
	FileDelete
	FileSize
	DirList
	DirCreate
	DirDelete
	DirExists

	GPIOPinMode
	GPIODigitalWrite
	GPIODigitalRead
	GPIOAnalogWrite
	GPIOAnalogRead

	I2CWrite
	I2CRead

	BuzzerTone
	BuzzerStop

	TimerSetInterval
	TimerSetTimeout
	TimerClearInterval
	TimerClearTimeout

	MemoryFreeBytes
	MemoryTotalBytes

	PowerBatteryPercent
	PowerIsCharging
	PowerRestart
	PowerPowerOff

	StorageGet
	StorageSet
	StorageDelete

	SensorRead

	WiFiConnect
	WiFiDisconnect
	WiFiIsConnected
	WiFiRSSI

	HTTPGet
	HTTPPost

	IPCSend
	IPCReceive

	AppInstall
	AppUninstall
	AppList
	AppLaunch
	AppExit
)

// byName maps the host-qualified dotted identifier the compiler sees in
// source (e.g. "os.console.print") to its native ID.
var byName = map[string]ID{
	"os.console.print":   ConsolePrint,
	"os.console.println": ConsolePrintln,
	"os.console.log":     ConsoleLog,
	"os.console.warn":    ConsoleWarn,
	"os.console.error":   ConsoleError,
	"os.console.clear":   ConsoleClear,

	"os.display.clear":         DisplayClear,
	"os.display.drawPixel":     DisplayDrawPixel,
	"os.display.drawLine":      DisplayDrawLine,
	"os.display.drawRect":      DisplayDrawRect,
	"os.display.drawCircle":    DisplayDrawCircle,
	"os.display.drawText":      DisplayDrawText,
	"os.display.drawImage":     DisplayDrawImage,
	"os.display.setBrightness": DisplaySetBrightness,
	"os.display.setTitle":      DisplaySetTitle,
	"os.display.getWidth":      DisplayGetWidth,
	"os.display.getHeight":     DisplayGetHeight,

	"os.encoder.getButton":   EncoderGetButton,
	"os.encoder.getDelta":    EncoderGetDelta,
	"os.encoder.getPosition": EncoderGetPosition,
	"os.encoder.reset":       EncoderReset,

	"os.touch.isPressed": TouchIsPressed,
	"os.touch.getX":       TouchGetX,
	"os.touch.getY":       TouchGetY,

	"os.rfid.isPresent": RFIDIsPresent,
	"os.rfid.read":      RFIDRead,

	"os.system.getTime": SystemGetTime,
	"os.system.getRTC":  SystemGetRTC,
	"os.system.setRTC":  SystemSetRTC,
	"os.system.sleep":   SystemSleep,
	"os.system.yield":   SystemYield,

	"os.file.open":   FileOpen,
	"os.file.read":   FileRead,
	"os.file.write":  FileWrite,
	"os.file.close":  FileClose,
	"os.file.exists": FileExists,
	"os.file.delete": FileDelete,
	"os.file.size":   FileSize,

	"os.dir.list":   DirList,
	"os.dir.create": DirCreate,
	"os.dir.delete": DirDelete,
	"os.dir.exists": DirExists,

	"os.gpio.pinMode":     GPIOPinMode,
	"os.gpio.digitalWrite": GPIODigitalWrite,
	"os.gpio.digitalRead":  GPIODigitalRead,
	"os.gpio.analogWrite":  GPIOAnalogWrite,
	"os.gpio.analogRead":   GPIOAnalogRead,

	"os.i2c.write": I2CWrite,
	"os.i2c.read":  I2CRead,

	"os.buzzer.tone": BuzzerTone,
	"os.buzzer.stop": BuzzerStop,

	"os.timer.setInterval":   TimerSetInterval,
	"os.timer.setTimeout":    TimerSetTimeout,
	"os.timer.clearInterval": TimerClearInterval,
	"os.timer.clearTimeout":  TimerClearTimeout,

	"os.memory.freeBytes":  MemoryFreeBytes,
	"os.memory.totalBytes": MemoryTotalBytes,

	"os.power.batteryPercent": PowerBatteryPercent,
	"os.power.isCharging":     PowerIsCharging,
	"os.power.restart":        PowerRestart,
	"os.power.powerOff":       PowerPowerOff,

	"os.storage.get":    StorageGet,
	"os.storage.set":    StorageSet,
	"os.storage.delete": StorageDelete,

	"os.sensor.read": SensorRead,

	"os.wifi.connect":     WiFiConnect,
	"os.wifi.disconnect":  WiFiDisconnect,
	"os.wifi.isConnected": WiFiIsConnected,
	"os.wifi.rssi":        WiFiRSSI,

	"os.http.get":  HTTPGet,
	"os.http.post": HTTPPost,

	"os.ipc.send":    IPCSend,
	"os.ipc.receive": IPCReceive,

	"os.app.install":   AppInstall,
	"os.app.uninstall": AppUninstall,
	"os.app.list":      AppList,
	"os.app.launch":    AppLaunch,
	"os.app.exit":      AppExit,
}

// Lookup resolves a host-qualified dotted identifier to its native ID.
func Lookup(qualifiedName string) (ID, bool) {
	id, ok := byName[qualifiedName]
	return id, ok
}
