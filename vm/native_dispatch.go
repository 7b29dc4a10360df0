package vm

import (
	"fmt"

	"dialscript/native"
)

// dispatchNative implements CALL_NATIVE's ABI: convert argc Values (already
// in left-to-right argument order) to the Host method's Go parameter
// types, invoke it, and convert its result back to a single Value (Null
// for a void operation). yield is true only for the one native operation
// that suspends the VM (system.sleep).
func (vm *VM) dispatchNative(id native.ID, args []Value) (Value, bool, error) {
	switch id {

	// --- Console ---------------------------------------------------
	case native.ConsolePrint:
		s, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Console().Print(s)
		return Null(), false, nil
	case native.ConsolePrintln:
		s, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Console().Println(s)
		return Null(), false, nil
	case native.ConsoleLog:
		s, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Console().Log(s)
		return Null(), false, nil
	case native.ConsoleWarn:
		s, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Console().Warn(s)
		return Null(), false, nil
	case native.ConsoleError:
		s, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Console().Error(s)
		return Null(), false, nil
	case native.ConsoleClear:
		vm.host.Console().Clear()
		return Null(), false, nil

	// --- Display -----------------------------------------------------
	case native.DisplayClear:
		color, err := argUint32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().Clear(color)
		return Null(), false, nil
	case native.DisplayDrawPixel:
		x, y, err := arg2Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		color, err := argUint32(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().DrawPixel(x, y, color)
		return Null(), false, nil
	case native.DisplayDrawLine:
		x1, y1, err := arg2Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		x2, err := argInt32(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		y2, err := argInt32(args, 3)
		if err != nil {
			return Value{}, false, err
		}
		color, err := argUint32(args, 4)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().DrawLine(x1, y1, x2, y2, color)
		return Null(), false, nil
	case native.DisplayDrawRect:
		x, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		y, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		w, err := argInt32(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		h, err := argInt32(args, 3)
		if err != nil {
			return Value{}, false, err
		}
		color, err := argUint32(args, 4)
		if err != nil {
			return Value{}, false, err
		}
		filled, err := argBool(args, 5)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().DrawRect(x, y, w, h, color, filled)
		return Null(), false, nil
	case native.DisplayDrawCircle:
		x, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		y, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		r, err := argInt32(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		color, err := argUint32(args, 3)
		if err != nil {
			return Value{}, false, err
		}
		filled, err := argBool(args, 4)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().DrawCircle(x, y, r, color, filled)
		return Null(), false, nil
	case native.DisplayDrawText:
		x, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		y, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		text, err := argString(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		color, err := argUint32(args, 3)
		if err != nil {
			return Value{}, false, err
		}
		size, err := argInt32(args, 4)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().DrawText(x, y, text, color, size)
		return Null(), false, nil
	case native.DisplayDrawImage:
		x, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		y, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		data, err := argBytes(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().DrawImage(x, y, data)
		return Null(), false, nil
	case native.DisplaySetBrightness:
		level, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().SetBrightness(level)
		return Null(), false, nil
	case native.DisplaySetTitle:
		title, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Display().SetTitle(title)
		return Null(), false, nil
	case native.DisplayGetWidth:
		return Int32(vm.host.Display().GetWidth()), false, nil
	case native.DisplayGetHeight:
		return Int32(vm.host.Display().GetHeight()), false, nil

	// --- Encoder -------------------------------------------------------
	case native.EncoderGetButton:
		return Bool(vm.host.Encoder().GetButton()), false, nil
	case native.EncoderGetDelta:
		return Int32(vm.host.Encoder().GetDelta()), false, nil
	case native.EncoderGetPosition:
		return Int32(vm.host.Encoder().GetPosition()), false, nil
	case native.EncoderReset:
		vm.host.Encoder().Reset()
		return Null(), false, nil

	// --- Touch -----------------------------------------------------
	case native.TouchIsPressed:
		return Bool(vm.host.Touch().IsPressed()), false, nil
	case native.TouchGetX:
		return Int32(vm.host.Touch().GetX()), false, nil
	case native.TouchGetY:
		return Int32(vm.host.Touch().GetY()), false, nil

	// --- RFID --------------------------------------------------------
	case native.RFIDIsPresent:
		return Bool(vm.host.RFID().IsPresent()), false, nil
	case native.RFIDRead:
		return String(vm.host.RFID().Read()), false, nil

	// --- System ------------------------------------------------------
	case native.SystemGetTime:
		return Int32(int32(vm.host.System().GetTime())), false, nil
	case native.SystemGetRTC:
		return Int32(int32(vm.host.System().GetRTC())), false, nil
	case native.SystemSetRTC:
		epoch, err := argUint32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.System().SetRTC(epoch)
		return Null(), false, nil
	case native.SystemSleep:
		ms, err := argUint32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.System().Sleep(ms)
		return Null(), true, nil
	case native.SystemYield:
		vm.host.System().Yield()
		return Null(), false, nil

	// --- File/Dir ------------------------------------------------------
	case native.FileOpen:
		path, err := argString(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		mode, err := argString(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		h, ferr := vm.host.FileSystem().Open(path, mode)
		return resultObject(Int32(h), ferr), false, nil
	case native.FileRead:
		handle, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		size, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		s, ferr := vm.host.FileSystem().Read(handle, size)
		return resultObject(String(s), ferr), false, nil
	case native.FileWrite:
		handle, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		data, err := argString(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		n, ferr := vm.host.FileSystem().Write(handle, data)
		return resultObject(Int32(n), ferr), false, nil
	case native.FileClose:
		handle, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.FileSystem().Close(handle)), false, nil
	case native.FileExists:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return Bool(vm.host.FileSystem().Exists(path)), false, nil
	case native.FileDelete:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.FileSystem().Delete(path)), false, nil
	case native.FileSize:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		n, ferr := vm.host.FileSystem().Size(path)
		return resultObject(Int32(n), ferr), false, nil
	case native.DirList:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		entries, ferr := vm.host.FileSystem().DirList(path)
		return resultObject(stringsToValue(entries), ferr), false, nil
	case native.DirCreate:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.FileSystem().DirCreate(path)), false, nil
	case native.DirDelete:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.FileSystem().DirDelete(path)), false, nil
	case native.DirExists:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return Bool(vm.host.FileSystem().DirExists(path)), false, nil

	// --- GPIO ----------------------------------------------------------
	case native.GPIOPinMode:
		pin, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		mode, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.GPIO().PinMode(pin, mode)
		return Null(), false, nil
	case native.GPIODigitalWrite:
		pin, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		high, err := argBool(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.GPIO().DigitalWrite(pin, high)
		return Null(), false, nil
	case native.GPIODigitalRead:
		pin, err := arg0Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		return Bool(vm.host.GPIO().DigitalRead(pin)), false, nil
	case native.GPIOAnalogWrite:
		pin, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		val, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.GPIO().AnalogWrite(pin, val)
		return Null(), false, nil
	case native.GPIOAnalogRead:
		pin, err := arg0Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		return Int32(vm.host.GPIO().AnalogRead(pin)), false, nil

	// --- I2C -------------------------------------------------------
	case native.I2CWrite:
		addr, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		data, err := argBytes(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.I2C().Write(addr, data)), false, nil
	case native.I2CRead:
		addr, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		length, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		data, ferr := vm.host.I2C().Read(addr, length)
		return resultObject(bytesToValue(data), ferr), false, nil

	// --- Buzzer ------------------------------------------------------
	case native.BuzzerTone:
		freq, err := argInt32(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		duration, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Buzzer().Tone(freq, duration)
		return Null(), false, nil
	case native.BuzzerStop:
		vm.host.Buzzer().Stop()
		return Null(), false, nil

	// --- Timers ------------------------------------------------------
	// setInterval/setTimeout take the script callback as arg 0 and the
	// period in ms as arg 1; the Host only tracks scheduling (it has no
	// notion of script Values), so the VM keeps the id->callback mapping
	// itself and invokes it later via InvokeTimer.
	case native.TimerSetInterval:
		if len(args) < 2 || args[0].Kind() != KindFunction {
			return Value{}, false, fmt.Errorf("setInterval expects (callback, ms)")
		}
		ms, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		id := vm.host.Timers().SetInterval(ms)
		vm.timerCallbacks[id] = args[0]
		return Int32(id), false, nil
	case native.TimerSetTimeout:
		if len(args) < 2 || args[0].Kind() != KindFunction {
			return Value{}, false, fmt.Errorf("setTimeout expects (callback, ms)")
		}
		ms, err := argInt32(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		id := vm.host.Timers().SetTimeout(ms)
		vm.timerCallbacks[id] = args[0]
		return Int32(id), false, nil
	case native.TimerClearInterval:
		id, err := arg0Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Timers().ClearInterval(id)
		delete(vm.timerCallbacks, id)
		return Null(), false, nil
	case native.TimerClearTimeout:
		id, err := arg0Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Timers().ClearTimeout(id)
		delete(vm.timerCallbacks, id)
		return Null(), false, nil

	// --- Memory/Power --------------------------------------------------
	case native.MemoryFreeBytes:
		return Int32(int32(vm.host.Memory().FreeBytes())), false, nil
	case native.MemoryTotalBytes:
		return Int32(int32(vm.host.Memory().TotalBytes())), false, nil
	case native.PowerBatteryPercent:
		return Int32(vm.host.Power().BatteryPercent()), false, nil
	case native.PowerIsCharging:
		return Bool(vm.host.Power().IsCharging()), false, nil
	case native.PowerRestart:
		vm.host.Power().Restart()
		return Null(), false, nil
	case native.PowerPowerOff:
		vm.host.Power().PowerOff()
		return Null(), false, nil

	// --- Storage -----------------------------------------------------
	case native.StorageGet:
		key, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		v, ok := vm.host.Storage().Get(key)
		if !ok {
			return Null(), false, nil
		}
		return String(v), false, nil
	case native.StorageSet:
		key, err := argString(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		value, err := argString(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Storage().Set(key, value)
		return Null(), false, nil
	case native.StorageDelete:
		key, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		vm.host.Storage().Delete(key)
		return Null(), false, nil

	// --- Sensor ------------------------------------------------------
	case native.SensorRead:
		sensorID, err := arg0Int32(args)
		if err != nil {
			return Value{}, false, err
		}
		reading, ferr := vm.host.Sensor().Read(sensorID)
		return resultObject(Float32(reading), ferr), false, nil

	// --- WiFi --------------------------------------------------------
	case native.WiFiConnect:
		ssid, err := argString(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		password, err := argString(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.WiFi().Connect(ssid, password)), false, nil
	case native.WiFiDisconnect:
		vm.host.WiFi().Disconnect()
		return Null(), false, nil
	case native.WiFiIsConnected:
		return Bool(vm.host.WiFi().IsConnected()), false, nil
	case native.WiFiRSSI:
		return Int32(vm.host.WiFi().RSSI()), false, nil

	// --- HTTP ----------------------------------------------------------
	case native.HTTPGet:
		url, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		status, body, ferr := vm.host.HTTP().Get(url)
		return resultObject(httpResponse(status, body), ferr), false, nil
	case native.HTTPPost:
		url, err := argString(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		contentType, err := argString(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		body, err := argString(args, 2)
		if err != nil {
			return Value{}, false, err
		}
		status, respBody, ferr := vm.host.HTTP().Post(url, contentType, body)
		return resultObject(httpResponse(status, respBody), ferr), false, nil

	// --- IPC -----------------------------------------------------------
	case native.IPCSend:
		appID, err := argString(args, 0)
		if err != nil {
			return Value{}, false, err
		}
		message, err := argString(args, 1)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.IPC().Send(appID, message)), false, nil
	case native.IPCReceive:
		appID, message, ok := vm.host.IPC().Receive()
		if !ok {
			return Null(), false, nil
		}
		return ObjectRef(&Object{ClassName: "Message", Fields: map[string]Value{
			"appID":   String(appID),
			"message": String(message),
		}}), false, nil

	// --- App -----------------------------------------------------------
	case native.AppInstall:
		path, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.App().Install(path)), false, nil
	case native.AppUninstall:
		appID, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.App().Uninstall(appID)), false, nil
	case native.AppList:
		return stringsToValue(vm.host.App().List()), false, nil
	case native.AppLaunch:
		appID, err := arg0String(args)
		if err != nil {
			return Value{}, false, err
		}
		return resultObject(Null(), vm.host.App().Launch(appID)), false, nil
	case native.AppExit:
		vm.host.App().Exit()
		return Null(), false, nil

	default:
		return Value{}, false, fmt.Errorf("unknown native id %d", id)
	}
}

func httpResponse(status int32, body string) Value {
	return ObjectRef(&Object{ClassName: "HTTPResponse", Fields: map[string]Value{
		"status": Int32(status),
		"body":   String(body),
	}})
}

func arg0String(args []Value) (string, error)  { return argString(args, 0) }
func arg0Int32(args []Value) (int32, error)     { return argInt32(args, 0) }

func argString(args []Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %d", i)
	}
	return asString(args[i])
}

func argInt32(args []Value, i int) (int32, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	return asInt32(args[i])
}

func argUint32(args []Value, i int) (uint32, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	return asUint32(args[i])
}

func argBool(args []Value, i int) (bool, error) {
	if i >= len(args) {
		return false, fmt.Errorf("missing argument %d", i)
	}
	return asBool(args[i])
}

func argBytes(args []Value, i int) ([]byte, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %d", i)
	}
	return asBytes(args[i])
}

func arg2Int32(args []Value) (int32, int32, error) {
	a, err := argInt32(args, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := argInt32(args, 1)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
